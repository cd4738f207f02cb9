package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalBuyers         int             `json:"totalBuyers" db:"total_buyers"`
	TotalSellers        int             `json:"totalSellers" db:"total_sellers"`
	TotalProducts       int             `json:"totalProducts" db:"total_products"`
	PendingProducts     int             `json:"pendingProducts" db:"pending_products"`
	ActiveProducts      int             `json:"activeProducts" db:"active_products"`
	SoldProducts        int             `json:"soldProducts" db:"sold_products"`
	TotalOrders         int             `json:"totalOrders" db:"total_orders"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue" db:"total_revenue"`
	UnreadNotifications int             `json:"unreadNotifications" db:"unread_notifications"`
}

type BuyerSummary struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type SellerSummary struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Address      *string   `json:"address,omitempty" db:"address"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	ProductCount int       `json:"productCount" db:"product_count"`
}

// SoldItem is one order line as shown in the admin sold-items report.
type SoldItem struct {
	OrderItemID int64           `json:"orderItemId" db:"order_item_id"`
	OrderID     int64           `json:"orderId" db:"order_id"`
	ProductID   int64           `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Category    string          `json:"category" db:"category"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
	SellerID    int64           `json:"sellerId" db:"seller_id"`
	SellerName  string          `json:"sellerName" db:"seller_name"`
	BuyerID     int64           `json:"buyerId" db:"buyer_id"`
	BuyerName   string          `json:"buyerName" db:"buyer_name"`
	SoldAt      time.Time       `json:"soldAt" db:"sold_at"`
}

type MonthlyRevenue struct {
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
}
