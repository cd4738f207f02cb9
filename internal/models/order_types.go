package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is immutable once placed.
type Order struct {
	ID          int64           `json:"id" db:"id"`
	BuyerID     int64           `json:"buyerId" db:"buyer_id"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`

	Items []OrderItem `json:"items" db:"-"`
}

// OrderItem stores the price at purchase time. It is never recalculated
// from the live product price.
type OrderItem struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"orderId" db:"order_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`

	Product *Product `json:"product,omitempty" db:"-"`
}

// LineTotal is Price x Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
