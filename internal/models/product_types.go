package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type ProductStatus string

const (
	StatusPending ProductStatus = "pending"
	StatusActive  ProductStatus = "active"
	StatusSold    ProductStatus = "sold"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSold:
		return true
	}
	return false
}

// CanAdvance reports whether the normal marketplace flow may move a product
// from s to next: pending -> active (approval) and active -> sold (order).
// Admin overrides do not go through here.
func (s ProductStatus) CanAdvance(next ProductStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusActive
	case StatusActive:
		return next == StatusSold
	}
	return false
}

// Product is a second-hand listing owned by a seller.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	SellerID    int64           `json:"sellerId" db:"seller_id"`
	Name        string          `json:"productName" db:"name"`
	Category    string          `json:"category" db:"category"`
	Condition   string          `json:"condition" db:"item_condition"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Description *string         `json:"description,omitempty" db:"description"`
	Status      ProductStatus   `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`

	// Only filled by queries that join the seller.
	SellerName string `json:"sellerName,omitempty" db:"seller_name"`

	Images []ProductImage `json:"images" db:"-"`
}

type ProductImage struct {
	ID        int64  `json:"id" db:"id"`
	ProductID int64  `json:"productId" db:"product_id"`
	Filename  string `json:"filename" db:"filename"`
}
