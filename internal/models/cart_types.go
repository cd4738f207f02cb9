package models

import "time"

// CartItem is unique per (user, product); adding again sums Quantity.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Product *Product `json:"product,omitempty" db:"-"`
}

type WishlistItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Product *Product `json:"product,omitempty" db:"-"`
}
