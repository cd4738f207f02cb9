package models

import "time"

// Notification is a free-text notice. Seller notices to the admin carry
// SellerID/AdminID; notices to a user carry UserID.
type Notification struct {
	ID          int64     `json:"id" db:"id"`
	Message     string    `json:"message" db:"message"`
	UserID      *int64    `json:"userId,omitempty" db:"user_id"`
	SellerID    *int64    `json:"sellerId,omitempty" db:"seller_id"`
	AdminID     *int64    `json:"adminId,omitempty" db:"admin_id"`
	ProductID   *int64    `json:"productId,omitempty" db:"product_id"`
	ProductName *string   `json:"productName,omitempty" db:"product_name"`
	IsRead      bool      `json:"isRead" db:"is_read"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Filled on admin listings.
	UserName string `json:"userName,omitempty" db:"user_name"`
}
