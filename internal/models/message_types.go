package models

import "time"

type Message struct {
	ID         int64     `json:"id" db:"id"`
	SenderID   int64     `json:"senderId" db:"sender_id"`
	ReceiverID int64     `json:"receiverId" db:"receiver_id"`
	ProductID  *int64    `json:"productId,omitempty" db:"product_id"`
	Content    string    `json:"content" db:"content"`
	IsRead     bool      `json:"isRead" db:"is_read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	// Filled by the repository after loading.
	Sender   *UserRef `json:"sender,omitempty" db:"-"`
	Receiver *UserRef `json:"receiver,omitempty" db:"-"`
	Product  *Product `json:"product,omitempty" db:"-"`
}

// UserRef is the public part of a user shown next to a message.
type UserRef struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Username string `json:"username" db:"username"`
}
