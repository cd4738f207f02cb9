package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User is a buyer or seller account. The same email may exist twice, once
// per role.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	Role         string `json:"role" db:"role"`
	PasswordHash string `json:"-" db:"password_hash"`

	// --- Profile Fields (Pointers = Clean JSON) ---
	Phone             *string `json:"phone,omitempty" db:"phone"`
	Address           *string `json:"address,omitempty" db:"address"`
	PreferredCategory *string `json:"preferredCategory,omitempty" db:"preferred_category"`
	ProfileImage      *string `json:"profileImage,omitempty" db:"profile_image"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Admin is the back-office account. It lives in its own table and never
// logs in through the buyer/seller flow.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        *string   `json:"email,omitempty" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Password holds a bcrypt hash.
type Password struct {
	Hash string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
