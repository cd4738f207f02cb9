// Package repository holds the SQL data access for every entity. Methods
// return the sentinel errors below so the service layer can tell failure
// kinds apart without inspecting driver errors.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrDuplicateEmail    = errors.New("email already registered for role")
	ErrDuplicateUsername = errors.New("username already taken")
)

// ProductUnavailableError is returned by order placement when a cart row
// points at a product that is no longer active.
type ProductUnavailableError struct {
	ProductID int64
	Name      string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %q (ID: %d) is no longer available", e.Name, e.ProductID)
}

// CascadeError reports which step of a cascading delete failed. It matches
// ErrConflict with errors.Is.
type CascadeError struct {
	Step string
	Err  error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade delete failed at %s: %v", e.Step, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

func (e *CascadeError) Is(target error) bool { return target == ErrConflict }

const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return false
	}
	return key == "" || strings.Contains(me.Message, key)
}
