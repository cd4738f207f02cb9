package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/01moynul/campusmart/internal/models"
)

func TestCartAddUpsertsOnDuplicateKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO cart_items .* ON DUPLICATE KEY UPDATE quantity = quantity \+ VALUES\(quantity\)`).
		WithArgs(int64(5), int64(1), 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 2))
	mock.ExpectQuery(`SELECT id, user_id, product_id, quantity, created_at, updated_at FROM cart_items WHERE user_id = \? AND product_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "product_id", "quantity", "created_at", "updated_at"}).
			AddRow(int64(11), int64(5), int64(1), 3, now, now))

	item, err := repo.Add(context.Background(), 5, 1, 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if item.ID != 11 || item.Quantity != 3 {
		t.Fatalf("item = %+v, want id 11 quantity 3", item)
	}
	expectationsMet(t, mock)
}

func TestMarkConversationReadReturnsAffectedCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectExec(`UPDATE messages SET is_read = \? WHERE .*is_read = \? AND receiver_id = \? AND sender_id = \?`).
		WithArgs(true, false, int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkConversationRead(context.Background(), 2, 1, nil)
	if err != nil {
		t.Fatalf("MarkConversationRead: %v", err)
	}
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	expectationsMet(t, mock)
}

func TestMarkConversationReadScopedToProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)
	pid := int64(40)

	mock.ExpectExec(`UPDATE messages SET is_read = \? WHERE .* AND product_id = \?`).
		WithArgs(true, false, int64(1), int64(2), int64(40)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.MarkConversationRead(context.Background(), 2, 1, &pid)
	if err != nil || n != 0 {
		t.Fatalf("MarkConversationRead = %d, %v; want 0, nil", n, err)
	}
	expectationsMet(t, mock)
}

func TestUserCreateMapsDuplicateKeys(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(`INSERT INTO users`).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'bob' for key 'users.uq_users_username'"})
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com-buyer' for key 'users.uq_users_email_role'"})

	u := &models.User{Name: "Bob", Username: "bob", Email: "a@x.com", Role: models.RoleBuyer}
	if err := repo.Create(context.Background(), u); !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("first err = %v, want ErrDuplicateUsername", err)
	}
	if err := repo.Create(context.Background(), u); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("second err = %v, want ErrDuplicateEmail", err)
	}
	expectationsMet(t, mock)
}

func TestSetStatusChecksExistenceWhenNothingChanged(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepo(db)

	mock.ExpectExec(`UPDATE products SET status = \?, updated_at = \? WHERE id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	if err := repo.SetStatus(context.Background(), 77, models.StatusActive); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	expectationsMet(t, mock)
}
