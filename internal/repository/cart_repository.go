package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/01moynul/campusmart/internal/models"
)

type CartRepo struct {
	db *sqlx.DB
}

func NewCartRepo(db *sqlx.DB) *CartRepo {
	return &CartRepo{db: db}
}

// Add inserts the (user, product) row or sums the quantity into the
// existing one, and returns the resulting row.
func (r *CartRepo) Add(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	now := time.Now()
	_, err := execBuilt(ctx, r.db, qb.Insert("cart_items").
		Columns("user_id", "product_id", "quantity", "created_at", "updated_at").
		Values(userID, productID, quantity, now, now).
		Suffix("ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity), updated_at = VALUES(updated_at)"))
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = r.db.GetContext(ctx, &item,
		"SELECT id, user_id, product_id, quantity, created_at, updated_at FROM cart_items WHERE user_id = ? AND product_id = ?",
		userID, productID)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByUser returns the cart newest first, each row with its product.
func (r *CartRepo) ListByUser(ctx context.Context, userID int64) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := selectBuilt(ctx, r.db, &items, qb.Select("id", "user_id", "product_id", "quantity", "created_at", "updated_at").
		From("cart_items").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC"))
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	products, err := loadProducts(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Product = products[items[i].ProductID]
	}
	return items, nil
}

// GetForUser returns ErrNotFound unless the row exists and belongs to userID.
func (r *CartRepo) GetForUser(ctx context.Context, id, userID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.GetContext(ctx, &item,
		"SELECT id, user_id, product_id, quantity, created_at, updated_at FROM cart_items WHERE id = ? AND user_id = ?",
		id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepo) SetQuantity(ctx context.Context, id, userID int64, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		quantity, time.Now(), id, userID)
	return err
}

func (r *CartRepo) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
