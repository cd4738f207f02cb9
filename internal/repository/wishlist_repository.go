package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/01moynul/campusmart/internal/models"
)

type WishlistRepo struct {
	db *sqlx.DB
}

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo {
	return &WishlistRepo{db: db}
}

// Add is idempotent: adding a product twice keeps one row.
func (r *WishlistRepo) Add(ctx context.Context, userID, productID int64) (*models.WishlistItem, error) {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO wishlist_items (user_id, product_id, created_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE id = id",
		userID, productID, time.Now())
	if err != nil {
		return nil, err
	}

	var item models.WishlistItem
	if err := r.db.GetContext(ctx, &item,
		"SELECT id, user_id, product_id, created_at FROM wishlist_items WHERE user_id = ? AND product_id = ?",
		userID, productID); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *WishlistRepo) ListByUser(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	items := []models.WishlistItem{}
	if err := r.db.SelectContext(ctx, &items,
		"SELECT id, user_id, product_id, created_at FROM wishlist_items WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID); err != nil {
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

func (r *WishlistRepo) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM wishlist_items WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
