package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/01moynul/campusmart/internal/models"
)

type NotificationRepo struct {
	db *sqlx.DB
}

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	now := time.Now()
	res, err := execBuilt(ctx, r.db, qb.Insert("notifications").
		Columns("message", "user_id", "seller_id", "admin_id", "product_id", "product_name", "is_read", "created_at").
		Values(n.Message, n.UserID, n.SellerID, n.AdminID, n.ProductID, n.ProductName, false, now))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = id
	n.CreatedAt = now
	return nil
}

// ListAll is the admin view: every notification newest first, with the
// name of the user or seller it concerns.
func (r *NotificationRepo) ListAll(ctx context.Context) ([]models.Notification, error) {
	out := []models.Notification{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT n.id, n.message, n.user_id, n.seller_id, n.admin_id, n.product_id, n.product_name,
		       n.is_read, n.created_at, COALESCE(u.name, '') AS user_name
		FROM notifications n
		LEFT JOIN users u ON u.id = COALESCE(n.seller_id, n.user_id)
		ORDER BY n.created_at DESC, n.id DESC`)
	return out, err
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	out := []models.Notification{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, message, user_id, seller_id, admin_id, product_id, product_name, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	return out, err
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ? AND is_read = FALSE", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM notifications WHERE id = ? AND user_id = ?", id, userID); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
