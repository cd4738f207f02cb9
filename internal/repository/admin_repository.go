package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/01moynul/campusmart/internal/models"
)

type AdminRepo struct {
	db *sqlx.DB
}

func NewAdminRepo(db *sqlx.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	err := r.db.GetContext(ctx, &a, "SELECT id, username, email, password_hash, created_at FROM admins WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// First returns the oldest admin account. Seller notices are addressed to it.
func (r *AdminRepo) First(ctx context.Context) (*models.Admin, error) {
	var a models.Admin
	err := r.db.GetContext(ctx, &a, "SELECT id, username, email, password_hash, created_at FROM admins ORDER BY id LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) Create(ctx context.Context, a *models.Admin) error {
	now := time.Now()
	res, err := r.db.ExecContext(ctx, "INSERT INTO admins (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		a.Username, a.Email, a.PasswordHash, now)
	if err != nil {
		if isDuplicateKey(err, "") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	a.CreatedAt = now
	return nil
}

func (r *AdminRepo) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats
	err := r.db.GetContext(ctx, &s, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'buyer') AS total_buyers,
			(SELECT COUNT(*) FROM users WHERE role = 'seller') AS total_sellers,
			(SELECT COUNT(*) FROM products) AS total_products,
			(SELECT COUNT(*) FROM products WHERE status = 'pending') AS pending_products,
			(SELECT COUNT(*) FROM products WHERE status = 'active') AS active_products,
			(SELECT COUNT(*) FROM products WHERE status = 'sold') AS sold_products,
			(SELECT COUNT(*) FROM orders) AS total_orders,
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders) AS total_revenue,
			(SELECT COUNT(*) FROM notifications WHERE is_read = FALSE) AS unread_notifications`)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SoldItems lists every order line with its product, seller and buyer.
func (r *AdminRepo) SoldItems(ctx context.Context) ([]models.SoldItem, error) {
	items := []models.SoldItem{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT oi.id AS order_item_id, oi.order_id, oi.product_id, p.name AS product_name, p.category,
		       oi.quantity, oi.price, p.seller_id, s.name AS seller_name,
		       o.buyer_id, b.name AS buyer_name, oi.created_at AS sold_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		JOIN users s ON s.id = p.seller_id
		JOIN users b ON b.id = o.buyer_id
		ORDER BY oi.created_at DESC, oi.id DESC`)
	return items, err
}

type monthRevenue struct {
	Month   int             `db:"month"`
	Revenue decimal.Decimal `db:"revenue"`
}

// RevenueByMonth sums order-line revenue per calendar month (1-12). A
// zero year aggregates every year.
func (r *AdminRepo) RevenueByMonth(ctx context.Context, year int) (map[int]decimal.Decimal, error) {
	query := "SELECT MONTH(created_at) AS month, COALESCE(SUM(price * quantity), 0) AS revenue FROM order_items"
	var args []interface{}
	if year > 0 {
		query += " WHERE YEAR(created_at) = ?"
		args = append(args, year)
	}
	query += " GROUP BY MONTH(created_at)"

	var rows []monthRevenue
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make(map[int]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.Month] = row.Revenue
	}
	return out, nil
}
