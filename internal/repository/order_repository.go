package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/01moynul/campusmart/internal/models"
)

type OrderRepo struct {
	db *sqlx.DB
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// cartLine is one cart row joined with the live product, read under lock
// during placement.
type cartLine struct {
	ProductID int64                `db:"product_id"`
	Quantity  int                  `db:"quantity"`
	Name      string               `db:"name"`
	Price     decimal.Decimal      `db:"price"`
	Status    models.ProductStatus `db:"status"`
	SellerID  int64                `db:"seller_id"`
}

// Place converts the buyer's cart into an order in one serializable
// transaction: snapshot prices, create the order and its items, mark every
// product sold, and clear the cart. Any failure rolls all of it back.
func (r *OrderRepo) Place(ctx context.Context, buyerID int64) (*models.Order, error) {
	// 1. --- Begin Transaction ---
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 2. --- Lock Cart Rows and Their Products ---
	var lines []cartLine
	err = tx.SelectContext(ctx, &lines, `
		SELECT ci.product_id, ci.quantity, p.name, p.price, p.status, p.seller_id
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.id
		FOR UPDATE`, buyerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// 3. --- Re-validate Availability & Calculate Total ---
	total := decimal.Zero
	for _, l := range lines {
		if l.Status != models.StatusActive {
			return nil, &ProductUnavailableError{ProductID: l.ProductID, Name: l.Name}
		}
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	// 4. --- Create Order ---
	now := time.Now()
	res, err := tx.ExecContext(ctx, "INSERT INTO orders (buyer_id, total_amount, created_at) VALUES (?, ?, ?)", buyerID, total, now)
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:          orderID,
		BuyerID:     buyerID,
		TotalAmount: total,
		CreatedAt:   now,
		Items:       make([]models.OrderItem, 0, len(lines)),
	}

	// 5. --- Snapshot Items & Mark Products Sold ---
	for _, l := range lines {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, quantity, price, created_at) VALUES (?, ?, ?, ?, ?)",
			orderID, l.ProductID, l.Quantity, l.Price, now)
		if err != nil {
			return nil, err
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}

		res, err = tx.ExecContext(ctx,
			"UPDATE products SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
			models.StatusSold, now, l.ProductID, models.StatusActive)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrConflict
		}

		order.Items = append(order.Items, models.OrderItem{
			ID:        itemID,
			OrderID:   orderID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
			CreatedAt: now,
			Product: &models.Product{
				ID:       l.ProductID,
				SellerID: l.SellerID,
				Name:     l.Name,
				Price:    l.Price,
				Status:   models.StatusSold,
			},
		})
	}

	// 6. --- Clear the Cart ---
	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ?", buyerID); err != nil {
		return nil, err
	}

	// 7. --- Commit ---
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByBuyer returns the buyer's orders newest first with items and products.
func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.db.SelectContext(ctx, &orders,
		"SELECT id, buyer_id, total_amount, created_at FROM orders WHERE buyer_id = ? ORDER BY created_at DESC, id DESC",
		buyerID); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := r.db.GetContext(ctx, &o, "SELECT id, buyer_id, total_amount, created_at FROM orders WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	orders := []models.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *OrderRepo) attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []models.OrderItem{}
	}

	var items []models.OrderItem
	if err := selectBuilt(ctx, r.db, &items, qb.Select("id", "order_id", "product_id", "quantity", "price", "created_at").
		From("order_items").
		Where(squirrel.Eq{"order_id": ids}).
		OrderBy("id")); err != nil {
		return err
	}

	productIDs := make([]int64, 0, len(items))
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
	}
	products, err := loadProducts(ctx, r.db, productIDs)
	if err != nil {
		return err
	}

	for _, it := range items {
		it.Product = products[it.ProductID]
		i := index[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	return nil
}
