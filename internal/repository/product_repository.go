package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/01moynul/campusmart/internal/models"
)

var productColumns = []string{
	"p.id", "p.seller_id", "p.name", "p.category", "p.item_condition", "p.price",
	"p.description", "p.status", "p.created_at", "p.updated_at", "u.name AS seller_name",
}

type ProductRepo struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// ProductFilter narrows List. Zero values are ignored.
type ProductFilter struct {
	Search    string
	Category  string
	Status    models.ProductStatus
	SellerID  int64
	ExcludeID int64
	Limit     uint64
}

func baseProductQuery() squirrel.SelectBuilder {
	return qb.Select(productColumns...).
		From("products p").
		Join("users u ON u.id = p.seller_id")
}

// Create inserts the product and its image rows in one transaction.
func (r *ProductRepo) Create(ctx context.Context, p *models.Product, filenames []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	if p.Status == "" {
		p.Status = models.StatusPending
	}
	res, err := execBuilt(ctx, tx, qb.Insert("products").
		Columns("seller_id", "name", "category", "item_condition", "price", "description", "status", "created_at", "updated_at").
		Values(p.SellerID, p.Name, p.Category, p.Condition, p.Price, p.Description, p.Status, now, now))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	p.CreatedAt, p.UpdatedAt = now, now

	p.Images = make([]models.ProductImage, 0, len(filenames))
	for _, name := range filenames {
		res, err := tx.ExecContext(ctx, "INSERT INTO product_images (product_id, filename, created_at) VALUES (?, ?, ?)", id, name, now)
		if err != nil {
			return err
		}
		imgID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.Images = append(p.Images, models.ProductImage{ID: imgID, ProductID: id, Filename: name})
	}

	return tx.Commit()
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := getBuilt(ctx, r.db, &p, baseProductQuery().Where(squirrel.Eq{"p.id": id}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := attachImages(ctx, r.db, []*models.Product{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns products newest first with their images.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := baseProductQuery()
	if f.Search != "" {
		q = q.Where("LOWER(p.name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"p.category": f.Category})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"p.status": f.Status})
	}
	if f.SellerID != 0 {
		q = q.Where(squirrel.Eq{"p.seller_id": f.SellerID})
	}
	if f.ExcludeID != 0 {
		q = q.Where(squirrel.NotEq{"p.id": f.ExcludeID})
	}
	q = q.OrderBy("p.created_at DESC", "p.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	products := []models.Product{}
	if err := selectBuilt(ctx, r.db, &products, q); err != nil {
		return nil, err
	}

	ptrs := make([]*models.Product, len(products))
	for i := range products {
		ptrs[i] = &products[i]
	}
	if err := attachImages(ctx, r.db, ptrs); err != nil {
		return nil, err
	}
	return products, nil
}

// SetStatus writes any valid status without checking the current one.
// It backs the admin override.
func (r *ProductRepo) SetStatus(ctx context.Context, id int64, status models.ProductStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE products SET status = ?, updated_at = ? WHERE id = ?", status, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// MySQL reports 0 affected rows when nothing changed, so check existence.
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM products WHERE id = ?", id); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	return nil
}

// AdvanceStatus moves a product from one status to another only if it is
// still in from. Zero affected rows means someone else moved it first.
func (r *ProductRepo) AdvanceStatus(ctx context.Context, id int64, from, to models.ProductStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE products SET status = ?, updated_at = ? WHERE id = ? AND status = ?", to, time.Now(), id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// DeleteCascade removes a product and every row referencing it.
func (r *ProductRepo) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, "SELECT COUNT(*) FROM products WHERE id = ?", id); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	if err := deleteProductReferences(ctx, tx, []int64{id}); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id); err != nil {
		return &CascadeError{Step: "product", Err: err}
	}
	return tx.Commit()
}

// deleteProductReferences clears rows that point at the given products:
// images, notifications, cart, wishlist, order items, and the optional
// product reference on messages.
func deleteProductReferences(ctx context.Context, tx *sqlx.Tx, ids []int64) error {
	steps := []struct {
		name string
		stmt squirrel.Sqlizer
	}{
		{"product images", qb.Delete("product_images").Where(squirrel.Eq{"product_id": ids})},
		{"product notifications", qb.Delete("notifications").Where(squirrel.Eq{"product_id": ids})},
		{"product cart rows", qb.Delete("cart_items").Where(squirrel.Eq{"product_id": ids})},
		{"product wishlist rows", qb.Delete("wishlist_items").Where(squirrel.Eq{"product_id": ids})},
		{"product order items", qb.Delete("order_items").Where(squirrel.Eq{"product_id": ids})},
		{"product messages", qb.Update("messages").Set("product_id", nil).Where(squirrel.Eq{"product_id": ids})},
	}
	for _, s := range steps {
		if _, err := execBuilt(ctx, tx, s.stmt); err != nil {
			return &CascadeError{Step: s.name, Err: err}
		}
	}
	return nil
}

// attachImages loads images for all products with one query.
func attachImages(ctx context.Context, q sqlx.QueryerContext, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(products))
	byID := make(map[int64][]*models.Product, len(products))
	for _, p := range products {
		p.Images = []models.ProductImage{}
		if _, seen := byID[p.ID]; !seen {
			ids = append(ids, p.ID)
		}
		byID[p.ID] = append(byID[p.ID], p)
	}

	var images []models.ProductImage
	if err := selectBuilt(ctx, q, &images, qb.Select("id", "product_id", "filename").
		From("product_images").
		Where(squirrel.Eq{"product_id": ids}).
		OrderBy("id")); err != nil {
		return err
	}
	for _, img := range images {
		for _, p := range byID[img.ProductID] {
			p.Images = append(p.Images, img)
		}
	}
	return nil
}

// loadProducts fetches products (with images) keyed by ID.
func loadProducts(ctx context.Context, q sqlx.QueryerContext, ids []int64) (map[int64]*models.Product, error) {
	out := make(map[int64]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := selectBuilt(ctx, q, &products, baseProductQuery().Where(squirrel.Eq{"p.id": ids})); err != nil {
		return nil, err
	}
	ptrs := make([]*models.Product, len(products))
	for i := range products {
		ptrs[i] = &products[i]
		out[products[i].ID] = &products[i]
	}
	if err := attachImages(ctx, q, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}
