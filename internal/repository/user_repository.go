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

const userColumns = "id, name, username, email, role, password_hash, phone, address, preferred_category, profile_image, created_at, updated_at"

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts the user and fills ID and timestamps. Unique key
// violations map to ErrDuplicateUsername or ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	now := time.Now()
	res, err := execBuilt(ctx, r.db, qb.Insert("users").
		Columns("name", "username", "email", "role", "password_hash", "phone", "address", "preferred_category", "profile_image", "created_at", "updated_at").
		Values(u.Name, u.Username, u.Email, u.Role, u.PasswordHash, u.Phone, u.Address, u.PreferredCategory, u.ProfileImage, now, now))
	if err != nil {
		switch {
		case isDuplicateKey(err, "uq_users_username"):
			return ErrDuplicateUsername
		case isDuplicateKey(err, ""):
			return ErrDuplicateEmail
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmailAndRole(ctx context.Context, email, role string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE email = ? AND role = ?", email, role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM users WHERE username = ?", username); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ProfileUpdate carries the optional fields of PUT /auth/me. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Name              *string
	Phone             *string
	Address           *string
	PreferredCategory *string
	ProfileImage      *string
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, p ProfileUpdate) error {
	set := map[string]interface{}{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.PreferredCategory != nil {
		set["preferred_category"] = *p.PreferredCategory
	}
	if p.ProfileImage != nil {
		set["profile_image"] = *p.ProfileImage
	}
	if len(set) == 0 {
		return nil
	}
	set["updated_at"] = time.Now()

	_, err := execBuilt(ctx, r.db, qb.Update("users").SetMap(set).Where(squirrel.Eq{"id": id}))
	return err
}

func (r *UserRepo) ListBuyers(ctx context.Context) ([]models.BuyerSummary, error) {
	buyers := []models.BuyerSummary{}
	err := selectBuilt(ctx, r.db, &buyers, qb.Select("id", "name", "email", "address", "created_at").
		From("users").
		Where(squirrel.Eq{"role": models.RoleBuyer}).
		OrderBy("created_at DESC"))
	return buyers, err
}

func (r *UserRepo) ListSellers(ctx context.Context) ([]models.SellerSummary, error) {
	sellers := []models.SellerSummary{}
	err := selectBuilt(ctx, r.db, &sellers, qb.Select("u.id", "u.name", "u.email", "u.address", "u.created_at", "COUNT(p.id) AS product_count").
		From("users u").
		LeftJoin("products p ON p.seller_id = u.id").
		Where(squirrel.Eq{"u.role": models.RoleSeller}).
		GroupBy("u.id", "u.name", "u.email", "u.address", "u.created_at").
		OrderBy("u.created_at DESC"))
	return sellers, err
}

// DeleteCascade removes a user together with everything that references
// them or their products, in dependency order, inside one transaction.
func (r *UserRepo) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, "SELECT COUNT(*) FROM users WHERE id = ?", id); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	var productIDs []int64
	if err := tx.SelectContext(ctx, &productIDs, "SELECT id FROM products WHERE seller_id = ?", id); err != nil {
		return &CascadeError{Step: "load products", Err: err}
	}

	steps := []struct {
		name string
		stmt squirrel.Sqlizer
	}{
		{"messages", qb.Delete("messages").Where(squirrel.Or{squirrel.Eq{"sender_id": id}, squirrel.Eq{"receiver_id": id}})},
		{"notifications", qb.Delete("notifications").Where(squirrel.Or{squirrel.Eq{"user_id": id}, squirrel.Eq{"seller_id": id}})},
		{"cart", qb.Delete("cart_items").Where(squirrel.Eq{"user_id": id})},
		{"wishlist", qb.Delete("wishlist_items").Where(squirrel.Eq{"user_id": id})},
	}
	for _, s := range steps {
		if _, err := execBuilt(ctx, tx, s.stmt); err != nil {
			return &CascadeError{Step: s.name, Err: err}
		}
	}

	if len(productIDs) > 0 {
		if err := deleteProductReferences(ctx, tx, productIDs); err != nil {
			return err
		}
	}

	tail := []struct {
		name string
		stmt squirrel.Sqlizer
	}{
		{"order items", qb.Delete("order_items").Where("order_id IN (SELECT id FROM orders WHERE buyer_id = ?)", id)},
		{"orders", qb.Delete("orders").Where(squirrel.Eq{"buyer_id": id})},
		{"products", qb.Delete("products").Where(squirrel.Eq{"seller_id": id})},
		{"user", qb.Delete("users").Where(squirrel.Eq{"id": id})},
	}
	for _, s := range tail {
		if _, err := execBuilt(ctx, tx, s.stmt); err != nil {
			return &CascadeError{Step: s.name, Err: err}
		}
	}

	return tx.Commit()
}
