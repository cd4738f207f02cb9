package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/01moynul/campusmart/internal/auth"
	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
)

type AdminService struct {
	admins        AdminStore
	users         UserAdminStore
	products      ProductStore
	notifications NotificationStore
	tokens        *auth.TokenManager

	defaultUsername  string
	fallbackPassword string
}

type AdminDeps struct {
	Admins        AdminStore
	Users         UserAdminStore
	Products      ProductStore
	Notifications NotificationStore
	Tokens        *auth.TokenManager

	// DefaultUsername is used when the login request names no account.
	DefaultUsername string
	// FallbackPassword is accepted only while no admin account exists.
	FallbackPassword string
}

func NewAdminService(d AdminDeps) *AdminService {
	return &AdminService{
		admins:           d.Admins,
		users:            d.Users,
		products:         d.Products,
		notifications:    d.Notifications,
		tokens:           d.Tokens,
		defaultUsername:  d.DefaultUsername,
		fallbackPassword: d.FallbackPassword,
	}
}

// Login authenticates the admin. Before any admin account is seeded the
// configured fallback password is accepted and the token carries ID 0.
func (s *AdminService) Login(ctx context.Context, username, password string) (string, error) {
	if password == "" {
		return "", Validation("Password is required")
	}
	if username = strings.TrimSpace(username); username == "" {
		username = s.defaultUsername
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	switch {
	case err == nil:
		pw := models.Password{Hash: admin.PasswordHash}
		ok, err := pw.Matches(password)
		if err != nil {
			return "", Internal(err)
		}
		if !ok {
			return "", Unauthorized("Invalid admin credentials")
		}
		return s.issue(admin.ID)
	case !errors.Is(err, repository.ErrNotFound):
		return "", Internal(err)
	}

	if _, err := s.admins.First(ctx); err == nil {
		return "", Unauthorized("Invalid admin credentials")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", Internal(err)
	}
	if s.fallbackPassword == "" || subtle.ConstantTimeCompare([]byte(password), []byte(s.fallbackPassword)) != 1 {
		return "", Unauthorized("Invalid admin credentials")
	}
	return s.issue(0)
}

func (s *AdminService) issue(id int64) (string, error) {
	token, err := s.tokens.GenerateToken(id, models.RoleAdmin)
	if err != nil {
		return "", Internal(err)
	}
	return token, nil
}

// SeedAdmin creates the admin account unless one with that username exists.
// It reports whether a new account was created.
func (s *AdminService) SeedAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if username == "" || password == "" {
		return false, Validation("Admin username and password are required")
	}
	if _, err := s.admins.GetByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, Internal(err)
	}

	var pw models.Password
	if err := pw.Set(password); err != nil {
		return false, Internal(err)
	}
	a := &models.Admin{Username: username, PasswordHash: pw.Hash}
	if email != "" {
		a.Email = &email
	}
	if err := s.admins.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return false, nil
		}
		return false, Internal(err)
	}
	return true, nil
}

func (s *AdminService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.admins.Dashboard(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return stats, nil
}

func (s *AdminService) Buyers(ctx context.Context) ([]models.BuyerSummary, error) {
	out, err := s.users.ListBuyers(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}

func (s *AdminService) Sellers(ctx context.Context) ([]models.SellerSummary, error) {
	out, err := s.users.ListSellers(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}

func (s *AdminService) Products(ctx context.Context) ([]models.Product, error) {
	out, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}

// OverrideStatus sets any valid status, bypassing the forward-only flow.
func (s *AdminService) OverrideStatus(ctx context.Context, productID int64, status models.ProductStatus) (*models.Product, error) {
	if !status.Valid() {
		return nil, Validation("Status must be pending, active or sold")
	}
	err := s.products.SetStatus(ctx, productID, status)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, Internal(err)
	}
	return p, nil
}

func (s *AdminService) SoldItems(ctx context.Context) ([]models.SoldItem, error) {
	out, err := s.admins.SoldItems(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}

// SalesStats returns twelve buckets, Jan..Dec, with the revenue of order
// lines created in that month. year 0 aggregates all years.
func (s *AdminService) SalesStats(ctx context.Context, year int) ([]models.MonthlyRevenue, error) {
	byMonth, err := s.admins.RevenueByMonth(ctx, year)
	if err != nil {
		return nil, Internal(err)
	}
	out := make([]models.MonthlyRevenue, 12)
	for m := 1; m <= 12; m++ {
		out[m-1] = models.MonthlyRevenue{
			Name:    time.Month(m).String()[:3],
			Revenue: byMonth[m],
		}
	}
	return out, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	err := s.users.DeleteCascade(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return NotFound("User not found")
	case errors.Is(err, repository.ErrConflict):
		return Conflict("Cannot delete user: related records could not be removed", err)
	}
	return Internal(err)
}

func (s *AdminService) DeleteProduct(ctx context.Context, id int64) error {
	return deleteProduct(ctx, s.products, id)
}

func (s *AdminService) Notifications(ctx context.Context) ([]models.Notification, error) {
	out, err := s.notifications.ListAll(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}

func (s *AdminService) DeleteNotification(ctx context.Context, id int64) error {
	err := s.notifications.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Notification not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}

// InformAdmin files a free-text notice from a seller.
func (s *AdminService) InformAdmin(ctx context.Context, sellerID int64, role, subject, message string) (*models.Notification, error) {
	if role != models.RoleSeller {
		return nil, Forbidden("Only sellers can contact the admin")
	}
	subject, message = strings.TrimSpace(subject), strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, Validation("Subject and message are required")
	}

	n := &models.Notification{
		Message:  "Subject: " + subject + " | Message: " + message,
		SellerID: &sellerID,
	}
	if admin, err := s.admins.First(ctx); err == nil {
		n.AdminID = &admin.ID
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, Internal(err)
	}
	return n, nil
}
