package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
)

// MaxProductImages bounds the images accepted on upload.
const MaxProductImages = 5

type CatalogService struct {
	products      ProductStore
	admins        AdminStore
	notifications NotificationStore
}

func NewCatalogService(products ProductStore, admins AdminStore, notifications NotificationStore) *CatalogService {
	return &CatalogService{products: products, admins: admins, notifications: notifications}
}

type ProductInput struct {
	Name        string
	Category    string
	Condition   string
	Price       decimal.Decimal
	Description *string
}

func (s *CatalogService) Create(ctx context.Context, sellerID int64, role string, in ProductInput, images []string) (*models.Product, error) {
	if role != models.RoleSeller {
		return nil, Forbidden("Only sellers can upload products")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Condition = strings.TrimSpace(in.Condition)
	if in.Name == "" || in.Category == "" || in.Condition == "" {
		return nil, Validation("Product name, category and condition are required")
	}
	if !in.Price.IsPositive() {
		return nil, Validation("Price must be greater than zero")
	}
	if len(images) == 0 {
		return nil, Validation("At least one image is required")
	}
	if len(images) > MaxProductImages {
		return nil, Validation(fmt.Sprintf("At most %d images are allowed", MaxProductImages))
	}

	p := &models.Product{
		SellerID:    sellerID,
		Name:        in.Name,
		Category:    in.Category,
		Condition:   in.Condition,
		Price:       in.Price,
		Description: in.Description,
		Status:      models.StatusPending,
	}
	if err := s.products.Create(ctx, p, images); err != nil {
		return nil, Internal(err)
	}
	return p, nil
}

func (s *CatalogService) List(ctx context.Context, f repository.ProductFilter) ([]models.Product, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, Validation("Unknown product status")
	}
	products, err := s.products.List(ctx, f)
	if err != nil {
		return nil, Internal(err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return p, nil
}

func (s *CatalogService) BySeller(ctx context.Context, sellerID int64) ([]models.Product, error) {
	return s.List(ctx, repository.ProductFilter{SellerID: sellerID})
}

func (s *CatalogService) Mine(ctx context.Context, sellerID int64, role string) ([]models.Product, error) {
	if role != models.RoleSeller {
		return nil, Forbidden("Only sellers have listings")
	}
	return s.List(ctx, repository.ProductFilter{SellerID: sellerID})
}

// Delete removes a product owned by the caller, with its dependent rows.
func (s *CatalogService) Delete(ctx context.Context, id, userID int64) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.SellerID != userID {
		return Forbidden("You can only delete your own products")
	}
	return deleteProduct(ctx, s.products, id)
}

func deleteProduct(ctx context.Context, products ProductStore, id int64) error {
	err := products.DeleteCascade(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return NotFound("Product not found")
	case errors.Is(err, repository.ErrConflict):
		return Conflict("Cannot delete product: it is still referenced elsewhere", err)
	}
	return Internal(err)
}

// Approve is the system transition pending -> active.
func (s *CatalogService) Approve(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanAdvance(models.StatusActive) {
		return nil, Validation(fmt.Sprintf("Product cannot be approved from status %q", p.Status))
	}
	err = s.products.AdvanceStatus(ctx, id, p.Status, models.StatusActive)
	if errors.Is(err, repository.ErrConflict) {
		return nil, Conflict("Product status changed concurrently", err)
	}
	if err != nil {
		return nil, Internal(err)
	}
	p.Status = models.StatusActive
	return p, nil
}

// InformSold files a sold notice for the admin.
func (s *CatalogService) InformSold(ctx context.Context, sellerID int64, role string, productID int64, productName string) (*models.Notification, error) {
	if role != models.RoleSeller {
		return nil, Forbidden("Only sellers can report sold products")
	}
	productName = strings.TrimSpace(productName)
	if productID <= 0 || productName == "" {
		return nil, Validation("productId and productName are required")
	}
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, Forbidden("You can only report your own products")
	}

	admin, err := s.admins.First(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Admin not found")
	}
	if err != nil {
		return nil, Internal(err)
	}

	n := &models.Notification{
		Message:     fmt.Sprintf("Product Sold: %q (ID: %d) by Seller %d.", productName, productID, sellerID),
		SellerID:    &sellerID,
		AdminID:     &admin.ID,
		ProductID:   &productID,
		ProductName: &productName,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, Internal(err)
	}
	return n, nil
}
