package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
)

type CartService struct {
	cart     CartStore
	wishlist WishlistStore
	products ProductStore
}

func NewCartService(cart CartStore, wishlist WishlistStore, products ProductStore) *CartService {
	return &CartService{cart: cart, wishlist: wishlist, products: products}
}

func (s *CartService) requireProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return Validation("productId is required")
	}
	_, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Product not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}

// AddToCart adds quantity (default 1) of a product; repeated adds sum up.
func (s *CartService) AddToCart(ctx context.Context, userID int64, role string, productID int64, quantity int) (*models.CartItem, error) {
	if role != models.RoleBuyer {
		return nil, Forbidden("Only buyers can add to cart")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, Validation("Quantity must be positive")
	}
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	item, err := s.cart.Add(ctx, userID, productID, quantity)
	if err != nil {
		return nil, Internal(err)
	}
	return item, nil
}

// Cart returns the rows newest first and the subtotal of their live prices.
func (s *CartService) Cart(ctx context.Context, userID int64) ([]models.CartItem, decimal.Decimal, error) {
	items, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, Internal(err)
	}
	subtotal := decimal.Zero
	for _, it := range items {
		if it.Product != nil {
			subtotal = subtotal.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return items, subtotal, nil
}

// UpdateQuantity sets a row's quantity; zero or less removes the row.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, cartItemID int64, quantity int) (*models.CartItem, error) {
	if cartItemID <= 0 {
		return nil, Validation("cartItemId is required")
	}
	item, err := s.cart.GetForUser(ctx, cartItemID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Cart item not found")
	}
	if err != nil {
		return nil, Internal(err)
	}

	if quantity <= 0 {
		if err := s.cart.Delete(ctx, cartItemID, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, Internal(err)
		}
		return nil, nil
	}
	if err := s.cart.SetQuantity(ctx, cartItemID, userID, quantity); err != nil {
		return nil, Internal(err)
	}
	item.Quantity = quantity
	return item, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, cartItemID int64) error {
	err := s.cart.Delete(ctx, cartItemID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Cart item not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}

func (s *CartService) AddToWishlist(ctx context.Context, userID, productID int64) (*models.WishlistItem, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	item, err := s.wishlist.Add(ctx, userID, productID)
	if err != nil {
		return nil, Internal(err)
	}
	return item, nil
}

func (s *CartService) Wishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	items, err := s.wishlist.ListByUser(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

func (s *CartService) RemoveFromWishlist(ctx context.Context, userID, id int64) error {
	err := s.wishlist.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Wishlist item not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}
