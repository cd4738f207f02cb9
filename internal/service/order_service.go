package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/01moynul/campusmart/internal/events"
	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
)

type OrderService struct {
	orders    OrderStore
	publisher OrderPublisher
}

// NewOrderService wires the order store. publisher may be nil when no
// broker is configured.
func NewOrderService(orders OrderStore, publisher OrderPublisher) *OrderService {
	return &OrderService{orders: orders, publisher: publisher}
}

// PlaceOrder turns the buyer's cart into an order. The store does the work
// atomically; this layer enforces the role and translates failures.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID int64, role string) (*models.Order, error) {
	if role != models.RoleBuyer {
		return nil, Forbidden("Only buyers can place orders")
	}

	order, err := s.orders.Place(ctx, buyerID)
	if err != nil {
		var unavailable *repository.ProductUnavailableError
		switch {
		case errors.Is(err, repository.ErrEmptyCart):
			return nil, Validation("Cart is empty")
		case errors.As(err, &unavailable):
			return nil, Validation("Product " + unavailable.Name + " is no longer available")
		case errors.Is(err, repository.ErrConflict):
			return nil, Conflict("A product in your cart was just sold to someone else", err)
		}
		return nil, Internal(err)
	}

	s.publish(order)
	return order, nil
}

func (s *OrderService) publish(order *models.Order) {
	if s.publisher == nil {
		return
	}
	ev := events.OrderPlaced{
		OrderID:     order.ID,
		BuyerID:     order.BuyerID,
		TotalAmount: order.TotalAmount,
		PlacedAt:    order.CreatedAt,
		Items:       make([]events.OrderPlacedItem, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		item := events.OrderPlacedItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
		if it.Product != nil {
			item.ProductName = it.Product.Name
			item.SellerID = it.Product.SellerID
		}
		ev.Items = append(ev.Items, item)
	}

	// Best effort: the order is already committed.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.publisher.PublishOrderPlaced(ctx, ev); err != nil {
		log.Printf("orders: publish order.placed for order %d failed: %v", order.ID, err)
	}
}

func (s *OrderService) MyOrders(ctx context.Context, buyerID int64, role string) ([]models.Order, error) {
	if role != models.RoleBuyer {
		return nil, Forbidden("Only buyers have orders")
	}
	orders, err := s.orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, Internal(err)
	}
	return orders, nil
}

// Order returns one order. Buyers only see their own.
func (s *OrderService) Order(ctx context.Context, orderID, userID int64, role string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Order not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	if role != models.RoleAdmin && order.BuyerID != userID {
		return nil, NotFound("Order not found")
	}
	return order, nil
}
