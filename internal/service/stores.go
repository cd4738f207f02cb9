package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/01moynul/campusmart/internal/events"
	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
)

// The interfaces below are what each service needs from storage. The
// repository package satisfies them; tests use in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmailAndRole(ctx context.Context, email, role string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, p repository.ProfileUpdate) error
}

type UserAdminStore interface {
	ListBuyers(ctx context.Context) ([]models.BuyerSummary, error)
	ListSellers(ctx context.Context) ([]models.SellerSummary, error)
	DeleteCascade(ctx context.Context, id int64) error
}

type ProductStore interface {
	Create(ctx context.Context, p *models.Product, filenames []string) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, f repository.ProductFilter) ([]models.Product, error)
	SetStatus(ctx context.Context, id int64, status models.ProductStatus) error
	AdvanceStatus(ctx context.Context, id int64, from, to models.ProductStatus) error
	DeleteCascade(ctx context.Context, id int64) error
}

type CartStore interface {
	Add(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID int64) ([]models.CartItem, error)
	GetForUser(ctx context.Context, id, userID int64) (*models.CartItem, error)
	SetQuantity(ctx context.Context, id, userID int64, quantity int) error
	Delete(ctx context.Context, id, userID int64) error
}

type WishlistStore interface {
	Add(ctx context.Context, userID, productID int64) (*models.WishlistItem, error)
	ListByUser(ctx context.Context, userID int64) ([]models.WishlistItem, error)
	Delete(ctx context.Context, id, userID int64) error
}

type OrderStore interface {
	Place(ctx context.Context, buyerID int64) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
}

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Message, error)
	Conversation(ctx context.Context, a, b int64, productID *int64) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, from, to int64, productID *int64) (int64, error)
	MarkRead(ctx context.Context, id int64) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListAll(ctx context.Context) ([]models.Notification, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	Delete(ctx context.Context, id int64) error
}

type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	First(ctx context.Context) (*models.Admin, error)
	Create(ctx context.Context, a *models.Admin) error
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	SoldItems(ctx context.Context) ([]models.SoldItem, error)
	RevenueByMonth(ctx context.Context, year int) (map[int]decimal.Decimal, error)
}

// Notifier pushes realtime events to connected users.
type Notifier interface {
	IsOnline(userID int64) bool
	Emit(userID int64, event string, data interface{})
}

// OrderPublisher announces committed orders to other processes.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev events.OrderPlaced) error
}

// Advisor produces a short suggestion text. It never fails: on provider
// trouble it returns a fallback string and ok=false.
type Advisor interface {
	Advise(ctx context.Context, prompt string) (text string, ok bool)
}

// AdviceCache stores advice per product between requests.
type AdviceCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}
