// Package handlers is the HTTP surface. Handlers parse the request, call
// one service method and write the JSON envelope; business rules live in
// the service package.
package handlers

import (
	"github.com/01moynul/campusmart/internal/service"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Auth            *service.AuthService
	Catalog         *service.CatalogService
	Cart            *service.CartService
	Orders          *service.OrderService
	Messages        *service.MessageService
	Notifications   *service.NotificationService
	Admin           *service.AdminService
	Recommendations *service.RecommendationService

	// UploadDir is where product and profile images are written.
	UploadDir string
}
