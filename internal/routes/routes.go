package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/01moynul/campusmart/internal/config"
	"github.com/01moynul/campusmart/internal/handlers"
	"github.com/01moynul/campusmart/internal/middleware"
	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/realtime"
)

// Deps carries what the router needs besides the handlers.
type Deps struct {
	Tokens      middleware.TokenValidator
	Hub         *realtime.Hub
	Redis       *redis.Client // nil disables rate limiting
	RateLimit   config.RateLimitConfig
	CORSOrigins []string
}

func SetupRouter(h *handlers.Handlers, d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Static("/uploads", h.UploadDir)
	router.GET("/ws", d.Hub.ServeWS(d.Tokens, d.CORSOrigins))

	authed := middleware.AuthMiddleware(d.Tokens)
	seller := middleware.RequireRole(models.RoleSeller)
	buyer := middleware.RequireRole(models.RoleBuyer)

	api := router.Group("/api")
	{
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "pong"})
		})

		// --- Auth ---
		a := api.Group("/auth")
		{
			a.POST("/signup", h.Signup)
			a.POST("/login", middleware.RateLimit(d.RateLimit, d.Redis, "login"), h.Login)
			a.GET("/me", authed, h.Me)
			a.PUT("/me", authed, h.UpdateMe)
		}

		// --- Catalog ---
		p := api.Group("/products")
		{
			p.GET("", h.ListProducts)
			p.GET("/:id", h.GetProduct)
			p.GET("/seller/:sellerId", h.ProductsBySeller)
			p.GET("/recommendations/:purchasedProductId", h.GetRecommendations)

			p.POST("/upload", authed, seller, h.UploadProduct)
			p.GET("/my-products", authed, seller, h.MyProducts)
			p.POST("/inform-sold", authed, seller, h.InformSold)
			p.DELETE("/:id", authed, seller, h.DeleteProduct)
		}

		// --- Cart and wishlist ---
		cart := api.Group("/cart", authed)
		{
			cart.POST("", buyer, h.AddToCart)
			cart.GET("", h.GetCart)
			cart.PUT("/update", h.UpdateCart)
			cart.DELETE("/:cartItemId", h.RemoveFromCart)
		}
		wishlist := api.Group("/wishlist", authed)
		{
			wishlist.POST("", h.AddToWishlist)
			wishlist.GET("", h.GetWishlist)
			wishlist.DELETE("/:id", h.RemoveFromWishlist)
		}

		// --- Orders ---
		orders := api.Group("/orders", authed, buyer)
		{
			orders.POST("", h.PlaceOrder)
			orders.GET("", h.MyOrders)
			orders.GET("/:id", h.GetOrder)
		}

		// --- Messages ---
		msgs := api.Group("/messages", authed)
		{
			msgs.POST("", middleware.RateLimit(d.RateLimit, d.Redis, "messages"), h.SendMessage)
			msgs.GET("", h.MyMessages)
			msgs.GET("/conversation/:otherUserId", h.Conversation)
			msgs.PUT("/:messageId/read", h.MarkMessageRead)
			msgs.PATCH("/:messageId/read", h.MarkMessageRead)
		}

		// --- Notifications ---
		n := api.Group("/notifications", authed)
		{
			n.GET("", h.MyNotifications)
			n.PATCH("/:id/read", h.MarkNotificationRead)
		}

		// --- Admin ---
		api.POST("/admin/login", middleware.RateLimit(d.RateLimit, d.Redis, "admin-login"), h.AdminLogin)
		api.POST("/admin/inform", authed, seller, h.InformAdmin)

		admin := api.Group("/admin", middleware.AdminMiddleware(d.Tokens))
		{
			admin.GET("/dashboard", h.Dashboard)
			admin.GET("/buyers", h.Buyers)
			admin.GET("/sellers", h.Sellers)
			admin.GET("/products", h.AdminProducts)
			admin.PATCH("/products/:id/status", h.UpdateProductStatus)
			admin.PATCH("/products/:id/approve", h.ApproveProduct)
			admin.DELETE("/products/:id", h.AdminDeleteProduct)
			admin.GET("/sold-items", h.SoldItems)
			admin.GET("/sales-stats", h.SalesStats)

			admin.DELETE("/users/:id", h.DeleteUser)
			admin.DELETE("/buyers/:id", h.DeleteUser)
			admin.DELETE("/sellers/:id", h.DeleteUser)

			admin.GET("/notifications", h.AdminNotifications)
			admin.DELETE("/notifications/:id", h.DeleteNotification)
		}
	}

	return router
}
