package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"github.com/01moynul/campusmart/internal/ai"
	"github.com/01moynul/campusmart/internal/auth"
	"github.com/01moynul/campusmart/internal/cache"
	"github.com/01moynul/campusmart/internal/config"
	"github.com/01moynul/campusmart/internal/database"
	"github.com/01moynul/campusmart/internal/events"
	"github.com/01moynul/campusmart/internal/handlers"
	"github.com/01moynul/campusmart/internal/realtime"
	"github.com/01moynul/campusmart/internal/repository"
	"github.com/01moynul/campusmart/internal/routes"
	"github.com/01moynul/campusmart/internal/service"
)

func main() {
	seedAdmin := flag.Bool("seed-admin", false, "create the admin account from ADMIN_* env vars and exit")
	flag.Parse()

	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}
	cfg := config.Load()

	// 1. --- Database ---
	if cfg.MigrateOnStart || *seedAdmin {
		if err := database.Migrate(cfg.DSN); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}
	db, err := database.OpenDB(cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	admins := repository.NewAdminRepo(db)
	products := repository.NewProductRepo(db)
	cartItems := repository.NewCartRepo(db)
	wishlist := repository.NewWishlistRepo(db)
	orders := repository.NewOrderRepo(db)
	messages := repository.NewMessageRepo(db)
	notifications := repository.NewNotificationRepo(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.UserTokenTTL, cfg.AdminTokenTTL)

	adminSvc := service.NewAdminService(service.AdminDeps{
		Admins:           admins,
		Users:            users,
		Products:         products,
		Notifications:    notifications,
		Tokens:           tokens,
		DefaultUsername:  cfg.AdminUsername,
		FallbackPassword: cfg.AdminPassword,
	})

	if *seedAdmin {
		created, err := adminSvc.SeedAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
		if created {
			log.Printf("Admin %q created", cfg.AdminUsername)
		} else {
			log.Printf("Admin %q already exists", cfg.AdminUsername)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. --- Realtime hub ---
	hub := realtime.NewHub()
	go hub.Run(ctx)

	// 3. --- Redis (optional) ---
	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	// 4. --- RabbitMQ (optional) ---
	var publisher service.OrderPublisher
	if cfg.RabbitMQURL != "" {
		pub, err := events.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("WARNING: RabbitMQ publisher unavailable, order events disabled: %v", err)
		} else {
			defer pub.Close()
			publisher = pub
		}
		consumer := events.NewConsumer(cfg.RabbitMQURL, notifications, hub)
		go consumer.Run(ctx)
	}

	// 5. --- AI providers ---
	providers, closeProviders := ai.ProvidersFromKeys(ctx, ai.Keys{
		Groq:       cfg.GroqAPIKey,
		OpenRouter: cfg.OpenRouterAPIKey,
		Gemini:     cfg.GeminiAPIKey,
	})
	defer closeProviders()
	advisor := ai.NewAdvisor(cfg.LLMTimeout, providers...)

	var adviceCache service.AdviceCache
	if rdb != nil {
		adviceCache = cache.NewAdviceCache(rdb, time.Hour)
	}

	// --- Application Setup ---
	catalog := service.NewCatalogService(products, admins, notifications)
	app := &handlers.Handlers{
		Auth:            service.NewAuthService(users, tokens, cfg.SellerEmailDomains),
		Catalog:         catalog,
		Cart:            service.NewCartService(cartItems, wishlist, products),
		Orders:          service.NewOrderService(orders, publisher),
		Messages:        service.NewMessageService(messages, users, hub),
		Notifications:   service.NewNotificationService(notifications),
		Admin:           adminSvc,
		Recommendations: service.NewRecommendationService(catalog, advisor, adviceCache),
		UploadDir:       cfg.UploadDir,
	}
	handlers.RegisterValidators()

	router := routes.SetupRouter(app, routes.Deps{
		Tokens:      tokens,
		Hub:         hub,
		Redis:       rdb,
		RateLimit:   cfg.RateLimit,
		CORSOrigins: cfg.CORSOrigins,
	})

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(cfg.CORSOrigins),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Authorization", "Content-Type", "Accept", "Origin", "X-Requested-With"}),
		gorillahandlers.AllowCredentials(),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gorillahandlers.CombinedLoggingHandler(os.Stdout, cors(router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	go func() {
		log.Printf("Starting CampusMart API server on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
