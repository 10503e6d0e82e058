package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"waterbill-backend/internal/auth"
	"waterbill-backend/internal/cache"
	"waterbill-backend/internal/config"
	"waterbill-backend/internal/database"
	"waterbill-backend/internal/db"
	"waterbill-backend/internal/handlers"
	"waterbill-backend/internal/health"
	h "waterbill-backend/internal/http"
	"waterbill-backend/internal/middleware"
	"waterbill-backend/internal/notify"
	"waterbill-backend/internal/repositories"
	"waterbill-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (dashboard stats will be computed per request)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	profileRepo := repositories.NewProfileRepository(pool)
	billRepo := repositories.NewBillRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)

	// Initialize services
	notifier := notify.NewLogNotifier()
	profileService := services.NewProfileService(profileRepo, jwtManager, cfg)
	billService := services.NewBillService(billRepo, profileRepo, notifier, cfg)
	billingRunService := services.NewBillingRunService(billRepo, profileRepo, notifier, cfg)
	paymentService := services.NewPaymentService(paymentRepo, billRepo, notifier)
	activityService := services.NewActivityService(billRepo, paymentRepo, services.FeedOptions{
		FeedLimit: cfg.Billing.ActivityFeedLimit,
	})
	dashboardService := services.NewDashboardService(profileRepo, billService, paymentService, activityService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(profileService)
	customerHandler := handlers.NewCustomerHandler(profileService)
	billHandler := handlers.NewBillHandler(billService, billingRunService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, activityService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, profileRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		customerHandler,
		billHandler,
		paymentHandler,
		dashboardHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
