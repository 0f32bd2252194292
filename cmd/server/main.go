package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/tripflow/backend/internal/config"
	"github.com/tripflow/backend/internal/handler"
	"github.com/tripflow/backend/internal/logger"
	appMiddleware "github.com/tripflow/backend/internal/middleware"
	"github.com/tripflow/backend/internal/repository"
	"github.com/tripflow/backend/internal/service"
	"github.com/tripflow/backend/pkg/crypto"
	"github.com/tripflow/backend/pkg/mailer"
	"github.com/tripflow/backend/pkg/payment"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if present (for local development)
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := logger.Init(cfg.Development, logger.Level(cfg.LogLevel)); err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	ctx := context.Background()

	// Initialize database
	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database error", zap.Error(err))
	}
	defer db.Close()

	if err := repository.RunMigrations(ctx, db); err != nil {
		zlog.Fatal("migration error", zap.Error(err))
	}
	zlog.Info("database connected & migrated")

	// Encryptor for payment provider references at rest
	enc, err := crypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		zlog.Fatal("encryption error", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db, enc)
	tripRepo := repository.NewTripRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	eventRepo := repository.NewPaymentEventRepository(db)

	// Payment gateway and mail sender
	gateway, err := payment.NewMollieGateway(cfg.MollieTestMode)
	if err != nil {
		zlog.Fatal("payment gateway error", zap.Error(err))
	}
	sender := mailer.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPassword, userRepo, subRepo)
	if err := authSvc.SeedAdmin(ctx); err != nil {
		zlog.Fatal("admin seed error", zap.Error(err))
	}
	tripSvc := service.NewTripService(tripRepo, expenseRepo, subRepo)
	subSvc := service.NewSubscriptionService(subRepo, userRepo, eventRepo, gateway)
	reportSvc := service.NewReportService(tripRepo, expenseRepo, sender, nil)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	tripHandler := handler.NewTripHandler(tripSvc)
	healthHandler := handler.NewHealthHandler(db)
	userHandler := handler.NewUserHandler(authSvc)
	usageHandler := handler.NewUsageHandler(subSvc)
	plansHandler := handler.NewPlansHandler()
	paymentHandler := handler.NewPaymentHandler(subSvc,
		cfg.AppBaseURL+"/account/billing",
		cfg.APIBaseURL+"/api/payment/webhook",
	)
	reportHandler := handler.NewReportHandler(reportSvc)
	adminHandler := handler.NewAdminHandler(db, authSvc)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(appMiddleware.Recovery)
	r.Use(appMiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global rate limiter (20 req/sec per IP, burst of 40)
	globalRL := appMiddleware.NewRateLimiter(20, 40)
	r.Use(globalRL.Middleware())

	// Public routes
	r.Get("/health", healthHandler.Check)
	r.Get("/api/plans", plansHandler.List)
	r.Post("/api/payment/webhook", paymentHandler.Webhook) // Provider callbacks, always 200

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.StrictRateLimiter())
		r.Post("/api/auth/signup", authHandler.Signup)
		r.Post("/api/auth/login", authHandler.Login)
	})

	// Protected API routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Auth(authSvc))

		// Auth
		r.Post("/api/auth/logout", authHandler.Logout)
		r.Get("/api/auth/me", authHandler.Me)

		// Trips
		r.Get("/api/trips", tripHandler.List)
		r.Post("/api/trips", tripHandler.Create)
		r.Get("/api/trips/{id}", tripHandler.GetByID)
		r.Put("/api/trips/{id}", tripHandler.Update)
		r.Delete("/api/trips/{id}", tripHandler.Delete)

		// Expense notes
		r.Get("/api/trips/{id}/expenses", tripHandler.ListExpenses)
		r.Post("/api/trips/{id}/expenses", tripHandler.AddExpense)
		r.Put("/api/trips/{id}/expenses/{noteId}", tripHandler.UpdateExpense)
		r.Delete("/api/trips/{id}/expenses/{noteId}", tripHandler.DeleteExpense)

		// Reports
		r.Post("/api/trips/{id}/report", reportHandler.SendTripReport)
		r.Post("/api/email/send", reportHandler.SendInline)

		// Usage & subscription
		r.Get("/api/usage", usageHandler.Get)
		r.Post("/api/payment/checkout", paymentHandler.CreateCheckout)
		r.Get("/api/payment/subscription", paymentHandler.GetSubscription)
		r.Post("/api/payment/trial", paymentHandler.StartTrial)
		r.Post("/api/payment/cancel", paymentHandler.Cancel)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.AdminOnly)
			r.Get("/api/admin/stats", adminHandler.GetStats)
			r.Get("/api/admin/users", adminHandler.ListUsers)
			r.Get("/api/users", userHandler.List)
			r.Post("/api/users", userHandler.Create)
			r.Delete("/api/users/{id}", userHandler.Delete)
		})
	})

	// Start server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		zlog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	zlog.Info("tripflow backend listening", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		zlog.Fatal("server error", zap.Error(err))
	}
}
