// Package main is the entry point for the SVBH HELP backend server, the
// complaint portal of the SVBH student hostel.
//
// Students file facility complaints (electrical, plumbing, cleanliness,
// mess), follow their own and their floor's complaints, and rally peer
// support on shared-facility issues. The warden triages, starts work, and
// resolves complaints gated by a one-time code held by the reporting
// student. Complaints are loosely-typed JSON documents; feeds are
// assembled from capped, time-windowed queries merged client-side because
// the store cannot express disjunction in one request.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/config"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/database"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/handlers"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/middleware"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/services"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/store"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting SVBH HELP server",
		"port", cfg.Port,
		"env", cfg.Environment,
	)

	// Initialize database connection pool and schema
	db, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		sugar.Fatalf("Failed to migrate schema: %v", err)
	}
	cancel()

	// Redis holds the session blobs
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	// Warden PIN is compared as a bcrypt hash
	pinHash := []byte(cfg.WardenPINHash)
	if len(pinHash) == 0 {
		pinHash, err = bcrypt.GenerateFromPassword([]byte(cfg.WardenPIN), bcrypt.DefaultCost)
		if err != nil {
			sugar.Fatalf("Failed to hash warden PIN: %v", err)
		}
	}

	// Initialize store and services
	docs := store.NewPostgres(db)
	sessions := services.NewRedisSessionStore(rdb, time.Duration(cfg.SessionTTLHours)*time.Hour)

	authSvc := services.NewAuthService(docs, sessions, sugar, cfg.JWTSecret, pinHash,
		time.Duration(cfg.SessionTTLHours)*time.Hour)
	complaintSvc := services.NewComplaintService(docs, sugar)
	feedSvc := services.NewFeedService(docs, sugar,
		time.Duration(cfg.ResolvedWindowDays)*24*time.Hour)
	activitySvc := services.NewActivityService(db, sugar)
	assistSvc := services.NewAssistService(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, sugar)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authSvc, sugar)
	complaintHandler := handlers.NewComplaintHandler(complaintSvc, feedSvc, activitySvc, sugar)
	activityHandler := handlers.NewActivityHandler(activitySvc, sugar)
	assistHandler := handlers.NewAssistHandler(assistSvc, sugar)
	healthHandler := handlers.NewHealthHandler(db, rdb, sugar)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limiting
	r.Use(middleware.RateLimit(cfg.RateLimitRPM))

	requireAuth := middleware.RequireAuth(cfg.JWTSecret, sessions)
	requireStudent := middleware.RequireStudent()
	requireWarden := middleware.RequireWarden()

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", healthHandler.Check)
		r.Get("/health/ready", healthHandler.Ready)

		// Login is the only unauthenticated operation
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/session", authHandler.Session)

			r.Route("/complaints", func(r chi.Router) {
				// Filing and supporting are resident actions
				r.With(requireStudent).Post("/", complaintHandler.Submit)
				r.Get("/mine", complaintHandler.Mine)
				r.Get("/community", complaintHandler.Community)
				r.With(requireStudent).Post("/{id}/support", complaintHandler.Support)

				// Warden-only management surface
				r.Group(func(r chi.Router) {
					r.Use(requireWarden)
					r.Get("/filtered", complaintHandler.Filtered)
					r.Put("/{id}/status", complaintHandler.UpdateStatus)
					r.Get("/{id}/events", activityHandler.ByComplaint)
				})
			})

			r.With(requireWarden).Get("/activity/recent", activityHandler.Recent)

			r.Post("/assist", assistHandler.Refine)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}
