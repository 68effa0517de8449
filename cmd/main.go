// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/evently-labs/event-booking-api/internal/auth"
	"github.com/evently-labs/event-booking-api/internal/config"
	"github.com/evently-labs/event-booking-api/internal/database"
	"github.com/evently-labs/event-booking-api/internal/handler"
	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/repository"
	"github.com/evently-labs/event-booking-api/internal/reservation"
	"github.com/evently-labs/event-booking-api/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)

	// ── 1. Connect to PostgreSQL and apply migrations ────────────────────
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	logger.Info().Msg("connected to postgres")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("jwt manager")
	}

	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	engine := reservation.NewEngine(eventRepo, bookingRepo, logger)

	authSvc := service.NewAuthService(userRepo, jwtManager, cfg.Security.BcryptCost)
	eventSvc := service.NewEventService(eventRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	bookingSvc := service.NewBookingService(engine, bookingRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)

	// ── 3. Build the router ──────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	protect := auth.Protect(jwtManager)
	adminOnly := auth.RequireRole(model.RoleAdmin)
	rateLimit := httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimit).Post("/register", authHandler.Register)
			r.With(rateLimit).Post("/login", authHandler.Login)
			r.With(protect).Get("/me", authHandler.Me)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Get("/{id}", categoryHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(protect, adminOnly)
				r.Post("/", categoryHandler.Create)
				r.Put("/{id}", categoryHandler.Update)
				r.Delete("/{id}", categoryHandler.Delete)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.List)
			r.Get("/{id}", eventHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(protect, adminOnly)
				r.Post("/", eventHandler.Create)
				r.Put("/{id}", eventHandler.Update)
				r.Delete("/{id}", eventHandler.Delete)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(protect)
			r.With(rateLimit).Post("/", bookingHandler.Create)
			r.Get("/my-bookings", bookingHandler.MyBookings)
			r.With(adminOnly).Get("/", bookingHandler.ListAll)
		})
	})

	// ── 4. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	logger := zerolog.New(out)
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
