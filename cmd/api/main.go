package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wildoasis/cabin-bookings/internal/cache"
	"github.com/wildoasis/cabin-bookings/internal/http/handlers"
	httpmw "github.com/wildoasis/cabin-bookings/internal/http/middleware"
	"github.com/wildoasis/cabin-bookings/internal/notify"
	"github.com/wildoasis/cabin-bookings/internal/platform/identity"
	"github.com/wildoasis/cabin-bookings/internal/platform/mailer"
	"github.com/wildoasis/cabin-bookings/internal/repo/postgres"
	"github.com/wildoasis/cabin-bookings/internal/service"
	"github.com/wildoasis/cabin-bookings/pkg/config"
	"github.com/wildoasis/cabin-bookings/pkg/database"
	"github.com/wildoasis/cabin-bookings/pkg/events"
	"github.com/wildoasis/cabin-bookings/pkg/logger"
	"github.com/wildoasis/cabin-bookings/pkg/metrics"
	mw "github.com/wildoasis/cabin-bookings/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid Redis URL", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	// Connect to event bus
	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	m := metrics.NewMetrics("wildoasis")
	views := cache.NewViewCache(rdb, cfg.Cache.ViewTTL, eventBus, m)

	// Initialize repositories
	bookingRepo := postgres.NewBookingRepository(pool)
	guestRepo := postgres.NewGuestRepository(pool)
	cabinRepo := postgres.NewCabinRepository(pool)
	accessRepo := postgres.NewAccessRepository(pool)

	// Initialize mailer
	var mailSvc mailer.Service
	if cfg.Email.DevMode || cfg.Email.MailerSendKey == "" {
		mailSvc = mailer.NewDevMailer()
	} else {
		mailSvc = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Initialize services
	resolver := identity.NewResolver(guestRepo)
	guard := service.NewAuthGuard(bookingRepo)
	bookingService := service.NewBookingService(bookingRepo, guard, views, eventBus, m)
	guestService := service.NewGuestService(guestRepo, views, eventBus)
	authService := service.NewAuthService(resolver, accessRepo, mailSvc, cfg)
	cabinService := service.NewCabinService(cabinRepo, bookingRepo)

	// Booking confirmations ride the event bus
	notifier := notify.New(eventBus, mailSvc)
	if err := notifier.Start(); err != nil {
		logger.Error("Failed to start notifier", "error", err)
		os.Exit(1)
	}

	// Sweep stale access codes so the table does not grow unbounded
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := accessRepo.DeleteExpired(context.Background()); err != nil {
				logger.Error("Failed to delete expired access codes", "error", err)
			} else if n > 0 {
				logger.Info("Deleted expired access codes", "count", n)
			}
		}
	}()

	limiter := httpmw.NewRateLimiter(rdb, httpmw.RateLimitConfig{
		Requests: 5,
		Window:   15 * time.Minute,
	})

	h := handlers.New(bookingService, guestService, authService, cabinService, views, cfg.Auth.JWTSecret, limiter)

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Auth.SiteURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/v1", h.Routes())

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down api service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}

		if err := eventBus.Drain(); err != nil {
			logger.Error("Failed to drain event bus", "error", err)
		}
	}()

	logger.Info("Starting api service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
