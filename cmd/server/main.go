package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/cedarelevator/commerce/internal"
	"github.com/cedarelevator/commerce/internal/cache"
	"github.com/cedarelevator/commerce/internal/checkout"
	"github.com/cedarelevator/commerce/internal/events"
	"github.com/cedarelevator/commerce/internal/handler"
	"github.com/cedarelevator/commerce/internal/idempotency"
	"github.com/cedarelevator/commerce/internal/jobs"
	"github.com/cedarelevator/commerce/internal/middleware"
	"github.com/cedarelevator/commerce/internal/postgres"
	"github.com/cedarelevator/commerce/internal/router"
	"github.com/cedarelevator/commerce/internal/routes"
	"github.com/cedarelevator/commerce/internal/service"
	"github.com/cedarelevator/commerce/internal/telemetry"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	// Verify database connection
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	store := postgres.NewStore(pool)

	// Business metrics and HTTP instrumentation
	businessMetrics := telemetry.NewBusinessMetrics("cedar")
	httpMetrics := middleware.NewMetrics("cedar")

	// Idempotency store and view cache are optional; without Redis, order
	// creation runs without double-submit protection.
	var idem service.IdempotencyStore
	var viewCache service.CacheInvalidator
	if cfg.RedisAddr != "" {
		redisStore := idempotency.NewRedisStore(cfg.RedisAddr, cfg.Checkout.IdempotencyTTL)
		defer redisStore.Close()
		idem = redisStore

		invalidator := cache.NewViewInvalidator(cfg.RedisAddr, logger)
		defer invalidator.Close()
		viewCache = invalidator

		logger.Info("Redis connected", "addr", cfg.RedisAddr)
	} else {
		logger.Warn("REDIS_ADDR not set; duplicate order submissions will not be detected")
	}

	// Event publisher
	var publisher service.EventPublisher = events.NoopPublisher{}
	if cfg.NatsURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NatsURL, businessMetrics)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		logger.Warn("NATS_URL not set; order events will be dropped")
	}

	// Initialize services
	checkoutService := service.NewCheckoutService(
		store.Orders,
		store.Businesses,
		store.Quotes,
		idem,
		publisher,
		service.CheckoutConfig{
			GSTPercentage:         cfg.Checkout.GSTPercentage,
			FlatShipping:          cfg.Checkout.FlatShipping,
			Currency:              cfg.Checkout.Currency,
			AllowedPaymentMethods: cfg.Checkout.AllowedPaymentMethods,
			Limits: checkout.IndividualLimits{
				MaxOrderValue:      cfg.Checkout.IndividualMaxOrderValue,
				MaxQuantityPerItem: cfg.Checkout.IndividualMaxQuantityPerItem,
			},
		},
		businessMetrics,
		logger,
	)
	orderService := service.NewOrderService(store.Orders, publisher, businessMetrics, logger)
	addressService := service.NewAddressService(store.Addresses, store.Businesses, viewCache, logger)

	// Background sweep for orders left without items by interrupted checkouts
	reconciler := jobs.NewReconciler(store.Orders, jobs.ReconcilerConfig{
		Interval: cfg.Reconciler.Interval,
		MinAge:   cfg.Reconciler.MinAge,
	}, businessMetrics, logger)
	go reconciler.Run(ctx)

	// Router and middleware chain
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		middleware.WithIdentity,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	routes.Register(r, routes.Deps{
		Checkout:  handler.NewCheckoutHandler(checkoutService, logger),
		Orders:    handler.NewOrderHandler(orderService, logger),
		Addresses: handler.NewAddressHandler(addressService, logger),
		Metrics:   httpMetrics,
		Healthz: func(w http.ResponseWriter, req *http.Request) {
			if err := pool.Ping(req.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("database unavailable"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		},
	})

	// Start server. CORS wraps the whole router so preflight OPTIONS
	// requests are answered for every route.
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.CORS(cfg.CORSAllowedOrigins)(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting commerce server", "address", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown; the reconciler stops with the signal context
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
