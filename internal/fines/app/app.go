package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/cache"
	httpapi "github.com/aussiebroadwan/finepay/internal/fines/http"
	"github.com/aussiebroadwan/finepay/internal/fines/metrics"
	"github.com/aussiebroadwan/finepay/internal/fines/service"
	"github.com/aussiebroadwan/finepay/internal/fines/store"
	"github.com/aussiebroadwan/finepay/internal/fines/store/drivers/sqlite"
	"github.com/aussiebroadwan/finepay/internal/fines/store/seed"
	"github.com/aussiebroadwan/finepay/pkg/payfast"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the fines service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	creds   Credentials
	metrics *metrics.Metrics
	redis   *redis.Client // nil when REDIS_URL is unset
	cache   *cache.FineCache
	gateway *payfast.Gateway

	// Services
	fineService         *service.FineService
	userService         *service.UserService
	paymentService      *service.PaymentService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "fines-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	creds, err := InitCredentials(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.creds = creds

	ctx := context.Background()
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initCache(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until a shutdown signal arrives or
// the server fails.
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.housekeepingService.Start()

	app.logger.Info("fines service starting", "port", app.cfg.Port, "version", BuildVersion)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			app.logger.Info("shutdown signal received")
		}
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down fines service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("fines service stopped")
	return nil
}

// initDatabase opens the database, applies migrations and loads fixtures.
func (app *Application) initDatabase(ctx context.Context) error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully")

	fx, err := seed.LoadFile(app.cfg.FixturesFile)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	if err := seed.Apply(ctx, db, fx, app.creds.Hasher, app.logger); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply fixtures: %w", err)
	}
	return nil
}

// initCache connects to redis when configured and drops views that the
// fixtures may have changed.
func (app *Application) initCache(ctx context.Context) error {
	client, err := cache.Connect(ctx, app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	if client == nil {
		app.logger.Info("read cache disabled")
		return nil
	}
	app.redis = client
	app.cache = cache.NewFineCache(client, app.cfg.CacheTTL, app.metrics)

	fineIDs, err := app.fineIDs(ctx)
	if err != nil {
		return err
	}
	if err := app.cache.Invalidate(ctx, fineIDs...); err != nil {
		app.logger.Warn("cache invalidation failed", "error", err)
	}
	app.logger.Info("read cache enabled", "ttl", app.cfg.CacheTTL)
	return nil
}

func (app *Application) fineIDs(ctx context.Context) ([]string, error) {
	fines, err := app.db.Fines().ListFines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fines: %w", err)
	}
	ids := make([]string, 0, len(fines))
	for _, f := range fines {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.gateway = payfast.New(payfast.Config{
		MerchantID:  app.cfg.PayFastMerchantID,
		MerchantKey: app.cfg.PayFastMerchantKey,
		Sandbox:     app.cfg.PayFastSandbox,
		BaseURL:     app.cfg.PublicBaseURL,
	})

	app.fineService = &service.FineService{
		Store:   app.db,
		Metrics: app.metrics,
		Latency: app.cfg.Latency,
	}
	if app.cache != nil {
		app.fineService.Cache = app.cache
	}

	app.userService = &service.UserService{
		Store:             app.db,
		Hasher:            app.creds.Hasher,
		Signer:            app.creds.Signer,
		Issuer:            app.cfg.Issuer,
		TokenTTL:          app.cfg.TokenTTL,
		Metrics:           app.metrics,
		Latency:           app.cfg.Latency,
		AcceptAnyPassword: app.cfg.AnyPassword,
	}
	if app.cfg.AnyPassword {
		app.logger.Warn("password verification disabled, any password opens a known account")
	}

	app.paymentService = &service.PaymentService{
		Store:   app.db,
		Gateway: app.gateway,
		Metrics: app.metrics,
		Latency: app.cfg.Latency,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.SessionRetention,
	)
	app.housekeepingService.Metrics = app.metrics
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.creds.Signer,
		app.creds.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Metrics must be set before ApplyRoutes so every route is instrumented
	router.Metrics = app.metrics
	router.Gateway = app.gateway
	router.FineService = app.fineService
	router.UserService = app.userService
	router.PaymentService = app.paymentService
	if app.redis != nil {
		router.CachePing = func(ctx context.Context) error {
			return app.redis.Ping(ctx).Err()
		}
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
