package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	portsrepo "github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/ports/repositories"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/services"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/events"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/handlers"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/middleware"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/platform/config"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/repositories/database/migrations"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/repositories/database/pgsql"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/repositories/database/sqlite"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/pkg/database"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// @title Fenmo Expense Tracker API
// @version 1.0
// @description Personal expense ledger with idempotent creates.

// @host localhost:4000
// @BasePath /
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			logger.Error("Error closing event publisher", slog.String("error", cerr.Error()))
		}
	}()

	container := services.NewServiceContainer(repos, publisher)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors, rate limit)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit)),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore initialises the schema and opens the configured ledger store.
func openStore(ctx context.Context, cfg *config.Config) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if err := migrations.RunPostgres(cfg.DatabaseURL); err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		slog.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil

	default:
		if err := migrations.RunSQLite(cfg.SQLitePath); err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		slog.Info("SQLite database opened", slog.String("path", cfg.SQLitePath))
		return sqlite.NewRepositoryProvider(db), func() {
			if err := db.Close(); err != nil {
				slog.Error("Error closing sqlite database", slog.String("error", err.Error()))
			}
		}, nil
	}
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.NoopPublisher{}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event publisher: %w", err)
	}
	slog.Info("Publishing expense events", slog.String("exchange", cfg.AMQPExchange))
	return publisher, nil
}
