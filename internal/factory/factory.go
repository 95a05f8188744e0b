package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/rinkbook/internal/api"
	"github.com/mcoot/rinkbook/internal/dependencies/clock"
	"github.com/mcoot/rinkbook/internal/dependencies/ids"
	"github.com/mcoot/rinkbook/internal/metrics"
	"github.com/mcoot/rinkbook/internal/services/game"
	"github.com/mcoot/rinkbook/internal/storage"
	"github.com/mcoot/rinkbook/internal/storage/memory"
	redisstorage "github.com/mcoot/rinkbook/internal/storage/redis"
	"github.com/mcoot/rinkbook/internal/storage/sqlstore"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.GameStore

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Metrics is nil when disabled
	Metrics *metrics.Recorder

	// Services
	GameService *game.Service

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// DSN is the sqlite path or postgres URL (required for the SQL backends)
	DSN string
	// MetricsEnabled registers Prometheus instruments and serves /metrics
	MetricsEnabled bool
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var rec *metrics.Recorder
	if cfg.MetricsEnabled {
		rec = metrics.NewRecorder()
	}

	return newWithDependencies(store, clock.New(), ids.New(), rec, logger), nil
}

func openStore(ctx context.Context, cfg Config) (storage.GameStore, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return store, nil
	case StorageTypeSQLite, StorageTypePostgres:
		store, err := sqlstore.Open(ctx, sqlstore.Config{Driver: storageType, DSN: cfg.DSN})
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", storageType, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be one of memory, redis, sqlite, postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.GameStore, clk clock.Clock, idg ids.Generator, rec *metrics.Recorder, logger *slog.Logger) *App {
	var recorder game.Recorder
	if rec != nil {
		recorder = rec
	}

	return &App{
		Store:       store,
		Clock:       clk,
		IDs:         idg,
		Metrics:     rec,
		GameService: game.New(store, clk, idg, recorder, logger),
		Logger:      logger,
	}
}

// Handler builds the HTTP API for the app. An empty origin list allows any origin.
func (a *App) Handler(allowedOrigins []string) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:         a.Logger,
		GameService:    a.GameService,
		Store:          a.Store,
		Clock:          a.Clock,
		Metrics:        a.Metrics,
		AllowedOrigins: allowedOrigins,
	})
}

// Close releases the store
func (a *App) Close() error {
	return a.Store.Close()
}
