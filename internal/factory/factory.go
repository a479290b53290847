package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/bankroll/internal/dependencies/clock"
	"github.com/mcoot/bankroll/internal/dependencies/random"
	"github.com/mcoot/bankroll/internal/services/auth"
	"github.com/mcoot/bankroll/internal/services/ledger"
	"github.com/mcoot/bankroll/internal/services/poker"
	"github.com/mcoot/bankroll/internal/services/sports"
	"github.com/mcoot/bankroll/internal/storage"
	"github.com/mcoot/bankroll/internal/storage/memory"
	redisstorage "github.com/mcoot/bankroll/internal/storage/redis"
	sqlitestorage "github.com/mcoot/bankroll/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Store   *ledger.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService  *auth.Service
	PokerEngine  *poker.Engine
	SportsEngine *sports.Engine
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// LedgerConfig tunes the ledger store (optional)
	LedgerConfig ledger.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds SQLite settings (required if StorageType is "sqlite")
	SQLiteConfig *sqlitestorage.Config
}

// New creates a new application with all dependencies wired and every
// ledger loaded from storage
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app, err := newWithDependencies(ctx, store, clock.New(), random.New(), cfg.AuthConfig, cfg.LedgerConfig, logger)
	if err != nil {
		closeStorage(store)
		return nil, err
	}
	return app, nil
}

// NewStorage opens the storage backend selected by cfg.StorageType
func NewStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
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
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLiteConfig == nil {
			return nil, errors.New("SQLiteConfig required when StorageType is sqlite")
		}
		return sqlitestorage.New(ctx, *cfg.SQLiteConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func closeStorage(store storage.Storage) {
	if c, ok := store.(io.Closer); ok {
		_ = c.Close()
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	ctx context.Context,
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	ledgerCfg ledger.Config,
	logger *slog.Logger,
) (*App, error) {
	ledgerStore, err := ledger.Open(ctx, store, ledgerCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger store: %w", err)
	}

	return &App{
		Storage:      store,
		Store:        ledgerStore,
		Clock:        clk,
		Random:       rnd,
		AuthService:  auth.New(ledgerStore, clk, rnd, authCfg, logger),
		PokerEngine:  poker.New(ledgerStore, clk, logger),
		SportsEngine: sports.New(ledgerStore, clk, logger),
	}, nil
}
