package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/bankroll/internal/api"
	"github.com/mcoot/bankroll/internal/api/middleware"
	"github.com/mcoot/bankroll/internal/factory"
	redisstorage "github.com/mcoot/bankroll/internal/storage/redis"
	sqlitestorage "github.com/mcoot/bankroll/internal/storage/sqlite"
)

const sessionCleanupInterval = 10 * time.Minute

func main() {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	// Set up logging with JSON output
	level := slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL %q\n", v)
			os.Exit(1)
		}
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg, serverConfig, limitConfig, err := loadConfig(logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create application factory; this loads every ledger from storage
	app, err := factory.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		AuthService:  app.AuthService,
		Store:        app.Store,
		PokerEngine:  app.PokerEngine,
		SportsEngine: app.SportsEngine,
		LoginLimiter: middleware.NewRateLimiter(limitConfig, logger),
	})

	// Create server
	server := api.NewServer(apiRouter, serverConfig, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := app.AuthService.CleanExpiredSessions(); n > 0 {
					logger.Debug("expired sessions removed", slog.Int("count", n))
				}
			}
		}
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", storageName(cfg.StorageType)),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// loadConfig builds the factory, server and login throttle config from the
// environment
func loadConfig(logger *slog.Logger) (factory.Config, api.ServerConfig, middleware.RateLimitConfig, error) {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}
	serverConfig := api.DefaultServerConfig()
	limitConfig := middleware.DefaultRateLimitConfig()

	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return cfg, serverConfig, limitConfig, fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	case factory.StorageTypeSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		if path := os.Getenv("SQLITE_PATH"); path != "" {
			sqliteCfg.Path = path
		}
		cfg.SQLiteConfig = &sqliteCfg
	}

	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, serverConfig, limitConfig, fmt.Errorf("invalid HTTP_PORT %q", v)
		}
		serverConfig.Port = port
	}

	if v := os.Getenv("SESSION_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, serverConfig, limitConfig, fmt.Errorf("invalid SESSION_DURATION %q", v)
		}
		cfg.AuthConfig.SessionDuration = d
	}

	if v := os.Getenv("LOGIN_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, serverConfig, limitConfig, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE %q", v)
		}
		limitConfig.PerMinute = n
	}

	return cfg, serverConfig, limitConfig, nil
}

func storageName(storageType string) string {
	if storageType == "" {
		return factory.StorageTypeMemory
	}
	return storageType
}
