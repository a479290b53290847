package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mcoot/bankroll/internal/dependencies/clock"
	"github.com/mcoot/bankroll/internal/factory"
	"github.com/mcoot/bankroll/internal/legacy"
	redisstorage "github.com/mcoot/bankroll/internal/storage/redis"
	sqlitestorage "github.com/mcoot/bankroll/internal/storage/sqlite"
)

func main() {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dir         string
		storageType string
		redisURL    string
		sqlitePath  string
		opts        legacy.Options
	)

	cmd := &cobra.Command{
		Use:   "bankroll-import",
		Short: "Import users and ledgers from the original tracker's data files",
		Long: `bankroll-import reads a legacy data directory containing
userdata/users.json, userdata/poker_data_<user>.csv, sportsdata/users.json and
sportsdata/bet_data_<user>.csv, and writes every valid user and ledger to the
configured storage backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

			cfg := factory.Config{Logger: logger, StorageType: storageType}
			switch storageType {
			case factory.StorageTypeRedis:
				redisCfg := redisstorage.DefaultConfig()
				if redisURL != "" {
					redisCfg.URL = redisURL
				}
				cfg.RedisConfig = &redisCfg
			case factory.StorageTypeSQLite:
				sqliteCfg := sqlitestorage.DefaultConfig()
				if sqlitePath != "" {
					sqliteCfg.Path = sqlitePath
				}
				cfg.SQLiteConfig = &sqliteCfg
			default:
				if !opts.DryRun {
					return fmt.Errorf("--storage must be %q or %q unless --dry-run is set", factory.StorageTypeRedis, factory.StorageTypeSQLite)
				}
				cfg.StorageType = factory.StorageTypeMemory
			}

			ctx := context.Background()
			store, err := factory.NewStorage(ctx, cfg)
			if err != nil {
				return fmt.Errorf("opening storage: %w", err)
			}
			defer func() {
				if closer, ok := store.(io.Closer); ok {
					_ = closer.Close()
				}
			}()

			result, err := legacy.NewImporter(store, clock.New(), logger).Import(ctx, dir, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "users: %d, poker sessions: %d, bets: %d, skipped rows: %d\n",
				result.Users, result.PokerSessions, result.Bets, result.SkippedRows)
			if len(result.SkippedUsers) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped users: %s\n", strings.Join(result.SkippedUsers, ", "))
			}
			if opts.DryRun {
				fmt.Fprintln(cmd.OutOrStdout(), "dry run: nothing written")
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Legacy data root containing userdata/ and sportsdata/")
	cmd.Flags().StringVar(&storageType, "storage", os.Getenv("STORAGE_TYPE"), "Storage backend: redis or sqlite (env: STORAGE_TYPE)")
	cmd.Flags().StringVar(&redisURL, "redis-url", os.Getenv("REDIS_URL"), "Redis URL (env: REDIS_URL)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite-path", os.Getenv("SQLITE_PATH"), "SQLite database path (env: SQLITE_PATH)")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "Replace users that already exist")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Parse and validate without writing")

	return cmd
}
