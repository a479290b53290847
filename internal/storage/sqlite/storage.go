package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface.
// Ledger rows carry their entry position so a load returns them in the
// order they were saved.
type Storage struct {
	db  *sql.DB
	cfg Config
}

// New opens the database at cfg.Path and creates the schema if needed
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = DefaultConfig().PingTimeout
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	return &Storage{db: db, cfg: cfg}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", raw, err)
	}
	return t, nil
}

// User registry operations

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user    model.User
		created string
	)
	if err := row.Scan(&user.Username, &user.PasswordHash, &user.PokerRating, &user.SportsRating, &created); err != nil {
		return nil, err
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = t
	return &user, nil
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, queryGetUser, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("unable to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx, queryUpsertUser, userArgs(user)...)
	if err != nil {
		return fmt.Errorf("unable to save user: %w", err)
	}
	return nil
}

func (s *Storage) LoadUsers(ctx context.Context) (map[string]*model.User, error) {
	rows, err := s.db.QueryContext(ctx, queryLoadUsers)
	if err != nil {
		return nil, fmt.Errorf("unable to query users: %w", err)
	}
	defer rows.Close()

	users := make(map[string]*model.User)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan user row: %w", err)
		}
		users[user.Username] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (s *Storage) SaveUsers(ctx context.Context, users map[string]*model.User) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, user := range users {
			if _, err := tx.ExecContext(ctx, queryUpsertUser, userArgs(user)...); err != nil {
				return fmt.Errorf("unable to save user %s: %w", user.Username, err)
			}
		}
		return nil
	})
}

func userArgs(user *model.User) []any {
	return []any{user.Username, user.PasswordHash, user.PokerRating, user.SportsRating, formatTime(user.CreatedAt)}
}

// Poker ledger operations

func (s *Storage) LoadPokerSessions(ctx context.Context, username string) ([]model.PokerSession, error) {
	return loadLedger(ctx, s.db, queryLoadPokerSessions, username, func(row rowScanner) (model.PokerSession, error) {
		var (
			p    model.PokerSession
			date string
		)
		err := row.Scan(&p.ID, &date, &p.Location, &p.SmallBlind, &p.BigBlind, &p.BuyIn, &p.BuyOut,
			&p.Duration, &p.ProfitLoss, &p.BBWon, &p.RatingDelta, &p.HourlyRate, &p.CumulativeProfit)
		if err != nil {
			return p, err
		}
		p.Date, err = parseTime(date)
		return p, err
	})
}

func (s *Storage) SavePokerSessions(ctx context.Context, username string, sessions []model.PokerSession) error {
	return s.saveLedger(ctx, queryDeletePokerSessions, queryInsertPokerSession, username, len(sessions), func(i int) []any {
		p := sessions[i]
		return []any{p.ID, formatTime(p.Date), p.Location, p.SmallBlind, p.BigBlind, p.BuyIn, p.BuyOut,
			p.Duration, p.ProfitLoss, p.BBWon, p.RatingDelta, p.HourlyRate, p.CumulativeProfit}
	})
}

// Sports ledger operations

func (s *Storage) LoadBets(ctx context.Context, username string) ([]model.Bet, error) {
	return loadLedger(ctx, s.db, queryLoadBets, username, func(row rowScanner) (model.Bet, error) {
		var (
			b    model.Bet
			date string
		)
		err := row.Scan(&b.ID, &date, &b.Sport, &b.PickCount, &b.BetAmount, &b.AmountWonLost,
			&b.RatingDelta, &b.CumulativeProfit)
		if err != nil {
			return b, err
		}
		b.Date, err = parseTime(date)
		return b, err
	})
}

func (s *Storage) SaveBets(ctx context.Context, username string, bets []model.Bet) error {
	return s.saveLedger(ctx, queryDeleteBets, queryInsertBet, username, len(bets), func(i int) []any {
		b := bets[i]
		return []any{b.ID, formatTime(b.Date), b.Sport, b.PickCount, b.BetAmount, b.AmountWonLost,
			b.RatingDelta, b.CumulativeProfit}
	})
}

func loadLedger[T any](ctx context.Context, db *sql.DB, query, username string, scan func(rowScanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("unable to query ledger: %w", err)
	}
	defer rows.Close()

	records := []T{}
	for rows.Next() {
		record, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan ledger row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return records, nil
}

// saveLedger replaces the user's rows in one transaction. args returns the
// column values for entry i, excluding username and position.
func (s *Storage) saveLedger(ctx context.Context, deleteQuery, insertQuery, username string, n int, args func(i int) []any) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteQuery, username); err != nil {
			return fmt.Errorf("unable to clear ledger: %w", err)
		}
		if n == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, insertQuery)
		if err != nil {
			return fmt.Errorf("unable to prepare ledger insert: %w", err)
		}
		defer stmt.Close()

		for i := 0; i < n; i++ {
			values := append([]any{username, i}, args(i)...)
			if _, err := stmt.ExecContext(ctx, values...); err != nil {
				return fmt.Errorf("unable to insert ledger entry %d: %w", i, err)
			}
		}
		return nil
	})
}

func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
