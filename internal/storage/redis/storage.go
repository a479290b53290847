package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Users and whole ledgers are stored as JSON values with no expiry.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User registry operations

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(user.Username), data, 0)
	pipe.SAdd(ctx, usersIndexKey(), user.Username)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) LoadUsers(ctx context.Context) (map[string]*model.User, error) {
	usernames, err := s.client.SMembers(ctx, usersIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	users := make(map[string]*model.User, len(usernames))
	if len(usernames) == 0 {
		return users, nil
	}

	keys := make([]string, len(usernames))
	for i, username := range usernames {
		keys[i] = userKey(username)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, val := range values {
		if val == nil {
			continue // Index entry without a user record
		}
		var user model.User
		if err := json.Unmarshal([]byte(val.(string)), &user); err != nil {
			return nil, err
		}
		users[user.Username] = &user
	}

	return users, nil
}

func (s *Storage) SaveUsers(ctx context.Context, users map[string]*model.User) error {
	if len(users) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for _, user := range users {
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		pipe.Set(ctx, userKey(user.Username), data, 0)
		pipe.SAdd(ctx, usersIndexKey(), user.Username)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Poker ledger operations

func (s *Storage) LoadPokerSessions(ctx context.Context, username string) ([]model.PokerSession, error) {
	return loadLedger[model.PokerSession](ctx, s.client, pokerLedgerKey(username))
}

func (s *Storage) SavePokerSessions(ctx context.Context, username string, sessions []model.PokerSession) error {
	return saveLedger(ctx, s.client, pokerLedgerKey(username), sessions)
}

// Sports ledger operations

func (s *Storage) LoadBets(ctx context.Context, username string) ([]model.Bet, error) {
	return loadLedger[model.Bet](ctx, s.client, betLedgerKey(username))
}

func (s *Storage) SaveBets(ctx context.Context, username string, bets []model.Bet) error {
	return saveLedger(ctx, s.client, betLedgerKey(username), bets)
}

func loadLedger[T any](ctx context.Context, client *redis.Client, key string) ([]T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []T{}, nil
		}
		return nil, err
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func saveLedger[T any](ctx context.Context, client *redis.Client, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, 0).Err()
}
