package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/storage"
)

// Config holds configuration for the ledger store
type Config struct {
	// WarmupConcurrency bounds how many users' ledgers are loaded at once
	WarmupConcurrency int
}

// DefaultConfig returns default ledger store configuration
func DefaultConfig() Config {
	return Config{
		WarmupConcurrency: 8,
	}
}

// Store owns every user's registry entry and ledgers in memory and writes
// each change through to storage. Access is serialised per username: a
// mutation holds the user's write lock from building the new ledger until it
// is committed, so readers see either the old state or the new one.
type Store struct {
	storage storage.Storage
	logger  *slog.Logger

	registerMu sync.Mutex // serializes CreateUser

	mu    sync.RWMutex // guards the maps below, never held during a mutation
	users map[string]*model.User
	locks map[string]*sync.RWMutex

	poker  *Book[model.PokerSession]
	sports *Book[model.Bet]
}

// Open creates a Store and bulk-loads every user and ledger from storage
func Open(ctx context.Context, store storage.Storage, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.WarmupConcurrency <= 0 {
		cfg.WarmupConcurrency = DefaultConfig().WarmupConcurrency
	}

	s := &Store{
		storage: store,
		logger:  logger,
		users:   make(map[string]*model.User),
		locks:   make(map[string]*sync.RWMutex),
	}
	s.poker = newBook(s, "poker", store.LoadPokerSessions, store.SavePokerSessions,
		func(u *model.User) *float64 { return &u.PokerRating })
	s.sports = newBook(s, "sports", store.LoadBets, store.SaveBets,
		func(u *model.User) *float64 { return &u.SportsRating })

	users, err := store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.WarmupConcurrency)
	for username := range users {
		g.Go(func() error {
			if err := s.poker.warm(gctx, username); err != nil {
				return err
			}
			return s.sports.warm(gctx, username)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for username, u := range users {
		s.users[username] = u
		s.locks[username] = &sync.RWMutex{}
	}

	logger.Info("ledger store loaded", slog.Int("users", len(users)))
	return s, nil
}

// Poker returns the poker session book
func (s *Store) Poker() *Book[model.PokerSession] {
	return s.poker
}

// Sports returns the sports bet book
func (s *Store) Sports() *Book[model.Bet] {
	return s.sports
}

// CreateUser registers a new user with empty ledgers
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	s.mu.RLock()
	_, exists := s.users[user.Username]
	s.mu.RUnlock()
	if exists {
		return model.ErrUsernameExists
	}
	// another writer such as the importer may have added the user since Open
	if _, err := s.storage.GetUser(ctx, user.Username); err == nil {
		return model.ErrUsernameExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return fmt.Errorf("checking user: %w", err)
	}

	stored := *user
	if err := s.storage.SaveUser(ctx, &stored); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Username] = &stored
	s.locks[user.Username] = &sync.RWMutex{}
	s.poker.entries[user.Username] = nil
	s.sports.entries[user.Username] = nil
	return nil
}

// User returns a copy of the registry entry for username
func (s *Store) User(username string) (model.User, error) {
	lock, err := s.lockFor(username)
	if err != nil {
		return model.User{}, err
	}
	lock.RLock()
	defer lock.RUnlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.users[username], nil
}

// UpdateUser replaces the registry entry for an existing user. Ratings are
// owned by the books and are kept from the current entry.
func (s *Store) UpdateUser(ctx context.Context, user model.User) error {
	lock, err := s.lockFor(user.Username)
	if err != nil {
		return err
	}
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current := *s.users[user.Username]
	s.mu.RUnlock()

	user.PokerRating = current.PokerRating
	user.SportsRating = current.SportsRating
	if err := s.storage.SaveUser(ctx, &user); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}

	s.mu.Lock()
	s.users[user.Username] = &user
	s.mu.Unlock()
	return nil
}

func (s *Store) lockFor(username string) (*sync.RWMutex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lock, ok := s.locks[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return lock, nil
}
