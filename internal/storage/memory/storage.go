package memory

import (
	"context"
	"sync"

	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	users         map[string]*model.User
	pokerSessions map[string][]model.PokerSession
	bets          map[string][]model.Bet
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[string]*model.User),
		pokerSessions: make(map[string][]model.PokerSession),
		bets:          make(map[string][]model.Bet),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User registry operations

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.Username] = &u
	return nil
}

func (s *Storage) LoadUsers(ctx context.Context) (map[string]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]*model.User, len(s.users))
	for username, user := range s.users {
		u := *user
		result[username] = &u
	}
	return result, nil
}

func (s *Storage) SaveUsers(ctx context.Context, users map[string]*model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for username, user := range users {
		u := *user
		s.users[username] = &u
	}
	return nil
}

// Poker ledger operations

func (s *Storage) LoadPokerSessions(ctx context.Context, username string) ([]model.PokerSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.pokerSessions[username]), nil
}

func (s *Storage) SavePokerSessions(ctx context.Context, username string, sessions []model.PokerSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pokerSessions[username] = cloneSlice(sessions)
	return nil
}

// Sports ledger operations

func (s *Storage) LoadBets(ctx context.Context, username string) ([]model.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.bets[username]), nil
}

func (s *Storage) SaveBets(ctx context.Context, username string, bets []model.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bets[username] = cloneSlice(bets)
	return nil
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
