package storage

import (
	"context"

	"github.com/mcoot/bankroll/internal/model"
)

// Storage defines the interface for data persistence. Ledgers are stored
// whole and in entry order; loading a ledger that was never saved returns
// an empty slice.
type Storage interface {
	// User registry operations
	GetUser(ctx context.Context, username string) (*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error
	LoadUsers(ctx context.Context) (map[string]*model.User, error)
	SaveUsers(ctx context.Context, users map[string]*model.User) error

	// Poker ledger operations
	LoadPokerSessions(ctx context.Context, username string) ([]model.PokerSession, error)
	SavePokerSessions(ctx context.Context, username string, sessions []model.PokerSession) error

	// Sports ledger operations
	LoadBets(ctx context.Context, username string) ([]model.Bet, error)
	SaveBets(ctx context.Context, username string, bets []model.Bet) error
}
