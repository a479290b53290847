package poker

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/bankroll/internal/dependencies/clock"
	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/aggregate"
	"github.com/mcoot/bankroll/internal/services/ledger"
)

// WinBonus is added to the rating delta of every session with a positive result
const WinBonus = 2.5

// Engine records poker sessions and derives statistics from them
type Engine struct {
	book   *ledger.Book[model.PokerSession]
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a poker Engine over the store's poker book
func New(store *ledger.Store, clock clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		book:   store.Poker(),
		clock:  clock,
		logger: logger,
	}
}

// RatingDelta is the rating change for a session: the win bonus when big
// blinds were won, plus big blinds won per hour. A zero-length session
// contributes no rate term.
func RatingDelta(bbWon, duration float64) float64 {
	delta := 0.0
	if bbWon > 0 {
		delta += WinBonus
	}
	if duration > 0 {
		delta += bbWon / duration
	}
	return delta
}

// NewSession validates in and derives the computed fields of a session
// played at date. CumulativeProfit is left for the ledger to fill in.
func NewSession(in model.PokerSessionInput, date model.EntryTime) (model.PokerSession, error) {
	for _, v := range []float64{in.SmallBlind, in.BigBlind, in.BuyIn, in.BuyOut, in.Duration} {
		if !aggregate.Finite(v) {
			return model.PokerSession{}, model.ErrInvalidInput
		}
	}
	if in.BigBlind <= 0 {
		return model.PokerSession{}, model.ErrInvalidStake
	}
	if in.Duration < 0 {
		return model.PokerSession{}, model.ErrInvalidInput
	}

	profit := in.BuyOut - in.BuyIn
	bbWon := profit / in.BigBlind
	hourly := 0.0
	if in.Duration > 0 {
		hourly = profit / in.Duration
	}
	delta := RatingDelta(bbWon, in.Duration)
	for _, v := range []float64{profit, bbWon, hourly, delta} {
		if !aggregate.Finite(v) {
			return model.PokerSession{}, model.ErrInvalidInput
		}
	}

	return model.PokerSession{
		ID:          uuid.NewString(),
		Date:        date.Time,
		Location:    in.Location,
		SmallBlind:  in.SmallBlind,
		BigBlind:    in.BigBlind,
		BuyIn:       in.BuyIn,
		BuyOut:      in.BuyOut,
		Duration:    in.Duration,
		ProfitLoss:  profit,
		BBWon:       bbWon,
		RatingDelta: delta,
		HourlyRate:  hourly,
	}, nil
}

// AddSession appends a session to the user's ledger and returns the rating
// change it caused
func (e *Engine) AddSession(ctx context.Context, username string, in model.PokerSessionInput) (float64, error) {
	date := model.ParseEntryTime(in.DateTime, e.clock.Now())
	if date.Defaulted {
		e.logger.Warn("unparseable session date, using current time",
			slog.String("username", username),
			slog.String("date", in.DateTime),
		)
	}

	session, err := NewSession(in, date)
	if err != nil {
		return 0, err
	}

	err = e.book.Apply(ctx, username, func(current []model.PokerSession) ([]model.PokerSession, float64, error) {
		return ledger.Append(current, session), session.RatingDelta, nil
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("poker session added",
		slog.String("username", username),
		slog.String("session_id", session.ID),
		slog.Float64("profit_loss", session.ProfitLoss),
		slog.Float64("rating_delta", session.RatingDelta),
	)
	return session.RatingDelta, nil
}

// RemoveSession deletes the session shown at displayIndex by ListSessions
// and reverses its rating change
func (e *Engine) RemoveSession(ctx context.Context, username string, displayIndex int) error {
	var removed model.PokerSession
	err := e.book.Apply(ctx, username, func(current []model.PokerSession) ([]model.PokerSession, float64, error) {
		next, r, err := ledger.RemoveDisplayed(current, displayIndex)
		if err != nil {
			return nil, 0, err
		}
		removed = r
		return next, -r.RatingDelta, nil
	})
	if err != nil {
		return err
	}

	e.logger.Info("poker session removed",
		slog.String("username", username),
		slog.String("session_id", removed.ID),
		slog.Int("index", displayIndex),
	)
	return nil
}

// ListSessions returns the user's sessions newest first
func (e *Engine) ListSessions(username string) ([]model.PokerSession, error) {
	sessions, _, err := e.book.Snapshot(username)
	if err != nil {
		return nil, err
	}
	return ledger.DisplayOrder(sessions), nil
}
