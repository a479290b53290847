package sports

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/bankroll/internal/dependencies/clock"
	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/aggregate"
	"github.com/mcoot/bankroll/internal/services/ledger"
)

// Rating weights per pick
const (
	WinPickWeight  = 2.5
	LossPickWeight = -1.6
)

// Engine records sports bets and derives statistics from them
type Engine struct {
	book   *ledger.Book[model.Bet]
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a sports Engine over the store's sports book
func New(store *ledger.Store, clock clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		book:   store.Sports(),
		clock:  clock,
		logger: logger,
	}
}

// RatingDelta is the rating change for a settled bet. Winning bets are
// rewarded per pick plus the amount won; losing bets are penalised per pick
// and credited the amount lost.
func RatingDelta(picks, amountWonLost float64) float64 {
	if amountWonLost > 0 {
		return WinPickWeight*picks + amountWonLost
	}
	return LossPickWeight*picks - amountWonLost
}

// NewBet validates in and derives the computed fields of a bet placed at date
func NewBet(in model.BetInput, date model.EntryTime) (model.Bet, error) {
	for _, v := range []float64{in.PickCount, in.BetAmount, in.AmountWonLost} {
		if !aggregate.Finite(v) {
			return model.Bet{}, model.ErrInvalidInput
		}
	}
	if in.PickCount < 0 || in.BetAmount < 0 {
		return model.Bet{}, model.ErrInvalidInput
	}
	delta := RatingDelta(in.PickCount, in.AmountWonLost)
	if !aggregate.Finite(delta) {
		return model.Bet{}, model.ErrInvalidInput
	}

	return model.Bet{
		ID:            uuid.NewString(),
		Date:          date.Time,
		Sport:         in.Sport,
		PickCount:     in.PickCount,
		BetAmount:     in.BetAmount,
		AmountWonLost: in.AmountWonLost,
		RatingDelta:   delta,
	}, nil
}

// AddBet appends a bet to the user's ledger and returns the rating change
func (e *Engine) AddBet(ctx context.Context, username string, in model.BetInput) (float64, error) {
	date := model.ParseEntryTime(in.DateTime, e.clock.Now())
	if date.Defaulted {
		e.logger.Warn("unparseable bet date, using current time",
			slog.String("username", username),
			slog.String("date", in.DateTime),
		)
	}

	bet, err := NewBet(in, date)
	if err != nil {
		return 0, err
	}

	err = e.book.Apply(ctx, username, func(current []model.Bet) ([]model.Bet, float64, error) {
		return ledger.Append(current, bet), bet.RatingDelta, nil
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("bet added",
		slog.String("username", username),
		slog.String("bet_id", bet.ID),
		slog.Float64("amount_won_lost", bet.AmountWonLost),
		slog.Float64("rating_delta", bet.RatingDelta),
	)
	return bet.RatingDelta, nil
}

// RemoveBet deletes the bet shown at displayIndex by ListBets
func (e *Engine) RemoveBet(ctx context.Context, username string, displayIndex int) error {
	var removed model.Bet
	err := e.book.Apply(ctx, username, func(current []model.Bet) ([]model.Bet, float64, error) {
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

	e.logger.Info("bet removed",
		slog.String("username", username),
		slog.String("bet_id", removed.ID),
		slog.Int("index", displayIndex),
	)
	return nil
}

// ListBets returns the user's bets newest first
func (e *Engine) ListBets(username string) ([]model.Bet, error) {
	bets, _, err := e.book.Snapshot(username)
	if err != nil {
		return nil, err
	}
	return ledger.DisplayOrder(bets), nil
}
