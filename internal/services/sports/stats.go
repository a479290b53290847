package sports

import (
	"log/slog"

	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/aggregate"
)

func picks(b model.Bet) float64     { return b.PickCount }
func betAmount(b model.Bet) float64 { return b.BetAmount }
func sport(b model.Bet) string      { return b.Sport }

// Stats returns the basic rollup of the user's sports ledger
func (e *Engine) Stats(username string) (model.SportsStats, error) {
	bets, rating, err := e.book.Snapshot(username)
	if err != nil {
		return model.SportsStats{}, err
	}
	return basicStats(bets, rating), nil
}

// AdvancedStats returns the rollup with the sport and bet size breakdown.
// Failures degrade to empty groups.
func (e *Engine) AdvancedStats(username string) (model.SportsAdvancedStats, error) {
	bets, rating, err := e.book.Snapshot(username)
	if err != nil {
		return model.SportsAdvancedStats{}, err
	}

	result := model.SportsAdvancedStats{Basic: basicStats(bets, rating)}
	advanced, err := breakdown(bets)
	if err != nil {
		e.logger.Error("sports breakdown failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		result.Degraded = true
		return result, nil
	}
	result.Advanced = advanced
	return result, nil
}

func basicStats(bets []model.Bet, rating float64) model.SportsStats {
	if len(bets) == 0 {
		return model.SportsStats{CurrentRating: aggregate.Round(rating)}
	}

	win, loss := aggregate.Extremes(bets)
	return model.SportsStats{
		TotalBets:     len(bets),
		TotalProfit:   aggregate.Round(aggregate.Sum(bets, model.Bet.Outcome)),
		TotalPicks:    aggregate.Round(aggregate.Sum(bets, picks)),
		TotalWagered:  aggregate.Round(aggregate.Sum(bets, betAmount)),
		AvgProfit:     aggregate.Round(aggregate.Mean(bets, model.Bet.Outcome)),
		BiggestWin:    aggregate.Round(win),
		BiggestLoss:   aggregate.Round(loss),
		WinRate:       aggregate.Round(aggregate.WinRate(bets)),
		CurrentRating: aggregate.Round(rating),
	}
}

func breakdown(bets []model.Bet) (model.SportsBreakdown, error) {
	if len(bets) == 0 {
		return model.SportsBreakdown{}, nil
	}

	err := aggregate.CheckFinite(bets, func(b model.Bet) []float64 {
		return []float64{b.PickCount, b.BetAmount, b.AmountWonLost}
	})
	if err != nil {
		return model.SportsBreakdown{}, err
	}

	return model.SportsBreakdown{
		BySport:     aggregate.SummarizeGroups(aggregate.GroupBy(bets, sport), picks),
		ByBetAmount: aggregate.SummarizeBins(aggregate.BetAmountBins, bets, betAmount, picks),
	}, nil
}
