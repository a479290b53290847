package poker

import (
	"log/slog"

	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/aggregate"
)

func bbWon(s model.PokerSession) float64      { return s.BBWon }
func duration(s model.PokerSession) float64   { return s.Duration }
func hourlyRate(s model.PokerSession) float64 { return s.HourlyRate }

func location(s model.PokerSession) string   { return s.Location }
func stake(s model.PokerSession) model.Stake { return s.Stake() }

// Stats returns the basic rollup of the user's poker ledger
func (e *Engine) Stats(username string) (model.PokerStats, error) {
	sessions, rating, err := e.book.Snapshot(username)
	if err != nil {
		return model.PokerStats{}, err
	}
	return basicStats(sessions, rating), nil
}

// AdvancedStats returns the rollup together with the location, stake and
// session length breakdown. A breakdown that cannot be computed is logged
// and reported as Degraded with empty groups.
func (e *Engine) AdvancedStats(username string) (model.PokerAdvancedStats, error) {
	sessions, rating, err := e.book.Snapshot(username)
	if err != nil {
		return model.PokerAdvancedStats{}, err
	}

	result := model.PokerAdvancedStats{Basic: basicStats(sessions, rating)}
	advanced, err := breakdown(sessions)
	if err != nil {
		e.logger.Error("poker breakdown failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		result.Degraded = true
		return result, nil
	}
	result.Advanced = advanced
	return result, nil
}

func basicStats(sessions []model.PokerSession, rating float64) model.PokerStats {
	if len(sessions) == 0 {
		return model.PokerStats{CurrentRating: aggregate.Round(rating)}
	}

	win, loss := aggregate.Extremes(sessions)
	return model.PokerStats{
		TotalGames:    len(sessions),
		TotalProfit:   aggregate.Round(aggregate.Sum(sessions, model.PokerSession.Outcome)),
		TotalBBWon:    aggregate.Round(aggregate.Sum(sessions, bbWon)),
		TotalHours:    aggregate.Round(aggregate.Sum(sessions, duration)),
		AvgHourly:     aggregate.Round(aggregate.Mean(sessions, hourlyRate)),
		BiggestWin:    aggregate.Round(win),
		BiggestLoss:   aggregate.Round(loss),
		WinRate:       aggregate.Round(aggregate.WinRate(sessions)),
		CurrentRating: aggregate.Round(rating),
	}
}

// breakdown is empty for an empty ledger
func breakdown(sessions []model.PokerSession) (model.PokerBreakdown, error) {
	if len(sessions) == 0 {
		return model.PokerBreakdown{}, nil
	}

	err := aggregate.CheckFinite(sessions, func(s model.PokerSession) []float64 {
		return []float64{s.SmallBlind, s.BigBlind, s.ProfitLoss, s.BBWon, s.Duration}
	})
	if err != nil {
		return model.PokerBreakdown{}, err
	}

	return model.PokerBreakdown{
		ByLocation: aggregate.SummarizeGroups(aggregate.GroupBy(sessions, location), bbWon),
		ByStake:    aggregate.SummarizeGroups(aggregate.GroupBy(sessions, stake), bbWon),
		ByDuration: aggregate.SummarizeBins(aggregate.SessionLengthBins, sessions, duration, bbWon),
	}, nil
}
