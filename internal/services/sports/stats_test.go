package sports

import (
	"github.com/mcoot/bankroll/internal/model"
)

func (s *EngineSuite) addBets(bets ...model.BetInput) {
	for _, b := range bets {
		_, err := s.engine.AddBet(s.ctx, "alice", b)
		s.Require().NoError(err)
	}
}

func (s *EngineSuite) TestStatsEmptyLedger() {
	stats, err := s.engine.Stats("alice")
	s.Require().NoError(err)
	s.Equal(model.SportsStats{CurrentRating: model.DefaultRating}, stats)
}

func (s *EngineSuite) TestStatsRollup() {
	s.addBets(
		model.BetInput{Sport: "NBA", PickCount: 3, BetAmount: 10, AmountWonLost: -10, DateTime: "2024-01-01T12:00"},
		model.BetInput{Sport: "NFL", PickCount: 1, BetAmount: 25, AmountWonLost: 22.5, DateTime: "2024-01-02T12:00"},
	)

	stats, err := s.engine.Stats("alice")
	s.Require().NoError(err)
	s.Equal(2, stats.TotalBets)
	s.Equal(12.5, stats.TotalProfit)
	s.Equal(4.0, stats.TotalPicks)
	s.Equal(35.0, stats.TotalWagered)
	s.Equal(6.25, stats.AvgProfit)
	s.Equal(22.5, stats.BiggestWin)
	s.Equal(-10.0, stats.BiggestLoss)
	s.Equal(50.0, stats.WinRate)
	// (-4.8 + 10) + (2.5 + 22.5)
	s.Equal(1030.2, stats.CurrentRating)
}

func (s *EngineSuite) TestAdvancedStatsEmptyLedger() {
	stats, err := s.engine.AdvancedStats("alice")
	s.Require().NoError(err)
	s.False(stats.Degraded)
	s.Empty(stats.Advanced.BySport)
	s.Empty(stats.Advanced.ByBetAmount)
}

func (s *EngineSuite) TestAdvancedStatsBreakdown() {
	s.addBets(
		model.BetInput{Sport: "NBA", PickCount: 3, BetAmount: 10, AmountWonLost: -10, DateTime: "2024-01-01T12:00"},
		model.BetInput{Sport: "NBA", PickCount: 2, BetAmount: 10.5, AmountWonLost: 30, DateTime: "2024-01-02T12:00"},
		model.BetInput{Sport: "NFL", PickCount: 1, BetAmount: 50, AmountWonLost: 45, DateTime: "2024-01-03T12:00"},
	)

	stats, err := s.engine.AdvancedStats("alice")
	s.Require().NoError(err)
	s.False(stats.Degraded)

	nba := stats.Advanced.BySport["NBA"]
	s.Equal(2, nba.Count)
	s.Equal(20.0, nba.TotalProfit)
	s.Equal(10.0, nba.AvgProfit)
	s.Equal(2.5, nba.AvgSecondary)

	s.Require().Len(stats.Advanced.ByBetAmount, 5)
	counts := map[string]int{}
	total := 0
	for _, bin := range stats.Advanced.ByBetAmount {
		counts[bin.Label] = bin.Count
		total += bin.Count
	}
	s.Equal(map[string]int{"$0-10": 1, "$10-20": 1, "$20-30": 0, "$30-40": 0, "$40+": 1}, counts)
	s.Equal(stats.Basic.TotalBets, total)
}

func (s *EngineSuite) TestAdvancedStatsFreeBetIsInNoBin() {
	s.addBets(model.BetInput{Sport: "NBA", PickCount: 1, BetAmount: 0, AmountWonLost: 5, DateTime: "2024-01-01T12:00"})

	stats, err := s.engine.AdvancedStats("alice")
	s.Require().NoError(err)

	total := 0
	for _, bin := range stats.Advanced.ByBetAmount {
		total += bin.Count
	}
	s.Zero(total)
	s.Equal(1, stats.Advanced.BySport["NBA"].Count)
}
