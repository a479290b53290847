package poker

import (
	"math"
	"time"

	"github.com/mcoot/bankroll/internal/model"
)

// Stats tests

func (s *EngineSuite) TestStatsEmptyLedger() {
	stats, err := s.engine.Stats("alice")
	s.Require().NoError(err)
	s.Equal(model.PokerStats{CurrentRating: model.DefaultRating}, stats)
}

func (s *EngineSuite) TestStatsUnknownUser() {
	_, err := s.engine.Stats("bob")
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.engine.AdvancedStats("bob")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *EngineSuite) TestStatsRollup() {
	_, err := s.engine.AddSession(s.ctx, "alice", casinoA("2024-01-01T18:00"))
	s.Require().NoError(err)

	loss := casinoA("2024-01-02T18:00")
	loss.BuyOut = 70
	loss.Duration = 3
	_, err = s.engine.AddSession(s.ctx, "alice", loss)
	s.Require().NoError(err)

	stats, err := s.engine.Stats("alice")
	s.Require().NoError(err)
	s.Equal(2, stats.TotalGames)
	s.Equal(20.0, stats.TotalProfit)
	s.Equal(10.0, stats.TotalBBWon)
	s.Equal(7.0, stats.TotalHours)
	s.Equal(1.25, stats.AvgHourly)
	s.Equal(50.0, stats.BiggestWin)
	s.Equal(-30.0, stats.BiggestLoss)
	s.Equal(50.0, stats.WinRate)
	s.Equal(1003.75, stats.CurrentRating)
}

func (s *EngineSuite) TestStatsRoundsToTwoPlaces() {
	in := casinoA("2024-01-01T18:00")
	in.BuyOut = 200
	in.Duration = 3
	_, err := s.engine.AddSession(s.ctx, "alice", in)
	s.Require().NoError(err)

	stats, err := s.engine.Stats("alice")
	s.Require().NoError(err)
	s.Equal(33.33, stats.AvgHourly)
	// 2.5 + 50/3
	s.Equal(1019.17, stats.CurrentRating)
}

// AdvancedStats tests

func (s *EngineSuite) TestAdvancedStatsEmptyLedger() {
	stats, err := s.engine.AdvancedStats("alice")
	s.Require().NoError(err)
	s.False(stats.Degraded)
	s.Empty(stats.Advanced.ByLocation)
	s.Empty(stats.Advanced.ByStake)
	s.Empty(stats.Advanced.ByDuration)
	s.Equal(model.DefaultRating, stats.Basic.CurrentRating)
}

func (s *EngineSuite) TestAdvancedStatsBreakdown() {
	sessions := []model.PokerSessionInput{
		{Location: "Casino A", SmallBlind: 1, BigBlind: 2, BuyIn: 100, BuyOut: 150, Duration: 4, DateTime: "2024-01-01T18:00"},
		{Location: "Casino A", SmallBlind: 1, BigBlind: 2, BuyIn: 100, BuyOut: 50, Duration: 1.5, DateTime: "2024-01-02T18:00"},
		{Location: "Home", SmallBlind: 0.5, BigBlind: 1, BuyIn: 50, BuyOut: 80, Duration: 9, DateTime: "2024-01-03T18:00"},
	}
	for _, in := range sessions {
		_, err := s.engine.AddSession(s.ctx, "alice", in)
		s.Require().NoError(err)
	}

	stats, err := s.engine.AdvancedStats("alice")
	s.Require().NoError(err)
	s.False(stats.Degraded)

	casino := stats.Advanced.ByLocation["Casino A"]
	s.Equal(2, casino.Count)
	s.Equal(0.0, casino.TotalProfit)
	s.Equal(0.0, casino.AvgSecondary)
	s.Equal(50.0, casino.WinRate)

	home := stats.Advanced.ByLocation["Home"]
	s.Equal(1, home.Count)
	s.Equal(30.0, home.AvgProfit)
	s.Equal(30.0, home.AvgSecondary)

	s.Len(stats.Advanced.ByStake, 2)
	s.Equal(2, stats.Advanced.ByStake[model.Stake{SmallBlind: 1, BigBlind: 2}].Count)
	s.Equal(100.0, stats.Advanced.ByStake[model.Stake{SmallBlind: 0.5, BigBlind: 1}].WinRate)

	s.Require().Len(stats.Advanced.ByDuration, 5)
	counts := map[string]int{}
	total := 0
	for _, bin := range stats.Advanced.ByDuration {
		counts[bin.Label] = bin.Count
		total += bin.Count
	}
	s.Equal(map[string]int{"0-2h": 1, "2-4h": 1, "4-6h": 0, "6-8h": 0, "8h+": 1}, counts)
	s.Equal(stats.Basic.TotalGames, total)
}

func (s *EngineSuite) TestAdvancedStatsDegradesOnNonFiniteEntry() {
	corrupt := []model.PokerSession{{
		ID: "bad", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Location: "Casino A",
		SmallBlind: 1, BigBlind: 2, ProfitLoss: 10, BBWon: math.Inf(1), Duration: 2,
	}}
	s.Require().NoError(s.storage.SavePokerSessions(s.ctx, "alice", corrupt))

	store, err := reopen(s)
	s.Require().NoError(err)

	stats, err := store.AdvancedStats("alice")
	s.Require().NoError(err)
	s.True(stats.Degraded)
	s.Empty(stats.Advanced.ByLocation)
	s.Empty(stats.Advanced.ByDuration)
	s.Equal(1, stats.Basic.TotalGames)
	s.Equal(10.0, stats.Basic.TotalProfit)
	s.Equal(0.0, stats.Basic.TotalBBWon)
}
