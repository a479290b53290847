package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bankroll/internal/model"
)

type EntriesSuite struct {
	suite.Suite
}

func TestEntriesSuite(t *testing.T) {
	suite.Run(t, new(EntriesSuite))
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 18, 0, 0, 0, time.UTC)
}

func bet(id string, date time.Time, amount, delta float64) model.Bet {
	return model.Bet{ID: id, Date: date, AmountWonLost: amount, RatingDelta: delta}
}

func ids(bets []model.Bet) []string {
	out := make([]string, len(bets))
	for i, b := range bets {
		out[i] = b.ID
	}
	return out
}

func (s *EntriesSuite) TestRecomputeRunningTotal() {
	records := []model.Bet{
		bet("a", day(1), 10, 0),
		bet("b", day(2), -25, 0),
		bet("c", day(3), 5, 0),
	}

	out := Recompute(records)

	s.Equal(10.0, out[0].CumulativeProfit)
	s.Equal(-15.0, out[1].CumulativeProfit)
	s.Equal(-10.0, out[2].CumulativeProfit)
	s.Zero(records[0].CumulativeProfit, "input must not be modified")
}

func (s *EntriesSuite) TestAppendDoesNotAliasInput() {
	records := make([]model.Bet, 1, 4)
	records[0] = bet("a", day(1), 10, 0)

	next := Append(records, bet("b", day(2), 5, 0))
	next[0].ID = "changed"

	s.Equal("a", records[0].ID)
	s.Equal(15.0, next[1].CumulativeProfit)
}

func (s *EntriesSuite) TestDisplayOrderNewestFirstStable() {
	records := []model.Bet{
		bet("old", day(1), 0, 0),
		bet("tie1", day(3), 0, 0),
		bet("new", day(5), 0, 0),
		bet("tie2", day(3), 0, 0),
	}

	s.Equal([]string{"new", "tie1", "tie2", "old"}, ids(DisplayOrder(records)))
	s.Equal([]string{"old", "tie1", "new", "tie2"}, ids(records))
}

func (s *EntriesSuite) TestRemoveDisplayedNewest() {
	records := Recompute([]model.Bet{
		bet("jan", day(1), 10, 1),
		bet("feb", day(20), 20, 2),
	})

	next, removed, err := RemoveDisplayed(records, 0)

	s.Require().NoError(err)
	s.Equal("feb", removed.ID)
	s.Equal([]string{"jan"}, ids(next))
	s.Equal(10.0, next[0].CumulativeProfit)
}

func (s *EntriesSuite) TestRemoveDisplayedRecomputesCumulative() {
	records := Recompute([]model.Bet{
		bet("a", day(1), 10, 0),
		bet("b", day(2), 20, 0),
		bet("c", day(3), 30, 0),
	})

	// display order is c, b, a
	next, removed, err := RemoveDisplayed(records, 1)

	s.Require().NoError(err)
	s.Equal("b", removed.ID)
	s.Equal([]string{"a", "c"}, ids(next))
	s.Equal(40.0, next[1].CumulativeProfit)
}

func (s *EntriesSuite) TestRemoveDisplayedDuplicateDateTakesFirstEntry() {
	records := []model.Bet{
		bet("first", day(2), 1, 1),
		bet("second", day(2), 2, 2),
	}

	_, removed, err := RemoveDisplayed(records, 1)

	s.Require().NoError(err)
	s.Equal("first", removed.ID)
}

func (s *EntriesSuite) TestRemoveDisplayedOutOfRange() {
	records := []model.Bet{bet("a", day(1), 0, 0)}

	_, _, err := RemoveDisplayed(records, 1)
	s.ErrorIs(err, model.ErrIndexOutOfRange)

	_, _, err = RemoveDisplayed(records, -1)
	s.ErrorIs(err, model.ErrIndexOutOfRange)

	_, _, err = RemoveDisplayed([]model.Bet{}, 0)
	s.ErrorIs(err, model.ErrIndexOutOfRange)
}

func (s *EntriesSuite) TestRating() {
	s.Equal(model.DefaultRating, Rating([]model.Bet{}))
	s.InDelta(1012.5, Rating([]model.Bet{bet("a", day(1), 0, 15), bet("b", day(2), 0, -2.5)}), 1e-9)
}

func (s *EntriesSuite) TestBounded() {
	s.True(Bounded([]model.Bet{}))
	s.True(Bounded([]model.Bet{bet("a", day(1), 1e308, 0), bet("b", day(2), -1e307, 0)}))

	// the running total returns to zero but the winners alone overflow
	s.False(Bounded([]model.Bet{
		bet("a", day(1), 1e308, 0),
		bet("b", day(2), -1e308, 0),
		bet("c", day(3), 1e308, 0),
	}))

	wagers := []model.Bet{
		{ID: "a", Date: day(1), BetAmount: 1e308},
		{ID: "b", Date: day(2), BetAmount: 1e308},
	}
	s.False(Bounded(wagers))
}
