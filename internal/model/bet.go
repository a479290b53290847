package model

import "time"

// Bet is one settled sports bet (single or parlay)
type Bet struct {
	ID               string
	Date             time.Time
	Sport            string
	PickCount        float64
	BetAmount        float64
	AmountWonLost    float64
	RatingDelta      float64
	CumulativeProfit float64
}

var _ Record[Bet] = Bet{}

func (b Bet) OccurredAt() time.Time { return b.Date }
func (b Bet) Outcome() float64      { return b.AmountWonLost }
func (b Bet) RatingChange() float64 { return b.RatingDelta }

func (b Bet) Summed() []float64 {
	return []float64{b.AmountWonLost, b.PickCount, b.BetAmount}
}

func (b Bet) WithCumulativeProfit(total float64) Bet {
	b.CumulativeProfit = total
	return b
}

// BetInput holds caller-supplied fields for a new bet
type BetInput struct {
	Sport         string
	PickCount     float64
	BetAmount     float64
	AmountWonLost float64
	DateTime      string
}
