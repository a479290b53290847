package model

import (
	"strconv"
	"strings"
	"time"
)

// PokerSession is one played poker session
type PokerSession struct {
	ID               string
	Date             time.Time
	Location         string
	SmallBlind       float64
	BigBlind         float64
	BuyIn            float64
	BuyOut           float64
	Duration         float64 // hours
	ProfitLoss       float64 // BuyOut - BuyIn
	BBWon            float64 // ProfitLoss / BigBlind
	RatingDelta      float64
	HourlyRate       float64
	CumulativeProfit float64
}

var _ Record[PokerSession] = PokerSession{}

func (s PokerSession) OccurredAt() time.Time { return s.Date }
func (s PokerSession) Outcome() float64      { return s.ProfitLoss }
func (s PokerSession) RatingChange() float64 { return s.RatingDelta }

func (s PokerSession) Summed() []float64 {
	return []float64{s.ProfitLoss, s.BBWon, s.Duration, s.HourlyRate}
}

func (s PokerSession) WithCumulativeProfit(total float64) PokerSession {
	s.CumulativeProfit = total
	return s
}

// Stake returns the blind level the session was played at
func (s PokerSession) Stake() Stake {
	return Stake{SmallBlind: s.SmallBlind, BigBlind: s.BigBlind}
}

// Stake is the composite (small blind, big blind) group key
type Stake struct {
	SmallBlind float64
	BigBlind   float64
}

// String formats the stake as "sb,bb" with every value carrying a decimal
// point ("1.0,2.0"), the key format clients already consume.
func (s Stake) String() string {
	return formatBlind(s.SmallBlind) + "," + formatBlind(s.BigBlind)
}

func formatBlind(v float64) string {
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(out, ".eEnN") {
		out += ".0"
	}
	return out
}

// PokerSessionInput holds caller-supplied fields for a new session
type PokerSessionInput struct {
	Location   string
	SmallBlind float64
	BigBlind   float64
	BuyIn      float64
	BuyOut     float64
	Duration   float64
	DateTime   string // EntryTimeLayout; unparseable values fall back to now
}
