package response

import (
	"time"

	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/auth"
)

// User represents a user in API responses
type User struct {
	Username     string    `json:"username"`
	PokerRating  float64   `json:"poker_rating"`
	SportsRating float64   `json:"sports_rating"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u model.User) User {
	return User{
		Username:     u.Username,
		PokerRating:  u.PokerRating,
		SportsRating: u.SportsRating,
		CreatedAt:    u.CreatedAt,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Username     string    `json:"username"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Username:     s.Username,
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// RatingChange is returned after a record is added
type RatingChange struct {
	RatingChange float64 `json:"rating_change"`
}

// PokerSession represents a poker session in API responses. Index is the
// position to pass when removing it.
type PokerSession struct {
	Index            int       `json:"index"`
	ID               string    `json:"id"`
	Date             time.Time `json:"date"`
	Location         string    `json:"location"`
	SmallBlind       float64   `json:"small_blind"`
	BigBlind         float64   `json:"big_blind"`
	BuyIn            float64   `json:"buy_in"`
	BuyOut           float64   `json:"buy_out"`
	Duration         float64   `json:"duration"`
	ProfitLoss       float64   `json:"profit_loss"`
	BBWon            float64   `json:"bb_won"`
	RatingChange     float64   `json:"rating_change"`
	HourlyRate       float64   `json:"hourly_rate"`
	CumulativeProfit float64   `json:"cumulative_profit"`
}

// PokerSessionsFromModel converts sessions already in display order
func PokerSessionsFromModel(sessions []model.PokerSession) []PokerSession {
	out := make([]PokerSession, len(sessions))
	for i, s := range sessions {
		out[i] = PokerSession{
			Index:            i,
			ID:               s.ID,
			Date:             s.Date,
			Location:         s.Location,
			SmallBlind:       s.SmallBlind,
			BigBlind:         s.BigBlind,
			BuyIn:            s.BuyIn,
			BuyOut:           s.BuyOut,
			Duration:         s.Duration,
			ProfitLoss:       s.ProfitLoss,
			BBWon:            s.BBWon,
			RatingChange:     s.RatingDelta,
			HourlyRate:       s.HourlyRate,
			CumulativeProfit: s.CumulativeProfit,
		}
	}
	return out
}

// Bet represents a sports bet in API responses
type Bet struct {
	Index            int       `json:"index"`
	ID               string    `json:"id"`
	Date             time.Time `json:"date"`
	Sport            string    `json:"sport"`
	PickCount        float64   `json:"pick_count"`
	BetAmount        float64   `json:"bet_amount"`
	AmountWonLost    float64   `json:"amount_won_lost"`
	RatingChange     float64   `json:"rating_change"`
	CumulativeProfit float64   `json:"cumulative_profit"`
}

// BetsFromModel converts bets already in display order
func BetsFromModel(bets []model.Bet) []Bet {
	out := make([]Bet, len(bets))
	for i, b := range bets {
		out[i] = Bet{
			Index:            i,
			ID:               b.ID,
			Date:             b.Date,
			Sport:            b.Sport,
			PickCount:        b.PickCount,
			BetAmount:        b.BetAmount,
			AmountWonLost:    b.AmountWonLost,
			RatingChange:     b.RatingDelta,
			CumulativeProfit: b.CumulativeProfit,
		}
	}
	return out
}

// PokerStats is the basic poker rollup
type PokerStats struct {
	TotalGames    int     `json:"total_games"`
	TotalProfit   float64 `json:"total_profit"`
	TotalBBWon    float64 `json:"total_bb_won"`
	TotalHours    float64 `json:"total_hours"`
	AvgHourly     float64 `json:"avg_hourly"`
	BiggestWin    float64 `json:"biggest_win"`
	BiggestLoss   float64 `json:"biggest_loss"`
	WinRate       float64 `json:"win_rate"`
	CurrentRating float64 `json:"current_rating"`
}

// PokerStatsFromModel converts model.PokerStats
func PokerStatsFromModel(s model.PokerStats) PokerStats {
	return PokerStats(s)
}

// SportsStats is the basic sports rollup
type SportsStats struct {
	TotalBets     int     `json:"total_bets"`
	TotalProfit   float64 `json:"total_profit"`
	TotalPicks    float64 `json:"total_picks"`
	TotalWagered  float64 `json:"total_wagered"`
	AvgProfit     float64 `json:"avg_profit"`
	BiggestWin    float64 `json:"biggest_win"`
	BiggestLoss   float64 `json:"biggest_loss"`
	WinRate       float64 `json:"win_rate"`
	CurrentRating float64 `json:"current_rating"`
}

// SportsStatsFromModel converts model.SportsStats
func SportsStatsFromModel(s model.SportsStats) SportsStats {
	return SportsStats(s)
}

// PokerGroupColumns lays out per-group poker aggregates one metric per map,
// each keyed by group label
type PokerGroupColumns struct {
	AvgProfit   map[string]float64 `json:"avg_profit"`
	TotalProfit map[string]float64 `json:"total_profit"`
	Sessions    map[string]int     `json:"sessions"`
	AvgBBWon    map[string]float64 `json:"avg_bb_won"`
}

// SessionLengthColumns lays out the session length bins
type SessionLengthColumns struct {
	AvgProfit    map[string]float64 `json:"avg_profit"`
	SessionCount map[string]int     `json:"session_count"`
	AvgBBWon     map[string]float64 `json:"avg_bb_won"`
}

// WinRate is a per-group win percentage
type WinRate struct {
	ProfitLoss float64 `json:"profit_loss"`
}

// PokerBreakdown is the poker advanced stats body
type PokerBreakdown struct {
	LocationStats         PokerGroupColumns    `json:"location_stats"`
	StakeDistribution     PokerGroupColumns    `json:"stake_distribution"`
	StakeWinrates         map[string]WinRate   `json:"stake_winrates"`
	SessionLengthAnalysis SessionLengthColumns `json:"session_length_analysis"`
}

// PokerAdvancedStats pairs basic and advanced poker stats
type PokerAdvancedStats struct {
	BasicStats    PokerStats     `json:"basic_stats"`
	AdvancedStats PokerBreakdown `json:"advanced_stats"`
	Degraded      bool           `json:"degraded"`
}

// PokerAdvancedStatsFromModel converts model.PokerAdvancedStats
func PokerAdvancedStatsFromModel(s model.PokerAdvancedStats) PokerAdvancedStats {
	byStake := stakeLabels(s.Advanced.ByStake)

	winrates := make(map[string]WinRate, len(byStake))
	for label, g := range byStake {
		winrates[label] = WinRate{ProfitLoss: g.WinRate}
	}

	length := SessionLengthColumns{
		AvgProfit:    make(map[string]float64),
		SessionCount: make(map[string]int),
		AvgBBWon:     make(map[string]float64),
	}
	for _, bin := range s.Advanced.ByDuration {
		length.AvgProfit[bin.Label] = bin.AvgProfit
		length.SessionCount[bin.Label] = bin.Count
		length.AvgBBWon[bin.Label] = bin.AvgSecondary
	}

	return PokerAdvancedStats{
		BasicStats: PokerStatsFromModel(s.Basic),
		AdvancedStats: PokerBreakdown{
			LocationStats:         pokerColumns(s.Advanced.ByLocation),
			StakeDistribution:     pokerColumns(byStake),
			StakeWinrates:         winrates,
			SessionLengthAnalysis: length,
		},
		Degraded: s.Degraded,
	}
}

func stakeLabels(groups map[model.Stake]model.GroupStats) map[string]model.GroupStats {
	out := make(map[string]model.GroupStats, len(groups))
	for stake, g := range groups {
		out[stake.String()] = g
	}
	return out
}

func pokerColumns(groups map[string]model.GroupStats) PokerGroupColumns {
	cols := PokerGroupColumns{
		AvgProfit:   make(map[string]float64, len(groups)),
		TotalProfit: make(map[string]float64, len(groups)),
		Sessions:    make(map[string]int, len(groups)),
		AvgBBWon:    make(map[string]float64, len(groups)),
	}
	for label, g := range groups {
		cols.AvgProfit[label] = g.AvgProfit
		cols.TotalProfit[label] = g.TotalProfit
		cols.Sessions[label] = g.Count
		cols.AvgBBWon[label] = g.AvgSecondary
	}
	return cols
}

// SportsGroupColumns lays out per-sport aggregates
type SportsGroupColumns struct {
	AvgProfit   map[string]float64 `json:"avg_profit"`
	TotalProfit map[string]float64 `json:"total_profit"`
	Sessions    map[string]int     `json:"sessions"`
	AvgPicks    map[string]float64 `json:"avg_picks"`
}

// BetAmountColumns lays out the bet size bins
type BetAmountColumns struct {
	AvgProfit    map[string]float64 `json:"avg_profit"`
	TotalProfit  map[string]float64 `json:"total_profit"`
	SessionCount map[string]int     `json:"session_count"`
	AvgPicks     map[string]float64 `json:"avg_picks"`
}

// SportsBreakdown is the sports advanced stats body
type SportsBreakdown struct {
	SportsStats    SportsGroupColumns `json:"sports_stats"`
	BetAmountStats BetAmountColumns   `json:"betamount_stats"`
}

// SportsAdvancedStats pairs basic and advanced sports stats
type SportsAdvancedStats struct {
	BasicStats    SportsStats     `json:"basic_stats"`
	AdvancedStats SportsBreakdown `json:"advanced_stats"`
	Degraded      bool            `json:"degraded"`
}

// SportsAdvancedStatsFromModel converts model.SportsAdvancedStats
func SportsAdvancedStatsFromModel(s model.SportsAdvancedStats) SportsAdvancedStats {
	sports := SportsGroupColumns{
		AvgProfit:   make(map[string]float64, len(s.Advanced.BySport)),
		TotalProfit: make(map[string]float64, len(s.Advanced.BySport)),
		Sessions:    make(map[string]int, len(s.Advanced.BySport)),
		AvgPicks:    make(map[string]float64, len(s.Advanced.BySport)),
	}
	for label, g := range s.Advanced.BySport {
		sports.AvgProfit[label] = g.AvgProfit
		sports.TotalProfit[label] = g.TotalProfit
		sports.Sessions[label] = g.Count
		sports.AvgPicks[label] = g.AvgSecondary
	}

	amounts := BetAmountColumns{
		AvgProfit:    make(map[string]float64),
		TotalProfit:  make(map[string]float64),
		SessionCount: make(map[string]int),
		AvgPicks:     make(map[string]float64),
	}
	for _, bin := range s.Advanced.ByBetAmount {
		amounts.AvgProfit[bin.Label] = bin.AvgProfit
		amounts.TotalProfit[bin.Label] = bin.TotalProfit
		amounts.SessionCount[bin.Label] = bin.Count
		amounts.AvgPicks[bin.Label] = bin.AvgSecondary
	}

	return SportsAdvancedStats{
		BasicStats: SportsStatsFromModel(s.Basic),
		AdvancedStats: SportsBreakdown{
			SportsStats:    sports,
			BetAmountStats: amounts,
		},
		Degraded: s.Degraded,
	}
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
