package model

// GroupStats aggregates the records sharing one group key or bin.
// Secondary is the mean of the subsystem's secondary metric
// (big blinds won for poker, picks for sports).
type GroupStats struct {
	AvgProfit    float64
	TotalProfit  float64
	Count        int
	AvgSecondary float64
	WinRate      float64 // percentage of records with a positive outcome
}

// BinStats is the aggregate for one labelled numeric bin
type BinStats struct {
	Label string
	GroupStats
}

// PokerStats is the basic rollup over a poker ledger
type PokerStats struct {
	TotalGames    int
	TotalProfit   float64
	TotalBBWon    float64
	TotalHours    float64
	AvgHourly     float64
	BiggestWin    float64
	BiggestLoss   float64
	WinRate       float64
	CurrentRating float64
}

// PokerBreakdown groups a poker ledger by location, stake and session length
type PokerBreakdown struct {
	ByLocation map[string]GroupStats
	ByStake    map[Stake]GroupStats
	ByDuration []BinStats
}

// PokerAdvancedStats pairs the rollup with the breakdown. Degraded is set
// when the breakdown could not be computed and was replaced by empty groups.
type PokerAdvancedStats struct {
	Basic    PokerStats
	Advanced PokerBreakdown
	Degraded bool
}

// SportsStats is the basic rollup over a sports ledger
type SportsStats struct {
	TotalBets     int
	TotalProfit   float64
	TotalPicks    float64
	TotalWagered  float64
	AvgProfit     float64
	BiggestWin    float64
	BiggestLoss   float64
	WinRate       float64
	CurrentRating float64
}

// SportsBreakdown groups a sports ledger by sport and bet size
type SportsBreakdown struct {
	BySport     map[string]GroupStats
	ByBetAmount []BinStats
}

// SportsAdvancedStats pairs the rollup with the breakdown
type SportsAdvancedStats struct {
	Basic    SportsStats
	Advanced SportsBreakdown
	Degraded bool
}
