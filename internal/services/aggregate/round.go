package aggregate

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mcoot/bankroll/internal/model"
)

// Places is the number of decimal places aggregates are reported with
const Places = 2

// Round returns v rounded half away from zero to Places decimals.
// NaN and infinities become 0.
func Round(v float64) float64 {
	if !Finite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(Places).InexactFloat64()
}

// Finite reports whether v is neither NaN nor infinite
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RoundGroup rounds every float in g
func RoundGroup(g model.GroupStats) model.GroupStats {
	g.AvgProfit = Round(g.AvgProfit)
	g.TotalProfit = Round(g.TotalProfit)
	g.AvgSecondary = Round(g.AvgSecondary)
	g.WinRate = Round(g.WinRate)
	return g
}
