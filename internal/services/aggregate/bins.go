package aggregate

import (
	"math"

	"github.com/mcoot/bankroll/internal/model"
)

// Bins partitions a numeric field into right-closed intervals
// (Edges[i], Edges[i+1]]. A value equal to the first edge belongs to no bin.
type Bins struct {
	Edges  []float64
	Labels []string
}

// SessionLengthBins groups poker sessions by hours played
var SessionLengthBins = Bins{
	Edges:  []float64{0, 2, 4, 6, 8, math.Inf(1)},
	Labels: []string{"0-2h", "2-4h", "4-6h", "6-8h", "8h+"},
}

// BetAmountBins groups bets by stake size
var BetAmountBins = Bins{
	Edges:  []float64{0, 10, 20, 30, 40, math.Inf(1)},
	Labels: []string{"$0-10", "$10-20", "$20-30", "$30-40", "$40+"},
}

// Index returns the bin v falls in
func (b Bins) Index(v float64) (int, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	for i := 0; i+1 < len(b.Edges); i++ {
		if v > b.Edges[i] && v <= b.Edges[i+1] {
			return i, true
		}
	}
	return 0, false
}

// SummarizeBins aggregates records into every bin of b, in bin order. Empty
// bins are reported with zero values; records outside every bin are not counted.
func SummarizeBins[R model.Record[R]](b Bins, records []R, value, secondary func(R) float64) []model.BinStats {
	buckets := make([][]R, len(b.Labels))
	for _, r := range records {
		if i, ok := b.Index(value(r)); ok && i < len(buckets) {
			buckets[i] = append(buckets[i], r)
		}
	}

	out := make([]model.BinStats, len(b.Labels))
	for i, label := range b.Labels {
		out[i] = model.BinStats{Label: label, GroupStats: Summarize(buckets[i], secondary)}
	}
	return out
}
