package ledger

import (
	"math"
	"sort"

	"github.com/mcoot/bankroll/internal/model"
)

// Recompute returns a copy of records with cumulative profit rewritten as the
// running total of outcomes in entry order
func Recompute[R model.Record[R]](records []R) []R {
	out := make([]R, len(records))
	total := 0.0
	for i, r := range records {
		total += r.Outcome()
		out[i] = r.WithCumulativeProfit(total)
	}
	return out
}

// Bounded reports whether every sum statistics can take over records stays
// finite. Absolute values are summed per field so any subset, including the
// running cumulative profit, is bounded too.
func Bounded[R model.Record[R]](records []R) bool {
	var totals []float64
	for _, r := range records {
		fields := r.Summed()
		if totals == nil {
			totals = make([]float64, len(fields))
		}
		for i, v := range fields {
			totals[i] += math.Abs(v)
			if math.IsNaN(totals[i]) || math.IsInf(totals[i], 0) {
				return false
			}
		}
	}
	return true
}

// Append returns a new ledger with r added at the end of entry order
func Append[R model.Record[R]](records []R, r R) []R {
	next := make([]R, 0, len(records)+1)
	next = append(next, records...)
	next = append(next, r)
	return Recompute(next)
}

// DisplayOrder returns a copy of records sorted newest date first. Records
// with equal dates keep their entry order.
func DisplayOrder[R model.Record[R]](records []R) []R {
	out := make([]R, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt().After(out[j].OccurredAt())
	})
	return out
}

// RemoveDisplayed removes the record shown at displayIndex in DisplayOrder.
// The record is located in entry order by date equality, first match wins,
// so two records with the same date cannot be told apart.
func RemoveDisplayed[R model.Record[R]](records []R, displayIndex int) ([]R, R, error) {
	var removed R
	if displayIndex < 0 || displayIndex >= len(records) {
		return nil, removed, model.ErrIndexOutOfRange
	}

	target := DisplayOrder(records)[displayIndex].OccurredAt()
	pos := -1
	for i, r := range records {
		if r.OccurredAt().Equal(target) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, removed, model.ErrRecordNotFound
	}

	removed = records[pos]
	next := make([]R, 0, len(records)-1)
	next = append(next, records[:pos]...)
	next = append(next, records[pos+1:]...)
	return Recompute(next), removed, nil
}

// Rating is the rating implied by a ledger: the default plus every delta
func Rating[R model.Record[R]](records []R) float64 {
	rating := model.DefaultRating
	for _, r := range records {
		rating += r.RatingChange()
	}
	return rating
}
