package aggregate

import (
	"errors"
	"fmt"

	"github.com/mcoot/bankroll/internal/model"
)

// ErrNonFinite is returned when a record carries a NaN or infinite value
var ErrNonFinite = errors.New("record has a non-finite value")

// Sum adds value(r) over records
func Sum[R any](records []R, value func(R) float64) float64 {
	total := 0.0
	for _, r := range records {
		total += value(r)
	}
	return total
}

// Mean is the average of value(r), or 0 for no records
func Mean[R any](records []R, value func(R) float64) float64 {
	if len(records) == 0 {
		return 0
	}
	return Sum(records, value) / float64(len(records))
}

func outcome[R model.Record[R]](r R) float64 { return r.Outcome() }

// WinRate is the percentage of records with a positive outcome
func WinRate[R model.Record[R]](records []R) float64 {
	if len(records) == 0 {
		return 0
	}
	wins := 0
	for _, r := range records {
		if r.Outcome() > 0 {
			wins++
		}
	}
	return 100 * float64(wins) / float64(len(records))
}

// Extremes returns the largest and smallest outcome, or zeros for no records
func Extremes[R model.Record[R]](records []R) (biggestWin, biggestLoss float64) {
	for i, r := range records {
		v := r.Outcome()
		if i == 0 || v > biggestWin {
			biggestWin = v
		}
		if i == 0 || v < biggestLoss {
			biggestLoss = v
		}
	}
	return biggestWin, biggestLoss
}

// GroupBy partitions records by key, keeping entry order within each group
func GroupBy[K comparable, R any](records []R, key func(R) K) map[K][]R {
	groups := make(map[K][]R)
	for _, r := range records {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	return groups
}

// Summarize computes the rounded group aggregate over records
func Summarize[R model.Record[R]](records []R, secondary func(R) float64) model.GroupStats {
	return RoundGroup(model.GroupStats{
		AvgProfit:    Mean(records, outcome[R]),
		TotalProfit:  Sum(records, outcome[R]),
		Count:        len(records),
		AvgSecondary: Mean(records, secondary),
		WinRate:      WinRate(records),
	})
}

// SummarizeGroups applies Summarize to every group
func SummarizeGroups[K comparable, R model.Record[R]](groups map[K][]R, secondary func(R) float64) map[K]model.GroupStats {
	out := make(map[K]model.GroupStats, len(groups))
	for k, records := range groups {
		out[k] = Summarize(records, secondary)
	}
	return out
}

// CheckFinite returns ErrNonFinite for the first record where any of
// fields(r) is NaN or infinite
func CheckFinite[R any](records []R, fields func(R) []float64) error {
	for i, r := range records {
		for _, v := range fields(r) {
			if !Finite(v) {
				return fmt.Errorf("entry %d: %w", i, ErrNonFinite)
			}
		}
	}
	return nil
}
