package model

import "time"

// EntryTimeLayout is the layout accepted for record dates on input
const EntryTimeLayout = "2006-01-02T15:04"

// Record is implemented by every ledger entry type. R is the concrete
// record type so cumulative totals can be rewritten without mutation.
type Record[R any] interface {
	// OccurredAt is the user-supplied date, used for display order and removal
	OccurredAt() time.Time
	// Outcome is the profit-like field summed into the cumulative total
	Outcome() float64
	// RatingChange is the delta applied to the owner's rating on insert
	RatingChange() float64
	// WithCumulativeProfit returns a copy carrying the given running total
	WithCumulativeProfit(total float64) R
	// Summed lists the fields that statistics add up across records
	Summed() []float64
}

// EntryTime is the result of parsing a record date. Defaulted is set when the
// input could not be parsed and the current time was substituted.
type EntryTime struct {
	Time      time.Time
	Defaulted bool
}

// ParseEntryTime parses raw using EntryTimeLayout, falling back to now
func ParseEntryTime(raw string, now time.Time) EntryTime {
	t, err := time.Parse(EntryTimeLayout, raw)
	if err != nil {
		return EntryTime{Time: now, Defaulted: true}
	}
	return EntryTime{Time: t}
}
