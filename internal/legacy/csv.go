package legacy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/aggregate"
	"github.com/mcoot/bankroll/internal/services/poker"
	"github.com/mcoot/bankroll/internal/services/sports"
)

// Column names as written by the original tracker
var (
	pokerColumns = []string{"date", "location", "small_blind", "big_blind", "buy_in", "buy_out", "duration", "elo_change"}
	betColumns   = []string{"date", "sport", "# picks", "bet amount", "amountwonlost", "elochange"}
)

// Date layouts the original wrote, most specific first
var dateLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	model.EntryTimeLayout,
	"2006-01-02",
}

// rowError is a rejected ledger row
type rowError struct {
	line int
	err  error
}

// row gives named access to one CSV record
type row struct {
	index  map[string]int
	fields []string
}

func (r row) str(name string) string {
	return strings.TrimSpace(r.fields[r.index[name]])
}

// num parses a numeric column. Blank cells (NaN when written) read as zero.
func (r row) num(name string) (float64, error) {
	raw := r.str(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	if !aggregate.Finite(v) {
		return 0, fmt.Errorf("column %q: non-finite value %q", name, raw)
	}
	return v, nil
}

func (r row) date() (time.Time, error) {
	raw := r.str("date")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("column \"date\": unrecognised date %q", raw)
}

// readLedger reads path and calls parse for each data row. A missing file is
// an empty ledger. Rows that fail to parse are returned instead of stopping
// the read.
func readLedger[T any](path string, required []string, parse func(row) (T, error)) ([]T, []rowError, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []T{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	records := []T{}
	var rejected []rowError
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		line, _ := reader.FieldPos(0)

		record, err := parse(row{index: index, fields: fields})
		if err != nil {
			rejected = append(rejected, rowError{line: line, err: err})
			continue
		}
		records = append(records, record)
	}
	return records, rejected, nil
}

// readPokerLedger reads a poker_data_<user>.csv. Derived columns are
// recomputed; the stored elo_change is kept as the session's rating delta.
func readPokerLedger(path string) ([]model.PokerSession, []rowError, error) {
	return readLedger(path, pokerColumns, func(r row) (model.PokerSession, error) {
		date, err := r.date()
		if err != nil {
			return model.PokerSession{}, err
		}

		values := make(map[string]float64, 6)
		for _, name := range []string{"small_blind", "big_blind", "buy_in", "buy_out", "duration", "elo_change"} {
			if values[name], err = r.num(name); err != nil {
				return model.PokerSession{}, err
			}
		}

		session, err := poker.NewSession(model.PokerSessionInput{
			Location:   r.str("location"),
			SmallBlind: values["small_blind"],
			BigBlind:   values["big_blind"],
			BuyIn:      values["buy_in"],
			BuyOut:     values["buy_out"],
			Duration:   values["duration"],
		}, model.EntryTime{Time: date})
		if err != nil {
			return model.PokerSession{}, err
		}
		session.RatingDelta = values["elo_change"]
		return session, nil
	})
}

// readBetLedger reads a bet_data_<user>.csv, keeping the stored elochange
func readBetLedger(path string) ([]model.Bet, []rowError, error) {
	return readLedger(path, betColumns, func(r row) (model.Bet, error) {
		date, err := r.date()
		if err != nil {
			return model.Bet{}, err
		}

		values := make(map[string]float64, 4)
		for _, name := range []string{"# picks", "bet amount", "amountwonlost", "elochange"} {
			if values[name], err = r.num(name); err != nil {
				return model.Bet{}, err
			}
		}

		bet, err := sports.NewBet(model.BetInput{
			Sport:         r.str("sport"),
			PickCount:     values["# picks"],
			BetAmount:     values["bet amount"],
			AmountWonLost: values["amountwonlost"],
		}, model.EntryTime{Time: date})
		if err != nil {
			return model.Bet{}, err
		}
		bet.RatingDelta = values["elochange"]
		return bet, nil
	})
}
