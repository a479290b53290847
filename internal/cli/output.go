package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v2"

	"github.com/mcoot/bankroll/internal/api/response"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	switch o.format {
	case OutputJSON:
		o.printJSON(data)
	case OutputYAML:
		o.printYAML(data)
	default:
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == OutputJSON {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	switch o.format {
	case OutputJSON:
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	case OutputYAML:
		o.printYAML(map[string]string{"message": msg})
	default:
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// printYAML renders data with the same field names as the JSON output.
// JSON is valid YAML, so decoding objects into MapSlices keeps key order.
func (o *Output) printYAML(data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		o.PrintError(err)
		return
	}
	var doc any
	switch {
	case bytes.HasPrefix(raw, []byte("{")):
		var ordered yaml.MapSlice
		err = yaml.Unmarshal(raw, &ordered)
		doc = ordered
	case bytes.HasPrefix(raw, []byte("[{")):
		var ordered []yaml.MapSlice
		err = yaml.Unmarshal(raw, &ordered)
		doc = ordered
	default:
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		o.PrintError(err)
		return
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		o.PrintError(err)
		return
	}
	_, _ = o.w.Write(out)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.User:
		o.printUser(v)
	case response.AuthResponse:
		o.printAuth(v)
	case response.RatingChange:
		fmt.Fprintf(o.w, "Rating change: %+.2f\n", v.RatingChange)
	case []response.PokerSession:
		o.printPokerSessions(v)
	case []response.Bet:
		o.printBets(v)
	case response.PokerStats:
		o.printPokerStats(v)
	case response.SportsStats:
		o.printSportsStats(v)
	case response.PokerAdvancedStats:
		o.printPokerAdvanced(v)
	case response.SportsAdvancedStats:
		o.printSportsAdvanced(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printUser(u response.User) {
	fmt.Fprintf(o.w, "User: %s\n", u.Username)
	fmt.Fprintf(o.w, "Poker rating: %.2f\n", u.PokerRating)
	fmt.Fprintf(o.w, "Sports rating: %.2f\n", u.SportsRating)
}

func (o *Output) printAuth(a response.AuthResponse) {
	fmt.Fprintf(o.w, "Logged in as %s\n", a.Username)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
	fmt.Fprintf(o.w, "Expires: %s\n", a.ExpiresAt.Format("2006-01-02 15:04"))
}

func (o *Output) printPokerSessions(sessions []response.PokerSession) {
	if len(sessions) == 0 {
		fmt.Fprintln(o.w, "No sessions recorded")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tLOCATION\tSTAKE\tHOURS\tP/L\tBB\t$/HR\tRATING\tTOTAL")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%g/%g\t%g\t%.2f\t%.2f\t%.2f\t%+.2f\t%.2f\n",
			s.Index, s.Date.Format("2006-01-02 15:04"), s.Location, s.SmallBlind, s.BigBlind,
			s.Duration, s.ProfitLoss, s.BBWon, s.HourlyRate, s.RatingChange, s.CumulativeProfit)
	}
	_ = tw.Flush()
}

func (o *Output) printBets(bets []response.Bet) {
	if len(bets) == 0 {
		fmt.Fprintln(o.w, "No bets recorded")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tSPORT\tPICKS\tSTAKE\tP/L\tRATING\tTOTAL")
	for _, b := range bets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%.2f\t%.2f\t%+.2f\t%.2f\n",
			b.Index, b.Date.Format("2006-01-02 15:04"), b.Sport, b.PickCount,
			b.BetAmount, b.AmountWonLost, b.RatingChange, b.CumulativeProfit)
	}
	_ = tw.Flush()
}

func (o *Output) printPokerStats(s response.PokerStats) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Sessions:\t%d\n", s.TotalGames)
	fmt.Fprintf(tw, "Total profit:\t%.2f\n", s.TotalProfit)
	fmt.Fprintf(tw, "Total BB won:\t%.2f\n", s.TotalBBWon)
	fmt.Fprintf(tw, "Hours played:\t%.2f\n", s.TotalHours)
	fmt.Fprintf(tw, "Avg hourly:\t%.2f\n", s.AvgHourly)
	fmt.Fprintf(tw, "Biggest win:\t%.2f\n", s.BiggestWin)
	fmt.Fprintf(tw, "Biggest loss:\t%.2f\n", s.BiggestLoss)
	fmt.Fprintf(tw, "Win rate:\t%.2f%%\n", s.WinRate)
	fmt.Fprintf(tw, "Rating:\t%.2f\n", s.CurrentRating)
	_ = tw.Flush()
}

func (o *Output) printSportsStats(s response.SportsStats) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Bets:\t%d\n", s.TotalBets)
	fmt.Fprintf(tw, "Total profit:\t%.2f\n", s.TotalProfit)
	fmt.Fprintf(tw, "Total picks:\t%g\n", s.TotalPicks)
	fmt.Fprintf(tw, "Total wagered:\t%.2f\n", s.TotalWagered)
	fmt.Fprintf(tw, "Avg profit:\t%.2f\n", s.AvgProfit)
	fmt.Fprintf(tw, "Biggest win:\t%.2f\n", s.BiggestWin)
	fmt.Fprintf(tw, "Biggest loss:\t%.2f\n", s.BiggestLoss)
	fmt.Fprintf(tw, "Win rate:\t%.2f%%\n", s.WinRate)
	fmt.Fprintf(tw, "Rating:\t%.2f\n", s.CurrentRating)
	_ = tw.Flush()
}

func (o *Output) printPokerAdvanced(s response.PokerAdvancedStats) {
	o.printPokerStats(s.BasicStats)
	if s.Degraded {
		fmt.Fprintln(o.w, "\nBreakdown unavailable: ledger contains invalid values")
		return
	}

	adv := s.AdvancedStats
	o.printGroups("By location", "SESSIONS\tTOTAL\tAVG\tAVG BB", adv.LocationStats.Sessions, func(k string) string {
		return fmt.Sprintf("%d\t%.2f\t%.2f\t%.2f", adv.LocationStats.Sessions[k],
			adv.LocationStats.TotalProfit[k], adv.LocationStats.AvgProfit[k], adv.LocationStats.AvgBBWon[k])
	})
	o.printGroups("By stake", "SESSIONS\tTOTAL\tAVG\tAVG BB\tWIN %", adv.StakeDistribution.Sessions, func(k string) string {
		return fmt.Sprintf("%d\t%.2f\t%.2f\t%.2f\t%.2f", adv.StakeDistribution.Sessions[k],
			adv.StakeDistribution.TotalProfit[k], adv.StakeDistribution.AvgProfit[k],
			adv.StakeDistribution.AvgBBWon[k], adv.StakeWinrates[k].ProfitLoss)
	})
	o.printGroups("By session length", "SESSIONS\tAVG\tAVG BB", adv.SessionLengthAnalysis.SessionCount, func(k string) string {
		return fmt.Sprintf("%d\t%.2f\t%.2f", adv.SessionLengthAnalysis.SessionCount[k],
			adv.SessionLengthAnalysis.AvgProfit[k], adv.SessionLengthAnalysis.AvgBBWon[k])
	})
}

func (o *Output) printSportsAdvanced(s response.SportsAdvancedStats) {
	o.printSportsStats(s.BasicStats)
	if s.Degraded {
		fmt.Fprintln(o.w, "\nBreakdown unavailable: ledger contains invalid values")
		return
	}

	adv := s.AdvancedStats
	o.printGroups("By sport", "BETS\tTOTAL\tAVG\tAVG PICKS", adv.SportsStats.Sessions, func(k string) string {
		return fmt.Sprintf("%d\t%.2f\t%.2f\t%.2f", adv.SportsStats.Sessions[k],
			adv.SportsStats.TotalProfit[k], adv.SportsStats.AvgProfit[k], adv.SportsStats.AvgPicks[k])
	})
	o.printGroups("By bet amount", "BETS\tTOTAL\tAVG\tAVG PICKS", adv.BetAmountStats.SessionCount, func(k string) string {
		return fmt.Sprintf("%d\t%.2f\t%.2f\t%.2f", adv.BetAmountStats.SessionCount[k],
			adv.BetAmountStats.TotalProfit[k], adv.BetAmountStats.AvgProfit[k], adv.BetAmountStats.AvgPicks[k])
	})
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// printGroups prints one table row per key of counts, sorted by key
func (o *Output) printGroups(title, header string, counts map[string]int, row func(key string) string) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(o.w, "\n%s:\n", title)
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\t%s\n", header)
	for _, k := range sortedKeys(counts) {
		fmt.Fprintf(tw, "%s\t%s\n", k, row(k))
	}
	_ = tw.Flush()
}
