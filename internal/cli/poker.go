package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/bankroll/internal/api/response"
)

func newPokerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poker",
		Short: "Poker session commands",
	}

	cmd.AddCommand(newPokerListCmd())
	cmd.AddCommand(newPokerAddCmd())
	cmd.AddCommand(newPokerRemoveCmd())
	cmd.AddCommand(newPokerStatsCmd())
	cmd.AddCommand(newPokerAdvancedCmd())

	return cmd
}

func newPokerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.PokerSession

			if err := client.Get("/api/v1/poker/sessions", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPokerAddCmd() *cobra.Command {
	var (
		location                            string
		smallBlind, bigBlind, buyIn, buyOut float64
		hours                               float64
		date                                string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a poker session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"location":    location,
				"small_blind": smallBlind,
				"big_blind":   bigBlind,
				"buy_in":      buyIn,
				"buy_out":     buyOut,
				"duration":    hours,
				"datetime":    date,
			}
			var result response.RatingChange

			if err := client.Post("/api/v1/poker/sessions", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Where the session was played")
	cmd.Flags().Float64Var(&smallBlind, "sb", 0, "Small blind (required)")
	cmd.Flags().Float64Var(&bigBlind, "bb", 0, "Big blind (required)")
	cmd.Flags().Float64Var(&buyIn, "buy-in", 0, "Total bought in (required)")
	cmd.Flags().Float64Var(&buyOut, "buy-out", 0, "Amount cashed out (required)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Session length in hours (required)")
	cmd.Flags().StringVar(&date, "date", "", "Start time as YYYY-MM-DDTHH:MM (default: now)")
	for _, name := range []string{"sb", "bb", "buy-in", "buy-out", "hours"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newPokerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove a session by its position in 'poker list'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil || index < 0 {
				return fmt.Errorf("index must be a non-negative integer")
			}

			if err := client.Delete(fmt.Sprintf("/api/v1/poker/sessions/%d", index)); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Removed session %d", index))
			return nil
		},
	}
}

func newPokerStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show poker statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PokerStats

			if err := client.Get("/api/v1/poker/stats", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPokerAdvancedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advanced",
		Short: "Show poker statistics with location, stake and session length breakdowns",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PokerAdvancedStats

			if err := client.Get("/api/v1/poker/stats/advanced", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
