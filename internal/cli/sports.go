package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/bankroll/internal/api/response"
)

func newSportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sports",
		Short: "Sports bet commands",
	}

	cmd.AddCommand(newSportsListCmd())
	cmd.AddCommand(newSportsAddCmd())
	cmd.AddCommand(newSportsRemoveCmd())
	cmd.AddCommand(newSportsStatsCmd())
	cmd.AddCommand(newSportsAdvancedCmd())

	return cmd
}

func newSportsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bets, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Bet

			if err := client.Get("/api/v1/sports/bets", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSportsAddCmd() *cobra.Command {
	var (
		sport                  string
		picks, amount, wonLost float64
		date                   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a sports bet",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"sport":           sport,
				"pick_count":      picks,
				"bet_amount":      amount,
				"amount_won_lost": wonLost,
				"datetime":        date,
			}
			var result response.RatingChange

			if err := client.Post("/api/v1/sports/bets", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sport, "sport", "", "Sport or league")
	cmd.Flags().Float64Var(&picks, "picks", 0, "Number of picks in the bet (required)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount wagered (required)")
	cmd.Flags().Float64Var(&wonLost, "won-lost", 0, "Net result, negative for a loss (required)")
	cmd.Flags().StringVar(&date, "date", "", "Time of the bet as YYYY-MM-DDTHH:MM (default: now)")
	for _, name := range []string{"picks", "amount", "won-lost"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newSportsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove a bet by its position in 'sports list'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil || index < 0 {
				return fmt.Errorf("index must be a non-negative integer")
			}

			if err := client.Delete(fmt.Sprintf("/api/v1/sports/bets/%d", index)); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Removed bet %d", index))
			return nil
		},
	}
}

func newSportsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show sports statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SportsStats

			if err := client.Get("/api/v1/sports/stats", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSportsAdvancedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advanced",
		Short: "Show sports statistics with sport and bet amount breakdowns",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SportsAdvancedStats

			if err := client.Get("/api/v1/sports/stats/advanced", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
