package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/okian/mizan/internal/domain/model"
)

var (
	leaderboardYear  string
	leaderboardLimit int
	leaderboardJSON  bool
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank the active members of a year",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, cfg, err := startService(ctx)
		if err != nil {
			return err
		}
		defer svc.Stop()

		year, err := resolveYear(ctx, svc, leaderboardYear, cfg.DefaultYear)
		if err != nil {
			return err
		}
		entries, err := svc.Leaderboard(ctx, year, leaderboardLimit)
		if err != nil {
			return err
		}
		if leaderboardJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		renderLeaderboard(cmd.OutOrStdout(), "Leaderboard "+model.YearKey(year), entries)
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardYear, "year", "", "year or \"all\" (default: current year)")
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "number of entries to show")
	leaderboardCmd.Flags().BoolVar(&leaderboardJSON, "json", false, "print JSON instead of a table")
}
