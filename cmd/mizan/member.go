package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/okian/mizan/internal/domain/model"
)

var (
	memberYear string
	memberJSON bool
)

var memberCmd = &cobra.Command{
	Use:   "member <id>",
	Short: "Show one member's points and activities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, cfg, err := startService(ctx)
		if err != nil {
			return err
		}
		defer svc.Stop()

		year, err := resolveYear(ctx, svc, memberYear, cfg.DefaultYear)
		if err != nil {
			return err
		}
		detail, err := svc.Member(ctx, year, args[0])
		if err != nil {
			return err
		}
		if memberJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(detail)
		}
		renderMember(cmd.OutOrStdout(), model.YearKey(year), detail)
		return nil
	},
}

func init() {
	memberCmd.Flags().StringVar(&memberYear, "year", "", "year or \"all\" (default: current year)")
	memberCmd.Flags().BoolVar(&memberJSON, "json", false, "print JSON instead of text")
}
