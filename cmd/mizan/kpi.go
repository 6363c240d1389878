package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var (
	kpiYear string
	kpiJSON bool
)

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Show the department indicators of a year",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, cfg, err := startService(ctx)
		if err != nil {
			return err
		}
		defer svc.Stop()

		year, err := resolveYear(ctx, svc, kpiYear, cfg.DefaultYear)
		if err != nil {
			return err
		}
		rep, err := svc.Report(ctx, year)
		if err != nil {
			return err
		}
		if kpiJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				KPI    any `json:"kpi"`
				Totals any `json:"totals"`
			}{rep.KPI, rep.Totals})
		}
		renderKPI(cmd.OutOrStdout(), rep)
		return nil
	},
}

func init() {
	kpiCmd.Flags().StringVar(&kpiYear, "year", "", "year or \"all\" (default: current year)")
	kpiCmd.Flags().BoolVar(&kpiJSON, "json", false, "print JSON instead of cards")
}
