// Command mizan scores faculty activity and serves the department report.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mizan",
	Short: "Faculty activity scoring and department KPIs",
	Long: `mizan loads yearly faculty CSV tables, scores every member with the
configured weights, ranks the active members and computes department KPIs.`,
	SilenceUsage: true,
}

// Global flags. Empty values keep whatever config.Load produced.
var (
	flagDataDir  string
	flagLogLevel string
	flagNoColor  bool
)

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(kpiCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(addActivityCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "dataset root (overrides MIZAN_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug|info|warn|error (overrides MIZAN_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
