package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/mizan/internal/adapters/csvio"
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/internal/domain/scoring"
	"github.com/okian/mizan/internal/seed"
	"github.com/okian/mizan/pkg/logger"
)

const (
	defaultSeedMembers = 40
	defaultSeedValue   = 1
)

var (
	seedYears   []int
	seedMembers int
	seedValue   uint64
	seedVerify  bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write a synthetic dataset into the data directory",
	Long: `seed generates faculty, theses, publications and participations for the
given years with a fixed PRNG seed. With --verify it reloads the written
tables and checks every leaderboard against the generated breakdowns.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(ctx, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		log := logger.Named("seed")

		exp, stats, err := seed.Generate(ctx, seed.Config{
			Dir:     cfg.DataDir,
			Years:   seedYears,
			Members: seedMembers,
			Seed:    seedValue,
		})
		if err != nil {
			return err
		}
		log.Info(ctx, "dataset written",
			logger.String("dir", cfg.DataDir),
			logger.Int("theses", stats.Theses),
			logger.Int("publications", stats.Publications),
			logger.Int("participations", stats.Participations),
			logger.Duration("took", stats.Duration))

		if !seedVerify {
			return nil
		}
		loader := csvio.NewLoader(cfg.DataDir)
		calc := scoring.NewCalculator(scoring.WithLogger(log))
		check := func(key string, ds *model.Dataset) error {
			if err := seed.Verify(calc.Leaderboard(ds), key, exp, calc.Weights()); err != nil {
				return fmt.Errorf("verify %s: %w", key, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-6s ok\n", key)
			return nil
		}
		for _, year := range seedYears {
			ds, err := loader.LoadYear(ctx, year)
			if err != nil {
				return err
			}
			if err := check(model.YearKey(year), ds); err != nil {
				return err
			}
		}
		all, err := loader.LoadAll(ctx, seedYears)
		if err != nil {
			return err
		}
		return check(model.YearKey(model.YearAll), all)
	},
}

func init() {
	seedCmd.Flags().IntSliceVar(&seedYears, "years", []int{2024, 2025}, "years to generate")
	seedCmd.Flags().IntVar(&seedMembers, "members", defaultSeedMembers, "faculty members per year")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", defaultSeedValue, "PRNG seed")
	seedCmd.Flags().BoolVar(&seedVerify, "verify", false, "reload the tables and verify the leaderboards")
}
