package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	app "github.com/okian/mizan/internal/app"
	"github.com/okian/mizan/internal/config"
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/pkg/logger"
)

// loadConfig layers the global flags over config.Load and initialises logging.
func loadConfig(ctx context.Context, logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagNoColor {
		color.NoColor = true
	}

	if err := logger.Init(
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithWriter(logOut),
	); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// startService loads the config and starts a service for a one-shot command.
// Logs go to stderr so stdout stays clean for reports.
func startService(ctx context.Context) (*app.Service, *config.Config, error) {
	cfg, err := loadConfig(ctx, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	svc := app.New(
		app.WithDataDir(cfg.DataDir),
		app.WithLogger(logger.Named("service")),
		app.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		app.WithDefaultYear(cfg.DefaultYear),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("start service: %w", err)
	}
	return svc, cfg, nil
}

// resolveYear turns the --year flag into a year selection. Empty means the
// configured default year, then the dataset's current year.
func resolveYear(ctx context.Context, svc *app.Service, raw string, fallback int) (int, error) {
	if raw == "" {
		if fallback > 0 {
			return fallback, nil
		}
		return svc.DefaultYear(ctx)
	}
	y, ok := model.ParseYearKey(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %q", app.ErrInvalidYear, raw)
	}
	return y, nil
}
