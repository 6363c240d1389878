// Package service loads faculty datasets, computes their reports and keeps
// the published snapshots the HTTP API and the CLI read from.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/mizan/internal/adapters/csvio"
	repository "github.com/okian/mizan/internal/adapters/repository"
	"github.com/okian/mizan/internal/domain/category"
	"github.com/okian/mizan/internal/domain/kpi"
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/internal/domain/report"
	"github.com/okian/mizan/internal/domain/scoring"
	"github.com/okian/mizan/pkg/logger"
	"github.com/okian/mizan/pkg/metrics"
)

// Service implements the API dependencies for the faculty report.
type Service struct {
	mu sync.RWMutex
	// selectMu serialises reloads; a newer selection replaces the snapshot wholesale.
	selectMu sync.Mutex

	// Core components
	loader *csvio.Loader
	writer *csvio.Writer
	store  repository.Store

	// Configuration
	dataDir             string
	recentLimit         int
	maxLeaderboardLimit int
	defaultYear         int
	now                 func() time.Time

	// State
	started bool

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:             "data",
		recentLimit:         5,
		maxLeaderboardLimit: 100,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the loader, the writer and the snapshot store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting report service...", logger.String("dataDir", s.dataDir))

	s.loader = csvio.NewLoader(s.dataDir,
		csvio.WithLogger(s.logger.Named("csvio")),
		csvio.WithTableObserver(func(year int, table string, rows int) {
			metrics.UpdateTableRows(model.YearKey(year), table, rows)
		}),
	)
	s.writer = csvio.NewWriter(s.dataDir)
	if s.store == nil {
		s.store = repository.NewMemoryStore(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "report service started")
	return nil
}

// Stop releases the store's background resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "report service stopped")
}

// Settings reads the dataset configuration.
func (s *Service) Settings(ctx context.Context) (model.Settings, error) {
	if err := s.ready(); err != nil {
		return model.Settings{}, err
	}
	settings, err := s.loader.LoadSettings()
	if err != nil {
		metrics.RecordErrorByComponent("service", "settings")
		s.logger.Error(ctx, "failed to load dataset settings", logger.Error(err))
		return model.Settings{}, err
	}
	return settings, nil
}

// Years lists the selectable years: available_years restricted to the year
// directories present on disk, or every directory when the list is empty.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return s.years(ctx, settings)
}

// DefaultYear is the pinned default year, else the dataset's current year,
// else the latest year on disk.
func (s *Service) DefaultYear(ctx context.Context) (int, error) {
	if s.defaultYear > 0 {
		return s.defaultYear, nil
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return 0, err
	}
	if settings.CurrentYear > 0 {
		return settings.CurrentYear, nil
	}
	years, err := s.years(ctx, settings)
	if err != nil {
		return 0, err
	}
	if len(years) == 0 {
		return 0, ErrNoDataAvailable
	}
	return slices.Max(years), nil
}

// Select loads one year (or every year for model.YearAll), recomputes its
// report from scratch and publishes it.
func (s *Service) Select(ctx context.Context, year int) (*report.Report, error) {
	snap, err := s.reload(ctx, year)
	if err != nil {
		return nil, err
	}
	return snap.Report, nil
}

// Report returns the published report for year, loading it on first use.
func (s *Service) Report(ctx context.Context, year int) (*report.Report, error) {
	snap, err := s.snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	return snap.Report, nil
}

// Leaderboard returns at most limit ranked entries. A non-positive limit or
// one above the configured cap is clamped to the cap.
func (s *Service) Leaderboard(ctx context.Context, year, limit int) ([]scoring.Entry, error) {
	snap, err := s.snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.maxLeaderboardLimit {
		limit = s.maxLeaderboardLimit
	}
	return scoring.Top(snap.Report.Leaderboard, limit), nil
}

// KPI returns the department indicators, or nil when the year has no active members.
func (s *Service) KPI(ctx context.Context, year int) (*kpi.KPI, error) {
	snap, err := s.snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	return snap.Report.KPI, nil
}

// Member returns the activity detail of one member for year.
func (s *Service) Member(ctx context.Context, year int, id string) (*report.MemberDetail, error) {
	snap, err := s.snapshot(ctx, year)
	if err != nil {
		return nil, err
	}
	// Unknown labels were counted when the snapshot was published.
	detail, ok := s.builder(snap.Settings, false).MemberDetail(snap.Dataset, id, snap.Report.Leaderboard)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	return detail, nil
}

// AddActivity appends a participation to the year's CSV and refreshes the
// snapshots that include it.
func (s *Service) AddActivity(ctx context.Context, a csvio.NewActivity) (model.Participation, error) {
	if err := s.ready(); err != nil {
		return model.Participation{}, err
	}
	p, err := s.writer.Append(a)
	if err != nil {
		metrics.RecordErrorByComponent("service", "add_activity")
		return model.Participation{}, err
	}
	s.logger.Info(ctx, "activity added",
		logger.String("id", p.ID),
		logger.Int("year", p.Year),
		logger.String("category", p.Category))

	for _, key := range s.store.Keys(ctx) {
		y, ok := model.ParseYearKey(key)
		if !ok || (y != model.YearAll && y != p.Year) {
			continue
		}
		if _, err := s.reload(ctx, y); err != nil {
			return p, err
		}
	}
	return p, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started": s.started,
		"dataDir": s.dataDir,
	}
	if s.started {
		stats["snapshots"] = s.store.Count(ctx)
		stats["years"] = s.store.Keys(ctx)
		metrics.UpdateSystem()
	}
	return stats
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

func (s *Service) snapshot(ctx context.Context, year int) (repository.Snapshot, error) {
	if err := s.ready(); err != nil {
		return repository.Snapshot{}, err
	}
	snap, err := s.store.Get(ctx, model.YearKey(year))
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return repository.Snapshot{}, err
	}
	return s.reload(ctx, year)
}

func (s *Service) reload(ctx context.Context, year int) (repository.Snapshot, error) {
	if err := s.ready(); err != nil {
		return repository.Snapshot{}, err
	}
	if year < 0 {
		return repository.Snapshot{}, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	s.selectMu.Lock()
	defer s.selectMu.Unlock()

	key := model.YearKey(year)
	start := time.Now()
	settings, ds, err := s.load(ctx, year)
	if err != nil {
		metrics.RecordDatasetLoad(key, metrics.OutcomeError, time.Since(start))
		metrics.RecordErrorByComponent("service", "load")
		s.logger.Error(ctx, "dataset load failed", logger.String("year", key), logger.Error(err))
		return repository.Snapshot{}, err
	}
	metrics.RecordDatasetLoad(key, metrics.OutcomeSuccess, time.Since(start))

	computeStart := time.Now()
	rep := s.builder(settings, true).Build(ds)
	metrics.RecordComputeDuration("report", time.Since(computeStart))

	snap := repository.Snapshot{
		Key:      key,
		Settings: settings,
		Dataset:  ds,
		Report:   rep,
	}
	if err := s.store.Publish(ctx, snap); err != nil {
		return repository.Snapshot{}, err
	}

	s.logger.Info(ctx, "report published",
		logger.String("year", key),
		logger.Int("leaderboard", len(rep.Leaderboard)),
		logger.Duration("took", time.Since(start)))
	return s.store.Get(ctx, key)
}

func (s *Service) load(ctx context.Context, year int) (model.Settings, *model.Dataset, error) {
	settings, err := s.loader.LoadSettings()
	if err != nil {
		return settings, nil, err
	}
	if year != model.YearAll {
		ds, err := s.loader.LoadYear(ctx, year)
		return settings, ds, err
	}
	years, err := s.years(ctx, settings)
	if err != nil {
		return settings, nil, err
	}
	ds, err := s.loader.LoadAll(ctx, years)
	return settings, ds, err
}

func (s *Service) years(ctx context.Context, settings model.Settings) ([]int, error) {
	onDisk, err := s.loader.Years()
	if err != nil {
		return nil, err
	}
	if len(settings.AvailableYears) == 0 {
		return onDisk, nil
	}
	var out []int
	for _, y := range settings.AvailableYears {
		if !slices.Contains(onDisk, y) {
			s.logger.Warn(ctx, "configured year has no data directory", logger.Int("year", y))
			continue
		}
		out = append(out, y)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// builder wires a report builder for settings. countUnknown feeds unknown
// category labels into the metrics; only publishing passes true.
func (s *Service) builder(settings model.Settings, countUnknown bool) *report.Builder {
	opts := []category.Option{category.WithLogger(s.logger.Named("category"))}
	if countUnknown {
		opts = append(opts, category.WithUnknownHook(func(string) { metrics.RecordUnknownLabel("category") }))
	}
	resolver := category.NewResolver(opts...)
	return report.NewBuilder(
		report.WithSettings(settings),
		report.WithResolver(resolver),
		report.WithLogger(s.logger.Named("report")),
		report.WithRecentLimit(s.recentLimit),
		report.WithClock(s.now),
	)
}
