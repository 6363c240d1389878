// Package report assembles the read-only view models served to the
// dashboard: the yearly report and per-member activity detail.
package report

import (
	"time"

	"github.com/okian/mizan/internal/domain/category"
	"github.com/okian/mizan/internal/domain/kpi"
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/internal/domain/scoring"
	"github.com/okian/mizan/pkg/logger"
)

const defaultRecentLimit = 5

// Report is everything the dashboard needs for one year selection.
// KPI is nil when the selection has no active members.
type Report struct {
	Year        string          `json:"year" msgpack:"year"`
	Department  string          `json:"department,omitempty" msgpack:"department,omitempty"`
	University  string          `json:"university,omitempty" msgpack:"university,omitempty"`
	KPI         *kpi.KPI        `json:"kpi" msgpack:"kpi"`
	Leaderboard []scoring.Entry `json:"leaderboard" msgpack:"leaderboard"`
	Totals      Totals          `json:"totals" msgpack:"totals"`
	Recent      []Activity      `json:"recent" msgpack:"recent"`
	GeneratedAt time.Time       `json:"generated_at" msgpack:"generated_at"`
}

// Totals are plain record counts for the summary cards.
type Totals struct {
	Faculty         int `json:"faculty" msgpack:"faculty"`
	Publications    int `json:"publications" msgpack:"publications"`
	Theses          int `json:"theses" msgpack:"theses"`
	CompletedTheses int `json:"completed_theses" msgpack:"completed_theses"`
	Events          int `json:"events" msgpack:"events"`
	Conferences     int `json:"conferences" msgpack:"conferences"`
	Seminars        int `json:"seminars" msgpack:"seminars"`
	Workshops       int `json:"workshops" msgpack:"workshops"`
	Awards          int `json:"awards" msgpack:"awards"`
	Patents         int `json:"patents" msgpack:"patents"`
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithSettings applies the dataset weights, citation table and names.
func WithSettings(s model.Settings) Option {
	return func(b *Builder) {
		b.settings = s
	}
}

// WithResolver sets the category resolver shared by every component.
func WithResolver(r *category.Resolver) Option {
	return func(b *Builder) {
		if r != nil {
			b.resolver = r
		}
	}
}

// WithLogger sets the logger passed to the calculator.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithRecentLimit sets how many recent activities a report carries.
func WithRecentLimit(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.recentLimit = n
		}
	}
}

// WithClock overrides the time source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// Builder wires the calculator and the KPI aggregator for one settings value.
type Builder struct {
	settings    model.Settings
	resolver    *category.Resolver
	log         logger.Logger
	recentLimit int
	now         func() time.Time

	calc *scoring.Calculator
	agg  *kpi.Aggregator
}

// NewBuilder creates a builder. Without WithSettings it uses the defaults.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		settings:    model.DefaultSettings(),
		resolver:    category.NewResolver(),
		log:         logger.Nop(),
		recentLimit: defaultRecentLimit,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.calc = scoring.NewCalculator(
		scoring.WithWeights(scoring.WeightsFromConfig(b.settings.Weights)),
		scoring.WithResolver(b.resolver),
		scoring.WithLogger(b.log),
	)
	// The aggregator gets its own resolver so unknown labels are reported once.
	b.agg = kpi.NewAggregator(kpi.WithCitationsRanges(b.settings.CitationsRanges))
	return b
}

// Calculator exposes the configured point calculator.
func (b *Builder) Calculator() *scoring.Calculator { return b.calc }

// Aggregator exposes the configured KPI aggregator.
func (b *Builder) Aggregator() *kpi.Aggregator { return b.agg }

// Build computes a full report for ds.
func (b *Builder) Build(ds *model.Dataset) *Report {
	if ds == nil {
		ds = &model.Dataset{}
	}
	return &Report{
		Year:        model.YearKey(ds.Year),
		Department:  b.settings.DepartmentName,
		University:  b.settings.UniversityName,
		KPI:         b.agg.Compute(ds),
		Leaderboard: b.calc.Leaderboard(ds),
		Totals:      ComputeTotals(ds),
		Recent:      Recent(ds, b.recentLimit),
		GeneratedAt: b.now().UTC(),
	}
}

// ComputeTotals counts the records of ds by kind.
func ComputeTotals(ds *model.Dataset) Totals {
	if ds == nil {
		return Totals{}
	}
	t := Totals{
		Faculty:      len(ds.ActiveMembers()),
		Publications: len(ds.Publications),
		Theses:       len(ds.Theses),
	}
	for _, th := range ds.Theses {
		if th.Status == model.ThesisCompleted {
			t.CompletedTheses++
		}
	}
	for _, p := range ds.Participations {
		switch category.KindOf(p.Category) {
		case category.KindConference:
			t.Conferences++
		case category.KindSeminar:
			t.Seminars++
		case category.KindWorkshop:
			t.Workshops++
		case category.KindAward:
			t.Awards++
		case category.KindPatent:
			t.Patents++
		case category.KindPublication:
			t.Publications++
		}
	}
	t.Events = t.Conferences + t.Seminars + t.Workshops
	return t
}
