package csvio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/sync/errgroup"

	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/pkg/logger"
)

// Table file names, without the .csv extension.
const (
	TableFaculty        = "faculty"
	TableStudents       = "students_count"
	TableTheses         = "theses"
	TablePublications   = "publications"
	TableParticipations = "participations"
	TableEvents         = "events"
	TableAwards         = "awards"
)

// SettingsFile is the dataset configuration file at the data root.
const SettingsFile = "config.json"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets the loader logger.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// WithTableObserver registers a callback receiving the row count of every
// table read.
func WithTableObserver(fn func(year int, table string, rows int)) Option {
	return func(ld *Loader) {
		ld.onTable = fn
	}
}

// Loader reads datasets laid out as <dir>/<year>/<table>.csv.
type Loader struct {
	dir      string
	log      logger.Logger
	onTable  func(int, string, int)
	validate *validator.Validate
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string, opts ...Option) *Loader {
	ld := &Loader{
		dir:      dir,
		log:      logger.Nop(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Dir returns the data root.
func (ld *Loader) Dir() string { return ld.dir }

// YearDir returns the directory of one year.
func (ld *Loader) YearDir(year int) string {
	return filepath.Join(ld.dir, strconv.Itoa(year))
}

// Years lists the year directories present under the data root, ascending.
func (ld *Loader) Years() ([]int, error) {
	entries, err := os.ReadDir(ld.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ld.dir, err)
	}
	var years []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if y, err := strconv.Atoi(e.Name()); err == nil && y > 0 {
			years = append(years, y)
		}
	}
	slices.Sort(years)
	return years, nil
}

// LoadSettings reads config.json. A missing file yields the defaults; keys
// absent from the file keep their default values.
func (ld *Loader) LoadSettings() (model.Settings, error) {
	s := model.DefaultSettings()
	path := filepath.Join(ld.dir, SettingsFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		ld.log.Info(context.Background(), "dataset settings not found, using defaults", logger.String("path", path))
		return s, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return s, fmt.Errorf("%w: %s: %w", ErrInvalidSettings, path, err)
	}
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return s, fmt.Errorf("%w: %s: %w", ErrInvalidSettings, path, err)
	}
	if err := ld.validate.Struct(s); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if s.CurrentYear == 0 && len(s.AvailableYears) > 0 {
		s.CurrentYear = slices.Max(s.AvailableYears)
	}
	return s, nil
}

// LoadYear reads every table of one year concurrently. Missing tables are
// empty; a missing year directory is ErrYearNotFound.
func (ld *Loader) LoadYear(ctx context.Context, year int) (*model.Dataset, error) {
	dir := ld.YearDir(year)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %d", ErrYearNotFound, year)
	}

	ds := &model.Dataset{Year: year}
	var events, awards []model.Participation

	g, gctx := errgroup.WithContext(ctx)
	load := func(table string, decode func([]row) error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := readTable(filepath.Join(dir, table+".csv"))
			if err != nil {
				return err
			}
			if ld.onTable != nil {
				ld.onTable(year, table, len(rows))
			}
			if err := decode(rows); err != nil {
				return fmt.Errorf("%d/%s.csv: %w", year, table, err)
			}
			return nil
		})
	}

	load(TableFaculty, func(rows []row) (err error) {
		ds.Members, err = convert(rows, memberFromRow)
		return err
	})
	load(TableStudents, func(rows []row) (err error) {
		ds.Students, err = convert(rows, yearly(year, studentCountFromRow))
		return err
	})
	load(TableTheses, func(rows []row) (err error) {
		ds.Theses, err = convert(rows, yearly(year, thesisFromRow))
		return err
	})
	load(TablePublications, func(rows []row) (err error) {
		ds.Publications, err = convert(rows, yearly(year, publicationFromRow))
		return err
	})
	load(TableParticipations, func(rows []row) (err error) {
		ds.Participations, err = convert(rows, yearly(year, participationFromRow))
		return err
	})
	load(TableEvents, func(rows []row) (err error) {
		events, err = convert(rows, yearly(year, eventFromRow))
		return err
	})
	load(TableAwards, func(rows []row) (err error) {
		awards, err = convert(rows, yearly(year, awardFromRow))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds.Participations = append(ds.Participations, events...)
	ds.Participations = append(ds.Participations, awards...)

	ld.log.Debug(ctx, "year loaded",
		logger.Int("year", year),
		logger.Int("members", len(ds.Members)),
		logger.Int("theses", len(ds.Theses)),
		logger.Int("publications", len(ds.Publications)),
		logger.Int("participations", len(ds.Participations)))
	return ds, nil
}

// LoadAll loads each year and merges them in ascending year order.
func (ld *Loader) LoadAll(ctx context.Context, years []int) (*model.Dataset, error) {
	if len(years) == 0 {
		return nil, ErrNoYears
	}
	sorted := slices.Clone(years)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	sets := make([]*model.Dataset, len(sorted))
	g, gctx := errgroup.WithContext(ctx)
	for i, y := range sorted {
		g.Go(func() error {
			ds, err := ld.LoadYear(gctx, y)
			if err != nil {
				return err
			}
			sets[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return model.Merge(sets...), nil
}

func yearly[T any](year int, fn func(row, int) (T, error)) func(row) (T, error) {
	return func(r row) (T, error) { return fn(r, year) }
}

func convert[T any](rows []row, fn func(row) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := fn(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
