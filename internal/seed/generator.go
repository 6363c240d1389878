package seed

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/okian/mizan/internal/adapters/csvio"
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/pkg/logger"
)

// Sentinel errors for generation.
var (
	ErrInvalidConfig = errors.New("invalid seed config")
)

const (
	directoryPermission = 0o750
	filePermission      = 0o644
	inactiveEvery       = 5 // every fifth member is inactive
)

var names = []string{
	"Amal Haddad", "Basim Nouri", "Huda Saleh", "Omar Farouk", "Layla Aziz",
	"Karim Mansour", "Rana Khalil", "Yusuf Qasim", "Salma Idris", "Tariq Hamdan",
	"أحمد الشمري", "فاطمة الزهراني", "خالد العتيبي", "مريم القحطاني",
}

var ranks = []string{"Professor", "Associate Professor", "Assistant Professor", "Lecturer"}

var citationLabels = []string{"0-10", "11-20", "21-50", "51-100", "100+"}

// activity is one participation shape and the rule it must resolve to.
type activity struct {
	category string
	kind     string
	rule     model.Rule
}

var activities = []activity{
	{"conference", "paper", model.RuleConferencePaper},
	{"conference", "organization", model.RuleEventOrganization},
	{"seminar", "participation", model.RuleSeminarParticipation},
	{"workshop", "", model.RuleWorkshopParticipation},
	{"workshop", "attendance", model.RuleEventAttendance},
	{"مؤتمر", "حضور", model.RuleEventAttendance},
	{"external discussion", "", model.RuleExternalDiscussion},
	{"peer review", "", model.RulePeerReview},
	{"award", "", model.RuleAward},
	{"patent", "", model.RulePatent},
	{"student research", "", model.RuleStudentResearch},
}

// Generate writes config.json and every year's tables under cfg.Dir and
// returns the breakdowns the calculator must reproduce.
func Generate(ctx context.Context, cfg Config) (*Expected, *Stats, error) {
	if cfg.Dir == "" || len(cfg.Years) == 0 || cfg.Members < 4 {
		return nil, nil, fmt.Errorf("%w: need dir, years and at least 4 members", ErrInvalidConfig)
	}
	start := time.Now()
	log := logger.Get().Named("seed")
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	years := slices.Clone(cfg.Years)
	slices.Sort(years)
	years = slices.Compact(years)

	if err := os.MkdirAll(cfg.Dir, directoryPermission); err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", cfg.Dir, err)
	}
	if err := writeSettings(cfg.Dir, years); err != nil {
		return nil, nil, err
	}

	exp := newExpected()
	stats := &Stats{Members: cfg.Members}
	ids := make([]string, cfg.Members)
	for i := range ids {
		ids[i] = fmt.Sprintf("F%03d", i+1)
		exp.Active[ids[i]] = (i+1)%inactiveEvery != 0
	}

	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("seed cancelled: %w", err)
		}
		g := &yearGen{year: year, rng: rng, ids: ids, exp: exp, stats: stats}
		if err := g.write(filepath.Join(cfg.Dir, strconv.Itoa(year))); err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "year generated", logger.Int("year", year), logger.Int("members", len(ids)))
	}

	stats.Duration = time.Since(start)
	return exp, stats, nil
}

func writeSettings(dir string, years []int) error {
	b, err := json.MarshalIndent(map[string]any{
		"current_year":    slices.Max(years),
		"available_years": years,
		"department_name": "Synthetic Department",
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	path := filepath.Join(dir, csvio.SettingsFile)
	if err := os.WriteFile(path, b, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type yearGen struct {
	year  int
	rng   *rand.Rand
	ids   []string
	exp   *Expected
	stats *Stats
}

// pick returns n distinct member ids.
func (g *yearGen) pick(n int) []string {
	perm := g.rng.Perm(len(g.ids))
	out := make([]string, n)
	for i := range out {
		out[i] = g.ids[perm[i]]
	}
	return out
}

func (g *yearGen) date() string {
	return fmt.Sprintf("%d-%02d-%02d", g.year, 1+g.rng.IntN(12), 1+g.rng.IntN(28))
}

func (g *yearGen) write(dir string) error {
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	y := strconv.Itoa(g.year)
	tables := map[string][][]string{
		csvio.TableFaculty:        g.faculty(),
		csvio.TableStudents:       {{"year", "program", "count"}, {y, "MSc", strconv.Itoa(10 + g.rng.IntN(40))}, {y, "PhD", strconv.Itoa(2 + g.rng.IntN(10))}},
		csvio.TableTheses:         g.theses(),
		csvio.TablePublications:   g.publications(),
		csvio.TableParticipations: g.participations(),
	}
	for name, rows := range tables {
		if err := writeCSV(filepath.Join(dir, name+".csv"), rows); err != nil {
			return err
		}
	}
	return nil
}

func (g *yearGen) faculty() [][]string {
	rows := [][]string{{"id", "name", "academic_rank", "active", "email"}}
	for i, id := range g.ids {
		active := "no"
		if g.exp.Active[id] {
			active = "yes"
		}
		rows = append(rows, []string{
			id, names[i%len(names)], ranks[i%len(ranks)], active, strings.ToLower(id) + "@example.org",
		})
	}
	return rows
}

func (g *yearGen) theses() [][]string {
	rows := [][]string{{
		"id", "year", "type", "specialization", "student_name", "title", "status", "defense_date",
		"supervisor_id", "co_supervisor_id", "examiner1_id", "examiner2_id",
	}}
	n := len(g.ids) / 2
	for i := range n {
		people := g.pick(4)
		typ, sup, co, disc := "masters", model.RuleMastersSupervision, model.RuleMastersCoSupervision, model.RuleMastersDiscussion
		if g.rng.IntN(3) == 0 {
			typ, sup, co, disc = "doctoral", model.RulePhDSupervision, model.RulePhDCoSupervision, model.RulePhDDiscussion
		}
		status := "ongoing"
		if g.rng.IntN(2) == 0 {
			status = "completed"
		}
		coID := ""
		if g.rng.IntN(2) == 0 {
			coID = people[1]
			g.exp.credit(g.year, coID, co)
		}
		g.exp.credit(g.year, people[0], sup)
		g.exp.credit(g.year, people[2], disc)
		g.exp.credit(g.year, people[3], disc)

		rows = append(rows, []string{
			fmt.Sprintf("T%d-%03d", g.year, i+1), strconv.Itoa(g.year), typ, "General",
			fmt.Sprintf("Student %d", i+1), fmt.Sprintf("Thesis %d", i+1), status, g.date(),
			people[0], coID, people[2], people[3],
		})
	}
	g.stats.Theses += n
	return rows
}

func (g *yearGen) publications() [][]string {
	rows := [][]string{{
		"id", "year", "title", "journal", "publish_date", "citations_range", "authors_ids", "student_author",
	}}
	n := len(g.ids)
	for i := range n {
		authors := g.pick(1 + g.rng.IntN(3))
		for _, a := range authors {
			g.exp.credit(g.year, a, model.RulePublications)
		}
		student := "no"
		if g.rng.IntN(4) == 0 {
			student = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("P%d-%03d", g.year, i+1), strconv.Itoa(g.year), fmt.Sprintf("Paper %d", i+1),
			"Journal of Synthetic Results", g.date(), citationLabels[g.rng.IntN(len(citationLabels))],
			strings.Join(authors, model.IDSeparator), student,
		})
	}
	g.stats.Publications += n
	return rows
}

func (g *yearGen) participations() [][]string {
	rows := [][]string{{
		"id", "year", "category", "participation_type", "title", "location", "date",
		"participant_ids", "granting_body", "journal", "citations_range", "student_author",
	}}
	n := 2 * len(g.ids)
	for i := range n {
		a := activities[g.rng.IntN(len(activities))]
		people := g.pick(1 + g.rng.IntN(3))
		for _, p := range people {
			g.exp.credit(g.year, p, a.rule)
		}
		rows = append(rows, []string{
			fmt.Sprintf("A%d-%03d", g.year, i+1), strconv.Itoa(g.year), a.category, a.kind,
			fmt.Sprintf("Activity %d", i+1), "Campus", g.date(),
			strings.Join(people, model.IDSeparator), "", "", "", "no",
		})
	}
	g.stats.Participations += n
	return rows
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePermission) //nolint:gosec // path is under the seed dir
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
