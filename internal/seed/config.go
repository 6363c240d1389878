// Package seed generates synthetic faculty datasets on disk together with
// the point breakdown every member is expected to receive, and verifies a
// computed leaderboard against it.
package seed

import (
	"time"

	"github.com/okian/mizan/internal/domain/model"
)

// Config controls dataset generation.
type Config struct {
	Dir     string // Data root; one directory per year is written under it
	Years   []int  // Years to generate
	Members int    // Faculty members, shared by every year
	Seed    uint64 // PRNG seed; equal seeds give identical datasets
}

// Stats counts what Generate wrote.
type Stats struct {
	Members        int
	Theses         int
	Publications   int
	Participations int
	Duration       time.Duration
}

// Expected holds the breakdown each member must receive, per year key
// ("2025", "all").
type Expected struct {
	Active     map[string]bool
	Breakdowns map[string]map[string]map[model.Rule]int
}

func newExpected() *Expected {
	return &Expected{
		Active:     make(map[string]bool),
		Breakdowns: make(map[string]map[string]map[model.Rule]int),
	}
}

func (e *Expected) add(yearKey, memberID string, rule model.Rule) {
	byMember, ok := e.Breakdowns[yearKey]
	if !ok {
		byMember = make(map[string]map[model.Rule]int)
		e.Breakdowns[yearKey] = byMember
	}
	b, ok := byMember[memberID]
	if !ok {
		b = make(map[model.Rule]int)
		byMember[memberID] = b
	}
	b[rule]++
}

// credit records rule for memberID in its year and in the merged view.
func (e *Expected) credit(year int, memberID string, rule model.Rule) {
	e.add(model.YearKey(year), memberID, rule)
	e.add(model.YearKey(model.YearAll), memberID, rule)
}

// Breakdown returns the expected breakdown of memberID for yearKey.
func (e *Expected) Breakdown(yearKey, memberID string) map[model.Rule]int {
	return e.Breakdowns[yearKey][memberID]
}
