package seed

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/internal/domain/scoring"
)

// ErrMismatch reports a leaderboard that disagrees with the generated data.
var ErrMismatch = errors.New("leaderboard mismatch")

// Verify checks a leaderboard computed for yearKey against exp. It returns
// every problem found joined into one error, or nil.
func Verify(entries []scoring.Entry, yearKey string, exp *Expected, weights scoring.Weights) error {
	var errs []error
	seen := make(map[string]bool, len(entries))

	for i, e := range entries {
		id := e.Member.ID
		seen[id] = true
		if !exp.Active[id] {
			errs = append(errs, fmt.Errorf("%w: inactive member %s ranked", ErrMismatch, id))
			continue
		}
		if e.Rank != i+1 {
			errs = append(errs, fmt.Errorf("%w: %s has rank %d at position %d", ErrMismatch, id, e.Rank, i+1))
		}
		if i > 0 && outOfOrder(entries[i-1], e) {
			errs = append(errs, fmt.Errorf("%w: %s ranked after %s out of order", ErrMismatch, id, entries[i-1].Member.ID))
		}

		want := exp.Breakdown(yearKey, id)
		total := 0
		for _, rule := range model.AllRules {
			if got, w := e.Breakdown[rule], want[rule]; got != w {
				errs = append(errs, fmt.Errorf("%w: %s %s = %d, want %d", ErrMismatch, id, rule, got, w))
			}
			total += want[rule] * weights.Of(rule)
		}
		if e.TotalPoints != total {
			errs = append(errs, fmt.Errorf("%w: %s total = %d, want %d", ErrMismatch, id, e.TotalPoints, total))
		}
	}

	for id, active := range exp.Active {
		if active && !seen[id] {
			errs = append(errs, fmt.Errorf("%w: active member %s missing", ErrMismatch, id))
		}
	}
	return errors.Join(errs...)
}

func outOfOrder(prev, cur scoring.Entry) bool {
	if n := cmp.Compare(prev.TotalPoints, cur.TotalPoints); n != 0 {
		return n < 0
	}
	return strings.TrimSpace(prev.Member.ID) > strings.TrimSpace(cur.Member.ID)
}
