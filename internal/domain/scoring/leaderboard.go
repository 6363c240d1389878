package scoring

import (
	"cmp"
	"slices"
	"strings"

	"github.com/okian/mizan/internal/domain/model"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank        int                `json:"rank" msgpack:"rank"`
	Member      model.Member       `json:"member" msgpack:"member"`
	TotalPoints int                `json:"total_points" msgpack:"total_points"`
	Breakdown   map[model.Rule]int `json:"breakdown" msgpack:"breakdown"`
}

// Leaderboard ranks the active members of ds by points descending. Equal
// totals are ordered by member id so the output does not depend on table
// order. Inactive members never appear.
func (c *Calculator) Leaderboard(ds *model.Dataset) []Entry {
	active := ds.ActiveMembers()
	entries := make([]Entry, 0, len(active))
	for _, m := range active {
		res := c.Points(ds, m.ID)
		entries = append(entries, Entry{
			Member:      m,
			TotalPoints: res.TotalPoints,
			Breakdown:   res.Breakdown,
		})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if n := cmp.Compare(b.TotalPoints, a.TotalPoints); n != 0 {
			return n
		}
		return cmp.Compare(strings.TrimSpace(a.Member.ID), strings.TrimSpace(b.Member.ID))
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Top returns at most limit entries. A non-positive limit returns all.
func Top(entries []Entry, limit int) []Entry {
	if limit <= 0 || limit >= len(entries) {
		return entries
	}
	return entries[:limit]
}
