package report

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/okian/mizan/internal/domain/category"
	"github.com/okian/mizan/internal/domain/model"
)

// Activity is one entry of the "recent activity" feed.
type Activity struct {
	Kind         string   `json:"kind" msgpack:"kind"`
	Title        string   `json:"title" msgpack:"title"`
	Date         string   `json:"date,omitempty" msgpack:"date,omitempty"`
	Year         int      `json:"year" msgpack:"year"`
	Participants []string `json:"participants" msgpack:"participants"`

	at time.Time
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2006-01",
	"2006",
}

// ParseDate accepts the date shapes found in the CSV tables. The zero time
// means the value could not be parsed.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Recent returns the latest n publications and participations, newest
// first. Undated records sort last. A non-positive n returns everything.
func Recent(ds *model.Dataset, n int) []Activity {
	if ds == nil {
		return nil
	}
	out := make([]Activity, 0, len(ds.Publications)+len(ds.Participations))
	for _, p := range ds.Publications {
		out = append(out, Activity{
			Kind:         string(category.KindPublication),
			Title:        p.Title,
			Date:         p.PublishDate,
			Year:         p.Year,
			Participants: names(ds, p.AuthorIDs),
			at:           ParseDate(p.PublishDate),
		})
	}
	for _, p := range ds.Participations {
		kind := string(category.KindOf(p.Category))
		if kind == "" {
			kind = p.Category
		}
		out = append(out, Activity{
			Kind:         kind,
			Title:        p.Title,
			Date:         p.Date,
			Year:         p.Year,
			Participants: names(ds, p.ParticipantIDs),
			at:           ParseDate(p.Date),
		})
	}

	slices.SortStableFunc(out, func(a, b Activity) int {
		switch {
		case a.at.IsZero() && b.at.IsZero():
			return cmp.Compare(b.Year, a.Year)
		case a.at.IsZero():
			return 1
		case b.at.IsZero():
			return -1
		}
		return b.at.Compare(a.at)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func names(ds *model.Dataset, ids model.IDList) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, ds.MemberName(id))
	}
	return out
}
