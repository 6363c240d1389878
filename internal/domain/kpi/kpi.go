// Package kpi computes department-wide indicators from a dataset snapshot.
package kpi

import (
	"math"
	"strings"

	"github.com/okian/mizan/internal/domain/category"
	"github.com/okian/mizan/internal/domain/model"
)

// defaultCitations is used for a citation-range label missing from both the
// configured and the built-in tables.
const defaultCitations = 5

// KPI is the department summary. Rates are percentages; every float is
// rounded to one decimal place.
type KPI struct {
	ActiveMembers          int     `json:"active_members" msgpack:"active_members"`
	TotalPublications      int     `json:"total_publications" msgpack:"total_publications"`
	TotalStudents          int     `json:"total_students" msgpack:"total_students"`
	TotalTheses            int     `json:"total_theses" msgpack:"total_theses"`
	PublishingRate         float64 `json:"publishing_rate" msgpack:"publishing_rate"`
	PublicationsPerMember  float64 `json:"publications_per_member" msgpack:"publications_per_member"`
	CitationsPerMember     float64 `json:"citations_per_member" msgpack:"citations_per_member"`
	StudentPublicationRate float64 `json:"student_publication_rate" msgpack:"student_publication_rate"`
	SupervisionRate        float64 `json:"supervision_rate" msgpack:"supervision_rate"`
	PhDCount               int     `json:"phd_count" msgpack:"phd_count"`
	MastersCount           int     `json:"masters_count" msgpack:"masters_count"`
	InnovationCount        int     `json:"innovation_count" msgpack:"innovation_count"`
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithCitationsRanges overlays configured range estimates on the defaults.
func WithCitationsRanges(ranges map[string]int) Option {
	return func(a *Aggregator) {
		for label, v := range ranges {
			if v >= 0 {
				a.citations[strings.TrimSpace(label)] = v
			}
		}
	}
}

// WithResolver sets the category resolver used to spot publication-like
// participations.
func WithResolver(r *category.Resolver) Option {
	return func(a *Aggregator) {
		if r != nil {
			a.resolver = r
		}
	}
}

// Aggregator computes KPI records.
type Aggregator struct {
	citations map[string]int
	resolver  *category.Resolver
}

// NewAggregator creates an aggregator with the built-in citation table.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		citations: model.DefaultCitationsRanges(),
		resolver:  category.NewResolver(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compute returns nil when ds has no active members, so callers can render
// a "no data" state instead of dividing by zero.
func (a *Aggregator) Compute(ds *model.Dataset) *KPI {
	active := ds.ActiveMembers()
	if len(active) == 0 {
		return nil
	}
	activeIDs := make(map[string]struct{}, len(active))
	for _, m := range active {
		activeIDs[strings.TrimSpace(m.ID)] = struct{}{}
	}

	var (
		publications  int
		studentPubs   int
		citations     int
		innovation    int
		publishingIDs = make(map[string]struct{})
	)
	countAuthors := func(ids model.IDList) {
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if _, ok := activeIDs[id]; ok {
				publishingIDs[id] = struct{}{}
			}
		}
	}

	for _, p := range ds.Publications {
		publications++
		citations += a.Citations(p.CitationsRange)
		countAuthors(p.AuthorIDs)
		if p.StudentAuthor {
			studentPubs++
		}
	}
	for _, p := range ds.Participations {
		rule, ok := a.resolver.Resolve(p)
		if !ok {
			continue
		}
		switch rule {
		case model.RulePublications:
			publications++
			citations += a.Citations(p.CitationsRange)
			countAuthors(p.ParticipantIDs)
			if p.StudentAuthor {
				studentPubs++
			}
		case model.RuleStudentResearch:
			studentPubs++
		case model.RuleAward, model.RulePatent:
			innovation++
		}
	}

	k := &KPI{
		ActiveMembers:     len(active),
		TotalPublications: publications,
		TotalStudents:     ds.TotalStudents(),
		TotalTheses:       len(ds.Theses),
		InnovationCount:   innovation,
	}
	for _, th := range ds.Theses {
		switch th.Type {
		case model.ThesisDoctoral:
			k.PhDCount++
		case model.ThesisMasters:
			k.MastersCount++
		}
	}

	members := float64(len(active))
	k.PublishingRate = round1(float64(len(publishingIDs)) / members * 100)
	k.PublicationsPerMember = round1(float64(publications) / members)
	k.CitationsPerMember = round1(float64(citations) / members)
	k.SupervisionRate = round1(float64(len(ds.Theses)) / members)
	if k.TotalStudents > 0 {
		k.StudentPublicationRate = round1(float64(studentPubs) / float64(k.TotalStudents) * 100)
	}
	return k
}

// Citations estimates the citation count for a range label.
func (a *Aggregator) Citations(label string) int {
	if v, ok := a.citations[strings.TrimSpace(label)]; ok {
		return v
	}
	return defaultCitations
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
