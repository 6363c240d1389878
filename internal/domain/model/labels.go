package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel folds a free-text label into a comparable key: NFC,
// case-folded, trimmed, with runs of spaces, hyphens and underscores
// collapsed to a single underscore. "External Discussion" and
// "external-discussion" both become "external_discussion".
func NormalizeLabel(s string) string {
	s = cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
	var b strings.Builder
	b.Grow(len(s))
	sep := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('_')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}

// LabelSet is a lookup of normalised labels.
type LabelSet map[string]struct{}

// NewLabelSet normalises every label once at construction.
func NewLabelSet(labels ...string) LabelSet {
	set := make(LabelSet, len(labels))
	for _, l := range labels {
		set[NormalizeLabel(l)] = struct{}{}
	}
	return set
}

// Has reports whether raw normalises into the set.
func (s LabelSet) Has(raw string) bool {
	_, ok := s[NormalizeLabel(raw)]
	return ok
}

var yesLabels = NewLabelSet("yes", "y", "true", "1", "نعم", "active", "نشط")

// ParseFlag decodes the boolean sentinels used by the CSV tables.
func ParseFlag(raw string) bool {
	return yesLabels.Has(raw)
}

// ThesisType distinguishes doctoral and master's theses.
type ThesisType string

const (
	ThesisDoctoral ThesisType = "doctoral"
	ThesisMasters  ThesisType = "masters"
	ThesisUnknown  ThesisType = ""
)

var (
	doctoralLabels = NewLabelSet("doctoral", "doctorate", "phd", "ph.d", "دكتوراه", "دكتوراة")
	mastersLabels  = NewLabelSet("masters", "master", "master's", "msc", "ماجستير")
)

// ParseThesisType maps a raw type label. Unrecognised labels yield ThesisUnknown.
func ParseThesisType(raw string) ThesisType {
	switch {
	case doctoralLabels.Has(raw):
		return ThesisDoctoral
	case mastersLabels.Has(raw):
		return ThesisMasters
	default:
		return ThesisUnknown
	}
}

// ThesisStatus is the progress of a thesis.
type ThesisStatus string

const (
	ThesisOngoing       ThesisStatus = "ongoing"
	ThesisCompleted     ThesisStatus = "completed"
	ThesisStatusUnknown ThesisStatus = ""
)

var (
	completedLabels = NewLabelSet("completed", "complete", "done", "defended", "منجزة", "منجز")
	ongoingLabels   = NewLabelSet("ongoing", "in progress", "جارية", "جاري", "قيد الإنجاز")
)

// ParseThesisStatus maps a raw status label.
func ParseThesisStatus(raw string) ThesisStatus {
	switch {
	case completedLabels.Has(raw):
		return ThesisCompleted
	case ongoingLabels.Has(raw):
		return ThesisOngoing
	default:
		return ThesisStatusUnknown
	}
}
