// Package category classifies participation records into point-bearing
// rules. The label tables accept both the English keys used by newer
// datasets and the Arabic labels used by the older ones.
package category

import "github.com/okian/mizan/internal/domain/model"

// Kind is the semantic category of a participation record.
type Kind string

const (
	KindUnknown            Kind = ""
	KindConference         Kind = "conference"
	KindSeminar            Kind = "seminar"
	KindWorkshop           Kind = "workshop"
	KindExternalDiscussion Kind = "external_discussion"
	KindPeerReview         Kind = "peer_review"
	KindAward              Kind = "award"
	KindPatent             Kind = "patent"
	KindStudentResearch    Kind = "student_research"
	KindPublication        Kind = "publication"
)

// Mode is the sub-classification carried by participation_type.
type Mode int

const (
	ModeParticipation Mode = iota // paper, participation or unspecified
	ModeOrganization
	ModeAttendance
)

var kindLabels = map[Kind]model.LabelSet{
	KindConference:         model.NewLabelSet("conference", "مؤتمر"),
	KindSeminar:            model.NewLabelSet("seminar", "ندوة"),
	KindWorkshop:           model.NewLabelSet("workshop", "ورشة", "ورشة عمل"),
	KindExternalDiscussion: model.NewLabelSet("external discussion", "مناقشة خارجية"),
	KindPeerReview:         model.NewLabelSet("peer review", "review", "تحكيم", "تحكيم علمي"),
	KindAward:              model.NewLabelSet("award", "جائزة"),
	KindPatent:             model.NewLabelSet("patent", "براءة اختراع", "براءة"),
	KindStudentResearch:    model.NewLabelSet("student research", "بحث طلابي", "بحث طلاب"),
	KindPublication:        model.NewLabelSet("publication", "publications", "نشر", "بحث", "نشر علمي"),
}

var (
	organizationLabels = model.NewLabelSet("organization", "organisation", "organizer", "organiser", "تنظيم", "منظم")
	attendanceLabels   = model.NewLabelSet("attendance", "attendee", "حضور")
)

// KindOf maps a raw category label. Unrecognised labels yield KindUnknown.
func KindOf(raw string) Kind {
	key := model.NormalizeLabel(raw)
	if key == "" {
		return KindUnknown
	}
	for kind, set := range kindLabels {
		if _, ok := set[key]; ok {
			return kind
		}
	}
	return KindUnknown
}

// ModeOf maps a raw participation_type label.
func ModeOf(raw string) Mode {
	switch {
	case organizationLabels.Has(raw):
		return ModeOrganization
	case attendanceLabels.Has(raw):
		return ModeAttendance
	default:
		return ModeParticipation
	}
}

// IsEvent reports whether the kind is a conference, seminar or workshop.
func (k Kind) IsEvent() bool {
	return k == KindConference || k == KindSeminar || k == KindWorkshop
}
