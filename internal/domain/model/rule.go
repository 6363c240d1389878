package model

// Rule is a point-bearing classification. Breakdowns are keyed by Rule.
type Rule string

const (
	RulePublications          Rule = "publications"
	RuleStudentResearch       Rule = "student_research"
	RulePhDSupervision        Rule = "phd_supervision"
	RuleMastersSupervision    Rule = "masters_supervision"
	RulePhDCoSupervision      Rule = "phd_co_supervision"
	RuleMastersCoSupervision  Rule = "masters_co_supervision"
	RulePhDDiscussion         Rule = "phd_discussion"
	RuleMastersDiscussion     Rule = "masters_discussion"
	RuleConferencePaper       Rule = "conference_paper"
	RuleConferenceAttendance  Rule = "conference_attendance"
	RuleEventOrganization     Rule = "event_organization"
	RuleSeminarParticipation  Rule = "seminar_participation"
	RuleWorkshopParticipation Rule = "workshop_participation"
	RuleEventAttendance       Rule = "event_attendance"
	RuleExternalDiscussion    Rule = "external_discussion"
	RulePeerReview            Rule = "peer_review"
	RuleAward                 Rule = "award"
	RulePatent                Rule = "patent"
)

// AllRules lists every rule in display order.
var AllRules = []Rule{
	RulePublications,
	RuleStudentResearch,
	RulePhDSupervision,
	RuleMastersSupervision,
	RulePhDCoSupervision,
	RuleMastersCoSupervision,
	RulePhDDiscussion,
	RuleMastersDiscussion,
	RuleConferencePaper,
	RuleConferenceAttendance,
	RuleEventOrganization,
	RuleSeminarParticipation,
	RuleWorkshopParticipation,
	RuleEventAttendance,
	RuleExternalDiscussion,
	RulePeerReview,
	RuleAward,
	RulePatent,
}
