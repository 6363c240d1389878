package category

import (
	"context"

	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/pkg/logger"
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for unknown labels.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithUnknownHook registers a callback invoked with every unrecognised
// category label, e.g. to count them in metrics.
func WithUnknownHook(fn func(label string)) Option {
	return func(r *Resolver) {
		r.onUnknown = fn
	}
}

// Resolver turns participation records into rules.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	log       logger.Logger
	onUnknown func(string)
}

// NewResolver creates a resolver with the given options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var eventParticipation = map[Kind]model.Rule{
	KindConference: model.RuleConferencePaper,
	KindSeminar:    model.RuleSeminarParticipation,
	KindWorkshop:   model.RuleWorkshopParticipation,
}

var directRules = map[Kind]model.Rule{
	KindExternalDiscussion: model.RuleExternalDiscussion,
	KindPeerReview:         model.RulePeerReview,
	KindAward:              model.RuleAward,
	KindPatent:             model.RulePatent,
	KindStudentResearch:    model.RuleStudentResearch,
	KindPublication:        model.RulePublications,
}

// Resolve classifies p. The boolean is false for unrecognised categories,
// which contribute nothing.
func (r *Resolver) Resolve(p model.Participation) (model.Rule, bool) {
	kind := KindOf(p.Category)
	if kind.IsEvent() {
		switch ModeOf(p.ParticipationType) {
		case ModeOrganization:
			return model.RuleEventOrganization, true
		case ModeAttendance:
			return model.RuleEventAttendance, true
		default:
			return eventParticipation[kind], true
		}
	}
	if rule, ok := directRules[kind]; ok {
		return rule, true
	}

	r.log.Debug(context.Background(), "unknown participation category",
		logger.String("id", p.ID),
		logger.String("category", p.Category))
	if r.onUnknown != nil {
		r.onUnknown(p.Category)
	}
	return "", false
}
