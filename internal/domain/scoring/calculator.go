package scoring

import (
	"context"
	"strings"

	"github.com/okian/mizan/internal/domain/category"
	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/pkg/logger"
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWeights replaces the weight table. Missing rules keep their defaults.
func WithWeights(w Weights) Option {
	return func(c *Calculator) {
		for rule, v := range w {
			if v >= 0 {
				c.weights[rule] = v
			}
		}
	}
}

// WithResolver sets the category resolver for participations.
func WithResolver(r *category.Resolver) Option {
	return func(c *Calculator) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithLogger sets the logger used for skipped records.
func WithLogger(l logger.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.log = l
		}
	}
}

// Result is the score of one member.
type Result struct {
	MemberID    string             `json:"member_id" msgpack:"member_id"`
	TotalPoints int                `json:"total_points" msgpack:"total_points"`
	Breakdown   map[model.Rule]int `json:"breakdown" msgpack:"breakdown"`
}

// Calculator computes points from a dataset. It keeps no state between
// calls, so the same inputs always give the same Result.
type Calculator struct {
	weights  Weights
	resolver *category.Resolver
	log      logger.Logger
}

// NewCalculator creates a calculator with the default weights.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		weights:  DefaultWeights(),
		resolver: category.NewResolver(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Weights returns a copy of the effective weight table.
func (c *Calculator) Weights() Weights {
	out := make(Weights, len(c.weights))
	for k, v := range c.weights {
		out[k] = v
	}
	return out
}

// Points scores memberID against every table in ds. Every thesis role,
// publication and participation is counted independently. A member with no
// records gets zero points and an empty breakdown.
func (c *Calculator) Points(ds *model.Dataset, memberID string) Result {
	res := Result{MemberID: memberID, Breakdown: map[model.Rule]int{}}
	if ds == nil || strings.TrimSpace(memberID) == "" {
		return res
	}

	for _, th := range ds.Theses {
		c.scanThesis(th, memberID, res.Breakdown)
	}
	for _, pub := range ds.Publications {
		if pub.AuthorIDs.Contains(memberID) {
			res.Breakdown[model.RulePublications]++
		}
	}
	for _, p := range ds.Participations {
		if !p.ParticipantIDs.Contains(memberID) {
			continue
		}
		if rule, ok := c.resolver.Resolve(p); ok {
			res.Breakdown[rule]++
		}
	}

	res.TotalPoints = c.Total(res.Breakdown)
	return res
}

// Total is the weighted sum of a breakdown.
func (c *Calculator) Total(breakdown map[model.Rule]int) int {
	total := 0
	for rule, n := range breakdown {
		total += n * c.weights.Of(rule)
	}
	return total
}

func (c *Calculator) scanThesis(th model.Thesis, memberID string, into map[model.Rule]int) {
	supervisor := model.SameID(th.SupervisorID, memberID)
	coSupervisor := model.SameID(th.CoSupervisorID, memberID)
	// Both examiner fields are counted; a duplicate examiner is a data error
	// that still earns twice.
	examinations := 0
	if model.SameID(th.Examiner1ID, memberID) {
		examinations++
	}
	if model.SameID(th.Examiner2ID, memberID) {
		examinations++
	}
	if !supervisor && !coSupervisor && examinations == 0 {
		return
	}

	var sup, co, disc model.Rule
	switch th.Type {
	case model.ThesisDoctoral:
		sup, co, disc = model.RulePhDSupervision, model.RulePhDCoSupervision, model.RulePhDDiscussion
	case model.ThesisMasters:
		sup, co, disc = model.RuleMastersSupervision, model.RuleMastersCoSupervision, model.RuleMastersDiscussion
	default:
		c.log.Warn(context.Background(), "thesis skipped: unknown type",
			logger.String("thesis_id", th.ID),
			logger.String("member_id", memberID))
		return
	}

	if supervisor {
		into[sup]++
	}
	if coSupervisor {
		into[co]++
	}
	if examinations > 0 {
		into[disc] += examinations
	}
}
