// Package scoring computes per-member points and the department leaderboard
// from an immutable dataset snapshot.
package scoring

import (
	"fmt"

	"github.com/okian/mizan/internal/domain/model"
)

// Weights maps each rule to its point value.
type Weights map[model.Rule]int

// publicationKey is the config.json key for publications. The rule name
// itself is accepted as well.
const publicationKey = "publication"

// DefaultWeights returns the fallback point table used when config.json
// omits a key.
func DefaultWeights() Weights {
	return Weights{
		model.RulePublications:          15,
		model.RuleStudentResearch:       10,
		model.RulePhDSupervision:        10,
		model.RuleMastersSupervision:    3,
		model.RulePhDCoSupervision:      5,
		model.RuleMastersCoSupervision:  2,
		model.RulePhDDiscussion:         5,
		model.RuleMastersDiscussion:     2,
		model.RuleConferencePaper:       8,
		model.RuleConferenceAttendance:  1,
		model.RuleEventOrganization:     6,
		model.RuleSeminarParticipation:  5,
		model.RuleWorkshopParticipation: 5,
		model.RuleEventAttendance:       1,
		model.RuleExternalDiscussion:    3,
		model.RulePeerReview:            2,
		model.RuleAward:                 10,
		model.RulePatent:                15,
	}
}

// WeightsFromConfig overlays configured values on the defaults. Unknown keys
// and negative values are ignored.
func WeightsFromConfig(cfg map[string]int) Weights {
	w := DefaultWeights()
	for key, v := range cfg {
		rule, ok := ruleForKey(key)
		if !ok || v < 0 {
			continue
		}
		w[rule] = v
	}
	return w
}

// Of returns the weight for rule, falling back to the default table.
func (w Weights) Of(rule model.Rule) int {
	if v, ok := w[rule]; ok && v >= 0 {
		return v
	}
	return defaultWeights[rule]
}

// Validate rejects negative weights and unknown rules.
func (w Weights) Validate() error {
	for rule, v := range w {
		if _, ok := defaultWeights[rule]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRule, rule)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeWeight, rule, v)
		}
	}
	return nil
}

var defaultWeights = DefaultWeights()

func ruleForKey(key string) (model.Rule, bool) {
	k := model.NormalizeLabel(key)
	if k == publicationKey {
		return model.RulePublications, true
	}
	rule := model.Rule(k)
	_, ok := defaultWeights[rule]
	return rule, ok
}
