package skill

import "strings"

// TriggerCondition identifies how a trigger rule matches input.
type TriggerCondition string

const (
	// TriggerKeyword matches when the pattern is a case-insensitive substring
	// of the input.
	TriggerKeyword TriggerCondition = "keyword"
	// TriggerExplicit matches when the input equals the pattern exactly.
	TriggerExplicit TriggerCondition = "explicit"
	// TriggerContext matches when every required key/value pair is present in
	// the supplied context.
	TriggerContext TriggerCondition = "context"
	// TriggerAuto marks a skill for scheduler-driven activation. It never
	// matches through CanTrigger.
	TriggerAuto TriggerCondition = "auto"
)

// TriggerRule decides whether a skill should activate for a given input and
// context. Priority ranks competing rules; it never changes correctness.
type TriggerRule struct {
	Condition           TriggerCondition `json:"condition" yaml:"condition"`
	Pattern             string           `json:"pattern" yaml:"pattern"`
	Priority            int              `json:"priority" yaml:"priority"`
	ContextRequirements map[string]any   `json:"context_requirements,omitempty" yaml:"context_requirements,omitempty"`
}

// Matches reports whether the rule fires for the input and context.
func (r TriggerRule) Matches(input string, context map[string]any) bool {
	switch r.Condition {
	case TriggerKeyword:
		return strings.Contains(strings.ToLower(input), strings.ToLower(r.Pattern))
	case TriggerExplicit:
		return input == r.Pattern
	case TriggerContext:
		if context == nil {
			return false
		}
		for k, want := range r.ContextRequirements {
			if got, ok := context[k]; !ok || got != want {
				return false
			}
		}
		return true
	}
	return false
}
