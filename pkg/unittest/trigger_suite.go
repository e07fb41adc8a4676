package unittest

import (
	"fmt"

	"github.com/skillcheck/skillcheck/pkg/result"
	"github.com/skillcheck/skillcheck/pkg/skill"
)

// TriggerFixture is one trigger expectation: given this input and context,
// the skill should or should not activate.
type TriggerFixture struct {
	Input         string         `yaml:"input"`
	Context       map[string]any `yaml:"context,omitempty"`
	ShouldTrigger bool           `yaml:"should_trigger"`
}

// TriggerSuite checks a skill's trigger behavior against fixtures.
type TriggerSuite struct {
	skill *skill.Skill
}

// NewTriggerSuite creates a trigger suite for the skill.
func NewTriggerSuite(s *skill.Skill) *TriggerSuite {
	return &TriggerSuite{skill: s}
}

// Run evaluates every fixture, emitting Passed when the observed activation
// equals the expectation and Failed otherwise. Both values travel in the
// details for diagnosis.
func (ts *TriggerSuite) Run(fixtures []TriggerFixture) []result.TestResult {
	results := make([]result.TestResult, 0, len(fixtures))

	for idx, f := range fixtures {
		actual := ts.skill.CanTrigger(f.Input, f.Context)
		name := fmt.Sprintf("trigger_case_%d", idx)
		details := result.TriggerDetails{
			Expected: f.ShouldTrigger,
			Actual:   actual,
			Input:    f.Input,
			Context:  f.Context,
		}

		if actual == f.ShouldTrigger {
			verb := "ignored"
			if f.ShouldTrigger {
				verb = "matched"
			}
			results = append(results, result.TestResult{
				Name:    name,
				Status:  result.StatusPassed,
				Message: fmt.Sprintf("trigger correctly %s: %q", verb, truncate(f.Input, 50)),
				Details: details,
			})
		} else {
			results = append(results, result.TestResult{
				Name:    name,
				Status:  result.StatusFailed,
				Message: fmt.Sprintf("trigger mismatch for: %q", truncate(f.Input, 50)),
				Details: details,
			})
		}
	}

	return results
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
