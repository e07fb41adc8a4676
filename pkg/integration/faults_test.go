package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcheck/skillcheck/pkg/result"
	"github.com/skillcheck/skillcheck/pkg/skill"
)

func TestParameterValidationProbes(t *testing.T) {
	t.Run("skill with required params and validators", func(t *testing.T) {
		tester := NewTester(testRegistry(t))
		results := tester.TestParameterValidation("double")

		byName := map[string]result.TestResult{}
		for _, r := range results {
			byName[r.Name] = r
		}

		missing, ok := byName["missing_required_params"]
		require.True(t, ok)
		assert.Equal(t, result.StatusPassed, missing.Status)

		// "input" declares int with a validator; the string placeholder must
		// be rejected by the validator, so the probe passes.
		probe, ok := byName["param_input_type_validation"]
		require.True(t, ok)
		assert.Equal(t, result.StatusPassed, probe.Status)
	})

	t.Run("validator-less param that accepts the placeholder emits nothing", func(t *testing.T) {
		reg := skill.NewRegistry()
		lenient := &skill.Skill{
			Metadata: skill.Metadata{
				Name:        "lenient",
				Version:     "1.0.0",
				Description: "Accepts anything, declares no validators at all",
				Author:      "Platform Team",
			},
			Triggers:   []skill.TriggerRule{{Condition: skill.TriggerKeyword, Pattern: "lenient"}},
			Parameters: []skill.Parameter{{Name: "text", Type: "string", Description: "Free-form text input"}},
			Output:     skill.Output{Type: "string"},
			Implementation: func(params map[string]any) (any, error) {
				return "ok", nil
			},
			Examples: []skill.Example{{Input: map[string]any{}}},
			RedFlags: []string{"fixture"},
		}
		require.NoError(t, reg.Register(lenient))

		results := NewTester(reg).TestParameterValidation("lenient")
		// No required params, no validator rejection: nothing to report.
		assert.Empty(t, results)
	})

	t.Run("declared validator that lets a mismatch through is flagged", func(t *testing.T) {
		reg := skill.NewRegistry()
		broken := &skill.Skill{
			Metadata: skill.Metadata{
				Name:        "broken-validator",
				Version:     "1.0.0",
				Description: "Has a validator that accepts everything, wrongly",
				Author:      "Platform Team",
			},
			Triggers: []skill.TriggerRule{{Condition: skill.TriggerKeyword, Pattern: "broken"}},
			Parameters: []skill.Parameter{
				{Name: "count", Type: "int", Description: "Should be an int but the validator is a no-op",
					Validate: func(any) bool { return true }},
			},
			Output: skill.Output{Type: "nil"},
			Implementation: func(params map[string]any) (any, error) {
				return nil, nil
			},
			Examples: []skill.Example{{Input: map[string]any{}}},
			RedFlags: []string{"fixture"},
		}
		require.NoError(t, reg.Register(broken))

		results := NewTester(reg).TestParameterValidation("broken-validator")
		require.Len(t, results, 1)
		assert.Equal(t, "param_count_type_validation", results[0].Name)
		assert.Equal(t, result.StatusFailed, results[0].Status)
	})

	t.Run("unknown skill is a single Error result", func(t *testing.T) {
		tester := NewTester(testRegistry(t))
		results := tester.TestParameterValidation("nope")
		require.Len(t, results, 1)
		assert.Equal(t, result.StatusError, results[0].Status)
	})
}
