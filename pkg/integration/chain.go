package integration

import (
	"fmt"
	"time"

	"github.com/skillcheck/skillcheck/pkg/result"
)

// TestSkillChaining invokes the named skills in sequence, feeding each
// skill's entire previous output as the sole "input" parameter of the next.
//
// The single-key re-parameterization is a deliberately narrow diagnostic
// probe, not a general data-flow mechanism; skills whose contracts do not fit
// it simply fail the probe.
func (t *Tester) TestSkillChaining(names []string, initialParams map[string]any) result.TestResult {
	start := time.Now()
	var outputs []result.ChainOutput

	currentParams := initialParams
	for idx, name := range names {
		s, err := t.registry.Get(name, "")
		if err != nil {
			return result.TestResult{
				Name:     "skill_chaining",
				Status:   result.StatusError,
				Message:  fmt.Sprintf("skill not found in chain: %s", name),
				Details:  result.ChainDetails{Outputs: outputs, Error: err.Error()},
				Duration: time.Since(start),
			}
		}

		output, err := s.Execute(currentParams)
		if err != nil {
			return result.TestResult{
				Name:     "skill_chaining",
				Status:   result.StatusFailed,
				Message:  fmt.Sprintf("skill chaining failed: %v", err),
				Details:  result.ChainDetails{Outputs: outputs, Error: err.Error()},
				Duration: time.Since(start),
			}
		}
		outputs = append(outputs, result.ChainOutput{Skill: name, Output: output})

		if idx < len(names)-1 {
			currentParams = map[string]any{"input": output}
		}
	}

	return result.TestResult{
		Name:     "skill_chaining",
		Status:   result.StatusPassed,
		Message:  fmt.Sprintf("successfully chained %d skills", len(names)),
		Details:  result.ChainDetails{Outputs: outputs},
		Duration: time.Since(start),
	}
}
