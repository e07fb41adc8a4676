// Package integration invokes skills with concrete parameters and validates
// their output and failure behavior against declared expectations. Every
// invocation, successful or not, is recorded in a ledger for later
// inspection; the ledger is never cleared automatically.
package integration

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/aymanbagabas/go-udiff"

	"github.com/skillcheck/skillcheck/pkg/result"
	"github.com/skillcheck/skillcheck/pkg/skill"
)

// TestCase declares one integration check: resolve a skill, invoke it with
// Params, and compare the outcome against the expectation.
//
// Output matching: when ExpectedOutputType is set, the runtime type tag of
// the actual output must equal it exactly. When ExpectedOutput is set, deep
// equality is required; expectations must use the same concrete Go types the
// skill produces. When neither is set, any non-failing result passes.
type TestCase struct {
	Name               string         `yaml:"name"`
	Description        string         `yaml:"description,omitempty"`
	SkillName          string         `yaml:"skill"`
	SkillVersion       string         `yaml:"version,omitempty"`
	Params             map[string]any `yaml:"params,omitempty"`
	ExpectedOutput     any            `yaml:"expected_output,omitempty"`
	ExpectedOutputType string         `yaml:"expected_output_type,omitempty"`
	ShouldSucceed      bool           `yaml:"should_succeed"`
}

// Invocation is the ledger record of one skill call.
type Invocation struct {
	SkillName    string
	SkillVersion string
	Parameters   map[string]any
	Output       any
	Success      bool
	Duration     time.Duration
	Error        string
	Timestamp    time.Time
}

// SuiteSummary extends the shared summary with invocation-ledger counts.
type SuiteSummary struct {
	result.Summary
	TotalInvocations      int `json:"total_invocations"`
	SuccessfulInvocations int `json:"successful_invocations"`
}

// Tester runs integration test cases against a registry of skills.
type Tester struct {
	registry    *skill.Registry
	invocations []Invocation
	results     []result.TestResult
}

// NewTester creates an integration tester.
func NewTester(registry *skill.Registry) *Tester {
	return &Tester{registry: registry}
}

// RunCase resolves the named skill and executes it, producing one of the four
// verdicts: Passed (succeeded and matched, or correctly failed), Failed
// (wrong output, unexpected success, or unexpected failure), or Error when
// the skill cannot be resolved at all.
func (t *Tester) RunCase(tc TestCase) result.TestResult {
	start := time.Now()

	s, err := t.registry.Get(tc.SkillName, tc.SkillVersion)
	if err != nil {
		return result.TestResult{
			Name:     tc.Name,
			Status:   result.StatusError,
			Message:  err.Error(),
			Details:  result.ErrorDetails{Error: err.Error()},
			Duration: time.Since(start),
		}
	}

	output, execErr := s.Execute(tc.Params)
	duration := time.Since(start)

	t.invocations = append(t.invocations, Invocation{
		SkillName:    s.Metadata.Name,
		SkillVersion: s.Metadata.Version,
		Parameters:   tc.Params,
		Output:       output,
		Success:      execErr == nil,
		Duration:     duration,
		Error:        errString(execErr),
		Timestamp:    time.Now(),
	})

	if execErr != nil {
		if !tc.ShouldSucceed {
			return result.TestResult{
				Name:     tc.Name,
				Status:   result.StatusPassed,
				Message:  fmt.Sprintf("skill correctly failed: %v", execErr),
				Details:  result.InvocationDetails{Error: execErr.Error()},
				Duration: duration,
			}
		}
		return result.TestResult{
			Name:     tc.Name,
			Status:   result.StatusFailed,
			Message:  fmt.Sprintf("skill execution failed: %v", execErr),
			Details:  result.InvocationDetails{Error: execErr.Error()},
			Duration: duration,
		}
	}

	if !tc.ShouldSucceed {
		return result.TestResult{
			Name:     tc.Name,
			Status:   result.StatusFailed,
			Message:  "skill should have failed but succeeded",
			Details:  result.InvocationDetails{Output: output},
			Duration: duration,
		}
	}

	ok, reason, diff := validateOutput(output, tc.ExpectedOutput, tc.ExpectedOutputType)
	if !ok {
		return result.TestResult{
			Name:    tc.Name,
			Status:  result.StatusFailed,
			Message: fmt.Sprintf("output validation failed: %s", reason),
			Details: result.InvocationDetails{
				Output:   output,
				Expected: tc.ExpectedOutput,
				Reason:   reason,
				Diff:     diff,
			},
			Duration: duration,
		}
	}

	return result.TestResult{
		Name:     tc.Name,
		Status:   result.StatusPassed,
		Message:  fmt.Sprintf("skill executed successfully in %v", duration),
		Details:  result.InvocationDetails{Output: output, Reason: reason},
		Duration: duration,
	}
}

// RunSuite runs the cases in order, replacing the tester's result set.
func (t *Tester) RunSuite(cases []TestCase) []result.TestResult {
	t.results = nil
	for _, tc := range cases {
		t.results = append(t.results, t.RunCase(tc))
	}
	return t.results
}

// Invocations returns the full invocation ledger.
func (t *Tester) Invocations() []Invocation {
	return t.invocations
}

// Summary aggregates the last suite run plus the invocation ledger counts.
func (t *Tester) Summary() SuiteSummary {
	successful := 0
	for _, inv := range t.invocations {
		if inv.Success {
			successful++
		}
	}
	return SuiteSummary{
		Summary:               result.Summarize(t.results),
		TotalInvocations:      len(t.invocations),
		SuccessfulInvocations: successful,
	}
}

func validateOutput(actual, expected any, expectedType string) (ok bool, reason, diff string) {
	if expectedType != "" {
		actualType := typeTag(actual)
		if actualType != expectedType {
			return false, fmt.Sprintf("type mismatch: expected %s, got %s", expectedType, actualType), ""
		}
	}

	if expected != nil {
		if reflect.DeepEqual(actual, expected) {
			return true, "output matches expected value", ""
		}
		return false, "value mismatch", diffValues(expected, actual)
	}

	return true, "no expected value specified", ""
}

// typeTag maps a runtime value onto the engine's type-tag vocabulary.
func typeTag(v any) string {
	if v == nil {
		return "nil"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map:
		return "map"
	}
	return reflect.TypeOf(v).String()
}

func diffValues(expected, actual any) string {
	return udiff.Unified("expected", "actual", renderValue(expected), renderValue(actual))
}

func renderValue(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%#v\n", v)
	}
	return string(b) + "\n"
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
