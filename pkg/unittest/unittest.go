// Package unittest validates a skill's static definition: metadata, trigger
// rules, parameter declarations and overall validity. It is pure and
// side-effect free; the skill body is never invoked.
package unittest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skillcheck/skillcheck/pkg/result"
	"github.com/skillcheck/skillcheck/pkg/skill"
)

// The priority spread check is an advisory convention, not a hard constraint:
// rules more than this far apart usually mean two skills fused into one.
const maxPrioritySpread = 100

const (
	minDescriptionLen      = 20
	minParamDescriptionLen = 10
)

// Tester runs static definition checks over one skill, emitting one
// TestResult per checked fact.
type Tester struct {
	skill   *skill.Skill
	results []result.TestResult
}

// NewTester creates a unit tester for the skill.
func NewTester(s *skill.Skill) *Tester {
	return &Tester{skill: s}
}

// RunAll runs every check group and returns the accumulated results.
func (t *Tester) RunAll() []result.TestResult {
	t.results = nil
	t.results = append(t.results, t.checkMetadata()...)
	t.results = append(t.results, t.checkTriggers()...)
	t.results = append(t.results, t.checkParameters()...)
	t.results = append(t.results, t.checkValidity()...)
	return t.results
}

// Summary aggregates the results of the last RunAll.
func (t *Tester) Summary() result.Summary {
	return result.Summarize(t.results)
}

func check(name string, ok bool, passMsg, failMsg string) result.TestResult {
	if ok {
		return result.TestResult{Name: name, Status: result.StatusPassed, Message: passMsg}
	}
	return result.TestResult{Name: name, Status: result.StatusFailed, Message: failMsg}
}

func (t *Tester) checkMetadata() []result.TestResult {
	md := t.skill.Metadata
	var results []result.TestResult

	results = append(results, check("metadata_name_exists",
		md.Name != "",
		"skill name is valid",
		"skill name is missing or empty"))

	results = append(results, check("metadata_version_valid",
		isDottedTriple(md.Version),
		fmt.Sprintf("version %s is valid", md.Version),
		"version is missing or not in major.minor.patch form"))

	results = append(results, check("metadata_description_adequate",
		len(md.Description) >= minDescriptionLen,
		fmt.Sprintf("description length: %d chars", len(md.Description)),
		fmt.Sprintf("description too short: %d chars (minimum %d)", len(md.Description), minDescriptionLen)))

	results = append(results, check("metadata_author_exists",
		md.Author != "",
		fmt.Sprintf("author: %s", md.Author),
		"author information is missing"))

	return results
}

func (t *Tester) checkTriggers() []result.TestResult {
	triggers := t.skill.Triggers
	var results []result.TestResult

	results = append(results, check("triggers_exist",
		len(triggers) > 0,
		fmt.Sprintf("found %d trigger(s)", len(triggers)),
		"no triggers defined"))

	for idx, trigger := range triggers {
		results = append(results, check(fmt.Sprintf("trigger_%d_pattern_valid", idx),
			trigger.Pattern != "",
			fmt.Sprintf("trigger %d has pattern: %q", idx, trigger.Pattern),
			fmt.Sprintf("trigger %d has empty pattern", idx)))
	}

	if len(triggers) > 0 {
		min, max := triggers[0].Priority, triggers[0].Priority
		for _, trigger := range triggers[1:] {
			if trigger.Priority < min {
				min = trigger.Priority
			}
			if trigger.Priority > max {
				max = trigger.Priority
			}
		}
		results = append(results, check("triggers_priority_range",
			max-min <= maxPrioritySpread,
			fmt.Sprintf("priority range: %d-%d", min, max),
			fmt.Sprintf("priority range too large: %d-%d", min, max)))
	}

	return results
}

func (t *Tester) checkParameters() []result.TestResult {
	params := t.skill.Parameters
	var results []result.TestResult

	seen := make(map[string]bool, len(params))
	var duplicates []string
	for _, p := range params {
		if seen[p.Name] {
			duplicates = append(duplicates, p.Name)
		}
		seen[p.Name] = true
	}
	results = append(results, check("parameters_unique_names",
		len(duplicates) == 0,
		fmt.Sprintf("all %d parameter names are unique", len(params)),
		fmt.Sprintf("duplicate parameter names: %s", strings.Join(duplicates, ", "))))

	for _, p := range params {
		if !p.Required {
			continue
		}
		results = append(results, check(fmt.Sprintf("parameter_%s_no_default", p.Name),
			p.Default == nil,
			fmt.Sprintf("required parameter %q has no default", p.Name),
			fmt.Sprintf("required parameter %q should not have a default value", p.Name)))
	}

	for _, p := range params {
		results = append(results, check(fmt.Sprintf("parameter_%s_has_type", p.Name),
			p.Type != "",
			fmt.Sprintf("parameter %q has type: %s", p.Name, p.Type),
			fmt.Sprintf("parameter %q missing type definition", p.Name)))
	}

	for _, p := range params {
		results = append(results, check(fmt.Sprintf("parameter_%s_has_description", p.Name),
			len(p.Description) >= minParamDescriptionLen,
			fmt.Sprintf("parameter %q has adequate description", p.Name),
			fmt.Sprintf("parameter %q missing or inadequate description", p.Name)))
	}

	return results
}

func (t *Tester) checkValidity() []result.TestResult {
	var results []result.TestResult

	if errs := t.skill.Validate(); len(errs) == 0 {
		results = append(results, result.TestResult{
			Name:    "skill_validate",
			Status:  result.StatusPassed,
			Message: "skill validation passed",
		})
	} else {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		results = append(results, result.TestResult{
			Name:    "skill_validate",
			Status:  result.StatusFailed,
			Message: fmt.Sprintf("skill validation failed: %s", strings.Join(msgs, "; ")),
			Details: result.ValidationDetails{Errors: msgs},
		})
	}

	results = append(results, check("skill_has_implementation",
		t.skill.Implementation != nil || t.skill.PromptTemplate != "",
		"skill has an implementation or prompt template",
		"skill missing both implementation and prompt template"))

	results = append(results, check("skill_has_examples",
		len(t.skill.Examples) > 0,
		fmt.Sprintf("skill has %d example(s)", len(t.skill.Examples)),
		"skill should have at least one example"))

	results = append(results, check("skill_has_red_flags",
		len(t.skill.RedFlags) > 0,
		fmt.Sprintf("skill has %d red flag(s)", len(t.skill.RedFlags)),
		"skill should define red flags to prevent misuse"))

	return results
}

// isDottedTriple reports whether version is three dot-separated integers.
func isDottedTriple(version string) bool {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if _, err := strconv.Atoi(part); err != nil {
			return false
		}
	}
	return true
}
