package skill

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed skill definition. It is raised at
// registration time and the registry fails closed: the skill is never stored.
type ValidationError struct {
	Skill  string
	Errors []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("skill %q failed validation: %s", e.Skill, strings.Join(msgs, "; "))
}

// ParameterError reports missing required parameters or custom-validation
// rejections at execution time. Execution never partially runs: the full
// problem list is computed before the skill body is invoked.
type ParameterError struct {
	Skill    string
	Problems []string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter validation failed for %q: %s", e.Skill, strings.Join(e.Problems, "; "))
}

// NotFoundError reports an unknown skill name or version. Testers surface it
// as an Error-status result, distinct from a Failed-status result.
type NotFoundError struct {
	Name    string
	Version string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("skill not found: %s@%s", e.Name, e.Version)
	}
	return fmt.Sprintf("skill not found: %s", e.Name)
}

// NotImplementedError reports an invocation of a skill that declares no
// executable body. Template-only skills are valid definitions but cannot run.
type NotImplementedError struct {
	Skill string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("skill %q has no implementation", e.Skill)
}

// ExecutionError wraps a failure raised by the skill body itself.
type ExecutionError struct {
	Skill string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("skill %q execution failed: %v", e.Skill, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
