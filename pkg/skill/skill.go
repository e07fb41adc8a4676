// Package skill defines the declarative skill model: named, versioned units
// of capability with trigger rules, a parameter contract, an output contract
// and an invokable body, plus the registry that catalogs them.
package skill

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Implementation is the invokable body of a skill. It accepts named
// parameters and must tolerate unknown extra keys, such as the workspace
// directory hint injected by the e2e runner.
type Implementation func(params map[string]any) (any, error)

// Validator is an optional caller-supplied predicate for one parameter value.
type Validator func(value any) bool

// Metadata identifies and describes a skill. Version is a free-form string
// here; the unit tester checks the three-integer dotted form.
type Metadata struct {
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Description  string    `json:"description"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Dependencies []string  `json:"dependencies,omitempty"`
}

// Parameter declares one named input of a skill. Type is a descriptive tag
// ("string", "int", "float", "bool", "list", "map"); it is not enforced
// structurally, only by the optional Validate predicate.
type Parameter struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Required    bool      `json:"required"`
	Default     any       `json:"default,omitempty"`
	Description string    `json:"description"`
	Validate    Validator `json:"-"`
}

// Output declares the skill's output contract. Schema maps field names to
// type tags and is descriptive only.
type Output struct {
	Type     string            `json:"type"`
	Schema   map[string]string `json:"schema,omitempty"`
	Examples []any             `json:"examples,omitempty"`
}

// Example documents one usage of a skill.
type Example struct {
	Description string         `json:"description,omitempty"`
	Input       map[string]any `json:"input"`
	Output      any            `json:"output,omitempty"`
}

// Skill is a complete skill definition. Identity is Name@Version.
type Skill struct {
	Metadata       Metadata
	Triggers       []TriggerRule
	Parameters     []Parameter
	Output         Output
	Implementation Implementation
	PromptTemplate string
	Examples       []Example
	RedFlags       []string
}

// ID returns the composite identity used as the registry key.
func (s *Skill) ID() string {
	return fmt.Sprintf("%s@%s", s.Metadata.Name, s.Metadata.Version)
}

// Validate checks the definition for completeness and returns every problem
// found. A valid skill has a name, version and description, at least one
// trigger, no required parameter with a default, and an implementation or a
// prompt template.
func (s *Skill) Validate() []error {
	var errs []error

	if s.Metadata.Name == "" {
		errs = append(errs, errors.New("skill name is required"))
	}
	if s.Metadata.Version == "" {
		errs = append(errs, errors.New("skill version is required"))
	}
	if s.Metadata.Description == "" {
		errs = append(errs, errors.New("skill description is required"))
	}

	if len(s.Triggers) == 0 {
		errs = append(errs, errors.New("at least one trigger rule is required"))
	}

	for _, p := range s.Parameters {
		if p.Required && p.Default != nil {
			errs = append(errs, errors.Errorf("required parameter %q cannot have a default value", p.Name))
		}
	}

	if s.Implementation == nil && s.PromptTemplate == "" {
		errs = append(errs, errors.New("either an implementation or a prompt template is required"))
	}

	return errs
}

// CanTrigger reports whether any trigger rule matches the input and context.
func (s *Skill) CanTrigger(input string, context map[string]any) bool {
	for _, t := range s.Triggers {
		if t.Matches(input, context) {
			return true
		}
	}
	return false
}

// Execute validates params against the parameter contract and invokes the
// skill body. All parameter problems are collected before anything runs; a
// non-empty problem list fails with a ParameterError and the body is never
// invoked. Unknown extra keys pass through to the body untouched.
func (s *Skill) Execute(params map[string]any) (any, error) {
	if problems := s.validateParams(params); len(problems) > 0 {
		return nil, &ParameterError{Skill: s.Metadata.Name, Problems: problems}
	}

	if s.Implementation == nil {
		return nil, &NotImplementedError{Skill: s.Metadata.Name}
	}

	out, err := s.Implementation(params)
	if err != nil {
		return nil, &ExecutionError{Skill: s.Metadata.Name, Err: err}
	}
	return out, nil
}

func (s *Skill) validateParams(params map[string]any) []string {
	var problems []string

	for _, p := range s.Parameters {
		if p.Required {
			if _, ok := params[p.Name]; !ok {
				problems = append(problems, fmt.Sprintf("missing required parameter: %s", p.Name))
			}
		}
	}

	for _, p := range s.Parameters {
		value, ok := params[p.Name]
		if !ok {
			continue
		}
		if p.Validate != nil && !p.Validate(value) {
			problems = append(problems, fmt.Sprintf("validation failed for parameter %q", p.Name))
		}
	}

	return problems
}
