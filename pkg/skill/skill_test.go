package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSkill() *Skill {
	return &Skill{
		Metadata: Metadata{
			Name:        "echo",
			Version:     "1.0.0",
			Description: "Echoes its input back to the caller for pipeline testing",
			Author:      "Platform Team",
		},
		Triggers: []TriggerRule{
			{Condition: TriggerKeyword, Pattern: "echo", Priority: 10},
		},
		Parameters: []Parameter{
			{Name: "input", Type: "string", Required: true, Description: "The value to echo back"},
		},
		Output: Output{Type: "string"},
		Implementation: func(params map[string]any) (any, error) {
			return params["input"], nil
		},
		Examples: []Example{{Input: map[string]any{"input": "hi"}, Output: "hi"}},
		RedFlags: []string{"do not use for data transformation"},
	}
}

func TestSkillValidate(t *testing.T) {
	t.Run("valid skill has no errors", func(t *testing.T) {
		assert.Empty(t, validSkill().Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		s := validSkill()
		s.Metadata.Name = ""
		errs := s.Validate()
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "name is required")
	})

	t.Run("missing triggers", func(t *testing.T) {
		s := validSkill()
		s.Triggers = nil
		errs := s.Validate()
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "trigger")
	})

	t.Run("required parameter with default", func(t *testing.T) {
		s := validSkill()
		s.Parameters[0].Default = "oops"
		errs := s.Validate()
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "cannot have a default value")
	})

	t.Run("no implementation and no template", func(t *testing.T) {
		s := validSkill()
		s.Implementation = nil
		s.PromptTemplate = ""
		errs := s.Validate()
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "implementation or a prompt template")
	})

	t.Run("template-only skill is valid", func(t *testing.T) {
		s := validSkill()
		s.Implementation = nil
		s.PromptTemplate = "Echo the following: {input}"
		assert.Empty(t, s.Validate())
	})

	t.Run("multiple problems are all reported", func(t *testing.T) {
		s := &Skill{}
		errs := s.Validate()
		assert.Len(t, errs, 5)
	})
}

func TestSkillExecute(t *testing.T) {
	t.Run("passes parameters through to the body", func(t *testing.T) {
		s := validSkill()
		out, err := s.Execute(map[string]any{"input": "hello"})
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
	})

	t.Run("missing required parameter fails before the body runs", func(t *testing.T) {
		invoked := false
		s := validSkill()
		s.Implementation = func(params map[string]any) (any, error) {
			invoked = true
			return nil, nil
		}

		_, err := s.Execute(map[string]any{})
		var perr *ParameterError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Problems[0], "missing required parameter: input")
		assert.False(t, invoked)
	})

	t.Run("custom validator rejection carries the full problem list", func(t *testing.T) {
		s := validSkill()
		s.Parameters = append(s.Parameters, Parameter{
			Name:        "count",
			Type:        "int",
			Required:    true,
			Description: "Number of repetitions",
			Validate: func(v any) bool {
				_, ok := v.(int)
				return ok
			},
		})

		_, err := s.Execute(map[string]any{"count": "three"})
		var perr *ParameterError
		require.ErrorAs(t, err, &perr)
		assert.Len(t, perr.Problems, 2) // missing input + rejected count
	})

	t.Run("extra unknown keys are tolerated", func(t *testing.T) {
		s := validSkill()
		out, err := s.Execute(map[string]any{"input": "x", "_workspace_dir": "/tmp/ws"})
		require.NoError(t, err)
		assert.Equal(t, "x", out)
	})

	t.Run("no implementation", func(t *testing.T) {
		s := validSkill()
		s.Implementation = nil
		s.PromptTemplate = "template"

		_, err := s.Execute(map[string]any{"input": "x"})
		var nerr *NotImplementedError
		assert.ErrorAs(t, err, &nerr)
	})

	t.Run("body failure surfaces as ExecutionError", func(t *testing.T) {
		s := validSkill()
		s.Implementation = func(params map[string]any) (any, error) {
			return nil, assert.AnError
		}

		_, err := s.Execute(map[string]any{"input": "x"})
		var eerr *ExecutionError
		require.ErrorAs(t, err, &eerr)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestSkillID(t *testing.T) {
	assert.Equal(t, "echo@1.0.0", validSkill().ID())
}
