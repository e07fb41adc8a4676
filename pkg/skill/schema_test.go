package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterSchema(t *testing.T) {
	s := validSkill()
	s.Parameters = []Parameter{
		{Name: "code", Type: "string", Required: true, Description: "The code to review"},
		{Name: "max_issues", Type: "int", Required: false, Default: 10, Description: "Cap on reported issues"},
		{Name: "tags", Type: "list", Required: false, Description: "Labels to apply"},
	}

	schema := ParameterSchema(s)
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, "echo", schema.Title)
	assert.Equal(t, []string{"code"}, schema.Required)

	code, ok := schema.Properties.Get("code")
	require.True(t, ok)
	assert.Equal(t, "string", code.Type)

	maxIssues, ok := schema.Properties.Get("max_issues")
	require.True(t, ok)
	assert.Equal(t, "integer", maxIssues.Type)
	assert.Equal(t, 10, maxIssues.Default)

	tags, ok := schema.Properties.Get("tags")
	require.True(t, ok)
	assert.Equal(t, "array", tags.Type)
}
