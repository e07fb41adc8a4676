package unittest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcheck/skillcheck/pkg/result"
)

func TestTriggerSuiteRun(t *testing.T) {
	suite := NewTriggerSuite(wellFormedSkill())

	fixtures := []TriggerFixture{
		{Input: "please do a Code Review of this", ShouldTrigger: true},
		{Input: "deploy to production", ShouldTrigger: false},
		{Input: "review code for me", ShouldTrigger: true},
		{Input: "nothing relevant", ShouldTrigger: true}, // wrong expectation
	}

	results := suite.Run(fixtures)
	require.Len(t, results, 4)

	assert.Equal(t, result.StatusPassed, results[0].Status)
	assert.Equal(t, result.StatusPassed, results[1].Status)
	assert.Equal(t, result.StatusPassed, results[2].Status)
	assert.Equal(t, result.StatusFailed, results[3].Status)

	details, ok := results[3].Details.(result.TriggerDetails)
	require.True(t, ok)
	assert.True(t, details.Expected)
	assert.False(t, details.Actual)
	assert.Equal(t, "nothing relevant", details.Input)
}

func TestTriggerSuiteEmptyFixtures(t *testing.T) {
	suite := NewTriggerSuite(wellFormedSkill())
	assert.Empty(t, suite.Run(nil))
}
