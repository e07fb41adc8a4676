package result

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Run("counts every status bucket", func(t *testing.T) {
		results := []TestResult{
			{Name: "a", Status: StatusPassed, Duration: 10 * time.Millisecond},
			{Name: "b", Status: StatusPassed, Duration: 20 * time.Millisecond},
			{Name: "c", Status: StatusFailed, Duration: 30 * time.Millisecond},
			{Name: "d", Status: StatusError, Duration: 20 * time.Millisecond},
			{Name: "e", Status: StatusSkipped},
		}

		s := Summarize(results)
		assert.Equal(t, 5, s.Total)
		assert.Equal(t, 2, s.Passed)
		assert.Equal(t, 1, s.Failed)
		assert.Equal(t, 1, s.Errors)
		assert.Equal(t, 1, s.Skipped)
		assert.Equal(t, "40.00%", s.PassRate)
		assert.Equal(t, 80*time.Millisecond, s.TotalDuration)
		assert.Equal(t, 16*time.Millisecond, s.AvgDuration)
		assert.False(t, s.AllPassed())
	})

	t.Run("empty ledger has zero pass rate, not a crash", func(t *testing.T) {
		s := Summarize(nil)
		assert.Equal(t, 0, s.Total)
		assert.Equal(t, "0%", s.PassRate)
		assert.Equal(t, time.Duration(0), s.AvgDuration)
		assert.True(t, s.AllPassed())
	})

	t.Run("all passed verdict ignores skips", func(t *testing.T) {
		s := Summarize([]TestResult{
			{Status: StatusPassed},
			{Status: StatusSkipped},
		})
		assert.True(t, s.AllPassed())
	})
}

func TestFormatPassRate(t *testing.T) {
	assert.Equal(t, "96.00%", FormatPassRate(96, 100))
	assert.Equal(t, "33.33%", FormatPassRate(1, 3))
	assert.Equal(t, "0%", FormatPassRate(0, 0))
}
