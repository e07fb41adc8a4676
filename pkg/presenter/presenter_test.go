package presenter

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/skillcheck/skillcheck/pkg/result"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewWithOptions(&out, &errOut, ColorNever), &out, &errOut
}

func TestMessages(t *testing.T) {
	t.Run("error goes to stderr with context", func(t *testing.T) {
		p, out, errOut := newTestPresenter()
		p.Error(errors.New("boom"), "loading skills")
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "[ERROR] loading skills: boom")
	})

	t.Run("nil error prints nothing", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.Error(nil, "context")
		assert.Empty(t, errOut.String())
	})

	t.Run("success warning info section", func(t *testing.T) {
		p, out, _ := newTestPresenter()
		p.Success("all tests passed")
		p.Warning("no baseline")
		p.Info("3 skills loaded")
		p.Section("Unit Tests")

		output := out.String()
		assert.Contains(t, output, "✓ all tests passed")
		assert.Contains(t, output, "⚠ no baseline")
		assert.Contains(t, output, "3 skills loaded")
		assert.Contains(t, output, "Unit Tests\n----------")
	})
}

func TestQuietMode(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("hidden")
	p.Warning("hidden")
	p.Info("hidden")
	p.Section("hidden")
	p.Separator()
	assert.Empty(t, out.String())

	// Errors are never suppressed.
	p.Error(errors.New("still visible"), "")
	assert.Contains(t, errOut.String(), "still visible")
}

func TestResultLines(t *testing.T) {
	t.Run("status markers", func(t *testing.T) {
		p, out, _ := newTestPresenter()
		p.Result(result.TestResult{Name: "ok", Status: result.StatusPassed})
		p.Result(result.TestResult{Name: "bad", Status: result.StatusFailed, Message: "mismatch"})
		p.Result(result.TestResult{Name: "broken", Status: result.StatusError, Message: "no such skill"})
		p.Result(result.TestResult{Name: "later", Status: result.StatusSkipped})

		output := out.String()
		assert.Contains(t, output, "✓ ok")
		assert.Contains(t, output, "✗ bad: mismatch")
		assert.Contains(t, output, "! broken: no such skill")
		assert.Contains(t, output, "- later (skipped)")
	})

	t.Run("quiet mode keeps failures and errors only", func(t *testing.T) {
		p, out, _ := newTestPresenter()
		p.SetQuiet(true)

		p.Result(result.TestResult{Name: "ok", Status: result.StatusPassed})
		p.Result(result.TestResult{Name: "bad", Status: result.StatusFailed, Message: "mismatch"})

		output := out.String()
		assert.NotContains(t, output, "ok")
		assert.Contains(t, output, "✗ bad")
	})
}

func TestSummaryOutput(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.SetQuiet(true)

	p.Summary(result.Summary{
		Total: 10, Passed: 8, Failed: 1, Errors: 1,
		PassRate:      "80.00%",
		TotalDuration: time.Second,
		AvgDuration:   100 * time.Millisecond,
	})

	output := out.String()
	assert.Contains(t, output, "Total: 10")
	assert.Contains(t, output, "Pass rate: 80.00%")
	assert.Contains(t, output, "[Timing]")
}
