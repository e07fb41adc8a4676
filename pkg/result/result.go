// Package result defines the uniform test result record emitted by every
// tier of the skill test engine, along with the aggregate summary math that
// the unified runner and the regression detector consume.
package result

import (
	"fmt"
	"time"
)

// Status is the four-valued outcome of a single test. Failed means the test
// ran and produced a wrong or unexpected outcome; Error means the test could
// not be meaningfully evaluated at all.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// TestResult is one test outcome. Results are never mutated after creation;
// every tier appends them to its ledger and hands slices around by value.
type TestResult struct {
	Name     string        `json:"test_name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Details  Details       `json:"details,omitempty"`
	Duration time.Duration `json:"duration_ms"`
}

// Summary aggregates a slice of results. PassRate is kept as a formatted
// percentage string because that is the shape the persisted baseline uses.
type Summary struct {
	Total         int           `json:"total"`
	Passed        int           `json:"passed"`
	Failed        int           `json:"failed"`
	Errors        int           `json:"errors"`
	Skipped       int           `json:"skipped"`
	PassRate      string        `json:"pass_rate"`
	TotalDuration time.Duration `json:"total_duration_ms"`
	AvgDuration   time.Duration `json:"avg_duration_ms"`
}

// AllPassed reports whether the summarized run is clean: no failures and no
// errors. Skipped results do not count against the verdict.
func (s Summary) AllPassed() bool {
	return s.Failed == 0 && s.Errors == 0
}

// Summarize computes the aggregate summary over results.
func Summarize(results []TestResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusError:
			s.Errors++
		case StatusSkipped:
			s.Skipped++
		}
		s.TotalDuration += r.Duration
	}
	s.PassRate = FormatPassRate(s.Passed, s.Total)
	if s.Total > 0 {
		s.AvgDuration = s.TotalDuration / time.Duration(s.Total)
	}
	return s
}

// FormatPassRate renders passed/total as a percentage string. A run with no
// tests is defined as "0%": vacuously non-passing, not a divide-by-zero.
func FormatPassRate(passed, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(passed)/float64(total)*100)
}
