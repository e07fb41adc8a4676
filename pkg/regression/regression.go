// Package regression compares a run's aggregate metrics against a stored
// baseline and flags meaningful drops in pass rate or blowups in duration.
package regression

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/skillcheck/skillcheck/pkg/result"
)

// Detection thresholds. A pass-rate drop is measured in percentage points,
// a duration blowup as a ratio against the baseline.
const (
	PassRateDropThreshold    = 5.0
	DurationRatioThreshold   = 1.5
	PassRateImproveThreshold = 2.0
)

// ActionSaveBaseline tells the caller to persist the current metrics as the
// new baseline because none exists yet.
const ActionSaveBaseline = "save_baseline"

// Metrics is the aggregate snapshot persisted as a baseline.
type Metrics struct {
	TotalTests      int     `json:"total_tests"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	Errors          int     `json:"errors"`
	PassRate        string  `json:"pass_rate"`
	TotalDurationMS float64 `json:"total_duration_ms"`
	AvgDurationMS   float64 `json:"avg_duration_ms"`
	Timestamp       string  `json:"timestamp"`
}

// ComputeMetrics folds a result set into a baseline-comparable snapshot.
func ComputeMetrics(results []result.TestResult) Metrics {
	summary := result.Summarize(results)
	return Metrics{
		TotalTests:      summary.Total,
		Passed:          summary.Passed,
		Failed:          summary.Failed,
		Errors:          summary.Errors,
		PassRate:        result.FormatPassRate(summary.Passed, summary.Total),
		TotalDurationMS: float64(summary.TotalDuration) / float64(time.Millisecond),
		AvgDurationMS:   float64(summary.AvgDuration) / float64(time.Millisecond),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}

// passRateValue parses the stored "95.83%" form back into points.
func (m Metrics) passRateValue() float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(m.PassRate, "%"), 64)
	if err != nil {
		return 0
	}
	return v
}

// Finding is one flagged metric movement.
type Finding struct {
	Metric   string  `json:"metric"`
	Baseline float64 `json:"baseline"`
	Current  float64 `json:"current"`
	Change   string  `json:"change"`
}

// Report is the outcome of one baseline comparison.
type Report struct {
	HasRegression bool      `json:"has_regression"`
	Message       string    `json:"message"`
	Action        string    `json:"action,omitempty"`
	Regressions   []Finding `json:"regressions,omitempty"`
	Improvements  []Finding `json:"improvements,omitempty"`
}

// Detector compares runs against a baseline file.
type Detector struct {
	baselinePath string
}

func NewDetector(baselinePath string) *Detector {
	return &Detector{baselinePath: baselinePath}
}

// LoadBaseline reads the stored baseline. A missing file is not an error;
// it returns (nil, nil) so the caller can decide to seed one.
func (d *Detector) LoadBaseline() (*Metrics, error) {
	data, err := os.ReadFile(d.baselinePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read baseline")
	}
	var m Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse baseline")
	}
	return &m, nil
}

// SaveBaseline persists the metrics as the new baseline.
func (d *Detector) SaveBaseline(m Metrics) error {
	if dir := filepath.Dir(d.baselinePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create baseline directory")
		}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode baseline")
	}
	if err := os.WriteFile(d.baselinePath, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write baseline")
	}
	return nil
}

// Detect compares current metrics against the stored baseline. Without a
// baseline the report asks the caller to save one instead of guessing.
func (d *Detector) Detect(current Metrics) (*Report, error) {
	baseline, err := d.LoadBaseline()
	if err != nil {
		return nil, err
	}
	if baseline == nil {
		return &Report{
			Message: "no baseline found",
			Action:  ActionSaveBaseline,
		}, nil
	}

	report := &Report{}

	basePass := baseline.passRateValue()
	curPass := current.passRateValue()
	passDelta := curPass - basePass

	if passDelta < -PassRateDropThreshold {
		report.Regressions = append(report.Regressions, Finding{
			Metric:   "pass_rate",
			Baseline: basePass,
			Current:  curPass,
			Change:   fmt.Sprintf("%+.2f%%", passDelta),
		})
	}

	if baseline.AvgDurationMS > 0 {
		ratio := current.AvgDurationMS / baseline.AvgDurationMS
		if ratio > DurationRatioThreshold {
			report.Regressions = append(report.Regressions, Finding{
				Metric:   "avg_duration_ms",
				Baseline: baseline.AvgDurationMS,
				Current:  current.AvgDurationMS,
				Change:   fmt.Sprintf("%+.2f%%", (ratio-1)*100),
			})
		}
	}

	if len(report.Regressions) > 0 {
		report.HasRegression = true
		report.Message = fmt.Sprintf("%d regression(s) detected", len(report.Regressions))
		return report, nil
	}

	// Improvements are only surfaced on clean runs, and only for pass rate.
	if passDelta > PassRateImproveThreshold {
		report.Improvements = append(report.Improvements, Finding{
			Metric:   "pass_rate",
			Baseline: basePass,
			Current:  curPass,
			Change:   fmt.Sprintf("%+.2f%%", passDelta),
		})
	}

	if len(report.Improvements) > 0 {
		report.Message = fmt.Sprintf("%d improvement(s), no regressions", len(report.Improvements))
	} else {
		report.Message = "no regressions detected"
	}
	return report, nil
}
