package main

import (
	"fmt"

	"github.com/skillcheck/skillcheck/pkg/presenter"
	"github.com/skillcheck/skillcheck/pkg/regression"
	"github.com/skillcheck/skillcheck/pkg/result"
	"github.com/skillcheck/skillcheck/pkg/runner"
)

// presentReport renders one run report tier by tier.
func presentReport(report *runner.Report) {
	presentTier("Unit Tests", report.UnitResults)
	presentTier("Integration Tests", report.IntegrationResults)
	presentTier("End-to-End Workflows", report.E2EResults)

	presenter.Separator()
	presenter.Summary(report.Summary)

	if report.Regression != nil {
		presentRegression(report.Regression)
	}

	if report.Verdict == runner.VerdictPassed {
		presenter.Success("run " + report.RunID + " passed")
	} else {
		presenter.Warning("run " + report.RunID + " failed")
	}
}

func presentTier(title string, results []result.TestResult) {
	if len(results) == 0 {
		return
	}
	presenter.Section(title)
	for _, r := range results {
		presenter.Result(r)
	}
}

func presentRegression(report *regression.Report) {
	if report.Action == regression.ActionSaveBaseline {
		presenter.Warning("no baseline found; saved current metrics as the baseline")
		return
	}
	for _, f := range report.Regressions {
		presenter.Warning(fmt.Sprintf("regression in %s: %.2f -> %.2f (%s)",
			f.Metric, f.Baseline, f.Current, f.Change))
	}
	for _, f := range report.Improvements {
		presenter.Info(fmt.Sprintf("improvement in %s: %.2f -> %.2f (%s)",
			f.Metric, f.Baseline, f.Current, f.Change))
	}
	if !report.HasRegression && len(report.Improvements) == 0 {
		presenter.Info(report.Message)
	}
}
