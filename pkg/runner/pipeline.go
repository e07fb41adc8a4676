package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/skillcheck/skillcheck/pkg/e2e"
	"github.com/skillcheck/skillcheck/pkg/integration"
	"github.com/skillcheck/skillcheck/pkg/logger"
	"github.com/skillcheck/skillcheck/pkg/skill"
	"github.com/skillcheck/skillcheck/pkg/telemetry"
	"github.com/skillcheck/skillcheck/pkg/unittest"
)

// Fixtures is the declarative input a pipeline runs against.
type Fixtures struct {
	Triggers    map[string][]unittest.TriggerFixture
	Integration []integration.TestCase
	E2E         []e2e.TestCase
}

// Pipeline binds a runner to a fixed set of fixtures and exposes the common
// invocation shapes: pre-commit gating, single-skill reruns, and the full
// nightly sweep with export.
type Pipeline struct {
	runner    *Runner
	fixtures  Fixtures
	exportDir string
}

func NewPipeline(r *Runner, fixtures Fixtures, exportDir string) *Pipeline {
	return &Pipeline{
		runner:    r,
		fixtures:  fixtures,
		exportDir: exportDir,
	}
}

// RunPreCommit runs the fast tiers (unit and integration, with parameter
// probes) and regression detection. It never runs e2e workflows; those are
// too slow to gate a commit on.
func (p *Pipeline) RunPreCommit(ctx context.Context) (*Report, error) {
	var report *Report
	err := telemetry.WithSpan(ctx, "pipeline.precommit", func(ctx context.Context) error {
		var err error
		report, err = p.runner.RunAll(ctx, Options{
			TriggerFixtures:  p.fixtures.Triggers,
			IntegrationCases: p.fixtures.Integration,
			RunUnit:          true,
			RunIntegration:   true,
			ParameterProbes:  true,
			DetectRegression: true,
		})
		return err
	})
	return report, err
}

// RunOnSkillChange reruns the tiers scoped to one skill: its unit checks and
// the integration cases that target it.
func (p *Pipeline) RunOnSkillChange(ctx context.Context, name string) (*Report, error) {
	s, err := p.runner.registry.Get(name, "")
	if err != nil {
		return nil, err
	}

	var cases []integration.TestCase
	for _, tc := range p.fixtures.Integration {
		if tc.SkillName == name {
			cases = append(cases, tc)
		}
	}

	logger.G(ctx).WithField("skill", name).
		WithField("cases", len(cases)).
		Info("rerunning tests for changed skill")

	var report *Report
	err = telemetry.WithSpan(ctx, "pipeline.skill_change", func(ctx context.Context) error {
		var err error
		report, err = p.runner.RunAll(ctx, Options{
			Skills:           []*skill.Skill{s},
			TriggerFixtures:  p.fixtures.Triggers,
			IntegrationCases: cases,
			RunUnit:          true,
			RunIntegration:   true,
			ParameterProbes:  true,
		})
		return err
	}, attribute.String("skill", name))
	return report, err
}

// RunNightly runs every tier, compares against the baseline, and exports the
// full report to a timestamped file under the export directory.
func (p *Pipeline) RunNightly(ctx context.Context) (*Report, string, error) {
	var report *Report
	var exportPath string
	err := telemetry.WithSpan(ctx, "pipeline.nightly", func(ctx context.Context) error {
		var err error
		report, err = p.runner.RunAll(ctx, Options{
			TriggerFixtures:  p.fixtures.Triggers,
			IntegrationCases: p.fixtures.Integration,
			E2ECases:         p.fixtures.E2E,
			RunUnit:          true,
			RunIntegration:   true,
			RunE2E:           true,
			ParameterProbes:  true,
			DetectRegression: true,
		})
		if err != nil {
			return err
		}

		exportPath = filepath.Join(p.exportDir,
			fmt.Sprintf("run-%s.json", report.StartedAt.Format("20060102-150405")))
		return errors.Wrap(ExportReport(report, exportPath), "failed to export nightly report")
	})
	if err != nil {
		return nil, "", err
	}
	return report, exportPath, nil
}

// Gate converts a report into a pass/fail error for CI-style callers.
func Gate(report *Report) error {
	if report.Verdict == VerdictPassed {
		return nil
	}
	if report.Regression != nil && report.Regression.HasRegression {
		return errors.Errorf("run %s failed: %s", report.RunID, report.Regression.Message)
	}
	return errors.Errorf("run %s failed: %d failed, %d errors out of %d tests in %v",
		report.RunID, report.Summary.Failed, report.Summary.Errors,
		report.Summary.Total, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}
