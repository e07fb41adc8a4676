// Package runner orchestrates the test tiers over a registry of skills:
// unit checks per skill, integration cases, end-to-end workflows, and an
// optional regression comparison against a stored baseline.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skillcheck/skillcheck/pkg/e2e"
	"github.com/skillcheck/skillcheck/pkg/history"
	"github.com/skillcheck/skillcheck/pkg/integration"
	"github.com/skillcheck/skillcheck/pkg/logger"
	"github.com/skillcheck/skillcheck/pkg/regression"
	"github.com/skillcheck/skillcheck/pkg/result"
	"github.com/skillcheck/skillcheck/pkg/skill"
	"github.com/skillcheck/skillcheck/pkg/telemetry"
	"github.com/skillcheck/skillcheck/pkg/unittest"
)

// Verdict values for a completed run.
const (
	VerdictPassed = "passed"
	VerdictFailed = "failed"
)

// Options selects which tiers run and with what inputs. A nil Skills slice
// means every skill in the registry.
type Options struct {
	Skills           []*skill.Skill
	TriggerFixtures  map[string][]unittest.TriggerFixture
	IntegrationCases []integration.TestCase
	E2ECases         []e2e.TestCase

	RunUnit          bool
	RunIntegration   bool
	RunE2E           bool
	ParameterProbes  bool
	DetectRegression bool
}

// Report is the complete record of one run.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	UnitResults        []result.TestResult `json:"unit_results,omitempty"`
	IntegrationResults []result.TestResult `json:"integration_results,omitempty"`
	E2EResults         []result.TestResult `json:"e2e_results,omitempty"`

	Summary    result.Summary     `json:"summary"`
	Metrics    regression.Metrics `json:"metrics"`
	Regression *regression.Report `json:"regression,omitempty"`
	Verdict    string             `json:"verdict"`
}

// Results returns the merged ledger across all tiers, in execution order.
func (r *Report) Results() []result.TestResult {
	merged := make([]result.TestResult, 0, len(r.UnitResults)+len(r.IntegrationResults)+len(r.E2EResults))
	merged = append(merged, r.UnitResults...)
	merged = append(merged, r.IntegrationResults...)
	merged = append(merged, r.E2EResults...)
	return merged
}

// Runner drives the tiers against one registry.
type Runner struct {
	registry *skill.Registry
	detector *regression.Detector
	store    *history.Store
	tracer   trace.Tracer
}

// Option configures a Runner.
type Option func(*Runner)

// WithBaseline enables regression detection against the baseline file.
func WithBaseline(path string) Option {
	return func(r *Runner) {
		r.detector = regression.NewDetector(path)
	}
}

// WithHistory records completed runs to the store.
func WithHistory(store *history.Store) Option {
	return func(r *Runner) {
		r.store = store
	}
}

func NewRunner(registry *skill.Registry, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		tracer:   telemetry.Tracer("skillcheck/runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunAll executes the selected tiers in order (unit, integration, e2e),
// computes the aggregate metrics, and optionally compares them against the
// baseline. A detected regression flips the verdict to failed even when
// every individual test passed.
func (r *Runner) RunAll(ctx context.Context, opts Options) (*Report, error) {
	ctx, span := r.tracer.Start(ctx, "runner.RunAll")
	defer span.End()

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := logger.G(ctx).WithField("run_id", report.RunID)

	skills := opts.Skills
	if skills == nil {
		skills = r.registry.ListAll()
	}

	if opts.RunUnit {
		report.UnitResults = r.runUnitPhase(ctx, skills, opts.TriggerFixtures)
	}
	if opts.RunIntegration {
		report.IntegrationResults = r.runIntegrationPhase(ctx, skills, opts)
	}
	if opts.RunE2E {
		report.E2EResults = r.runE2EPhase(ctx, opts.E2ECases)
	}

	merged := report.Results()
	report.Summary = result.Summarize(merged)
	report.Metrics = regression.ComputeMetrics(merged)
	report.FinishedAt = time.Now()

	report.Verdict = VerdictPassed
	if !report.Summary.AllPassed() {
		report.Verdict = VerdictFailed
	}

	if opts.DetectRegression && r.detector != nil {
		regReport, err := r.detector.Detect(report.Metrics)
		if err != nil {
			return nil, errors.Wrap(err, "regression detection failed")
		}
		report.Regression = regReport

		if regReport.Action == regression.ActionSaveBaseline {
			if err := r.detector.SaveBaseline(report.Metrics); err != nil {
				return nil, errors.Wrap(err, "failed to save initial baseline")
			}
			telemetry.AddEvent(ctx, "baseline.saved")
			log.Info("saved initial baseline")
		}
		if regReport.HasRegression {
			telemetry.AddEvent(ctx, "regression.detected",
				attribute.Int("regressions", len(regReport.Regressions)))
			report.Verdict = VerdictFailed
		}
	}

	telemetry.SetAttributes(ctx,
		attribute.String("run.id", report.RunID),
		attribute.Int("run.total", report.Summary.Total),
		attribute.String("run.verdict", report.Verdict),
	)

	if r.store != nil {
		if err := r.recordHistory(ctx, report); err != nil {
			log.WithError(err).Warn("failed to record run history")
		}
	}

	log.WithField("verdict", report.Verdict).
		WithField("total", report.Summary.Total).
		Info("run complete")
	return report, nil
}

func (r *Runner) runUnitPhase(ctx context.Context, skills []*skill.Skill, fixtures map[string][]unittest.TriggerFixture) []result.TestResult {
	ctx, span := r.tracer.Start(ctx, "runner.unit")
	defer span.End()

	var results []result.TestResult
	for _, s := range skills {
		_, caseSpan := r.tracer.Start(ctx, "unit."+s.Metadata.Name,
			trace.WithAttributes(attribute.String("skill", s.ID())))
		results = append(results, unitResultsFor(s)...)
		if fx := fixtures[s.Metadata.Name]; len(fx) > 0 {
			triggerResults := unittest.NewTriggerSuite(s).Run(fx)
			for i := range triggerResults {
				triggerResults[i].Name = s.Metadata.Name + "." + triggerResults[i].Name
			}
			results = append(results, triggerResults...)
		}
		caseSpan.End()
	}
	span.SetAttributes(attribute.Int("unit.results", len(results)))
	return results
}

func (r *Runner) runIntegrationPhase(ctx context.Context, skills []*skill.Skill, opts Options) []result.TestResult {
	_, span := r.tracer.Start(ctx, "runner.integration",
		trace.WithAttributes(attribute.Int("cases", len(opts.IntegrationCases))))
	defer span.End()

	tester := integration.NewTester(r.registry)
	results := append([]result.TestResult(nil), tester.RunSuite(opts.IntegrationCases)...)

	if opts.ParameterProbes {
		for _, s := range skills {
			results = append(results, tester.TestParameterValidation(s.Metadata.Name)...)
		}
	}
	return results
}

func (r *Runner) runE2EPhase(ctx context.Context, cases []e2e.TestCase) []result.TestResult {
	ctx, span := r.tracer.Start(ctx, "runner.e2e",
		trace.WithAttributes(attribute.Int("cases", len(cases))))
	defer span.End()

	return e2e.NewRunner(r.registry).RunSuite(ctx, cases)
}

// unitResultsFor prefixes each unit check with the skill name so ledgers
// covering many skills stay unambiguous.
func unitResultsFor(s *skill.Skill) []result.TestResult {
	results := unittest.NewTester(s).RunAll()
	for i := range results {
		results[i].Name = s.Metadata.Name + "." + results[i].Name
	}
	return results
}

func (r *Runner) recordHistory(ctx context.Context, report *Report) error {
	return r.store.RecordRun(ctx, history.Record{
		ID:            report.RunID,
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
		TotalTests:    report.Summary.Total,
		Passed:        report.Summary.Passed,
		Failed:        report.Summary.Failed,
		Errors:        report.Summary.Errors,
		PassRate:      report.Summary.PassRate,
		AvgDurationMS: report.Metrics.AvgDurationMS,
		Verdict:       report.Verdict,
	})
}
