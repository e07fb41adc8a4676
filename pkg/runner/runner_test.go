package runner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcheck/skillcheck/pkg/history"
	"github.com/skillcheck/skillcheck/pkg/integration"
	"github.com/skillcheck/skillcheck/pkg/regression"
	"github.com/skillcheck/skillcheck/pkg/skill"
	"github.com/skillcheck/skillcheck/pkg/unittest"
)

func fixtureRegistry(t *testing.T) *skill.Registry {
	t.Helper()
	reg := skill.NewRegistry()

	double := &skill.Skill{
		Metadata: skill.Metadata{
			Name:        "double",
			Version:     "1.0.0",
			Description: "Doubles an integer input for arithmetic pipelines",
			Author:      "Platform Team",
		},
		Triggers: []skill.TriggerRule{{Condition: skill.TriggerKeyword, Pattern: "double", Priority: 10}},
		Parameters: []skill.Parameter{
			{Name: "input", Type: "int", Required: true, Description: "The integer to double",
				Validate: func(v any) bool { _, ok := v.(int); return ok }},
		},
		Output: skill.Output{Type: "int"},
		Implementation: func(params map[string]any) (any, error) {
			// A fixed floor keeps per-run average durations comparable, so
			// the regression subtests never trip the duration ratio check
			// on scheduler noise.
			time.Sleep(10 * time.Millisecond)
			return params["input"].(int) * 2, nil
		},
		Examples: []skill.Example{{Input: map[string]any{"input": 2}, Output: 4}},
		RedFlags: []string{"integers only"},
	}
	require.NoError(t, reg.Register(double))
	return reg
}

func passingCases() []integration.TestCase {
	return []integration.TestCase{
		{Name: "double_ok", SkillName: "double", Params: map[string]any{"input": 21}, ExpectedOutput: 42, ShouldSucceed: true},
		{Name: "double_type", SkillName: "double", Params: map[string]any{"input": 2}, ExpectedOutputType: "int", ShouldSucceed: true},
	}
}

func TestRunAll(t *testing.T) {
	ctx := context.Background()

	t.Run("unit and integration tiers merge into one ledger", func(t *testing.T) {
		r := NewRunner(fixtureRegistry(t))
		report, err := r.RunAll(ctx, Options{
			IntegrationCases: passingCases(),
			RunUnit:          true,
			RunIntegration:   true,
			ParameterProbes:  true,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, report.RunID)
		assert.Equal(t, VerdictPassed, report.Verdict)
		assert.NotEmpty(t, report.UnitResults)
		assert.NotEmpty(t, report.IntegrationResults)
		assert.Empty(t, report.E2EResults)
		assert.Equal(t,
			len(report.UnitResults)+len(report.IntegrationResults),
			report.Summary.Total)

		// Unit results are prefixed with the skill name.
		assert.Contains(t, report.UnitResults[0].Name, "double.")
	})

	t.Run("trigger fixtures run in the unit tier", func(t *testing.T) {
		r := NewRunner(fixtureRegistry(t))
		report, err := r.RunAll(ctx, Options{
			TriggerFixtures: map[string][]unittest.TriggerFixture{
				"double": {
					{Input: "please double this number", ShouldTrigger: true},
					{Input: "halve it instead", ShouldTrigger: false},
				},
			},
			RunUnit: true,
		})
		require.NoError(t, err)
		assert.Equal(t, VerdictPassed, report.Verdict)

		var names []string
		for _, res := range report.UnitResults {
			names = append(names, res.Name)
		}
		assert.Contains(t, names, "double.trigger_case_0")
		assert.Contains(t, names, "double.trigger_case_1")
	})

	t.Run("a failing case fails the run", func(t *testing.T) {
		r := NewRunner(fixtureRegistry(t))
		report, err := r.RunAll(ctx, Options{
			IntegrationCases: []integration.TestCase{
				{Name: "wrong", SkillName: "double", Params: map[string]any{"input": 1}, ExpectedOutput: 3, ShouldSucceed: true},
			},
			RunIntegration: true,
		})
		require.NoError(t, err)
		assert.Equal(t, VerdictFailed, report.Verdict)
		assert.Equal(t, 1, report.Summary.Failed)
	})

	t.Run("disabled tiers do not run", func(t *testing.T) {
		r := NewRunner(fixtureRegistry(t))
		report, err := r.RunAll(ctx, Options{RunUnit: true})
		require.NoError(t, err)
		assert.NotEmpty(t, report.UnitResults)
		assert.Empty(t, report.IntegrationResults)
	})
}

func TestRunAllRegression(t *testing.T) {
	ctx := context.Background()
	baseline := filepath.Join(t.TempDir(), "baseline.json")

	r := NewRunner(fixtureRegistry(t), WithBaseline(baseline))

	t.Run("first run seeds the baseline", func(t *testing.T) {
		report, err := r.RunAll(ctx, Options{
			IntegrationCases: passingCases(),
			RunUnit:          true,
			RunIntegration:   true,
			DetectRegression: true,
		})
		require.NoError(t, err)
		require.NotNil(t, report.Regression)
		assert.False(t, report.Regression.HasRegression)
		assert.FileExists(t, baseline)
	})

	t.Run("identical second run has no regression", func(t *testing.T) {
		report, err := r.RunAll(ctx, Options{
			IntegrationCases: passingCases(),
			RunUnit:          true,
			RunIntegration:   true,
			DetectRegression: true,
		})
		require.NoError(t, err)
		require.NotNil(t, report.Regression)
		assert.False(t, report.Regression.HasRegression)
		assert.Equal(t, VerdictPassed, report.Verdict)
	})

	t.Run("pass rate collapse flips the verdict", func(t *testing.T) {
		report, err := r.RunAll(ctx, Options{
			IntegrationCases: []integration.TestCase{
				{Name: "wrong1", SkillName: "double", Params: map[string]any{"input": 1}, ExpectedOutput: 3, ShouldSucceed: true},
				{Name: "wrong2", SkillName: "double", Params: map[string]any{"input": 2}, ExpectedOutput: 5, ShouldSucceed: true},
			},
			RunIntegration:   true,
			DetectRegression: true,
		})
		require.NoError(t, err)
		require.NotNil(t, report.Regression)
		assert.True(t, report.Regression.HasRegression)
		assert.Equal(t, VerdictFailed, report.Verdict)
	})
}

func TestRunAllHistory(t *testing.T) {
	ctx := context.Background()
	store, err := history.Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	r := NewRunner(fixtureRegistry(t), WithHistory(store))
	report, err := r.RunAll(ctx, Options{RunUnit: true})
	require.NoError(t, err)

	runs, err := store.RecentRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, report.RunID, runs[0].ID)
	assert.Equal(t, report.Summary.Total, runs[0].TotalTests)
	assert.Equal(t, VerdictPassed, runs[0].Verdict)
}

func TestGate(t *testing.T) {
	t.Run("passing report gates clean", func(t *testing.T) {
		assert.NoError(t, Gate(&Report{Verdict: VerdictPassed}))
	})

	t.Run("failing report names the counts", func(t *testing.T) {
		err := Gate(&Report{Verdict: VerdictFailed})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed")
	})
}

func TestPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("pre-commit gates on the fast tiers", func(t *testing.T) {
		r := NewRunner(fixtureRegistry(t), WithBaseline(filepath.Join(t.TempDir(), "baseline.json")))
		p := NewPipeline(r, Fixtures{Integration: passingCases()}, t.TempDir())

		report, err := p.RunPreCommit(ctx)
		require.NoError(t, err)
		assert.Equal(t, VerdictPassed, report.Verdict)
		assert.Empty(t, report.E2EResults)
		assert.NoError(t, Gate(report))
	})

	t.Run("skill change reruns only the matching cases", func(t *testing.T) {
		r := NewRunner(fixtureRegistry(t))
		mixed := append(passingCases(), integration.TestCase{
			Name: "other", SkillName: "unrelated", ShouldSucceed: true,
		})
		p := NewPipeline(r, Fixtures{Integration: mixed}, t.TempDir())

		report, err := p.RunOnSkillChange(ctx, "double")
		require.NoError(t, err)
		assert.Equal(t, VerdictPassed, report.Verdict)

		for _, res := range report.IntegrationResults {
			assert.NotEqual(t, "other", res.Name)
		}
	})

	t.Run("skill change for an unknown skill errors", func(t *testing.T) {
		r := NewRunner(fixtureRegistry(t))
		p := NewPipeline(r, Fixtures{}, t.TempDir())
		_, err := p.RunOnSkillChange(ctx, "ghost")
		assert.Error(t, err)
	})

	t.Run("nightly exports a timestamped report", func(t *testing.T) {
		exportDir := t.TempDir()
		r := NewRunner(fixtureRegistry(t), WithBaseline(filepath.Join(t.TempDir(), "baseline.json")))
		p := NewPipeline(r, Fixtures{Integration: passingCases()}, exportDir)

		report, path, err := p.RunNightly(ctx)
		require.NoError(t, err)
		assert.Equal(t, VerdictPassed, report.Verdict)
		assert.FileExists(t, path)
		assert.Equal(t, exportDir, filepath.Dir(path))
	})
}

func TestGateRegressionMessage(t *testing.T) {
	err := Gate(&Report{
		Verdict: VerdictFailed,
		Regression: &regression.Report{
			HasRegression: true,
			Message:       "1 regression(s) detected",
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "regression")
}
