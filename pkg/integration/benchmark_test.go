package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcheck/skillcheck/pkg/result"
)

func TestBenchmark(t *testing.T) {
	t.Run("reports distribution over successful runs", func(t *testing.T) {
		perf := NewPerformanceTester(testRegistry(t))
		res, err := perf.Benchmark("double", map[string]any{"input": 3}, 50)
		require.NoError(t, err)

		assert.Equal(t, "double", res.Skill)
		assert.Equal(t, 50, res.Iterations)
		assert.Equal(t, 50, res.Successful)
		assert.Equal(t, 0, res.Failed)
		assert.LessOrEqual(t, res.Min, res.Median)
		assert.LessOrEqual(t, res.Median, res.Max)
		assert.LessOrEqual(t, res.P95, res.P99)
		assert.LessOrEqual(t, res.P99, res.Max)
		assert.GreaterOrEqual(t, res.Mean, time.Duration(0))
	})

	t.Run("all iterations failing is an explicit error, not a crash", func(t *testing.T) {
		perf := NewPerformanceTester(testRegistry(t))
		_, err := perf.Benchmark("always-fails", map[string]any{"input": "x"}, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "all 5 iterations failed")
	})

	t.Run("unknown skill", func(t *testing.T) {
		perf := NewPerformanceTester(testRegistry(t))
		_, err := perf.Benchmark("ghost", nil, 3)
		assert.Error(t, err)
	})
}

func TestBenchmarkCase(t *testing.T) {
	t.Run("successful run carries the distribution", func(t *testing.T) {
		perf := NewPerformanceTester(testRegistry(t))
		res := perf.BenchmarkCase("double", map[string]any{"input": 3}, 20)

		assert.Equal(t, "benchmark_double", res.Name)
		assert.Equal(t, result.StatusPassed, res.Status)

		details, ok := res.Details.(result.BenchmarkDetails)
		require.True(t, ok)
		assert.Equal(t, 20, details.Iterations)
		assert.Equal(t, 20, details.Successful)
	})

	t.Run("unresolvable skill is an error result", func(t *testing.T) {
		perf := NewPerformanceTester(testRegistry(t))
		res := perf.BenchmarkCase("ghost", nil, 3)
		assert.Equal(t, result.StatusError, res.Status)
	})
}
