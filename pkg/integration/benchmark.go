package integration

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/skillcheck/skillcheck/pkg/result"
	"github.com/skillcheck/skillcheck/pkg/skill"
)

// BenchmarkResult reports the timing distribution of repeated invocations.
// Statistics cover successful runs only; failed iterations are counted but
// never abort the benchmark. RSS samples are informational and best-effort.
type BenchmarkResult struct {
	Skill      string        `json:"skill"`
	Iterations int           `json:"iterations"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Min        time.Duration `json:"min_ms"`
	Max        time.Duration `json:"max_ms"`
	Mean       time.Duration `json:"mean_ms"`
	Median     time.Duration `json:"median_ms"`
	P95        time.Duration `json:"p95_ms"`
	P99        time.Duration `json:"p99_ms"`
	RSSBefore  uint64        `json:"rss_before_bytes,omitempty"`
	RSSAfter   uint64        `json:"rss_after_bytes,omitempty"`
}

// PerformanceTester benchmarks skill invocations.
type PerformanceTester struct {
	registry *skill.Registry
}

// NewPerformanceTester creates a performance tester.
func NewPerformanceTester(registry *skill.Registry) *PerformanceTester {
	return &PerformanceTester{registry: registry}
}

// Benchmark runs the skill's body back-to-back for the given number of
// iterations. Individual failures go into an error counter; an error is
// returned only when the skill cannot be resolved or when every iteration
// failed.
func (p *PerformanceTester) Benchmark(name string, params map[string]any, iterations int) (*BenchmarkResult, error) {
	s, err := p.registry.Get(name, "")
	if err != nil {
		return nil, err
	}

	rssBefore := sampleRSS()

	durations := make([]time.Duration, 0, iterations)
	failed := 0
	for i := 0; i < iterations; i++ {
		start := time.Now()
		if _, err := s.Execute(params); err != nil {
			failed++
			continue
		}
		durations = append(durations, time.Since(start))
	}

	if len(durations) == 0 {
		return nil, errors.Errorf("all %d iterations failed for skill %q", iterations, name)
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	n := len(durations)

	return &BenchmarkResult{
		Skill:      name,
		Iterations: iterations,
		Successful: n,
		Failed:     failed,
		Min:        durations[0],
		Max:        durations[n-1],
		Mean:       total / time.Duration(n),
		Median:     durations[n/2],
		P95:        durations[int(float64(n)*0.95)],
		P99:        durations[int(float64(n)*0.99)],
		RSSBefore:  rssBefore,
		RSSAfter:   sampleRSS(),
	}, nil
}

// BenchmarkCase wraps Benchmark into a TestResult so benchmark runs can sit
// in the same ledger as the other tiers. Resolution failures and fully-failed
// runs become Error-status results.
func (p *PerformanceTester) BenchmarkCase(name string, params map[string]any, iterations int) result.TestResult {
	start := time.Now()

	bench, err := p.Benchmark(name, params, iterations)
	if err != nil {
		return result.TestResult{
			Name:     fmt.Sprintf("benchmark_%s", name),
			Status:   result.StatusError,
			Message:  err.Error(),
			Details:  result.ErrorDetails{Error: err.Error()},
			Duration: time.Since(start),
		}
	}

	return result.TestResult{
		Name:   fmt.Sprintf("benchmark_%s", name),
		Status: result.StatusPassed,
		Message: fmt.Sprintf("%d/%d iterations succeeded, median %v",
			bench.Successful, bench.Iterations, bench.Median),
		Details: result.BenchmarkDetails{
			Iterations: bench.Iterations,
			Successful: bench.Successful,
			Failed:     bench.Failed,
			Min:        bench.Min,
			Max:        bench.Max,
			Mean:       bench.Mean,
			Median:     bench.Median,
			P95:        bench.P95,
			P99:        bench.P99,
			RSSBefore:  bench.RSSBefore,
			RSSAfter:   bench.RSSAfter,
		},
		Duration: time.Since(start),
	}
}

func sampleRSS() uint64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mi, err := proc.MemoryInfo()
	if err != nil || mi == nil {
		return 0
	}
	return mi.RSS
}
