package result

import "time"

// Details is the per-tester payload attached to a TestResult. It is a sealed
// union of the known shapes so that downstream reporting can switch over the
// concrete type instead of digging through an untyped map.
type Details interface {
	isDetails()
}

// TriggerDetails carries the observed-vs-expected outcome of one trigger fixture.
type TriggerDetails struct {
	Expected bool           `json:"expected"`
	Actual   bool           `json:"actual"`
	Input    string         `json:"input,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

// ValidationDetails carries the error list from a failed definition check.
type ValidationDetails struct {
	Errors []string `json:"errors"`
}

// InvocationDetails carries one skill invocation's output or failure, plus
// the expectation it was checked against when one was declared.
type InvocationDetails struct {
	Output   any    `json:"output,omitempty"`
	Error    string `json:"error,omitempty"`
	Expected any    `json:"expected,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Diff     string `json:"diff,omitempty"`
}

// ChainOutput is one link of a chaining probe.
type ChainOutput struct {
	Skill  string `json:"skill"`
	Output any    `json:"output"`
}

// ChainDetails carries the per-link outputs of a skill chaining probe.
type ChainDetails struct {
	Outputs []ChainOutput `json:"outputs"`
	Error   string        `json:"error,omitempty"`
}

// StepOutput records one completed workflow step.
type StepOutput struct {
	Output   any           `json:"output"`
	Duration time.Duration `json:"duration_ms"`
}

// OutcomeCheck records one outcome validation performed after a workflow.
type OutcomeCheck struct {
	Type   string `json:"type"`
	Item   string `json:"item"`
	Valid  bool   `json:"valid"`
	Output string `json:"output,omitempty"`
}

// WorkflowDetails carries the execution record of one e2e case.
type WorkflowDetails struct {
	StepsCompleted []string              `json:"steps_completed"`
	StepsFailed    []string              `json:"steps_failed,omitempty"`
	Outputs        map[string]StepOutput `json:"outputs,omitempty"`
	Checks         []OutcomeCheck        `json:"checks,omitempty"`
	WorkspaceDir   string                `json:"workspace_dir,omitempty"`
	Error          string                `json:"error,omitempty"`
}

// BenchmarkDetails carries the timing distribution of a benchmark run.
type BenchmarkDetails struct {
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

// ErrorDetails carries a bare error string for Error-status results.
type ErrorDetails struct {
	Error string `json:"error"`
}

func (TriggerDetails) isDetails()    {}
func (ValidationDetails) isDetails() {}
func (InvocationDetails) isDetails() {}
func (ChainDetails) isDetails()      {}
func (WorkflowDetails) isDetails()   {}
func (BenchmarkDetails) isDetails()  {}
func (ErrorDetails) isDetails()      {}
