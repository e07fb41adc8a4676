// Package e2e runs complete skill workflows against real provisioned
// workspaces: each test case provisions a scratch git repository, executes
// an ordered list of skill invocations inside it, and verifies the
// observable outcomes (files on disk, commit count, validation commands).
package e2e

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/skillcheck/skillcheck/pkg/logger"
	"github.com/skillcheck/skillcheck/pkg/result"
	"github.com/skillcheck/skillcheck/pkg/skill"
	"github.com/skillcheck/skillcheck/pkg/workspace"
)

// WorkspaceDirParam is the parameter key injected into every workflow step
// so implementations know where the provisioned project lives.
const WorkspaceDirParam = "_workspace_dir"

// DefaultCommandTimeout bounds each validation command.
const DefaultCommandTimeout = 30 * time.Second

// Step is one skill invocation inside a workflow. Validate, when set,
// inspects the step output together with the live workspace.
type Step struct {
	Name      string
	SkillName string
	Params    map[string]any
	Validate  func(output any, ws *workspace.Workspace) bool
}

// TestCase describes a full workflow and its expected outcomes. Expectations
// are all optional; a case with none passes as soon as every step succeeds.
type TestCase struct {
	Name        string
	Description string
	Workflow    []Step

	Setup    func(ws *workspace.Workspace) error
	Teardown func(ws *workspace.Workspace) error

	ProjectTemplate string
	AllowedCommands []string
	Env             map[string]string

	ExpectedFiles      []string
	ExpectedCommits    int
	ValidationCommands []string
	CommandTimeout     time.Duration

	KeepWorkspace bool
}

// SuiteSummary extends the shared summary with workflow-level counters.
type SuiteSummary struct {
	result.Summary

	TotalWorkflows      int
	SuccessfulWorkflows int
}

// Runner executes end-to-end workflow cases against a registry.
type Runner struct {
	registry *skill.Registry
	results  []result.TestResult

	totalWorkflows      int
	successfulWorkflows int
}

func NewRunner(registry *skill.Registry) *Runner {
	return &Runner{registry: registry}
}

// RunCase provisions a workspace, executes the workflow steps in order, and
// checks the declared outcomes. Environment problems (provisioning, setup)
// produce an Error result; workflow and outcome problems produce Failed.
func (r *Runner) RunCase(ctx context.Context, tc TestCase) result.TestResult {
	start := time.Now()
	r.totalWorkflows++

	log := logger.G(ctx).WithField("workflow", tc.Name)

	ws, err := workspace.Provision(ctx, "skillcheck-e2e", tc.ProjectTemplate,
		workspace.WithAllowedCommands(tc.AllowedCommands...),
		workspace.WithEnv(tc.Env))
	if err != nil {
		return r.record(result.TestResult{
			Name:     tc.Name,
			Status:   result.StatusError,
			Message:  fmt.Sprintf("workspace provisioning failed: %v", err),
			Details:  result.ErrorDetails{Error: err.Error()},
			Duration: time.Since(start),
		})
	}
	defer func() {
		if tc.Teardown != nil {
			if terr := tc.Teardown(ws); terr != nil {
				log.WithError(terr).Warn("workflow teardown failed")
			}
		}
		if !tc.KeepWorkspace {
			ws.Cleanup()
		} else {
			log.WithField("dir", ws.Dir).Info("keeping workspace")
		}
	}()

	if tc.Setup != nil {
		if err := tc.Setup(ws); err != nil {
			return r.record(result.TestResult{
				Name:     tc.Name,
				Status:   result.StatusError,
				Message:  fmt.Sprintf("workflow setup failed: %v", err),
				Details:  result.ErrorDetails{Error: err.Error()},
				Duration: time.Since(start),
			})
		}
	}

	details := result.WorkflowDetails{
		WorkspaceDir: ws.Dir,
		Outputs:      map[string]result.StepOutput{},
	}

	for i, step := range tc.Workflow {
		stepStart := time.Now()
		output, err := r.runStep(ctx, ws, step)
		if err != nil {
			details.StepsFailed = append(details.StepsFailed, stepName(i, step))
			details.Error = err.Error()
			return r.record(result.TestResult{
				Name:     tc.Name,
				Status:   result.StatusFailed,
				Message:  fmt.Sprintf("step %s failed: %v", stepName(i, step), err),
				Details:  details,
				Duration: time.Since(start),
			})
		}
		details.StepsCompleted = append(details.StepsCompleted, stepName(i, step))
		details.Outputs[stepName(i, step)] = result.StepOutput{
			Output:   output,
			Duration: time.Since(stepStart),
		}
	}

	if failed := r.checkOutcomes(ctx, ws, tc, &details); failed != "" {
		return r.record(result.TestResult{
			Name:     tc.Name,
			Status:   result.StatusFailed,
			Message:  failed,
			Details:  details,
			Duration: time.Since(start),
		})
	}

	r.successfulWorkflows++
	return r.record(result.TestResult{
		Name:     tc.Name,
		Status:   result.StatusPassed,
		Message:  fmt.Sprintf("workflow completed: %d steps, %d checks", len(details.StepsCompleted), len(details.Checks)),
		Details:  details,
		Duration: time.Since(start),
	})
}

// RunSuite runs the cases in order and returns their results. Earlier
// results are discarded; the workflow counters accumulate across runs.
func (r *Runner) RunSuite(ctx context.Context, cases []TestCase) []result.TestResult {
	r.results = nil
	for _, tc := range cases {
		r.RunCase(ctx, tc)
	}
	return r.results
}

func (r *Runner) Results() []result.TestResult {
	return r.results
}

func (r *Runner) Summary() SuiteSummary {
	return SuiteSummary{
		Summary:             result.Summarize(r.results),
		TotalWorkflows:      r.totalWorkflows,
		SuccessfulWorkflows: r.successfulWorkflows,
	}
}

func (r *Runner) record(res result.TestResult) result.TestResult {
	r.results = append(r.results, res)
	return res
}

func (r *Runner) runStep(ctx context.Context, ws *workspace.Workspace, step Step) (any, error) {
	s, err := r.registry.Get(step.SkillName, "")
	if err != nil {
		return nil, err
	}

	params := make(map[string]any, len(step.Params)+1)
	for k, v := range step.Params {
		params[k] = v
	}
	params[WorkspaceDirParam] = ws.Dir

	output, err := s.Execute(params)
	if err != nil {
		return nil, err
	}
	if step.Validate != nil && !step.Validate(output, ws) {
		return nil, errors.New("step validation rejected the output")
	}
	return output, nil
}

// checkOutcomes verifies expectations in declaration order: files, then
// commit count, then validation commands. The first failing check stops the
// sweep and its message becomes the result message.
func (r *Runner) checkOutcomes(ctx context.Context, ws *workspace.Workspace, tc TestCase, details *result.WorkflowDetails) string {
	for _, pattern := range tc.ExpectedFiles {
		ok, err := fileExists(ws, pattern)
		check := result.OutcomeCheck{Type: "file", Item: pattern, Valid: ok && err == nil}
		details.Checks = append(details.Checks, check)
		if err != nil {
			return fmt.Sprintf("file check %s errored: %v", pattern, err)
		}
		if !ok {
			return fmt.Sprintf("expected file not found: %s", pattern)
		}
	}

	if tc.ExpectedCommits > 0 {
		count, err := ws.CommitCount(ctx)
		ok := err == nil && count >= tc.ExpectedCommits
		details.Checks = append(details.Checks, result.OutcomeCheck{
			Type:  "commits",
			Item:  fmt.Sprintf(">=%d", tc.ExpectedCommits),
			Valid: ok,
		})
		if err != nil {
			return fmt.Sprintf("commit count check errored: %v", err)
		}
		if !ok {
			return fmt.Sprintf("expected at least %d commits, found %d", tc.ExpectedCommits, count)
		}
	}

	timeout := tc.CommandTimeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	for _, command := range tc.ValidationCommands {
		res, err := ws.RunCommand(ctx, command, timeout)
		ok := err == nil && res.ExitCode == 0 && !res.TimedOut
		check := result.OutcomeCheck{Type: "command", Item: command, Valid: ok}
		if err == nil {
			check.Output = res.Stderr
		}
		details.Checks = append(details.Checks, check)
		if err != nil {
			return fmt.Sprintf("validation command %q errored: %v", command, err)
		}
		if res.TimedOut {
			return fmt.Sprintf("validation command %q timed out", command)
		}
		if res.ExitCode != 0 {
			return fmt.Sprintf("validation command %q exited %d: %s", command, res.ExitCode, res.Stderr)
		}
	}

	return ""
}

func fileExists(ws *workspace.Workspace, pattern string) (bool, error) {
	if !containsGlobMeta(pattern) {
		_, err := os.Stat(ws.Path(pattern))
		if err == nil {
			return true, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	matches, err := doublestar.Glob(os.DirFS(ws.Dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return len(matches) > 0, nil
}

func containsGlobMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

func stepName(i int, step Step) string {
	if step.Name != "" {
		return step.Name
	}
	return fmt.Sprintf("step_%d_%s", i, step.SkillName)
}
