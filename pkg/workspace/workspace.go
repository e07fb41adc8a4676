// Package workspace provisions isolated project directories for end-to-end
// test runs: a scratch directory with a freshly initialized git repository
// and a fixed committer identity, plus a bounded shell-command runner that
// captures exit status and both output streams.
package workspace

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/skillcheck/skillcheck/pkg/logger"
)

const (
	gitUserEmail = "skillcheck@example.com"
	gitUserName  = "skillcheck"
)

// Workspace is a handle to one provisioned project directory.
type Workspace struct {
	Dir string

	allowedCommands []string
	compiledGlobs   []glob.Glob
	env             []string
}

// Option configures provisioning.
type Option func(*Workspace) error

// WithAllowedCommands restricts RunCommand to commands matching any of the
// glob patterns. An empty allowlist permits everything.
func WithAllowedCommands(patterns ...string) Option {
	return func(w *Workspace) error {
		globs := make([]glob.Glob, len(patterns))
		for i, pattern := range patterns {
			g, err := glob.Compile(pattern)
			if err != nil {
				return errors.Wrapf(err, "invalid command pattern %q", pattern)
			}
			globs[i] = g
		}
		w.allowedCommands = patterns
		w.compiledGlobs = globs
		return nil
	}
}

// WithEnv adds environment variables to every command run in the workspace,
// on top of the inherited process environment.
func WithEnv(env map[string]string) Option {
	return func(w *Workspace) error {
		for k, v := range env {
			w.env = append(w.env, k+"="+v)
		}
		return nil
	}
}

// Provision creates a scratch directory, copies the optional template into
// it, and initializes a git repository with a fixed test identity. Any
// failure is an environment problem: the caller should surface it as an
// Error-status result, not a Failed one.
func Provision(ctx context.Context, prefix, template string, opts ...Option) (*Workspace, error) {
	if prefix == "" {
		prefix = "skillcheck"
	}
	dir := filepath.Join(os.TempDir(), prefix+"-"+uuid.NewString()[:8])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create workspace directory")
	}

	w := &Workspace{Dir: dir}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
	}

	if template != "" {
		if err := copyTree(template, dir); err != nil {
			os.RemoveAll(dir)
			return nil, errors.Wrap(err, "failed to copy project template")
		}
	}

	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", gitUserEmail},
		{"config", "user.name", gitUserName},
	} {
		if err := w.git(ctx, args...); err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
	}

	logger.G(ctx).WithField("dir", dir).Debug("provisioned workspace")
	return w, nil
}

// Path resolves a path relative to the workspace root.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.Dir, rel)
}

// CommitCount returns the number of commits reachable from HEAD.
func (w *Workspace) CommitCount(ctx context.Context) (int, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-list", "--count", "HEAD")
	cmd.Dir = w.Dir
	out, err := cmd.Output()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count commits")
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, errors.Wrap(err, "unexpected rev-list output")
	}
	return count, nil
}

// CommandResult captures one shell command run.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// RunCommand runs a shell command inside the workspace with a hard timeout.
// A timeout is reported through TimedOut with a nonzero exit code, not as an
// error; errors are reserved for commands that could not be started or that
// the allowlist rejects.
func (w *Workspace) RunCommand(ctx context.Context, command string, timeout time.Duration) (*CommandResult, error) {
	if len(w.compiledGlobs) > 0 && !w.matchesAllowlist(command) {
		return nil, errors.Errorf("command not in allowed list: %s", command)
	}

	cctx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cctx, "sh", "-c", command)
	cmd.Dir = w.Dir
	if len(w.env) > 0 {
		cmd.Env = append(os.Environ(), w.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if cctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		return res, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, errors.Wrapf(err, "failed to run command: %s", command)
	}

	return res, nil
}

// Cleanup removes the workspace directory.
func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.Dir)
}

func (w *Workspace) matchesAllowlist(command string) bool {
	for _, g := range w.compiledGlobs {
		if g.Match(command) {
			return true
		}
	}
	return false
}

func (w *Workspace) git(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = w.Dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "git %s failed: %s", strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
