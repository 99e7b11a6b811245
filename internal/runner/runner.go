// Package runner executes external tools (package managers and git) with
// bounded lifetimes and captured output.
package runner

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// Command is a single subprocess invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the current process environment.
	Env []string
}

// String renders the command line for diagnostics.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result holds the captured output of a completed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner locates and runs external programs.
type Runner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Exec runs commands with os/exec.
type Exec struct {
	// Timeout bounds each command. Zero means no limit beyond ctx.
	Timeout time.Duration
	Logger  *slog.Logger
}

var _ Runner = (*Exec)(nil)

// LookPath searches PATH for name.
func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes cmd and waits for it. A non-zero exit is returned as an error
// marked ErrUpstreamFailure carrying the command line and stderr. Context
// cancellation kills the child and is reported as cancellation.
func (e *Exec) Run(ctx context.Context, cmd Command) (*Result, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("running command", "cmd", cmd.String(), "dir", cmd.Dir)

	start := time.Now()
	err := c.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if c.ProcessState != nil {
		res.ExitCode = c.ProcessState.ExitCode()
	}
	logger.Debug("command finished", "cmd", cmd.Name, "exit", res.ExitCode, "duration", res.Duration)

	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, errors.Mark(errors.Wrapf(ctxErr, "%s timed out after %s", cmd.Name, e.Timeout), errors.ErrUpstreamFailure)
		}
		return res, errors.Mark(errors.Wrapf(ctxErr, "%s interrupted", cmd.Name), errors.ErrCancelled)
	}
	return res, Failure(cmd, res, err)
}

// Failure builds the ErrUpstreamFailure error for a command that exited
// non-zero or could not start.
func Failure(cmd Command, res *Result, cause error) error {
	err := errors.Mark(errors.Wrapf(cause, "%s failed", cmd.Name), errors.ErrUpstreamFailure)
	err = errors.WithDetailf(err, "command: %s", cmd.String())
	if res != nil {
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			err = errors.WithDetailf(err, "stderr:\n%s", msg)
		}
	}
	return err
}
