package install

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/thoreinstein/mcpi/internal/backup"
	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/runner"
)

// Installer acquires and removes the package behind a recipe.
type Installer interface {
	// Method reports which installation method this installer serves.
	Method() catalog.Method

	// Preflight lists everything that would stop Install from succeeding.
	Preflight(ctx context.Context, r catalog.Recipe) []Blocker

	// Install fetches the package. With dryRun set, nothing is executed and
	// the returned artifact carries the planned commands.
	Install(ctx context.Context, r catalog.Recipe, dryRun bool) (*Artifact, error)

	// Uninstall removes the package. A package that is not installed is not
	// an error.
	Uninstall(ctx context.Context, r catalog.Recipe, dryRun bool) (*Artifact, error)

	// IsInstalled reports whether the package is present.
	IsInstalled(ctx context.Context, r catalog.Recipe) (bool, error)
}

// Artifact describes an installed (or planned) package and how to launch it.
type Artifact struct {
	Method  catalog.Method `json:"method"`
	Package string         `json:"package"`

	// Command and Args launch the server. Recipe parameters are appended to
	// Args by the caller.
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`

	// Interpreter and Module are set for Python packages.
	Interpreter string `json:"interpreter,omitempty"`
	Module      string `json:"module,omitempty"`

	// Path is the install directory of a cloned repository, and EntryPoint
	// the script discovered inside it.
	Path       string `json:"path,omitempty"`
	EntryPoint string `json:"entry_point,omitempty"`

	// BackupPath is the snapshot taken of a directory the install replaced.
	BackupPath string `json:"backup_path,omitempty"`

	// Planned lists the commands run, or that would run in dry-run mode.
	Planned []runner.Command `json:"planned,omitempty"`
	DryRun  bool             `json:"dry_run,omitempty"`

	// Pending is set on a dry run whose launch command can only be
	// discovered after the install actually happens.
	Pending bool `json:"pending,omitempty"`

	// Warnings are non-fatal notes, such as an entry point that could not
	// be discovered.
	Warnings []string `json:"warnings,omitempty"`
}

// Blocker is a single preflight failure.
type Blocker struct {
	Reason string `json:"reason"`
	Hint   string `json:"hint,omitempty"`
}

// BlockersErr converts preflight blockers into one ErrPrerequisiteMissing
// error, or nil if there are none.
func BlockersErr(id string, blockers []Blocker) error {
	if len(blockers) == 0 {
		return nil
	}
	err := errors.Newf("%s cannot be installed: %s", id, blockers[0].Reason)
	if len(blockers) > 1 {
		err = errors.Newf("%s cannot be installed: %d prerequisites missing", id, len(blockers))
	}
	for _, b := range blockers {
		err = errors.WithDetail(err, b.Reason)
		if b.Hint != "" {
			err = errors.WithHint(err, b.Hint)
		}
	}
	return errors.Mark(err, errors.ErrPrerequisiteMissing)
}

// Options holds the dependencies shared by all installers.
type Options struct {
	Runner runner.Runner
	Logger *slog.Logger

	// GOOS overrides runtime.GOOS for platform checks.
	GOOS string

	// InstallDir is where git-clone installs live, one directory per recipe.
	InstallDir string

	// Backups snapshots install directories before they are replaced. Nil
	// disables snapshots.
	Backups *backup.Manager
}

func (o Options) withDefaults() Options {
	if o.Runner == nil {
		o.Runner = &runner.Exec{Logger: o.Logger}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.GOOS == "" {
		o.GOOS = runtime.GOOS
	}
	return o
}

// Set holds one installer per method.
type Set struct {
	JS  *JSPkg
	Py  *PyPkg
	Git *GitClone
}

// NewSet builds every installer from shared options.
func NewSet(opts Options) *Set {
	opts = opts.withDefaults()
	return &Set{
		JS:  NewJSPkg(opts),
		Py:  NewPyPkg(opts),
		Git: NewGitClone(opts),
	}
}

// For returns the installer for m.
func (s *Set) For(m catalog.Method) (Installer, error) {
	switch m {
	case catalog.MethodJSPkg:
		return s.JS, nil
	case catalog.MethodPyPkg:
		return s.Py, nil
	case catalog.MethodGitClone:
		return s.Git, nil
	default:
		return nil, errors.Mark(errors.Newf("unsupported installation method %s", m), errors.ErrInvalidSpec)
	}
}

// base carries the helpers every installer shares.
type base struct {
	opts Options
}

// run executes cmd unless dryRun is set, recording it on the artifact.
func (b base) run(ctx context.Context, a *Artifact, cmd runner.Command, dryRun bool) (*runner.Result, error) {
	a.Planned = append(a.Planned, cmd)
	if dryRun {
		b.opts.Logger.Info("dry run: would execute", "cmd", cmd.String())
		return &runner.Result{}, nil
	}
	return b.opts.Runner.Run(ctx, cmd)
}

// commonBlockers checks platform support, the required tools, and the
// recipe's system dependencies. Tools are probed concurrently.
func (b base) commonBlockers(ctx context.Context, r catalog.Recipe, tools []tool) []Blocker {
	var blockers []Blocker
	if !r.SupportsPlatform(b.opts.GOOS) {
		blockers = append(blockers, Blocker{
			Reason: "platform " + b.opts.GOOS + " is not supported (supported: " + strings.Join(r.Platforms, ", ") + ")",
		})
	}

	probes := slices.Clone(tools)
	for _, dep := range r.Installation.SystemDependencies {
		if slices.ContainsFunc(probes, func(t tool) bool { return t.name == dep }) {
			continue
		}
		probes = append(probes, tool{name: dep, hint: "Install " + dep + " with your system package manager"})
	}

	return append(blockers, probeTools(ctx, b.opts.Runner, probes)...)
}
