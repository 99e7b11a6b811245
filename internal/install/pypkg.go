package install

import (
	"bufio"
	"context"
	"strings"

	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/runner"
)

const (
	// PyLauncher runs Python tools in isolated environments.
	PyLauncher = "uvx"

	uvTool     = "uv"
	pythonTool = "python3"
)

// PyPkg installs recipes from the Python package index. It prefers uv and
// falls back to pip for the current user.
type PyPkg struct {
	base
}

var _ Installer = (*PyPkg)(nil)

// NewPyPkg creates a PyPkg installer.
func NewPyPkg(opts Options) *PyPkg {
	return &PyPkg{base{opts.withDefaults()}}
}

// Method returns catalog.MethodPyPkg.
func (p *PyPkg) Method() catalog.Method { return catalog.MethodPyPkg }

// Preflight requires either uv or python3, plus the recipe's system
// dependencies.
func (p *PyPkg) Preflight(ctx context.Context, r catalog.Recipe) []Blocker {
	blockers := p.commonBlockers(ctx, r, nil)

	_, uvErr := p.opts.Runner.LookPath(uvTool)
	_, pyErr := p.opts.Runner.LookPath(pythonTool)
	if uvErr != nil && pyErr != nil {
		blockers = append(blockers, Blocker{
			Reason: "neither uv nor python3 found on PATH",
			Hint:   "Install uv (https://docs.astral.sh/uv/) or Python 3 with pip",
		})
	}
	return blockers
}

// Install uses "uv tool install" when uv is available and launches through
// uvx. Otherwise it uses "python3 -m pip install --user" and launches the
// module with the interpreter.
func (p *PyPkg) Install(ctx context.Context, r catalog.Recipe, dryRun bool) (*Artifact, error) {
	pkg := r.Installation.Package
	name := pyName(pkg)
	a := &Artifact{
		Method:  catalog.MethodPyPkg,
		Package: pkg,
		Module:  moduleName(name),
		DryRun:  dryRun,
	}
	if interp, err := p.opts.Runner.LookPath(pythonTool); err == nil {
		a.Interpreter = interp
	}

	if p.hasUV() {
		a.Command = PyLauncher
		a.Args = []string{pkg}
		cmd := runner.Command{Name: uvTool, Args: []string{"tool", "install", pkg}}
		if _, err := p.run(ctx, a, cmd, dryRun); err != nil {
			return nil, errors.Wrapf(err, "installing %s", pkg)
		}
		return a, nil
	}

	if a.Interpreter == "" {
		return nil, BlockersErr(r.ID, []Blocker{{
			Reason: "neither uv nor python3 found on PATH",
			Hint:   "Install uv (https://docs.astral.sh/uv/) or Python 3 with pip",
		}})
	}
	a.Command = a.Interpreter
	a.Args = []string{"-m", a.Module}
	cmd := runner.Command{Name: a.Interpreter, Args: []string{"-m", "pip", "install", "--user", pkg}}
	if _, err := p.run(ctx, a, cmd, dryRun); err != nil {
		return nil, errors.Wrapf(err, "installing %s", pkg)
	}
	return a, nil
}

// Uninstall removes the package with the tool that installed it.
func (p *PyPkg) Uninstall(ctx context.Context, r catalog.Recipe, dryRun bool) (*Artifact, error) {
	name := pyName(r.Installation.Package)
	a := &Artifact{Method: catalog.MethodPyPkg, Package: name, Module: moduleName(name), DryRun: dryRun}

	installed, err := p.IsInstalled(ctx, r)
	if err != nil {
		return nil, err
	}
	if !installed {
		a.Warnings = append(a.Warnings, name+" is not installed")
		return a, nil
	}

	cmd := runner.Command{Name: pythonTool, Args: []string{"-m", "pip", "uninstall", "--yes", name}}
	if p.hasUV() {
		cmd = runner.Command{Name: uvTool, Args: []string{"tool", "uninstall", name}}
	}
	if _, err := p.run(ctx, a, cmd, dryRun); err != nil {
		return nil, errors.Wrapf(err, "uninstalling %s", name)
	}
	return a, nil
}

// IsInstalled checks "uv tool list" or "pip show".
func (p *PyPkg) IsInstalled(ctx context.Context, r catalog.Recipe) (bool, error) {
	name := pyName(r.Installation.Package)

	if p.hasUV() {
		res, err := p.opts.Runner.Run(ctx, runner.Command{Name: uvTool, Args: []string{"tool", "list"}})
		if err != nil {
			if errors.Is(err, errors.ErrCancelled) {
				return false, err
			}
			return false, nil
		}
		sc := bufio.NewScanner(strings.NewReader(res.Stdout))
		for sc.Scan() {
			fields := strings.Fields(sc.Text())
			if len(fields) > 0 && strings.EqualFold(fields[0], name) {
				return true, nil
			}
		}
		return false, nil
	}

	_, err := p.opts.Runner.Run(ctx, runner.Command{Name: pythonTool, Args: []string{"-m", "pip", "show", "--quiet", name}})
	if errors.Is(err, errors.ErrCancelled) {
		return false, err
	}
	return err == nil, nil
}

func (p *PyPkg) hasUV() bool {
	_, err := p.opts.Runner.LookPath(uvTool)
	return err == nil
}

// pyName strips extras and version clauses: pkg[extra]>=1.0 becomes pkg.
func pyName(pkg string) string {
	if i := strings.IndexAny(pkg, "[=<>!~ ;"); i >= 0 {
		return pkg[:i]
	}
	return pkg
}

// moduleName maps a distribution name to its conventional import name.
func moduleName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}
