package install

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/runner"
)

// JSLauncher runs JavaScript packages without a separate install step.
const JSLauncher = "npx"

// JSPkg installs recipes from the JavaScript package registry with npm.
type JSPkg struct {
	base
}

var _ Installer = (*JSPkg)(nil)

// NewJSPkg creates a JSPkg installer.
func NewJSPkg(opts Options) *JSPkg {
	return &JSPkg{base{opts.withDefaults()}}
}

// Method returns catalog.MethodJSPkg.
func (j *JSPkg) Method() catalog.Method { return catalog.MethodJSPkg }

// Preflight checks for npm, npx, and the recipe's system dependencies.
func (j *JSPkg) Preflight(ctx context.Context, r catalog.Recipe) []Blocker {
	hint := "Install Node.js (https://nodejs.org), which provides npm and npx"
	return j.commonBlockers(ctx, r, []tool{
		{name: "npm", hint: hint},
		{name: JSLauncher, hint: hint},
	})
}

// Install runs npm install -g for the recipe's package. The server is
// launched through npx with the package as its first argument.
func (j *JSPkg) Install(ctx context.Context, r catalog.Recipe, dryRun bool) (*Artifact, error) {
	pkg := r.Installation.Package
	a := &Artifact{
		Method:  catalog.MethodJSPkg,
		Package: pkg,
		Command: JSLauncher,
		Args:    []string{pkg},
		DryRun:  dryRun,
	}

	cmd := runner.Command{Name: "npm", Args: []string{"install", "--global", pkg}}
	if _, err := j.run(ctx, a, cmd, dryRun); err != nil {
		return nil, errors.Wrapf(err, "installing %s", pkg)
	}
	return a, nil
}

// Uninstall runs npm uninstall -g when the package is installed.
func (j *JSPkg) Uninstall(ctx context.Context, r catalog.Recipe, dryRun bool) (*Artifact, error) {
	name := npmName(r.Installation.Package)
	a := &Artifact{Method: catalog.MethodJSPkg, Package: name, DryRun: dryRun}

	installed, err := j.IsInstalled(ctx, r)
	if err != nil {
		return nil, err
	}
	if !installed {
		a.Warnings = append(a.Warnings, name+" is not installed")
		return a, nil
	}

	cmd := runner.Command{Name: "npm", Args: []string{"uninstall", "--global", name}}
	if _, err := j.run(ctx, a, cmd, dryRun); err != nil {
		return nil, errors.Wrapf(err, "uninstalling %s", name)
	}
	return a, nil
}

// IsInstalled asks npm whether the package is in the global tree.
func (j *JSPkg) IsInstalled(ctx context.Context, r catalog.Recipe) (bool, error) {
	name := npmName(r.Installation.Package)
	res, err := j.opts.Runner.Run(ctx, runner.Command{
		Name: "npm",
		Args: []string{"ls", "--global", "--depth=0", "--json", name},
	})
	if errors.Is(err, errors.ErrCancelled) {
		return false, err
	}
	// npm ls exits non-zero when the package is missing but still prints JSON
	if res == nil {
		return false, nil
	}

	var tree struct {
		Dependencies map[string]json.RawMessage `json:"dependencies"`
	}
	if jsonErr := json.Unmarshal([]byte(res.Stdout), &tree); jsonErr != nil {
		return false, nil
	}
	_, ok := tree.Dependencies[name]
	return ok, nil
}

// npmName strips a version suffix: @scope/pkg@1.2.3 becomes @scope/pkg.
func npmName(pkg string) string {
	start := 0
	if strings.HasPrefix(pkg, "@") {
		start = 1
	}
	if i := strings.Index(pkg[start:], "@"); i >= 0 {
		return pkg[:start+i]
	}
	return pkg
}
