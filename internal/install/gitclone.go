package install

import (
	"context"
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"slices"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/git"
	"github.com/thoreinstein/mcpi/internal/paths"
	"github.com/thoreinstein/mcpi/internal/runner"
)

// cloneDepth keeps clones shallow; history is not needed to run a server.
const cloneDepth = 1

// GitClone clones a recipe's repository into the install directory and
// builds it in place.
type GitClone struct {
	base
}

var _ Installer = (*GitClone)(nil)

// NewGitClone creates a GitClone installer.
func NewGitClone(opts Options) *GitClone {
	return &GitClone{base{opts.withDefaults()}}
}

// Method returns catalog.MethodGitClone.
func (g *GitClone) Method() catalog.Method { return catalog.MethodGitClone }

// Dir returns the install directory for a recipe.
func (g *GitClone) Dir(r catalog.Recipe) string {
	return filepath.Join(g.opts.InstallDir, r.ID)
}

// Preflight checks for git, the install directory setting, and the recipe's
// system dependencies.
func (g *GitClone) Preflight(ctx context.Context, r catalog.Recipe) []Blocker {
	blockers := g.commonBlockers(ctx, r, []tool{
		{name: "git", hint: "Install git (https://git-scm.com/downloads)"},
	})
	if g.opts.InstallDir == "" {
		blockers = append(blockers, Blocker{
			Reason: "install directory is not configured",
			Hint:   "Set install_dir in the mcpi config",
		})
	}
	return blockers
}

// Install clones the repository. An existing install directory is
// snapshotted and replaced; if the clone fails the snapshot is restored.
func (g *GitClone) Install(ctx context.Context, r catalog.Recipe, dryRun bool) (*Artifact, error) {
	dest := g.Dir(r)
	a := &Artifact{
		Method:  catalog.MethodGitClone,
		Package: r.Installation.Package,
		Path:    dest,
		DryRun:  dryRun,
	}

	_, statErr := os.Stat(dest)
	exists := statErr == nil

	if dryRun {
		if exists {
			a.Warnings = append(a.Warnings, "existing directory "+dest+" would be backed up and replaced")
		}
		a.Planned = append(a.Planned, cloneCommand(a.Package, dest))
		if exists {
			g.describe(a, dest)
		} else {
			a.Pending = true
			a.Warnings = append(a.Warnings, "entry point is discovered after cloning")
		}
		return a, nil
	}

	if exists {
		if g.opts.Backups != nil {
			manifest, err := g.opts.Backups.Backup("server-"+r.ID, "reinstall", []string{dest})
			if err != nil {
				return nil, errors.Wrapf(err, "backing up %s", dest)
			}
			a.BackupPath = manifest.Dir
			g.opts.Logger.Info("backed up install directory", "path", dest, "backup", manifest.Dir)
		}
		if err := os.RemoveAll(dest); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "removing %s", dest), errors.ErrInconsistentState)
		}
	}

	if err := paths.EnsureDir(g.opts.InstallDir, 0); err != nil {
		return nil, errors.Wrap(err, "creating install directory")
	}

	a.Planned = append(a.Planned, cloneCommand(a.Package, dest))
	if err := git.Clone(ctx, g.opts.Runner, a.Package, dest, cloneDepth); err != nil {
		os.RemoveAll(dest)
		return nil, g.restoreAfter(err, r, a)
	}

	if err := g.build(ctx, a, dest); err != nil {
		return nil, errors.WithDetailf(err, "clone left in %s", dest)
	}
	g.describe(a, dest)

	if rev, err := git.Head(ctx, g.opts.Runner, dest); err == nil {
		g.opts.Logger.Debug("cloned repository", "path", dest, "revision", rev)
	}
	return a, nil
}

// restoreAfter puts a snapshotted install directory back after a failed
// clone and returns cause annotated with the outcome.
func (g *GitClone) restoreAfter(cause error, r catalog.Recipe, a *Artifact) error {
	if a.BackupPath == "" {
		return cause
	}
	id := filepath.Base(a.BackupPath)
	if _, err := g.opts.Backups.Restore("server-"+r.ID, id); err != nil {
		return errors.WithDetailf(cause, "restoring previous install from %s failed: %v", a.BackupPath, err)
	}
	return errors.WithDetailf(cause, "previous install restored from %s", a.BackupPath)
}

// build runs the project's dependency install step when one is recognized.
func (g *GitClone) build(ctx context.Context, a *Artifact, dir string) error {
	if pkg, ok := readPackageJSON(dir); ok {
		if _, err := g.run(ctx, a, runner.Command{Name: "npm", Args: []string{"install"}, Dir: dir}, false); err != nil {
			return errors.Wrap(err, "installing dependencies")
		}
		if _, ok := pkg.Scripts["build"]; ok {
			if _, err := g.run(ctx, a, runner.Command{Name: "npm", Args: []string{"run", "build"}, Dir: dir}, false); err != nil {
				return errors.Wrap(err, "building")
			}
		}
		return nil
	}

	if _, err := os.Stat(filepath.Join(dir, "pyproject.toml")); err == nil {
		if _, err := g.opts.Runner.LookPath(uvTool); err != nil {
			a.Warnings = append(a.Warnings, "uv not found; Python dependencies were not installed")
			return nil
		}
		if _, err := g.run(ctx, a, runner.Command{Name: uvTool, Args: []string{"sync"}, Dir: dir}, false); err != nil {
			return errors.Wrap(err, "installing dependencies")
		}
	}
	return nil
}

// describe fills the launch command from the entry point found in dir. With
// no entry point the command stays empty, which no client accepts.
func (g *GitClone) describe(a *Artifact, dir string) {
	if cmd, args, entry, ok := discoverEntry(dir); ok {
		a.Command, a.Args, a.EntryPoint = cmd, args, entry
		return
	}
	a.Warnings = append(a.Warnings, "no entry point found in "+dir)
}

// Uninstall deletes the install directory.
func (g *GitClone) Uninstall(_ context.Context, r catalog.Recipe, dryRun bool) (*Artifact, error) {
	dest := g.Dir(r)
	a := &Artifact{Method: catalog.MethodGitClone, Package: r.Installation.Package, Path: dest, DryRun: dryRun}

	if _, err := os.Stat(dest); os.IsNotExist(err) {
		a.Warnings = append(a.Warnings, dest+" does not exist")
		return a, nil
	}
	if dryRun {
		a.Warnings = append(a.Warnings, "would remove "+dest)
		return a, nil
	}
	if err := os.RemoveAll(dest); err != nil {
		return nil, errors.Wrapf(err, "removing %s", dest)
	}
	return a, nil
}

// IsInstalled reports whether the install directory is a git checkout.
func (g *GitClone) IsInstalled(_ context.Context, r catalog.Recipe) (bool, error) {
	return git.ValidateRemote(g.Dir(r)) == nil, nil
}

func cloneCommand(url, dest string) runner.Command {
	return runner.Command{Name: "git", Args: []string{"clone", "--depth=1", "--", url, dest}}
}

type packageJSON struct {
	Main    string            `json:"main"`
	Bin     json.RawMessage   `json:"bin"`
	Scripts map[string]string `json:"scripts"`
}

func readPackageJSON(dir string) (*packageJSON, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, false
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, false
	}
	return &pkg, true
}

// binEntry returns the bin script; for a map of scripts the
// alphabetically first one is used.
func (p *packageJSON) binEntry() string {
	if len(p.Bin) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(p.Bin, &single); err == nil {
		return single
	}
	var many map[string]string
	if err := json.Unmarshal(p.Bin, &many); err == nil && len(many) > 0 {
		return many[slices.Sorted(maps.Keys(many))[0]]
	}
	return ""
}

type pyProject struct {
	Project struct {
		Name    string            `toml:"name"`
		Scripts map[string]string `toml:"scripts"`
	} `toml:"project"`
}

var (
	pyCandidates   = []string{"server.py", "main.py", filepath.Join("src", "server.py")}
	nodeCandidates = []string{"index.js", filepath.Join("dist", "index.js"), filepath.Join("build", "index.js")}
)

// discoverEntry finds how to launch a cloned project. It checks, in order,
// package.json bin and main, pyproject.toml project scripts, and a few
// conventional file names.
func discoverEntry(dir string) (cmd string, args []string, entry string, ok bool) {
	if pkg, found := readPackageJSON(dir); found {
		for _, rel := range []string{pkg.binEntry(), pkg.Main} {
			if rel == "" {
				continue
			}
			p := filepath.Join(dir, filepath.FromSlash(rel))
			if fileExists(p) {
				return "node", []string{p}, p, true
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml")); err == nil {
		var proj pyProject
		if err := toml.Unmarshal(data, &proj); err == nil && len(proj.Project.Scripts) > 0 {
			script := slices.Sorted(maps.Keys(proj.Project.Scripts))[0]
			return uvTool, []string{"run", "--directory", dir, script}, script, true
		}
	}

	for _, rel := range pyCandidates {
		if p := filepath.Join(dir, rel); fileExists(p) {
			return pythonTool, []string{p}, p, true
		}
	}
	for _, rel := range nodeCandidates {
		if p := filepath.Join(dir, rel); fileExists(p) {
			return "node", []string{p}, p, true
		}
	}
	return "", nil, "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
