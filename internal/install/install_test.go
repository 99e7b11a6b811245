package install

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpi/internal/backup"
	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/runner"
	"github.com/thoreinstein/mcpi/internal/runner/mocks"
)

func jsRecipe() catalog.Recipe {
	return catalog.Recipe{
		ID:           "filesystem",
		Platforms:    []string{"linux", "darwin"},
		Installation: catalog.Installation{Method: catalog.MethodJSPkg, Package: "@org/filesystem"},
	}
}

func pyRecipe() catalog.Recipe {
	return catalog.Recipe{
		ID:           "sqlite",
		Platforms:    []string{"linux"},
		Installation: catalog.Installation{Method: catalog.MethodPyPkg, Package: "mcp-server-sqlite>=0.6"},
	}
}

func gitRecipe() catalog.Recipe {
	return catalog.Recipe{
		ID:           "everything",
		Platforms:    []string{"linux"},
		Installation: catalog.Installation{Method: catalog.MethodGitClone, Package: "https://github.com/org/everything.git"},
	}
}

func TestSet_For(t *testing.T) {
	s := NewSet(Options{Runner: mocks.NewMockRunner(t)})
	for _, m := range catalog.Methods() {
		inst, err := s.For(m)
		require.NoError(t, err)
		assert.Equal(t, m, inst.Method())
	}

	_, err := s.For(catalog.Method{})
	assert.True(t, errors.Is(err, errors.ErrInvalidSpec))
}

func TestPreflight(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		missing []string
		recipe  catalog.Recipe
		inst    func(Options) Installer
		want    int
	}{
		{"js ok", "linux", nil, jsRecipe(), func(o Options) Installer { return NewJSPkg(o) }, 0},
		{"js no node", "linux", []string{"npm", "npx"}, jsRecipe(), func(o Options) Installer { return NewJSPkg(o) }, 2},
		{"js wrong platform", "windows", nil, jsRecipe(), func(o Options) Installer { return NewJSPkg(o) }, 1},
		{"py uv only", "linux", []string{"python3"}, pyRecipe(), func(o Options) Installer { return NewPyPkg(o) }, 0},
		{"py nothing", "linux", []string{"python3", "uv"}, pyRecipe(), func(o Options) Installer { return NewPyPkg(o) }, 1},
		{"git missing", "linux", []string{"git"}, gitRecipe(), func(o Options) Installer { return NewGitClone(o) }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mocks.NewMockRunner(t)
			r.EXPECT().LookPath(mock.Anything).RunAndReturn(func(name string) (string, error) {
				for _, m := range tt.missing {
					if m == name {
						return "", exec.ErrNotFound
					}
				}
				return "/usr/bin/" + name, nil
			}).Maybe()

			inst := tt.inst(Options{Runner: r, GOOS: tt.goos, InstallDir: t.TempDir()})
			blockers := inst.Preflight(context.Background(), tt.recipe)
			assert.Len(t, blockers, tt.want, "blockers: %v", blockers)

			err := BlockersErr(tt.recipe.ID, blockers)
			if tt.want == 0 {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, errors.ErrPrerequisiteMissing))
			}
		})
	}
}

func TestPreflight_SystemDependencies(t *testing.T) {
	r := mocks.NewMockRunner(t)
	r.EXPECT().LookPath("npm").Return("/usr/bin/npm", nil)
	r.EXPECT().LookPath("npx").Return("/usr/bin/npx", nil)
	r.EXPECT().LookPath("node").Return("/usr/bin/node", nil)
	r.EXPECT().LookPath("sqlite3").Return("", exec.ErrNotFound)

	rec := jsRecipe()
	rec.Installation.SystemDependencies = []string{"node", "sqlite3", "npm"}

	blockers := NewJSPkg(Options{Runner: r, GOOS: "linux"}).Preflight(context.Background(), rec)
	require.Len(t, blockers, 1)
	assert.Contains(t, blockers[0].Reason, "sqlite3")
}

func TestJSPkg_Install(t *testing.T) {
	r := mocks.NewMockRunner(t)
	r.EXPECT().Run(mock.Anything, runner.Command{Name: "npm", Args: []string{"install", "--global", "@org/filesystem"}}).
		Return(&runner.Result{}, nil)

	a, err := NewJSPkg(Options{Runner: r}).Install(context.Background(), jsRecipe(), false)
	require.NoError(t, err)
	assert.Equal(t, "npx", a.Command)
	assert.Equal(t, []string{"@org/filesystem"}, a.Args)
	assert.Len(t, a.Planned, 1)
}

func TestJSPkg_InstallDryRunRunsNothing(t *testing.T) {
	r := mocks.NewMockRunner(t)

	a, err := NewJSPkg(Options{Runner: r}).Install(context.Background(), jsRecipe(), true)
	require.NoError(t, err)
	assert.True(t, a.DryRun)
	require.Len(t, a.Planned, 1)
	assert.Equal(t, "npm install --global @org/filesystem", a.Planned[0].String())
	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestJSPkg_InstallUpstreamFailure(t *testing.T) {
	r := mocks.NewMockRunner(t)
	cmd := runner.Command{Name: "npm", Args: []string{"install", "--global", "@org/filesystem"}}
	res := &runner.Result{Stderr: "npm ERR! 404 Not Found", ExitCode: 1}
	r.EXPECT().Run(mock.Anything, cmd).Return(res, runner.Failure(cmd, res, errors.New("exit status 1")))

	_, err := NewJSPkg(Options{Runner: r}).Install(context.Background(), jsRecipe(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstreamFailure))
	assert.Contains(t, errors.Details(err), "stderr:\nnpm ERR! 404 Not Found")
}

func TestJSPkg_IsInstalled(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		err    error
		want   bool
	}{
		{"present", `{"dependencies":{"@org/filesystem":{"version":"1.0.0"}}}`, nil, true},
		{"absent", `{}`, errors.New("exit status 1"), false},
		{"garbage", `not json`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mocks.NewMockRunner(t)
			r.EXPECT().Run(mock.Anything, mock.Anything).Return(&runner.Result{Stdout: tt.stdout}, tt.err)

			got, err := NewJSPkg(Options{Runner: r}).IsInstalled(context.Background(), jsRecipe())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSPkg_UninstallMissingIsNotAnError(t *testing.T) {
	r := mocks.NewMockRunner(t)
	r.EXPECT().Run(mock.Anything, mock.Anything).Return(&runner.Result{Stdout: "{}"}, nil).Once()

	a, err := NewJSPkg(Options{Runner: r}).Uninstall(context.Background(), jsRecipe(), false)
	require.NoError(t, err)
	assert.NotEmpty(t, a.Warnings)
	assert.Empty(t, a.Planned)
}

func TestPyPkg_Install(t *testing.T) {
	t.Run("uv", func(t *testing.T) {
		r := mocks.NewMockRunner(t)
		r.EXPECT().LookPath("python3").Return("/usr/bin/python3", nil)
		r.EXPECT().LookPath("uv").Return("/usr/bin/uv", nil)
		r.EXPECT().Run(mock.Anything, runner.Command{Name: "uv", Args: []string{"tool", "install", "mcp-server-sqlite>=0.6"}}).
			Return(&runner.Result{}, nil)

		a, err := NewPyPkg(Options{Runner: r}).Install(context.Background(), pyRecipe(), false)
		require.NoError(t, err)
		assert.Equal(t, "uvx", a.Command)
		assert.Equal(t, "mcp_server_sqlite", a.Module)
		assert.Equal(t, "/usr/bin/python3", a.Interpreter)
	})

	t.Run("pip fallback", func(t *testing.T) {
		r := mocks.NewMockRunner(t)
		r.EXPECT().LookPath("python3").Return("/usr/bin/python3", nil)
		r.EXPECT().LookPath("uv").Return("", exec.ErrNotFound)
		r.EXPECT().Run(mock.Anything, runner.Command{
			Name: "/usr/bin/python3",
			Args: []string{"-m", "pip", "install", "--user", "mcp-server-sqlite>=0.6"},
		}).Return(&runner.Result{}, nil)

		a, err := NewPyPkg(Options{Runner: r}).Install(context.Background(), pyRecipe(), false)
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/python3", a.Command)
		assert.Equal(t, []string{"-m", "mcp_server_sqlite"}, a.Args)
	})
}

func TestPyName(t *testing.T) {
	tests := map[string]string{
		"mcp-server-git":        "mcp-server-git",
		"pkg[extra]>=1.0":       "pkg",
		"mcp-server-fetch==2.0": "mcp-server-fetch",
	}
	for in, want := range tests {
		assert.Equal(t, want, pyName(in), in)
	}
}

func TestNpmName(t *testing.T) {
	tests := map[string]string{
		"@org/filesystem":       "@org/filesystem",
		"@org/filesystem@1.2.3": "@org/filesystem",
		"server-memory@latest":  "server-memory",
		"plain":                 "plain",
	}
	for in, want := range tests {
		assert.Equal(t, want, npmName(in), in)
	}
}

func TestGitClone_InstallReplacesAndRestores(t *testing.T) {
	installDir := t.TempDir()
	backups := backup.NewManager(backup.WithBackupDir(t.TempDir()))
	rec := gitRecipe()
	dest := filepath.Join(installDir, rec.ID)

	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "server.py"), []byte("old"), 0o644))

	r := mocks.NewMockRunner(t)
	cmd := cloneCommand(rec.Installation.Package, dest)
	res := &runner.Result{Stderr: "fatal: repository not found", ExitCode: 128}
	r.EXPECT().Run(mock.Anything, cmd).Return(res, runner.Failure(cmd, res, errors.New("exit status 128")))

	g := NewGitClone(Options{Runner: r, InstallDir: installDir, Backups: backups})
	_, err := g.Install(context.Background(), rec, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstreamFailure))

	got, readErr := os.ReadFile(filepath.Join(dest, "server.py"))
	require.NoError(t, readErr, "previous install should be restored")
	assert.Equal(t, "old", string(got))

	list, listErr := backups.List("server-everything")
	require.NoError(t, listErr)
	assert.Len(t, list, 1)
}

func TestGitClone_InstallDiscoversEntryPoint(t *testing.T) {
	installDir := t.TempDir()
	rec := gitRecipe()
	dest := filepath.Join(installDir, rec.ID)

	r := mocks.NewMockRunner(t)
	r.EXPECT().Run(mock.Anything, cloneCommand(rec.Installation.Package, dest)).
		RunAndReturn(func(context.Context, runner.Command) (*runner.Result, error) {
			// Simulate the clone by creating the checkout
			if err := os.MkdirAll(filepath.Join(dest, ".git"), 0o755); err != nil {
				return nil, err
			}
			pyproject := "[project]\nname = \"everything\"\n\n[project.scripts]\nmcp-everything = \"everything:main\"\n"
			return &runner.Result{}, os.WriteFile(filepath.Join(dest, "pyproject.toml"), []byte(pyproject), 0o644)
		})
	r.EXPECT().LookPath("uv").Return("/usr/bin/uv", nil)
	r.EXPECT().Run(mock.Anything, runner.Command{Name: "uv", Args: []string{"sync"}, Dir: dest}).Return(&runner.Result{}, nil)
	r.EXPECT().Run(mock.Anything, runner.Command{Name: "git", Args: []string{"-C", dest, "rev-parse", "HEAD"}}).
		Return(&runner.Result{Stdout: "abc\n"}, nil)

	g := NewGitClone(Options{Runner: r, InstallDir: installDir})
	a, err := g.Install(context.Background(), rec, false)
	require.NoError(t, err)
	assert.Equal(t, "uv", a.Command)
	assert.Equal(t, []string{"run", "--directory", dest, "mcp-everything"}, a.Args)
	assert.Equal(t, dest, a.Path)

	installed, err := g.IsInstalled(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, installed)

	_, err = g.Uninstall(context.Background(), rec, false)
	require.NoError(t, err)
	assert.NoDirExists(t, dest)
}

func TestGitClone_DryRun(t *testing.T) {
	r := mocks.NewMockRunner(t)
	installDir := filepath.Join(t.TempDir(), "servers")
	g := NewGitClone(Options{Runner: r, InstallDir: installDir})

	a, err := g.Install(context.Background(), gitRecipe(), true)
	require.NoError(t, err)
	assert.Len(t, a.Planned, 1)
	assert.True(t, a.Pending)
	assert.Empty(t, a.Command)
	assert.Empty(t, a.Args)
	assert.NoDirExists(t, installDir)
}

func TestGitClone_InstallWithoutEntryPoint(t *testing.T) {
	installDir := t.TempDir()
	rec := gitRecipe()
	dest := filepath.Join(installDir, rec.ID)

	r := mocks.NewMockRunner(t)
	r.EXPECT().Run(mock.Anything, cloneCommand(rec.Installation.Package, dest)).
		RunAndReturn(func(context.Context, runner.Command) (*runner.Result, error) {
			if err := os.MkdirAll(filepath.Join(dest, ".git"), 0o755); err != nil {
				return nil, err
			}
			return &runner.Result{}, os.WriteFile(filepath.Join(dest, "README.md"), []byte("docs"), 0o644)
		})
	r.EXPECT().Run(mock.Anything, runner.Command{Name: "git", Args: []string{"-C", dest, "rev-parse", "HEAD"}}).
		Return(&runner.Result{Stdout: "abc\n"}, nil)

	g := NewGitClone(Options{Runner: r, InstallDir: installDir})
	a, err := g.Install(context.Background(), rec, false)
	require.NoError(t, err)
	assert.False(t, a.Pending)
	assert.Empty(t, a.Command)
	assert.Empty(t, a.Args)
	assert.Contains(t, a.Warnings, "no entry point found in "+dest)
}

func TestDiscoverEntry(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantCmd string
		wantOK  bool
	}{
		{"package bin map", map[string]string{
			"package.json": `{"bin":{"b":"b.js","a":"a.js"}}`, "a.js": "", "b.js": "",
		}, "node", true},
		{"package main", map[string]string{"package.json": `{"main":"dist/main.js"}`, "dist/main.js": ""}, "node", true},
		{"python file", map[string]string{"server.py": ""}, "python3", true},
		{"node file", map[string]string{"build/index.js": ""}, "node", true},
		{"nothing", map[string]string{"README.md": ""}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for rel, content := range tt.files {
				p := filepath.Join(dir, filepath.FromSlash(rel))
				require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
				require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
			}
			cmd, _, entry, ok := discoverEntry(dir)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCmd, cmd)
			if ok && tt.name == "package bin map" {
				assert.Equal(t, filepath.Join(dir, "a.js"), entry)
			}
		})
	}
}
