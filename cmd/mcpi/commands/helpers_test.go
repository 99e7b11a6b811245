package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/cli"
	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/client/claude"
	"github.com/thoreinstein/mcpi/internal/config"
	"github.com/thoreinstein/mcpi/internal/logging"
	"github.com/thoreinstein/mcpi/internal/manager"
	"github.com/thoreinstein/mcpi/internal/runner"
	"github.com/thoreinstein/mcpi/internal/runner/mocks"
)

const testCatalog = `version = "1.0.0"
updated = "2026-10-01T00:00:00Z"

[servers.filesystem]
name = "Filesystem"
description = "Local file access"
author = "Example"
categories = ["filesystem"]
platforms = ["darwin", "linux", "windows"]

  [servers.filesystem.versions]
  latest = "1.0.0"

  [servers.filesystem.installation]
  method = "js-pkg"
  package = "@org/filesystem"

  [servers.filesystem.configuration]
  required_params = ["root_path"]

[servers.sqlite]
name = "SQLite"
description = "Database queries"
author = "Example"
categories = ["database"]
platforms = ["darwin", "linux", "windows"]

  [servers.sqlite.versions]
  latest = "0.6.2"

  [servers.sqlite.installation]
  method = "py-pkg"
  package = "mcp-server-sqlite"

  [servers.sqlite.configuration]
  required_params = ["database_path"]
`

// testEnv is an App over temporary directories with a runner that reports
// every tool present and every command succeeding.
type testEnv struct {
	app    *cli.App
	runner *mocks.MockRunner
	home   string
}

func newTestEnv(t *testing.T, dryRun bool) *testEnv {
	t.Helper()
	home := t.TempDir()
	dir := t.TempDir()

	catPath := filepath.Join(dir, "catalog.toml")
	require.NoError(t, os.WriteFile(catPath, []byte(testCatalog), 0o644))

	r := mocks.NewMockRunner(t)
	r.EXPECT().LookPath(mock.Anything).RunAndReturn(func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	}).Maybe()
	r.EXPECT().Run(mock.Anything, mock.Anything).Return(&runner.Result{}, nil).Maybe()

	app, err := cli.NewApp(cli.Options{
		Config: &config.Config{
			Version:         1,
			DefaultClient:   claude.Name,
			CatalogPath:     catPath,
			InstallDir:      filepath.Join(dir, "servers"),
			BackupRetention: 5,
		},
		Home:        home,
		ProjectFlag: t.TempDir(),
		DryRun:      dryRun,
		Logger:      logging.ForTest(t),
		Runner:      r,
		BackupDir:   filepath.Join(dir, "backups"),
	})
	require.NoError(t, err)
	return &testEnv{app: app, runner: r, home: home}
}

func (e *testEnv) manager(t *testing.T) *manager.Manager {
	t.Helper()
	mgr, err := e.app.Manager("")
	require.NoError(t, err)
	return mgr
}

func (e *testEnv) scope(t *testing.T, name string) client.Scope {
	t.Helper()
	a, err := e.app.Adapter("")
	require.NoError(t, err)
	s, err := a.Scope(name)
	require.NoError(t, err)
	return s
}

// withFlags sets the shared persistent flags for one test.
func withFlags(t *testing.T, scope string, json bool) {
	t.Helper()
	origScope, origJSON := flags.Scope(), flags.JSON()
	flags.SetScope(scope)
	flags.SetJSON(json)
	t.Cleanup(func() {
		flags.SetScope(origScope)
		flags.SetJSON(origJSON)
	})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}
