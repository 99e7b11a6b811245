package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpi/internal/client/claude"
	"github.com/thoreinstein/mcpi/internal/doctor"
	"github.com/thoreinstein/mcpi/internal/errors"
)

func withStatusFlags(t *testing.T, fix, all bool) {
	t.Helper()
	origFix, origAll := statusFix, statusAll
	statusFix, statusAll = fix, all
	t.Cleanup(func() { statusFix, statusAll = origFix, origAll })
}

func TestStatus_Healthy(t *testing.T) {
	e := newTestEnv(t, false)
	withFlags(t, "", false)
	withStatusFlags(t, false, true)

	checks := doctor.NewRunner(
		doctor.NewToolsCheck(t.Context(), e.runner, doctor.DefaultTools),
		doctor.NewCatalogCheck(e.app.Catalog),
	)

	var buf bytes.Buffer
	require.NoError(t, runStatusWithWriter(&buf, e.manager(t), checks))
	out := buf.String()
	assert.Contains(t, out, "Client: ")
	assert.Contains(t, out, claude.ScopeUserMCP)
	assert.Contains(t, out, "(2 recipes)")
	assert.Contains(t, out, "Summary: 2 passed")
}

func TestStatus_ErrorsExitOne(t *testing.T) {
	e := newTestEnv(t, false)
	withFlags(t, "", true)
	withStatusFlags(t, false, false)

	user := e.scope(t, claude.ScopeUserMCP)
	require.NoError(t, os.MkdirAll(filepath.Dir(user.Path), 0o755))
	require.NoError(t, os.WriteFile(user.Path, []byte("{not json"), 0o644))

	a, err := e.app.Adapter("")
	require.NoError(t, err)
	checks := doctor.NewRunner(doctor.NewClientCheck(a))

	var buf bytes.Buffer
	err = runStatusWithWriter(&buf, e.manager(t), checks)
	require.Error(t, err)
	assert.Equal(t, 1, errors.ExitCode(err))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Contains(t, got, "status")
	assert.Contains(t, got, "health")
}

func TestStatus_FixPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	e := newTestEnv(t, false)
	withFlags(t, "", false)
	withStatusFlags(t, true, false)

	path := filepath.Join(t.TempDir(), "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	require.NoError(t, os.Chmod(path, 0o666))

	checks := doctor.NewRunner(doctor.NewPathPermissionCheck([]doctor.Target{{Path: path, Owner: "test"}}))

	var buf bytes.Buffer
	require.NoError(t, runStatusWithWriter(&buf, e.manager(t), checks))
	assert.Contains(t, buf.String(), "fixed "+path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestVersion(t *testing.T) {
	withFlags(t, "", false)
	var buf bytes.Buffer
	require.NoError(t, runVersionWithWriter(&buf))
	assert.Contains(t, buf.String(), "mcpi version")
	assert.Contains(t, buf.String(), runtime.GOOS+"/"+runtime.GOARCH)

	withFlags(t, "", true)
	buf.Reset()
	require.NoError(t, runVersionWithWriter(&buf))
	var out versionOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, runtime.Version(), out.GoVersion)
}
