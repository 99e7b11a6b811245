package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpi/internal/errors"
)

func TestGenDoc(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, runGenDocWithWriter(&buf, rootCmd, dir, "markdown"))
	data, err := os.ReadFile(filepath.Join(dir, "mcpi_registry_list.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `title: "mcpi registry list"`)

	manDir := filepath.Join(t.TempDir(), "man")
	require.NoError(t, runGenDocWithWriter(&buf, rootCmd, manDir, "man"))
	_, err = os.Stat(filepath.Join(manDir, "mcpi-backup-restore.1"))
	assert.NoError(t, err)

	err = runGenDocWithWriter(&buf, rootCmd, dir, "html")
	assert.True(t, errors.Is(err, errors.ErrUsage))
	err = runGenDocWithWriter(&buf, rootCmd, "", "markdown")
	assert.True(t, errors.Is(err, errors.ErrUsage))
}
