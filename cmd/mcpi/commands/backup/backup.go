// Package backup provides the backup command group for listing, taking,
// restoring, and pruning snapshots.
package backup

import (
	"encoding/json"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/backup"
	"github.com/thoreinstein/mcpi/internal/cli"
	"github.com/thoreinstein/mcpi/internal/errors"
)

var (
	header = color.New(color.FgCyan, color.Bold).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage configuration snapshots",
	Long: `Manage snapshots of client configuration files and install directories.

Snapshots are grouped by subject. A client subject (claude-code, cursor) holds
copies of that client's scope files and disabled-set files. A server-<id>
subject holds the install directory of a git-clone server, taken before it
is reinstalled.

Snapshots live under the backup directory in mcpi's data home. Older
snapshots beyond the retention count are pruned automatically.`,
	Example: `  # List every subject
  mcpi backup list

  # Snapshot the current client's scope files
  mcpi backup create --client cursor

  # Restore the newest snapshot, or pick one
  mcpi backup restore cursor
  mcpi backup restore server-github 20261019T101500.000

  # Keep only the 2 newest snapshots of each subject
  mcpi backup prune --keep 2`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// subjectFor maps a command argument to a backup subject. Client names and
// server-<id> subjects pass through; anything else is taken as a server id.
func subjectFor(arg string) string {
	if slices.Contains(cli.Clients(), arg) || strings.HasPrefix(arg, "server-") {
		return arg
	}
	return "server-" + arg
}

func manager(cmd *cobra.Command) (*backup.Manager, error) {
	app, err := flags.NewApp(cmd)
	if err != nil {
		return nil, err
	}
	return app.Backups, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(v), "encoding output")
}
