package backup

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/backup"
	"github.com/thoreinstein/mcpi/internal/client"
)

var createReason string

func init() {
	createCmd.Flags().StringVar(&createReason, "reason", "manual", "note stored with the snapshot")
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the client's scope files",
	Long: `Snapshot the scope files and disabled-set files of the selected client.

Every scope is captured unless --scope names one. Files that do not exist
yet are recorded as absent, so restoring the snapshot removes them again.`,
	Example: `  mcpi backup create
  mcpi backup create --client claude-code --scope user-mcp
  mcpi backup create --reason "before cleanup"`,
	Args: flags.UsageArgs(cobra.NoArgs),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, _ []string) error {
	app, err := flags.NewApp(cmd)
	if err != nil {
		return err
	}
	adapter, err := app.Adapter(flags.Client())
	if err != nil {
		return err
	}
	return runCreateWithWriter(cmd.OutOrStdout(), app.Backups, adapter, flags.Scope(), app.DryRun())
}

func runCreateWithWriter(w io.Writer, mgr *backup.Manager, adapter *client.Adapter, scope string, dryRun bool) error {
	targets, err := scopeFiles(adapter, scope)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(w, "%s would snapshot %s:\n", yellow("~"), adapter.Name())
		for _, p := range targets {
			fmt.Fprintf(w, "  %s\n", p)
		}
		return nil
	}

	manifest, err := mgr.Backup(adapter.Name(), createReason, targets)
	if err != nil {
		return err
	}

	if flags.JSON() {
		return writeJSON(w, infoOutput{
			ID:          manifest.ID,
			CreatedAt:   manifest.CreatedAt,
			Reason:      manifest.Reason,
			FileCount:   len(manifest.Files),
			MCPIVersion: manifest.MCPIVersion,
		})
	}
	fmt.Fprintf(w, "%s Created snapshot %s of %s (%d file(s))\n",
		green("✓"), manifest.ID, adapter.DisplayName(), len(manifest.Files))
	fmt.Fprintf(w, "  %s\n", gray(manifest.Dir))
	return nil
}

// scopeFiles returns the files behind the named scope, or behind every
// scope when name is empty. Scopes sharing a file list it once.
func scopeFiles(adapter *client.Adapter, name string) ([]string, error) {
	scopes := adapter.Scopes()
	if name != "" {
		s, err := adapter.Scope(name)
		if err != nil {
			return nil, err
		}
		scopes = []client.Scope{s}
	}

	var out []string
	for _, s := range scopes {
		out = append(out, s.Path)
		if s.DisabledPath != "" {
			out = append(out, s.DisabledPath)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
