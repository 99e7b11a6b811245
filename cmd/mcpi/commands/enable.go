package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/manager"
)

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

var enableCmd = &cobra.Command{
	Use:   "enable <id>...",
	Short: "Enable disabled servers",
	Long: `Enable servers that were disabled in a scope.

The saved configuration moves from mcpi's disabled-set file back into the
client's config file. Enabling a server that is already enabled changes
nothing.`,
	Example: `  # Enable in the primary scope
  mcpi enable filesystem

  # Enable in a project scope
  mcpi enable filesystem sqlite --scope project-mcp

  See Also:
    mcpi disable - Disable a server
    mcpi list    - List servers and their state`,
	Args: flags.UsageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args, true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <id>...",
	Short: "Disable servers without removing them",
	Long: `Disable servers in a scope without losing their configuration.

The server's entry moves from the client's config file into a disabled-set
file owned by mcpi, so the client no longer starts it. Use 'mcpi enable' to
restore it unchanged.`,
	Example: `  # Disable in the primary scope
  mcpi disable filesystem

  # Preview which files would change
  mcpi disable filesystem --dry-run

  See Also:
    mcpi enable - Enable a server
    mcpi remove - Remove a server entirely`,
	Args: flags.UsageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args, false)
	},
}

func runToggle(cmd *cobra.Command, ids []string, enable bool) error {
	app, err := flags.NewApp(cmd)
	if err != nil {
		return err
	}
	mgr, err := app.Manager(flags.Client())
	if err != nil {
		return err
	}
	return runToggleWithWriter(cmd.OutOrStdout(), mgr, ids, enable)
}

// runToggleWithWriter enables (enable=true) or disables each id.
func runToggleWithWriter(w io.Writer, mgr *manager.Manager, ids []string, enable bool) error {
	op := mgr.Disable
	if enable {
		op = mgr.Enable
	}
	s, err := manager.Batch(ids, func(id string) (*manager.Outcome, error) {
		return op(id, flags.Scope())
	})
	return report(w, s, err)
}
