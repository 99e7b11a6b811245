package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/manager"
)

var removePurge bool

func init() {
	removeCmd.Flags().BoolVar(&removePurge, "purge", false, "also uninstall the package when no other scope uses it")
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>...",
	Aliases: []string{"rm"},
	Short:   "Remove servers from a client scope",
	Long: `Remove one or more servers from a client scope, whether enabled or disabled.

The installed package is left in place unless --purge is given. With
--purge, the package is uninstalled through the recipe's method, except
when another scope of the same client still configures the server.`,
	Example: `  # Remove from the primary scope
  mcpi remove filesystem

  # Remove and uninstall the package
  mcpi remove sqlite --purge

  See Also:
    mcpi disable - Turn a server off but keep its configuration`,
	Args: flags.UsageArgs(cobra.MinimumNArgs(1)),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	app, err := flags.NewApp(cmd)
	if err != nil {
		return err
	}
	mgr, err := app.Manager(flags.Client())
	if err != nil {
		return err
	}
	return runRemoveWithWriter(cmd.Context(), cmd.OutOrStdout(), mgr, args)
}

func runRemoveWithWriter(ctx context.Context, w io.Writer, mgr *manager.Manager, ids []string) error {
	s, err := manager.Batch(ids, func(id string) (*manager.Outcome, error) {
		return mgr.Remove(ctx, id, flags.Scope(), removePurge)
	})
	return report(w, s, err)
}
