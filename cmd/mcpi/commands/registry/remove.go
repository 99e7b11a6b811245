package registry

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/catalog"
)

func init() {
	Cmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a recipe from the catalog",
	Long: `Remove a recipe from the catalog file.

Servers already installed from the recipe stay configured; 'mcpi remove
--purge' will no longer be able to uninstall their packages.`,
	Args: flags.UsageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		return runRemoveWithWriter(cmd.OutOrStdout(), c, args[0])
	},
}

func runRemoveWithWriter(w io.Writer, c *catalog.Catalog, id string) error {
	res, err := c.Remove(id)
	if err != nil {
		return err
	}
	return printCommit(w, res, id, "removed", c.Path())
}
