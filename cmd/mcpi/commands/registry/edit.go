package registry

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/editor"
	"github.com/thoreinstein/mcpi/internal/errors"
)

func init() {
	Cmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the catalog file in your editor, then validate it",
	Long: `Open the catalog file in $EDITOR (or $VISUAL, nano, vi) and validate the
result when the editor exits.

The built-in catalog cannot be edited; point catalog_path at a file first.`,
	Example: `  mcpi registry edit
  EDITOR="code --wait" mcpi registry edit`,
	Args: flags.UsageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		open := func(path string) error { return editor.Open(cmd.Context(), path) }
		return runEditWithWriter(cmd.Context(), cmd.OutOrStdout(), c, open)
	},
}

func runEditWithWriter(ctx context.Context, w io.Writer, c *catalog.Catalog, open func(string) error) error {
	path := c.Path()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			err = errors.Mark(errors.Newf("catalog %s does not exist", path), errors.ErrCatalogMissing)
			return errors.WithHint(err, "Set catalog_path in the mcpi config to an existing catalog file")
		}
		return errors.Wrap(err, "checking catalog")
	}

	if flags.DryRun() {
		fmt.Fprintf(w, "%s would open %s\n", gray("~"), path)
		return nil
	}
	if err := open(path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Mark(err, errors.ErrCancelled)
	}
	return runValidateWithWriter(w, path)
}
