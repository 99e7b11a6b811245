package registry

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/pkg/fileutil"
)

var addID string

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "recipe id (default: the id field in the file)")
	updateCmd.Flags().StringVar(&addID, "id", "", "recipe id (default: the id field in the file)")
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(updateCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a recipe to the catalog from a TOML or YAML file",
	Long: `Add a recipe to the catalog file.

The file holds one recipe in the same shape as a catalog entry. The id comes
from --id or the file's id field. The recipe is validated before anything is
written, and the previous catalog is kept as a .bak file next to it.`,
	Example: `  mcpi registry add ./weather.toml
  mcpi registry add ./weather.yaml --id weather --dry-run`,
	Args: flags.UsageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		return runAddWithWriter(cmd.OutOrStdout(), c, args[0], false)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <file>",
	Short: "Replace a catalog recipe from a TOML or YAML file",
	Args:  flags.UsageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		return runAddWithWriter(cmd.OutOrStdout(), c, args[0], true)
	},
}

// runAddWithWriter adds the recipe in path, or replaces it when replace is set.
func runAddWithWriter(w io.Writer, c *catalog.Catalog, path string, replace bool) error {
	r, err := catalog.ReadRecipe(path)
	if err != nil {
		return err
	}
	if addID != "" {
		if r.ID != "" && r.ID != addID {
			err := errors.Newf("--id %q does not match id %q in %s", addID, r.ID, path)
			return errors.NewUsageError(err, "")
		}
		r.ID = addID
	}
	if r.ID == "" {
		err := errors.Newf("%s has no id", path)
		return errors.NewUsageError(err, "Pass --id or set id in the file")
	}

	var res *fileutil.CommitResult
	verb := "added"
	if replace {
		verb = "updated"
		res, err = c.Update(r.ID, r)
	} else {
		res, err = c.Add(r)
	}
	if err != nil {
		return err
	}
	return printCommit(w, res, r.ID, verb, c.Path())
}

func printCommit(w io.Writer, res *fileutil.CommitResult, id, verb, path string) error {
	if flags.JSON() {
		return writeJSON(w, map[string]any{"id": id, "action": verb, "catalog": path, "result": res})
	}
	if flags.DryRun() {
		for _, p := range res.Planned {
			fmt.Fprintf(w, "%s would write %s (%d bytes)\n", gray("~"), p.Path, p.Bytes)
		}
		return nil
	}
	fmt.Fprintf(w, "%s %s %s in %s\n", green("✓"), verb, id, path)
	for _, b := range res.BackupPaths {
		fmt.Fprintf(w, "  %s %s\n", gray("backup"), b)
	}
	return nil
}
