package registry

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/validator"
)

func init() {
	Cmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a catalog file for errors",
	Long: `Parse a catalog file and validate its metadata and every recipe.

Without an argument the configured catalog is checked. All problems are
reported at once with the field they belong to.`,
	Example: `  mcpi registry validate
  mcpi registry validate ./my-catalog.toml --json`,
	Args: flags.UsageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			c, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			path = c.Path()
		}
		return runValidateWithWriter(cmd.OutOrStdout(), path)
	},
}

func runValidateWithWriter(w io.Writer, path string) error {
	res, err := catalog.ValidateFile(path)
	if err != nil {
		return err
	}

	format := validator.FormatText
	if flags.JSON() {
		format = validator.FormatJSON
	}
	if err := validator.NewReporter(w, format).Report(res); err != nil {
		return err
	}
	if err := res.Err(errors.ErrCatalogCorrupt, path); err != nil {
		return err
	}
	if !flags.JSON() {
		fmt.Fprintf(w, "%s %s is valid\n", green("✓"), path)
	}
	return nil
}
