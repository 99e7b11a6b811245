// Package registry provides the registry command group for browsing and
// editing the recipe catalog.
package registry

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
)

var (
	header = color.New(color.FgCyan, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// Cmd is the registry command that groups all catalog subcommands.
var Cmd = &cobra.Command{
	Use:     "registry",
	Aliases: []string{"catalog"},
	Short:   "Browse and edit the server catalog",
	Long: `Browse and edit the catalog of server recipes.

Each recipe names a server, the package behind it, the installation method
(js-pkg, py-pkg, or git-clone), and the parameters bound into its launch
command. The catalog lives at catalog_path in the mcpi config; when the
default file does not exist a built-in catalog is used.`,
	Example: `  # List everything, or one category
  mcpi registry list
  mcpi registry list --category database

  # Find servers
  mcpi registry search git
  mcpi registry search --interactive

  # Show one recipe
  mcpi registry show filesystem

  See Also:
    mcpi registry validate - Check the catalog file
    mcpi registry add      - Add a recipe from a file
    mcpi registry remove   - Remove a recipe
    mcpi registry edit     - Edit the catalog file in $EDITOR`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// loadCatalog builds the App for cmd and returns its catalog.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	app, err := flags.NewApp(cmd)
	if err != nil {
		return nil, err
	}
	return app.Catalog, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(v), "encoding output")
}

// truncate truncates a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
