package registry

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/catalog"
)

func init() {
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recipe",
	Args:  flags.UsageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		return runShowWithWriter(cmd.OutOrStdout(), c, args[0])
	},
}

func runShowWithWriter(w io.Writer, c *catalog.Catalog, id string) error {
	r, err := c.Get(id)
	if err != nil {
		return err
	}
	if flags.JSON() {
		return writeJSON(w, r)
	}
	printRecipe(w, r)
	return nil
}

func printRecipe(w io.Writer, r catalog.Recipe) {
	fmt.Fprintf(w, "%s\n", header(r.ID))
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-14s %s\n", name+":", value)
		}
	}
	field("Name", r.Name)
	field("Description", r.Description)
	field("Author", r.Author)
	field("License", r.License)
	field("Method", r.Installation.Method.String())
	field("Package", r.Installation.Package)
	field("Version", r.Versions.Latest)
	field("Supported", strings.Join(r.Versions.Supported, ", "))
	field("Categories", strings.Join(r.Categories, ", "))
	field("Capabilities", strings.Join(r.Capabilities, ", "))
	field("Platforms", strings.Join(r.Platforms, ", "))
	field("System deps", strings.Join(r.Installation.SystemDependencies, ", "))
	field("Required", strings.Join(r.Configuration.RequiredParams, ", "))
	field("Optional", strings.Join(r.Configuration.OptionalParams, ", "))
	field("Repository", r.Repository)
	field("Docs", r.Documentation)
}
