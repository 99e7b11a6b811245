package registry

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/catalog"
)

var searchInteractive bool

func init() {
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "pick from the results with a fuzzy finder")
	Cmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search recipes by name, description, and tags",
	Long: `Search the catalog with a case-insensitive substring match.

Matches on the name rank above matches on the description, which rank above
matches on capabilities and categories. With --interactive the results (or
the whole catalog when no query is given) open in a fuzzy finder and the
chosen recipe is shown.`,
	Example: `  mcpi registry search sql
  mcpi registry search -i`,
	Args: flags.UsageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		return runSearchWithWriter(cmd.OutOrStdout(), c, query)
	},
}

func runSearchWithWriter(w io.Writer, c *catalog.Catalog, query string) error {
	results, err := c.Search(query)
	if err != nil {
		return err
	}

	if searchInteractive {
		recipes := make([]catalog.Recipe, len(results))
		for i, r := range results {
			recipes[i] = r.Recipe
		}
		return runInteractiveSearch(w, recipes)
	}

	if flags.JSON() {
		if results == nil {
			results = []catalog.SearchResult{}
		}
		return writeJSON(w, results)
	}
	if len(results) == 0 {
		fmt.Fprintf(w, "No recipes match %q\n", query)
		return nil
	}
	recipes := make([]catalog.Recipe, len(results))
	for i, r := range results {
		recipes[i] = r.Recipe
	}
	return outputRecipes(w, recipes)
}
