package registry

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
)

var (
	listCategory   string
	listPlatform   string
	listCategories bool
)

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "only recipes in this category")
	listCmd.Flags().StringVar(&listPlatform, "platform", "", "only recipes supporting this OS: darwin, linux, windows")
	listCmd.Flags().BoolVar(&listCategories, "categories", false, "list categories with recipe counts instead")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog recipes",
	Long: `List the recipes in the catalog sorted by name.

Filters combine: --category and --platform both must match.`,
	Example: `  mcpi registry list
  mcpi registry list --category database --platform linux
  mcpi registry list --categories`,
	Args: flags.UsageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		return runListWithWriter(cmd.OutOrStdout(), c)
	},
}

func runListWithWriter(w io.Writer, c *catalog.Catalog) error {
	if listCategories {
		cats, err := c.Categories()
		if err != nil {
			return err
		}
		if flags.JSON() {
			return writeJSON(w, cats)
		}
		for _, cat := range cats {
			fmt.Fprintf(w, "%-20s %d\n", cat.Name, cat.Count)
		}
		return nil
	}

	recipes, err := c.List(listCategory, listPlatform)
	if err != nil {
		return err
	}
	if flags.JSON() {
		if recipes == nil {
			recipes = []catalog.Recipe{}
		}
		return writeJSON(w, recipes)
	}
	return outputRecipes(w, recipes)
}

func outputRecipes(w io.Writer, recipes []catalog.Recipe) error {
	if len(recipes) == 0 {
		fmt.Fprintln(w, "No recipes found")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMETHOD\tCATEGORIES\tDESCRIPTION")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			green(r.ID), r.Installation.Method, strings.Join(r.Categories, ","), truncate(r.Description, 50))
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}
