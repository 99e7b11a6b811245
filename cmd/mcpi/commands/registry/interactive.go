package registry

import (
	"fmt"
	"io"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
)

func runInteractiveSearch(w io.Writer, recipes []catalog.Recipe) error {
	if len(recipes) == 0 {
		fmt.Fprintln(w, "No recipes found.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		recipes,
		func(i int) string {
			return fmt.Sprintf("%s: %s (%s)", recipes[i].ID, recipes[i].Name, recipes[i].Installation.Method)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			r := recipes[i]
			return fmt.Sprintf("ID: %s\nMethod: %s\nPackage: %s\nCategories: %s\nRequired: %s\n\nDescription:\n%s",
				r.ID,
				r.Installation.Method,
				r.Installation.Package,
				strings.Join(r.Categories, ", "),
				strings.Join(r.Configuration.RequiredParams, ", "),
				r.Description,
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}

	printRecipe(w, recipes[idx])
	fmt.Fprintf(w, "\nInstall with: mcpi add %s\n", recipes[idx].ID)
	return nil
}
