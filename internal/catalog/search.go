package catalog

import (
	"slices"
	"strings"
)

const (
	scoreName        = 3
	scoreDescription = 2
	scoreTag         = 1
)

// Search scores every recipe against query with a case-insensitive substring
// match. The first matching field decides the score: name, then description,
// then capabilities and categories. Results are ordered by score and then by
// name. An empty query matches everything with score zero.
func (c *Catalog) Search(query string) ([]SearchResult, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var out []SearchResult
	for _, r := range c.recipes {
		if q == "" {
			out = append(out, SearchResult{Recipe: r.Clone()})
			continue
		}
		if score := scoreRecipe(r, q); score > 0 {
			out = append(out, SearchResult{Recipe: r.Clone(), Score: score})
		}
	}

	slices.SortFunc(out, func(a, b SearchResult) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return compareRecipes(a.Recipe, b.Recipe)
	})
	return out, nil
}

func scoreRecipe(r *Recipe, q string) int {
	switch {
	case strings.Contains(strings.ToLower(r.Name), q):
		return scoreName
	case strings.Contains(strings.ToLower(r.Description), q):
		return scoreDescription
	case containsFold(r.Capabilities, q), containsFold(r.Categories, q):
		return scoreTag
	}
	return 0
}

func containsFold(items []string, q string) bool {
	return slices.ContainsFunc(items, func(s string) bool {
		return strings.Contains(strings.ToLower(s), q)
	})
}
