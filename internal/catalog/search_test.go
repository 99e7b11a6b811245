package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCatalog_Search(t *testing.T) {
	c := New("unused.toml")
	c.once.Do(func() {})
	c.install(&file{Servers: map[string]*Recipe{
		"db": {
			ID: "db", Name: "Database Tools", Description: "SQL access",
			Categories: []string{"database"},
		},
		"notes": {
			ID: "notes", Name: "Notes", Description: "Stores data in a database",
			Categories: []string{"memory"},
		},
		"graph": {
			ID: "graph", Name: "Graph", Description: "Knowledge graph",
			Capabilities: []string{"database_export"},
		},
		"other": {
			ID: "other", Name: "Other", Description: "Unrelated",
		},
	}})

	got, err := c.Search("DATABASE")
	if err != nil {
		t.Fatal(err)
	}

	type hit struct {
		ID    string
		Score int
	}
	var hits []hit
	for _, r := range got {
		hits = append(hits, hit{r.Recipe.ID, r.Score})
	}
	want := []hit{{"db", 3}, {"notes", 2}, {"graph", 1}}
	if diff := cmp.Diff(want, hits); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}

	all, _ := c.Search("  ")
	if len(all) != 4 {
		t.Errorf("empty query returned %d results, want 4", len(all))
	}
	for _, r := range all {
		if r.Score != 0 {
			t.Errorf("empty query score = %d, want 0", r.Score)
		}
	}
}
