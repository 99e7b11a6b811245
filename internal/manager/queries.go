package manager

import (
	"os"

	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/errors"
)

// ListOptions filters List.
type ListOptions struct {
	// Scope limits the listing to one scope; empty lists every scope.
	Scope string

	// State keeps only records in this state; empty keeps all.
	State client.State
}

// List returns server records in priority order, then by id.
func (m *Manager) List(opts ListOptions) ([]client.Record, error) {
	switch opts.State {
	case "", client.StateEnabled, client.StateDisabled:
	default:
		err := errors.Newf("cannot filter by state %q", opts.State)
		return nil, errors.Mark(errors.WithHint(err, "Use enabled or disabled"), errors.ErrUsage)
	}

	records, err := m.client.List(opts.Scope)
	if err != nil {
		return nil, err
	}
	if opts.State == "" {
		return records, nil
	}

	out := records[:0]
	for _, r := range records {
		if r.State == opts.State {
			out = append(out, r)
		}
	}
	return out, nil
}

// Info describes one server across every scope of the client.
type Info struct {
	ID string `json:"id"`

	// Recipe is nil when the catalog has no entry for the id.
	Recipe *catalog.Recipe `json:"recipe,omitempty"`

	// Records lists the scopes configuring the id, most specific first.
	Records []client.Record `json:"records"`

	// Effective names the most specific scope where the id is enabled.
	Effective string `json:"effective,omitempty"`
}

// Info gathers the catalog entry and per-scope state for id. It fails with
// ErrNotFound only when neither the catalog nor any scope knows the id.
func (m *Manager) Info(id string) (*Info, error) {
	info := &Info{ID: id}

	r, err := m.recipe(id)
	switch {
	case err == nil:
		info.Recipe = &r
	case errors.Is(err, errors.ErrUnknownRecipe):
	default:
		return nil, err
	}

	records, err := m.client.List("")
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID != id {
			continue
		}
		info.Records = append(info.Records, rec)
		if info.Effective == "" && rec.State == client.StateEnabled {
			info.Effective = rec.Scope
		}
	}

	if info.Recipe == nil && len(info.Records) == 0 {
		err := errors.Newf("%s is neither in the catalog nor configured for %s", id, m.client.Name())
		err = errors.WithHint(err, "Run 'mcpi registry search "+id+"'")
		return nil, errors.Mark(err, errors.ErrNotFound)
	}
	return info, nil
}

// ScopeStatus summarizes one scope.
type ScopeStatus struct {
	Scope    client.Scope `json:"scope"`
	Exists   bool         `json:"exists"`
	Enabled  int          `json:"enabled"`
	Disabled int          `json:"disabled"`

	// Error is set when the scope could not be read.
	Error string `json:"error,omitempty"`
}

// Report is the result of Status.
type Report struct {
	Client     string               `json:"client"`
	Installed  client.InstallStatus `json:"installed"`
	DryRun     bool                 `json:"dry_run"`
	Catalog    string               `json:"catalog"`
	Builtin    bool                 `json:"builtin_catalog"`
	Recipes    int                  `json:"recipes"`
	CatalogErr string               `json:"catalog_error,omitempty"`
	Scopes     []ScopeStatus        `json:"scopes"`
}

// Status reports per-scope counts and catalog health. Unreadable scopes
// are recorded in the report rather than failing it.
func (m *Manager) Status() *Report {
	rep := &Report{
		Client:    m.client.Name(),
		Installed: m.client.Detect(),
		DryRun:    m.DryRun(),
		Catalog:   m.catalog.Path(),
	}

	if recipes, err := m.catalogRecipes(); err != nil {
		rep.CatalogErr = err.Error()
	} else {
		rep.Recipes = recipes
		rep.Builtin = m.catalog.Builtin()
	}

	for _, s := range m.client.Scopes() {
		st := ScopeStatus{Scope: s}
		if _, err := os.Stat(s.Path); err == nil {
			st.Exists = true
		}
		records, err := m.client.List(s.Name)
		if err != nil {
			st.Error = err.Error()
		}
		for _, r := range records {
			switch r.State {
			case client.StateEnabled:
				st.Enabled++
			case client.StateDisabled:
				st.Disabled++
			}
		}
		rep.Scopes = append(rep.Scopes, st)
	}
	return rep
}

func (m *Manager) catalogRecipes() (int, error) {
	if err := m.catalog.Load(); err != nil {
		return 0, err
	}
	recipes, err := m.catalog.List("", "")
	return len(recipes), err
}
