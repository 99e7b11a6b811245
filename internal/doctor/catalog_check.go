package doctor

import (
	"fmt"
	"runtime"

	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/errors"
)

// CatalogCheck loads the catalog and reports its health.
type CatalogCheck struct {
	catalog *catalog.Catalog
	goos    string
}

var _ Check = (*CatalogCheck)(nil)

// NewCatalogCheck creates a check for c.
func NewCatalogCheck(c *catalog.Catalog) *CatalogCheck {
	return &CatalogCheck{catalog: c, goos: runtime.GOOS}
}

func (c *CatalogCheck) Name() string     { return "catalog" }
func (c *CatalogCheck) Category() string { return "catalog" }

func (c *CatalogCheck) Run() *CheckResult {
	details := map[string]any{"path": c.catalog.Path()}

	if err := c.catalog.Load(); err != nil {
		res := result(c, SeverityError, err.Error())
		if kind := errors.Kind(err); kind != nil {
			details["kind"] = kind.Error()
		}
		if d := errors.Details(err); len(d) > 0 {
			details["problems"] = d
		}
		res.Details = details
		if hints := errors.Hints(err); len(hints) > 0 {
			res.FixHint = hints[0]
		}
		return res
	}

	meta, err := c.catalog.Metadata()
	if err != nil {
		return result(c, SeverityError, err.Error())
	}
	recipes, err := c.catalog.List("", "")
	if err != nil {
		return result(c, SeverityError, err.Error())
	}

	unsupported := 0
	for _, r := range recipes {
		if !r.SupportsPlatform(c.goos) {
			unsupported++
		}
	}
	details["version"] = meta.Version
	details["updated"] = meta.Updated
	details["recipes"] = len(recipes)
	details["builtin"] = c.catalog.Builtin()
	details["unsupported_on_platform"] = unsupported

	if c.catalog.Builtin() {
		res := result(c, SeverityInfo, fmt.Sprintf("using the built-in catalog (%d recipes); no file at %s", len(recipes), c.catalog.Path()))
		res.Details = details
		return res
	}
	res := result(c, SeverityPass, fmt.Sprintf("catalog v%s loaded with %d recipes", meta.Version, len(recipes)))
	res.Details = details
	return res
}
