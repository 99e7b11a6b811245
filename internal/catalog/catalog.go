package catalog

import (
	_ "embed"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/validator"
	"github.com/thoreinstein/mcpi/pkg/fileutil"
)

//go:embed default_catalog.toml
var defaultCatalog []byte

// DefaultCatalog returns the catalog shipped with the binary.
func DefaultCatalog() []byte {
	return slices.Clone(defaultCatalog)
}

// Catalog indexes recipes loaded from a catalog file.
type Catalog struct {
	path     string
	fallback []byte
	dryRun   bool
	keep     int
	logger   *slog.Logger
	now      func() time.Time

	once    sync.Once
	loadErr error

	meta       Metadata
	recipes    map[string]*Recipe
	byCategory map[string][]string
	fromFile   bool
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithFallback sets the catalog content used when the file does not exist.
func WithFallback(data []byte) Option {
	return func(c *Catalog) {
		c.fallback = data
	}
}

// WithDefaultFallback uses the embedded default catalog as the fallback.
func WithDefaultFallback() Option {
	return WithFallback(defaultCatalog)
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDryRun makes mutations validate and encode without writing.
func WithDryRun(dryRun bool) Option {
	return func(c *Catalog) {
		c.dryRun = dryRun
	}
}

// WithBackupRetention limits how many backups of the catalog file are kept.
func WithBackupRetention(keep int) Option {
	return func(c *Catalog) {
		c.keep = keep
	}
}

// WithClock overrides the clock used to stamp the updated field.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// New creates a Catalog backed by the file at path. Nothing is read until
// the first query.
func New(path string, opts ...Option) *Catalog {
	c := &Catalog{
		path:   path,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the catalog file path.
func (c *Catalog) Path() string {
	return c.path
}

// Builtin reports whether the loaded recipes came from the fallback catalog
// rather than the file at Path.
func (c *Catalog) Builtin() bool {
	return c.Load() == nil && !c.fromFile
}

// Load reads and validates the catalog file. It runs at most once; later calls
// return the first result.
func (c *Catalog) Load() error {
	c.once.Do(func() {
		c.loadErr = c.load()
	})
	return c.loadErr
}

func (c *Catalog) load() error {
	data, exists, err := fileutil.ReadIfExists(c.path)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "reading catalog %s", c.path), errors.ErrCatalogCorrupt)
	}

	format := FormatFor(c.path)
	source := c.path
	if !exists {
		if c.fallback == nil {
			err := errors.Mark(errors.Newf("catalog file %s does not exist", c.path), errors.ErrCatalogMissing)
			return errors.WithHint(err, "Set catalog_path in the mcpi config to an existing catalog file")
		}
		c.logger.Debug("catalog file missing, using built-in catalog", "path", c.path)
		data = c.fallback
		format = FormatTOML
		source = "built-in catalog"
	}

	f, err := decode(data, format)
	if err != nil {
		return errors.WithDetailf(errors.Mark(err, errors.ErrCatalogCorrupt), "file: %s", source)
	}

	if err := check(f).Err(errors.ErrCatalogCorrupt, source); err != nil {
		return err
	}

	c.install(f)
	c.fromFile = exists
	c.logger.Debug("catalog loaded", "source", source, "recipes", len(c.recipes))
	return nil
}

// check validates metadata, key/id agreement, and every recipe. Recipe ids
// are filled from their keys.
func check(f *file) *validator.Result {
	res := &validator.Result{}
	res.Merge("", ValidateMetadata(Metadata{Version: f.Version, Updated: f.Updated}))

	for _, key := range slices.Sorted(maps.Keys(f.Servers)) {
		r := f.Servers[key]
		field := "servers." + key
		if r == nil {
			res.AddError(field, "recipe is empty", nil)
			continue
		}
		if r.ID != "" && r.ID != key {
			res.AddError(field+".id", "does not match table key "+key, r.ID)
			continue
		}
		r.ID = key
		res.Merge(field, Validate(*r))
	}
	return res
}

// install replaces the in-memory state with f and rebuilds the category index.
func (c *Catalog) install(f *file) {
	c.meta = Metadata{Version: f.Version, Updated: f.Updated, Description: f.Description}
	c.recipes = f.Servers
	c.byCategory = make(map[string][]string)
	for id, r := range c.recipes {
		for _, cat := range r.Categories {
			key := strings.ToLower(cat)
			c.byCategory[key] = append(c.byCategory[key], id)
		}
	}
	for key := range c.byCategory {
		slices.Sort(c.byCategory[key])
	}
}

// Metadata returns the catalog's top-level fields.
func (c *Catalog) Metadata() (Metadata, error) {
	if err := c.Load(); err != nil {
		return Metadata{}, err
	}
	return c.meta, nil
}

// Get returns the recipe with the given id. A missing id is reported as
// ErrUnknownRecipe.
func (c *Catalog) Get(id string) (Recipe, error) {
	if err := c.Load(); err != nil {
		return Recipe{}, err
	}
	r, ok := c.recipes[id]
	if !ok {
		err := errors.Mark(errors.Newf("no recipe %q in the catalog", id), errors.ErrUnknownRecipe)
		return Recipe{}, errors.WithHint(err, "Run 'mcpi registry search <query>' to find available servers")
	}
	return r.Clone(), nil
}

// List returns recipes matching the optional category and platform filters,
// sorted by display name with ties broken by id.
func (c *Catalog) List(category, platform string) ([]Recipe, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}

	var ids []string
	if category != "" {
		ids = c.byCategory[strings.ToLower(category)]
	} else {
		ids = slices.Collect(maps.Keys(c.recipes))
	}

	out := make([]Recipe, 0, len(ids))
	for _, id := range ids {
		r := c.recipes[id]
		if platform != "" && !r.SupportsPlatform(platform) {
			continue
		}
		out = append(out, r.Clone())
	}
	slices.SortFunc(out, compareRecipes)
	return out, nil
}

// Categories returns the category index sorted by name.
func (c *Catalog) Categories() ([]CategoryCount, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	out := make([]CategoryCount, 0, len(c.byCategory))
	for name, ids := range c.byCategory {
		out = append(out, CategoryCount{Name: name, Count: len(ids)})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func compareRecipes(a, b Recipe) int {
	if n := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); n != 0 {
		return n
	}
	return strings.Compare(a.ID, b.ID)
}
