package catalog

import (
	"time"

	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/pkg/fileutil"
)

// Add validates r and writes it to the catalog file. Adding an id that
// already exists is rejected.
func (c *Catalog) Add(r Recipe) (*fileutil.CommitResult, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	if err := Validate(r).Err(errors.ErrInvalidSpec, "recipe "+r.ID); err != nil {
		return nil, err
	}
	if _, ok := c.recipes[r.ID]; ok {
		err := errors.Mark(errors.Newf("recipe %q already exists", r.ID), errors.ErrInvalidSpec)
		return nil, errors.WithHint(err, "Use 'mcpi registry update' to change an existing recipe")
	}

	return c.save(func(servers map[string]*Recipe) {
		cp := r.Clone()
		servers[r.ID] = &cp
	})
}

// Update replaces the recipe stored under id. The new recipe's id must be
// empty or equal to id.
func (c *Catalog) Update(id string, r Recipe) (*fileutil.CommitResult, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	if r.ID == "" {
		r.ID = id
	}
	if r.ID != id {
		return nil, errors.Mark(errors.Newf("recipe id %q does not match %q", r.ID, id), errors.ErrInvalidSpec)
	}
	if _, ok := c.recipes[id]; !ok {
		return nil, errors.Mark(errors.Newf("no recipe %q in the catalog", id), errors.ErrUnknownRecipe)
	}
	if err := Validate(r).Err(errors.ErrInvalidSpec, "recipe "+id); err != nil {
		return nil, err
	}

	return c.save(func(servers map[string]*Recipe) {
		cp := r.Clone()
		servers[id] = &cp
	})
}

// Remove deletes the recipe stored under id.
func (c *Catalog) Remove(id string) (*fileutil.CommitResult, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	if _, ok := c.recipes[id]; !ok {
		return nil, errors.Mark(errors.Newf("no recipe %q in the catalog", id), errors.ErrUnknownRecipe)
	}

	return c.save(func(servers map[string]*Recipe) {
		delete(servers, id)
	})
}

// save applies mutate to a copy of the recipes and writes the result in the
// catalog file's format. The in-memory index is only replaced after the
// write succeeds.
func (c *Catalog) save(mutate func(map[string]*Recipe)) (*fileutil.CommitResult, error) {
	servers := make(map[string]*Recipe, len(c.recipes))
	for id, r := range c.recipes {
		cp := r.Clone()
		servers[id] = &cp
	}
	mutate(servers)

	f := &file{
		Version:     c.meta.Version,
		Updated:     c.now().UTC().Format(time.RFC3339),
		Description: c.meta.Description,
		Servers:     servers,
	}
	if f.Version == "" {
		f.Version = "1.0.0"
	}

	data, err := encode(f, FormatFor(c.path))
	if err != nil {
		return nil, err
	}

	tx := fileutil.NewTransaction(
		fileutil.WithDryRun(c.dryRun),
		fileutil.WithClock(c.now),
		fileutil.WithRetention(c.keep),
	)
	tx.Stage(c.path, data)
	res, err := tx.Commit()
	if err != nil {
		return nil, errors.Wrapf(err, "writing catalog %s", c.path)
	}

	if !c.dryRun {
		c.install(f)
		c.fromFile = true
		c.logger.Info("catalog updated", "path", c.path, "recipes", len(servers))
	}
	return res, nil
}
