package catalog

import (
	"bytes"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/validator"
)

// ReadRecipe decodes a single recipe from a TOML or YAML file, picking the
// encoding from the extension. Unknown keys are rejected. The recipe is not
// validated.
func ReadRecipe(path string) (Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Recipe{}, errors.Wrapf(err, "reading recipe %s", path)
	}

	var r Recipe
	switch FormatFor(path) {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&r)
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&r)
	}
	if err != nil {
		err = errors.Wrapf(err, "parsing recipe %s", path)
		return Recipe{}, errors.Mark(err, errors.ErrInvalidSpec)
	}
	return r, nil
}

// ValidateFile parses the catalog file at path and checks every recipe
// without installing it anywhere. A file that cannot be read or parsed is
// returned as an error marked ErrCatalogCorrupt; validation problems are
// returned in the result.
func ValidateFile(path string) (*validator.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Mark(errors.Wrapf(err, "catalog file %s", path), errors.ErrCatalogMissing)
		}
		return nil, errors.Mark(errors.Wrapf(err, "reading catalog %s", path), errors.ErrCatalogCorrupt)
	}
	f, err := decode(data, FormatFor(path))
	if err != nil {
		return nil, errors.WithDetailf(errors.Mark(err, errors.ErrCatalogCorrupt), "file: %s", path)
	}
	return check(f), nil
}
