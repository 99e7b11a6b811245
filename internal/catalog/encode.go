package catalog

import (
	"bytes"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// Format is a catalog file encoding.
type Format string

const (
	// FormatTOML is the canonical keyed-table encoding.
	FormatTOML Format = "toml"
	// FormatYAML is the hierarchical encoding accepted for older catalogs.
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension. Anything that is not
// .yaml or .yml is treated as TOML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// decode parses data strictly; unknown keys are errors.
func decode(data []byte, format Format) (*file, error) {
	var f file
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			// An empty document decodes to EOF; treat it as an empty catalog
			if len(bytes.TrimSpace(data)) != 0 {
				return nil, errors.Wrap(err, "parsing YAML catalog")
			}
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, errors.WithDetail(errors.Wrap(err, "parsing TOML catalog"), strict.String())
			}
			var decErr *toml.DecodeError
			if errors.As(err, &decErr) {
				row, col := decErr.Position()
				return nil, errors.Wrapf(err, "parsing TOML catalog at line %d, column %d", row, col)
			}
			return nil, errors.Wrap(err, "parsing TOML catalog")
		}
	}
	if f.Servers == nil {
		f.Servers = make(map[string]*Recipe)
	}
	return &f, nil
}

// encode renders f in the given format. Recipe ids are carried by the table
// keys, so the redundant id field is left out.
func encode(f *file, format Format) ([]byte, error) {
	out := *f
	out.Servers = make(map[string]*Recipe, len(f.Servers))
	for id, r := range f.Servers {
		c := r.Clone()
		c.ID = ""
		out.Servers[id] = &c
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&out); err != nil {
			return nil, errors.Wrap(err, "encoding YAML catalog")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encoding YAML catalog")
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(&out); err != nil {
			return nil, errors.Wrap(err, "encoding TOML catalog")
		}
		return buf.Bytes(), nil
	}
}
