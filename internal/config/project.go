package config

import (
	"bytes"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/paths"
	"github.com/thoreinstein/mcpi/pkg/fileutil"
)

// ProjectConfig is the ambient per-project configuration read from .mcpi.toml.
type ProjectConfig struct {
	DefaultScope  string `toml:"default_scope,omitempty"`
	DefaultClient string `toml:"default_client,omitempty"`

	// Path is the file the config was read from; empty when absent.
	Path string `toml:"-"`
}

// LoadProject reads <root>/.mcpi.toml. A missing file yields an empty config.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadProject(root string) (*ProjectConfig, error) {
	path := filepath.Join(root, paths.ProjectConfigFile)

	data, exists, err := fileutil.ReadIfExists(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if !exists {
		return &ProjectConfig{}, nil
	}

	var cfg ProjectConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		err = errors.Wrapf(err, "parsing %s", path)
		return nil, errors.WithHint(err, "Supported keys are default_scope and default_client")
	}
	cfg.Path = path

	return &cfg, nil
}
