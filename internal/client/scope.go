package client

import (
	"slices"
	"strings"

	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/mcp"
)

// Level distinguishes project-local scopes from user-wide ones.
type Level string

const (
	LevelProject Level = "project"
	LevelUser    Level = "user"
)

// Scope is one configuration file of a client.
type Scope struct {
	// Name is unique within the client.
	Name string `json:"name"`

	// Path is the JSON file holding the scope's servers.
	Path string `json:"path"`

	// Pointer is the chain of object keys from the file root to the server
	// section, e.g. ["projects", "/src/app", "mcpServers"].
	Pointer []string `json:"pointer"`

	// DisabledPath is the disabled-set file. Empty only for readonly scopes.
	DisabledPath string `json:"disabled_path,omitempty"`

	// Priority orders scopes; lower is more specific.
	Priority int `json:"priority"`

	Level    Level `json:"level"`
	ReadOnly bool  `json:"readonly"`
	Primary  bool  `json:"primary"`
}

// Location renders the scope's server section as path#pointer.
func (s Scope) Location() string {
	if len(s.Pointer) <= 1 {
		return s.Path
	}
	return s.Path + "#" + strings.Join(s.Pointer[:len(s.Pointer)-1], "/")
}

// State is the lifecycle state of a server within one scope.
type State string

const (
	StateEnabled      State = "enabled"
	StateDisabled     State = "disabled"
	StateNotInstalled State = "not-installed"
)

// Record is a server as seen in one scope of one client.
type Record struct {
	Client string   `json:"client"`
	Scope  string   `json:"scope"`
	ID     string   `json:"id"`
	Spec   mcp.Spec `json:"spec"`
	State  State    `json:"state"`

	// Inline is true when the server is disabled by a "disabled": true
	// sentinel inside the client's own config rather than by the
	// disabled-set.
	Inline bool `json:"inline,omitempty"`

	// Priority is copied from the scope so records sort without a lookup.
	Priority int `json:"priority"`
}

// QualifiedID returns client:scope:id.
func (r Record) QualifiedID() string {
	return r.Client + ":" + r.Scope + ":" + r.ID
}

// Definition describes a client: its scopes and the launcher rules its
// specs are checked against.
type Definition struct {
	Name        string
	DisplayName string
	Scopes      []Scope

	// ConfigDir is the user-level directory whose presence indicates the
	// client is installed.
	ConfigDir string

	// Launchers are commands that must be followed by a package argument.
	Launchers []string

	// Transports restricts the accepted type tags. Empty accepts all.
	Transports []string
}

// check verifies the definition is usable and returns its scopes sorted by
// priority.
func (d Definition) check() ([]Scope, error) {
	if d.Name == "" {
		return nil, errors.New("client definition has no name")
	}
	if len(d.Scopes) == 0 {
		return nil, errors.Newf("client %s defines no scopes", d.Name)
	}

	scopes := slices.Clone(d.Scopes)
	slices.SortStableFunc(scopes, func(a, b Scope) int { return a.Priority - b.Priority })

	seen := make(map[string]bool, len(scopes))
	primaries := 0
	for _, s := range scopes {
		switch {
		case s.Name == "":
			return nil, errors.Newf("client %s has a scope with no name", d.Name)
		case seen[s.Name]:
			return nil, errors.Newf("client %s defines scope %s twice", d.Name, s.Name)
		case s.Path == "" || len(s.Pointer) == 0:
			return nil, errors.Newf("scope %s of client %s has no file location", s.Name, d.Name)
		case !s.ReadOnly && s.DisabledPath == "":
			return nil, errors.Newf("writable scope %s of client %s has no disabled-set file", s.Name, d.Name)
		case s.Primary && s.ReadOnly:
			return nil, errors.Newf("primary scope %s of client %s is readonly", s.Name, d.Name)
		}
		seen[s.Name] = true
		if s.Primary {
			primaries++
		}
	}
	if primaries != 1 {
		return nil, errors.Newf("client %s must have exactly one primary scope, has %d", d.Name, primaries)
	}

	return scopes, nil
}
