// Package cli wires configuration, client definitions, the catalog, and the
// installers into the objects the command layer works with.
package cli

import (
	"slices"
	"strings"

	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/client/claude"
	"github.com/thoreinstein/mcpi/internal/client/cursor"
	"github.com/thoreinstein/mcpi/internal/errors"
)

// ErrUnknownClient is returned when an unknown client name is provided.
var ErrUnknownClient = errors.New("unknown client")

type entry struct {
	name string
	def  func(client.Env) client.Definition
}

// builtin lists the supported clients in display order.
var builtin = []entry{
	{claude.Name, claude.Definition},
	{cursor.Name, cursor.Definition},
}

// Clients returns the names of the supported clients.
func Clients() []string {
	names := make([]string, len(builtin))
	for i, b := range builtin {
		names[i] = b.name
	}
	return names
}

// Registry builds adapters for the supported clients against one Env.
type Registry struct {
	env  client.Env
	opts []client.Option
}

// NewRegistry creates a Registry. opts are applied to every adapter.
func NewRegistry(env client.Env, opts ...client.Option) *Registry {
	return &Registry{env: env.WithDefaults(), opts: opts}
}

// Env returns the environment definitions are resolved against.
func (r *Registry) Env() client.Env { return r.env }

// Adapter returns the adapter for the named client.
func (r *Registry) Adapter(name string) (*client.Adapter, error) {
	i := slices.IndexFunc(builtin, func(e entry) bool { return e.name == name })
	if i < 0 {
		err := errors.Wrapf(ErrUnknownClient, "%q", name)
		err = errors.WithHintf(err, "Supported clients: %s", strings.Join(Clients(), ", "))
		return nil, errors.Mark(err, errors.ErrUsage)
	}
	return client.New(builtin[i].def(r.env), r.opts...)
}

// All returns an adapter for every supported client.
func (r *Registry) All() ([]*client.Adapter, error) {
	adapters := make([]*client.Adapter, 0, len(builtin))
	for _, b := range builtin {
		a, err := client.New(b.def(r.env), r.opts...)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// Detected returns adapters for the clients that appear installed.
func (r *Registry) Detected() ([]*client.Adapter, error) {
	all, err := r.All()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(a *client.Adapter) bool {
		return a.Detect() != client.StatusInstalled
	}), nil
}
