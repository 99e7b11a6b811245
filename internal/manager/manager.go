package manager

import (
	"log/slog"

	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/config"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/install"
)

// Option configures a Manager.
type Option func(*Manager)

// WithProject supplies the ambient project configuration consulted for a
// default scope.
func WithProject(p *config.ProjectConfig) Option {
	return func(m *Manager) {
		m.project = p
	}
}

// WithHome sets the directory bound to the root_path parameter default.
func WithHome(home string) Option {
	return func(m *Manager) {
		m.home = home
	}
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager services user intents against one client.
type Manager struct {
	catalog    *catalog.Catalog
	client     *client.Adapter
	installers *install.Set
	project    *config.ProjectConfig
	home       string
	logger     *slog.Logger
}

// New creates a Manager. The catalog is loaded lazily on first use.
func New(cat *catalog.Catalog, adapter *client.Adapter, installers *install.Set, opts ...Option) *Manager {
	m := &Manager{
		catalog:    cat,
		client:     adapter,
		installers: installers,
		project:    &config.ProjectConfig{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Client returns the adapter the manager writes through.
func (m *Manager) Client() *client.Adapter { return m.client }

// Catalog returns the manager's catalog.
func (m *Manager) Catalog() *catalog.Catalog { return m.catalog }

// DryRun reports whether writes are only planned.
func (m *Manager) DryRun() bool { return m.client.DryRun() }

// ResolveScope picks the scope for an intent: the explicit name if given,
// then the project's default_scope when this client has it, then the
// client's primary scope.
func (m *Manager) ResolveScope(name string) (client.Scope, error) {
	if name != "" {
		return m.client.Scope(name)
	}
	if s := m.project.DefaultScope; s != "" {
		if m.client.HasScope(s) {
			return m.client.Scope(s)
		}
		m.logger.Debug("project default scope not defined for client",
			"scope", s, "client", m.client.Name(), "file", m.project.Path)
	}
	return m.client.PrimaryScope(), nil
}

// ResolveClient picks the client name: the explicit flag, then the
// project's default_client, then the user configuration's default.
func ResolveClient(flag string, project *config.ProjectConfig, userDefault string) string {
	switch {
	case flag != "":
		return flag
	case project != nil && project.DefaultClient != "":
		return project.DefaultClient
	case userDefault != "":
		return userDefault
	}
	return config.DefaultClient
}

func (m *Manager) recipe(id string) (catalog.Recipe, error) {
	if err := m.catalog.Load(); err != nil {
		return catalog.Recipe{}, err
	}
	return m.catalog.Get(id)
}

func (m *Manager) installer(r catalog.Recipe) (install.Installer, error) {
	if m.installers == nil {
		return nil, errors.New("no installers configured")
	}
	return m.installers.For(r.Installation.Method)
}
