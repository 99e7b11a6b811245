package cli

import (
	"log/slog"
	"time"

	"github.com/thoreinstein/mcpi/internal/backup"
	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/config"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/install"
	"github.com/thoreinstein/mcpi/internal/manager"
	"github.com/thoreinstein/mcpi/internal/paths"
	"github.com/thoreinstein/mcpi/internal/runner"
)

// Options are the inputs an App is built from, usually global flags plus the
// loaded user config.
type Options struct {
	Config *config.Config

	// Home overrides the user home directory.
	Home string

	// ProjectFlag is the --project value; empty means the working directory.
	ProjectFlag string

	DryRun bool
	Logger *slog.Logger

	// Runner overrides the subprocess runner.
	Runner runner.Runner

	// Now overrides the clock used for backup names.
	Now func() time.Time

	// BackupDir overrides where install snapshots are kept.
	BackupDir string
}

// App holds everything a command needs for one invocation.
type App struct {
	Config   *config.Config
	Project  *config.ProjectConfig
	Home     string
	Root     string
	Registry *Registry
	Catalog  *catalog.Catalog
	Backups  *backup.Manager
	Runner   runner.Runner

	installers *install.Set
	dryRun     bool
	logger     *slog.Logger
}

// NewApp resolves the home directory and project root, reads the project
// config, and builds the shared objects. Nothing under a client or the
// catalog is read yet.
func NewApp(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("no configuration loaded")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	home := opts.Home
	if home == "" {
		h, err := paths.ResolveHome()
		if err != nil {
			return nil, err
		}
		home = h
	}

	root, err := paths.ProjectRoot(opts.ProjectFlag)
	if err != nil {
		return nil, errors.Mark(err, errors.ErrUsage)
	}
	project, err := config.LoadProject(root)
	if err != nil {
		return nil, errors.Mark(err, errors.ErrUsage)
	}

	clientOpts := []client.Option{
		client.WithDryRun(opts.DryRun),
		client.WithLogger(logger),
		client.WithRetention(cfg.BackupRetention),
		client.WithClock(now),
	}
	reg := NewRegistry(client.Env{Home: home, ProjectRoot: root}, clientOpts...)

	catOpts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithDryRun(opts.DryRun),
		catalog.WithBackupRetention(cfg.BackupRetention),
		catalog.WithClock(now),
	}
	// The shipped recipes stand in only for the default location; a
	// configured path that does not exist is an error.
	if cfg.CatalogPath == paths.DefaultCatalogPath() {
		catOpts = append(catOpts, catalog.WithDefaultFallback())
	}
	cat := catalog.New(cfg.CatalogPath, catOpts...)

	backupOpts := []backup.Option{
		backup.WithRetentionCount(cfg.BackupRetention),
		backup.WithClock(now),
	}
	if opts.BackupDir != "" {
		backupOpts = append(backupOpts, backup.WithBackupDir(opts.BackupDir))
	}
	backups := backup.NewManager(backupOpts...)

	r := opts.Runner
	if r == nil {
		r = &runner.Exec{Timeout: cfg.SubprocessTimeout, Logger: logger}
	}
	installers := install.NewSet(install.Options{
		Runner:     r,
		Logger:     logger,
		InstallDir: cfg.InstallDir,
		Backups:    backups,
	})

	return &App{
		Config:     cfg,
		Project:    project,
		Home:       home,
		Root:       root,
		Registry:   reg,
		Catalog:    cat,
		Backups:    backups,
		Runner:     r,
		installers: installers,
		dryRun:     opts.DryRun,
		logger:     logger,
	}, nil
}

// ClientName picks the client: the flag, then the project default, then
// the user default.
func (a *App) ClientName(flag string) string {
	return manager.ResolveClient(flag, a.Project, a.Config.DefaultClient)
}

// Adapter returns the adapter for the client ClientName picks.
func (a *App) Adapter(flag string) (*client.Adapter, error) {
	return a.Registry.Adapter(a.ClientName(flag))
}

// Manager builds the state engine for the client ClientName picks.
func (a *App) Manager(clientFlag string) (*manager.Manager, error) {
	adapter, err := a.Adapter(clientFlag)
	if err != nil {
		return nil, err
	}
	return manager.New(a.Catalog, adapter, a.installers,
		manager.WithProject(a.Project),
		manager.WithHome(a.Home),
		manager.WithLogger(a.logger),
	), nil
}

// DryRun reports whether writes are planned rather than made.
func (a *App) DryRun() bool { return a.dryRun }
