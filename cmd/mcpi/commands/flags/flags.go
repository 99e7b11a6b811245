// Package flags holds the persistent flags shared by the root command and
// the noun subpackages (registry, backup), and builds the per-invocation
// App from them. It exists to avoid import cycles between those packages.
package flags

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/internal/cli"
	"github.com/thoreinstein/mcpi/internal/config"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/logging"
)

var (
	dryRun     bool
	clientName string
	scopeName  string
	jsonOutput bool
	project    string

	cfg     *config.Config
	loadErr error
)

// Register adds the shared persistent flags to the root command.
func Register(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.BoolVar(&dryRun, "dry-run", false, "show what would change without writing anything")
	pf.StringVar(&clientName, "client", "",
		"client to manage: "+strings.Join(cli.Clients(), ", ")+" (default: project or user config, else claude-code)")
	pf.StringVar(&scopeName, "scope", "", "scope within the client (default: project default_scope, else the client's primary scope)")
	pf.BoolVar(&jsonOutput, "json", false, "machine-readable JSON output")
	pf.StringVar(&project, "project", "", "project root (default: working directory)")
}

// DryRun returns the --dry-run value.
func DryRun() bool { return dryRun }

// Client returns the --client value.
func Client() string { return clientName }

// Scope returns the --scope value.
func Scope() string { return scopeName }

// JSON returns the --json value.
func JSON() bool { return jsonOutput }

// Project returns the --project value.
func Project() string { return project }

// SetScope overrides the --scope value, for callers that pick a scope
// programmatically.
func SetScope(name string) { scopeName = name }

// SetJSON overrides the --json value.
func SetJSON(v bool) { jsonOutput = v }

// SetConfig records the loaded user config, or the error loading it.
func SetConfig(c *config.Config, err error) {
	cfg, loadErr = c, err
}

// Config returns the loaded user config.
func Config() (*config.Config, error) {
	if loadErr != nil {
		return nil, errors.NewConfigError(loadErr)
	}
	if cfg == nil {
		return nil, errors.NewConfigError(errors.New("configuration not loaded"))
	}
	return cfg, nil
}

// NewApp builds the App for cmd from the loaded config and global flags.
func NewApp(cmd *cobra.Command) (*cli.App, error) {
	c, err := Config()
	if err != nil {
		return nil, err
	}
	return cli.NewApp(cli.Options{
		Config:      c,
		ProjectFlag: project,
		DryRun:      dryRun,
		Logger:      logging.FromContext(cmd.Context()),
	})
}

// UsageArgs marks the errors of a positional-argument validator as usage
// errors so they exit with status 2.
func UsageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return errors.NewUsageError(err, "Run '"+cmd.CommandPath()+" --help' for usage")
		}
		return nil
	}
}
