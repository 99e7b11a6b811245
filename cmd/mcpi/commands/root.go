// Package commands implements the CLI commands for mcpi.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd"
	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/backup"
	"github.com/thoreinstein/mcpi/internal/cli"
	"github.com/thoreinstein/mcpi/internal/config"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configPath holds the --config value.
var configPath string

func init() {
	cobra.OnInitialize(initConfig)

	flags.Register(rootCmd)
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: $XDG_CONFIG_HOME/mcpi/config.yaml)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("mcpi version {{.Version}}\n")
	backup.Version = cmd.Version

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.NewUsageError(err, "Run '"+c.CommandPath()+" --help' for usage")
	})

	// Errors are printed by main with hints and details
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	c, err := config.Load(configPath)
	if err == nil {
		if errs := config.Validate(c, cli.Clients()); len(errs) > 0 {
			err = errors.Join(errs...)
		}
	}
	flags.SetConfig(c, err)
}

var rootCmd = &cobra.Command{
	Use:   "mcpi",
	Short: "Install and manage MCP servers for AI coding clients",
	Long: `mcpi is a package manager for Model Context Protocol servers.

It installs servers from a catalog of recipes using the package manager each
recipe names (npm, pip/uv, or git), then registers them in a client's
configuration files. Every client exposes named scopes, from project files
to user-wide settings, and mcpi tracks each server as enabled, disabled, or
not installed within a scope.

Disabled servers keep their configuration in a side file owned by mcpi so
they can be re-enabled without reinstalling.`,
	Example: `  # Find and install a server
  mcpi registry search files
  mcpi add filesystem --param root_path=~/src

  # See what is configured
  mcpi list
  mcpi info filesystem

  # Turn a server off without removing it
  mcpi disable filesystem --scope project-mcp

  # Preview changes
  mcpi add sqlite --dry-run

  See Also: mcpi status, mcpi registry, mcpi backup`,
	Args: flags.UsageArgs(cobra.NoArgs),
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUsageError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("MCPI_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return errors.NewUsageError(err, "Use --log-format text or --log-format json")
	}

	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: format,
		Out:    cmd.ErrOrStderr(),
		File:   logFile,
	})
	if err != nil {
		return errors.NewUserError(err, "Check the --log-file path")
	}
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && ctx.Err() != nil && errors.Kind(err) == nil {
		err = errors.Mark(err, errors.ErrCancelled)
	}
	return err
}
