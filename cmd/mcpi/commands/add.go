package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/manager"
)

var (
	addParams []string
	addEnv    []string
)

func init() {
	addCmd.Flags().StringArrayVar(&addParams, "param", nil, "recipe parameter as name=value (repeatable)")
	addCmd.Flags().StringArrayVar(&addEnv, "env", nil, "environment variable for the server as KEY=VALUE (repeatable)")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Install servers from the catalog and register them with a client",
	Long: `Install one or more servers from the catalog and add them to a client scope.

For each id, mcpi checks that the scope is writable and does not already
hold the server, verifies the recipe's prerequisites, installs the package
with the recipe's method, builds the launch command from the recipe's
parameters, and writes it to the scope as enabled.

Required parameters without a --param value fall back to a built-in default
where one exists (root_path defaults to your home directory) and are
reported as warnings otherwise. Ids that fail are reported and the rest
continue.`,
	Example: `  # Install to the client's primary scope
  mcpi add filesystem --param root_path=~/src

  # Install several servers into the project's shared scope
  mcpi add filesystem sqlite --scope project-mcp

  # Pass credentials through the environment
  mcpi add github --env GITHUB_TOKEN=ghp_xxx

  # See the commands and writes without running them
  mcpi add sqlite --dry-run

  See Also:
    mcpi remove   - Remove a server
    mcpi registry - Browse the catalog`,
	Args: flags.UsageArgs(cobra.MinimumNArgs(1)),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	app, err := flags.NewApp(cmd)
	if err != nil {
		return err
	}
	mgr, err := app.Manager(flags.Client())
	if err != nil {
		return err
	}
	return runAddWithWriter(cmd.Context(), cmd.OutOrStdout(), mgr, args)
}

func runAddWithWriter(ctx context.Context, w io.Writer, mgr *manager.Manager, ids []string) error {
	values, err := parseKV("param", addParams)
	if err != nil {
		return err
	}
	env, err := parseKV("env", addEnv)
	if err != nil {
		return err
	}
	p := manager.Params{Values: values, Env: env}

	s, err := manager.Batch(ids, func(id string) (*manager.Outcome, error) {
		return mgr.Add(ctx, id, p, flags.Scope())
	})
	return report(w, s, err)
}
