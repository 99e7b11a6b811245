package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/doctor"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/manager"
)

var (
	listState       string
	listShowSecrets bool
)

func init() {
	listCmd.Flags().StringVar(&listState, "state", "", "only show servers in this state: enabled, disabled")
	listCmd.Flags().BoolVar(&listShowSecrets, "show-secrets", false, "reveal masked secrets in env values and arguments")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List configured servers",
	Long: `List the servers configured for a client, grouped by scope from most to
least specific.

Without --scope every scope of the client is listed. Environment variables
and arguments that look like secrets (TOKEN, KEY, SECRET, PASSWORD, AUTH,
CREDENTIAL, or known token prefixes) are masked unless --show-secrets is
given.`,
	Example: `  # List every scope of the default client
  mcpi list

  # Only disabled servers in one scope
  mcpi list --scope user-mcp --state disabled

  # Cursor, as JSON
  mcpi list --client cursor --json

  See Also:
    mcpi info   - Details for one server
    mcpi status - Per-scope counts and health checks`,
	Args: flags.UsageArgs(cobra.NoArgs),
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	app, err := flags.NewApp(cmd)
	if err != nil {
		return err
	}
	mgr, err := app.Manager(flags.Client())
	if err != nil {
		return err
	}
	return runListWithWriter(cmd.OutOrStdout(), mgr)
}

func runListWithWriter(w io.Writer, mgr *manager.Manager) error {
	if scope := flags.Scope(); scope != "" && !mgr.Client().HasScope(scope) {
		_, err := mgr.Client().Scope(scope)
		return err
	}

	records, err := mgr.List(manager.ListOptions{
		Scope: flags.Scope(),
		State: client.State(listState),
	})
	if err != nil {
		return err
	}
	if !listShowSecrets {
		for i := range records {
			records[i].Spec = doctor.MaskSpec(records[i].Spec)
		}
	}

	if flags.JSON() {
		if records == nil {
			records = []client.Record{}
		}
		return writeJSON(w, records)
	}
	return outputListTabular(w, mgr.Client(), records)
}

func outputListTabular(w io.Writer, a *client.Adapter, records []client.Record) error {
	fmt.Fprintf(w, "%s\n", header("Client: "+a.DisplayName()))
	if len(records) == 0 {
		fmt.Fprintf(w, "  %s\n", gray("(no servers configured)"))
		return nil
	}

	scope := ""
	var tw *tabwriter.Writer
	flush := func() error {
		if tw == nil {
			return nil
		}
		return errors.Wrap(tw.Flush(), "flushing tabwriter")
	}
	for _, r := range records {
		if r.Scope != scope {
			if err := flush(); err != nil {
				return err
			}
			scope = r.Scope
			fmt.Fprintf(w, "\n  %s\n", bold(scope))
			tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "    ID\tSTATE\tTRANSPORT\tCOMMAND")
		}
		fmt.Fprintf(tw, "    %s\t%s\t%s\t%s\n", r.ID, stateColor(r.State), r.Spec.Transport(), truncate(commandLine(r), 60))
	}
	return flush()
}

func commandLine(r client.Record) string {
	return strings.Join(append([]string{r.Spec.Command}, r.Spec.Args...), " ")
}

// truncate truncates a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
