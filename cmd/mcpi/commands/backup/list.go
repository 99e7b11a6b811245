package backup

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/backup"
	"github.com/thoreinstein/mcpi/internal/errors"
)

func init() {
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list [subject]",
	Aliases: []string{"ls"},
	Short:   "List snapshots",
	Long: `List snapshots, newest first, grouped by subject.

Without an argument every subject is listed. A subject is a client name or
server-<id>; a bare server id is accepted too.`,
	Example: `  mcpi backup list
  mcpi backup list claude-code
  mcpi backup list github --json`,
	Args: flags.UsageArgs(cobra.MaximumNArgs(1)),
	RunE: runList,
}

// listOutput is the JSON shape of one subject.
type listOutput struct {
	Subject string       `json:"subject"`
	Backups []infoOutput `json:"backups"`
}

// infoOutput is the JSON shape of one snapshot.
type infoOutput struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Reason      string    `json:"reason,omitempty"`
	FileCount   int       `json:"file_count"`
	MCPIVersion string    `json:"mcpi_version"`
}

func runList(cmd *cobra.Command, args []string) error {
	mgr, err := manager(cmd)
	if err != nil {
		return err
	}

	var subjects []string
	if len(args) == 1 {
		subjects = []string{subjectFor(args[0])}
	} else if subjects, err = mgr.Subjects(); err != nil {
		return err
	}
	return runListWithWriter(cmd.OutOrStdout(), mgr, subjects)
}

func runListWithWriter(w io.Writer, mgr *backup.Manager, subjects []string) error {
	output := make([]listOutput, 0, len(subjects))
	for _, s := range subjects {
		manifests, err := mgr.List(s)
		if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.Wrapf(err, "listing backups for %s", s)
		}

		backups := make([]infoOutput, len(manifests))
		for i, m := range manifests {
			backups[i] = infoOutput{
				ID:          m.ID,
				CreatedAt:   m.CreatedAt,
				Reason:      m.Reason,
				FileCount:   len(m.Files),
				MCPIVersion: m.MCPIVersion,
			}
		}
		output = append(output, listOutput{Subject: s, Backups: backups})
	}

	if flags.JSON() {
		return writeJSON(w, output)
	}
	return outputListTabular(w, output)
}

func outputListTabular(w io.Writer, output []listOutput) error {
	hasBackups := false

	for i, s := range output {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, header(s.Subject))

		if len(s.Backups) == 0 {
			fmt.Fprintf(w, "  %s\n", gray("(no backups available)"))
			continue
		}
		hasBackups = true

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", bold("ID"), bold("CREATED"), bold("FILES"), bold("REASON"))
		for _, b := range s.Backups {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\n",
				green(b.ID),
				b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				b.FileCount,
				b.Reason)
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "flushing output")
		}
	}

	if !hasBackups {
		if len(output) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Snapshots are taken before a git-clone server is reinstalled.")
		fmt.Fprintln(w, "You can also take one manually with: mcpi backup create")
	}
	return nil
}
