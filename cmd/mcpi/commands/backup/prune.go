package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/backup"
	"github.com/thoreinstein/mcpi/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", backup.DefaultRetentionCount,
		"number of snapshots to retain per subject")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune [subject]",
	Short: "Remove old snapshots",
	Long: `Remove snapshots beyond the newest --keep of each subject.

Without an argument every subject is pruned.`,
	Example: `  mcpi backup prune
  mcpi backup prune --keep 1 cursor
  mcpi backup prune --keep 0`,
	Args: flags.UsageArgs(cobra.MaximumNArgs(1)),
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	if pruneKeep < 0 {
		return errors.NewUsageError(errors.New("--keep must be non-negative"), "")
	}
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
	return runPruneWithWriter(cmd.OutOrStdout(), mgr, subjects, pruneKeep, flags.DryRun())
}

func runPruneWithWriter(w io.Writer, mgr *backup.Manager, subjects []string, keep int, dryRun bool) error {
	pruned := 0
	for _, s := range subjects {
		manifests, err := mgr.List(s)
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				continue
			}
			return errors.Wrapf(err, "listing backups for %s", s)
		}

		toRemove := len(manifests) - keep
		if toRemove <= 0 {
			continue
		}

		if dryRun {
			fmt.Fprintf(w, "%s %s: would remove %d snapshot(s)\n", yellow("~"), s, toRemove)
		} else {
			if err := mgr.Prune(s, keep); err != nil {
				return errors.Wrapf(err, "pruning backups for %s", s)
			}
			fmt.Fprintf(w, "%s %s: removed %d snapshot(s)\n", green("✓"), s, toRemove)
		}
		pruned += toRemove
	}

	if pruned == 0 {
		fmt.Fprintln(w, "No backups to prune")
	}
	return nil
}
