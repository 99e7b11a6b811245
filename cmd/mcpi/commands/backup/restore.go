package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/backup"
	"github.com/thoreinstein/mcpi/internal/cli/prompt"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/logging"
)

func init() {
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore <subject> [backup-id]",
	Short: "Restore a snapshot",
	Long: `Restore every file of a snapshot to its original location.

Without a backup id the newest snapshot is used; on a terminal you are asked
to pick one instead. Every stored file is verified against its recorded hash
before anything is written, and files that were absent when the snapshot was
taken are removed.`,
	Example: `  mcpi backup restore cursor
  mcpi backup restore claude-code 20261019T101500.000
  mcpi backup restore github`,
	Args: flags.UsageArgs(cobra.RangeArgs(1, 2)),
	RunE: runRestore,
}

// picker chooses one snapshot from a newest-first list.
type picker func([]backup.Manifest) (backup.Manifest, error)

func newest(manifests []backup.Manifest) (backup.Manifest, error) {
	return manifests[0], nil
}

func promptPicker(sel *prompt.Selector) picker {
	return func(manifests []backup.Manifest) (backup.Manifest, error) {
		return prompt.Select(sel, "Snapshots", manifests, func(m backup.Manifest) string {
			label := fmt.Sprintf("%s  %d file(s)", m.ID, len(m.Files))
			if m.Reason != "" {
				label += "  " + m.Reason
			}
			return label
		})
	}
}

func runRestore(cmd *cobra.Command, args []string) error {
	mgr, err := manager(cmd)
	if err != nil {
		return err
	}

	var id string
	if len(args) == 2 {
		id = args[1]
	}
	pick := newest
	if logging.IsTTY(os.Stdin) && !flags.JSON() {
		pick = promptPicker(prompt.NewSelector())
	}
	return runRestoreWithWriter(cmd.OutOrStdout(), mgr, subjectFor(args[0]), id, pick, flags.DryRun())
}

func runRestoreWithWriter(w io.Writer, mgr *backup.Manager, subject, id string, pick picker, dryRun bool) error {
	if id == "" {
		manifests, err := mgr.List(subject)
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.WithHint(
					errors.Mark(errors.Newf("no backups found for %s", subject), errors.ErrNotFound),
					"List subjects with 'mcpi backup list'")
			}
			return errors.Wrap(err, "listing backups")
		}
		chosen, err := pick(manifests)
		if err != nil {
			return err
		}
		id = chosen.ID
	}

	manifest, err := mgr.Get(subject, id)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.Mark(err, errors.ErrNotFound)
		}
		return err
	}

	if dryRun {
		fmt.Fprintf(w, "%s would restore %s from %s:\n", yellow("~"), subject, id)
		for _, f := range manifest.Files {
			fmt.Fprintf(w, "  write  %s\n", f.OriginalPath)
		}
		for _, p := range manifest.Absent {
			fmt.Fprintf(w, "  remove %s\n", p)
		}
		return nil
	}

	if _, err := mgr.Restore(subject, id); err != nil {
		return errors.Wrapf(err, "restoring backup %s", id)
	}

	if flags.JSON() {
		return writeJSON(w, map[string]any{
			"subject":  subject,
			"id":       id,
			"restored": len(manifest.Files),
			"removed":  len(manifest.Absent),
		})
	}
	fmt.Fprintf(w, "%s Restored %s from %s (%d file(s))\n", green("✓"), subject, id, len(manifest.Files))
	return nil
}
