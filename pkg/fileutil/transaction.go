package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// PlannedWrite describes a write a Transaction would perform.
type PlannedWrite struct {
	Path    string `json:"path"`
	Bytes   int    `json:"bytes"`
	Creates bool   `json:"creates"`
}

// CommitResult reports what a committed Transaction did.
type CommitResult struct {
	// Written lists the paths that were replaced, in commit order.
	Written []string `json:"written,omitempty"`

	// BackupPaths lists sibling backups taken of pre-existing targets.
	BackupPaths []string `json:"backup_paths,omitempty"`

	// Planned is populated instead of Written for dry-run transactions.
	Planned []PlannedWrite `json:"planned,omitempty"`
}

type staged struct {
	path string
	data []byte
}

// Transaction stages whole-file replacements for a small set of targets and
// commits them together. Each target is backed up, written to a synced temp
// file, then renamed into place. If a rename fails, targets already replaced
// are restored from their backups (or removed if they did not exist).
//
// Staging identical bytes over an existing file is skipped, so a transaction
// that changes nothing leaves every target byte-identical and takes no backups.
type Transaction struct {
	writes []staged
	dryRun bool
	keep   int
	now    func() time.Time
}

// TxOption configures a Transaction.
type TxOption func(*Transaction)

// WithDryRun makes Commit report planned writes without touching disk.
func WithDryRun(dryRun bool) TxOption {
	return func(t *Transaction) {
		t.dryRun = dryRun
	}
}

// WithClock overrides the clock used for backup timestamps.
func WithClock(now func() time.Time) TxOption {
	return func(t *Transaction) {
		t.now = now
	}
}

// WithRetention prunes each target's backups down to the newest keep after a
// successful commit. Zero or less keeps everything.
func WithRetention(keep int) TxOption {
	return func(t *Transaction) {
		t.keep = keep
	}
}

// NewTransaction creates an empty Transaction.
func NewTransaction(opts ...TxOption) *Transaction {
	t := &Transaction{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Stage queues data to replace the file at path. Staging the same path twice
// keeps the last data.
func (t *Transaction) Stage(path string, data []byte) {
	for i := range t.writes {
		if t.writes[i].path == path {
			t.writes[i].data = data
			return
		}
	}
	t.writes = append(t.writes, staged{path: path, data: data})
}

// Len returns the number of staged targets.
func (t *Transaction) Len() int {
	return len(t.writes)
}

type prepared struct {
	staged
	tmp     string
	backup  string
	existed bool
	perm    os.FileMode
}

// Commit applies every staged write.
func (t *Transaction) Commit() (*CommitResult, error) {
	res := &CommitResult{}

	var work []*prepared
	for _, w := range t.writes {
		current, existed, err := ReadIfExists(w.path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", w.path)
		}
		if existed && bytes.Equal(current, w.data) {
			continue
		}
		p := &prepared{staged: w, existed: existed, perm: DefaultFilePerm}
		if existed {
			p.perm = FileMode(w.path, DefaultFilePerm)
		}
		work = append(work, p)
	}

	if t.dryRun {
		for _, p := range work {
			res.Planned = append(res.Planned, PlannedWrite{
				Path:    p.path,
				Bytes:   len(p.data),
				Creates: !p.existed,
			})
		}
		return res, nil
	}

	cleanup := func() {
		for _, p := range work {
			if p.tmp != "" {
				os.Remove(p.tmp)
			}
		}
	}

	now := t.now()
	for _, p := range work {
		if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
			cleanup()
			return nil, errors.Wrapf(err, "creating directory for %s", p.path)
		}
		if p.existed {
			b, err := BackupFile(p.path, now)
			if err != nil {
				cleanup()
				return nil, err
			}
			p.backup = b
			res.BackupPaths = append(res.BackupPaths, b)
		}
		// New files take the umask; replacements keep the mode they had
		tmp, err := writeTemp(p.path, p.data, p.perm, p.existed)
		if err != nil {
			cleanup()
			return nil, errors.Wrapf(err, "staging %s", p.path)
		}
		p.tmp = tmp
	}

	for i, p := range work {
		if err := os.Rename(p.tmp, p.path); err != nil {
			cleanup()
			rollbackErr := rollback(work[:i])
			err = errors.Wrapf(err, "replacing %s", p.path)
			if rollbackErr != nil {
				err = errors.WithDetailf(err, "rollback failed: %v", rollbackErr)
			}
			return nil, err
		}
		p.tmp = ""
		res.Written = append(res.Written, p.path)
	}

	if t.keep > 0 {
		for _, p := range work {
			if !p.existed {
				continue
			}
			// The backups are a convenience; a failed prune does not undo the commit
			_ = PruneBackups(p.path, t.keep)
		}
	}

	return res, nil
}

// rollback restores already-renamed targets to their pre-transaction content.
func rollback(done []*prepared) error {
	var firstErr error
	for i := len(done) - 1; i >= 0; i-- {
		p := done[i]
		var err error
		if p.existed {
			var data []byte
			data, err = os.ReadFile(p.backup)
			if err == nil {
				err = AtomicWriteFile(p.path, data, p.perm)
			}
		} else {
			err = os.Remove(p.path)
		}
		if err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "restoring %s", p.path)
		}
	}
	return firstErr
}
