package fileutil

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// BackupTimeFormat is the timestamp suffix used for sibling backups.
const BackupTimeFormat = "20060102T150405.000"

const backupExt = ".bak"

// BackupFile copies an existing file to a sibling path with a timestamp suffix
// (<path>.<timestamp>.bak) and returns the backup path. It returns "" when path
// does not exist. The copy keeps the original permission bits.
func BackupFile(path string, now time.Time) (string, error) {
	data, exists, err := ReadIfExists(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s for backup", path)
	}
	if !exists {
		return "", nil
	}

	dst := backupName(path, now)
	if err := AtomicWriteFile(dst, data, FileMode(path, DefaultFilePerm)); err != nil {
		return "", errors.Wrapf(err, "writing backup %s", dst)
	}
	return dst, nil
}

// backupName picks an unused sibling backup name for path.
func backupName(path string, now time.Time) string {
	base := path + "." + now.Format(BackupTimeFormat)
	name := base + backupExt
	for i := 1; ; i++ {
		if _, err := os.Lstat(name); os.IsNotExist(err) {
			return name
		}
		name = base + "-" + strconv.Itoa(i) + backupExt
	}
}

// ListBackups returns the sibling backups of path, newest first.
func ListBackups(path string) ([]string, error) {
	matches, err := filepath.Glob(globEscape(path) + ".*" + backupExt)
	if err != nil {
		return nil, errors.Wrap(err, "listing backups")
	}

	prefix := path + "."
	backups := matches[:0]
	for _, m := range matches {
		stamp := strings.TrimSuffix(strings.TrimPrefix(m, prefix), backupExt)
		if len(stamp) < len(BackupTimeFormat) {
			continue
		}
		if _, err := time.Parse(BackupTimeFormat, stamp[:len(BackupTimeFormat)]); err != nil {
			continue
		}
		backups = append(backups, m)
	}

	// Timestamps sort lexically
	slices.Sort(backups)
	slices.Reverse(backups)
	return backups, nil
}

// PruneBackups deletes all but the newest keep sibling backups of path.
// A negative keep is treated as zero.
func PruneBackups(path string, keep int) error {
	if keep < 0 {
		keep = 0
	}

	backups, err := ListBackups(path)
	if err != nil {
		return err
	}

	for i := keep; i < len(backups); i++ {
		if err := os.Remove(backups[i]); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing backup %s", backups[i])
		}
	}
	return nil
}

// globEscape escapes glob metacharacters in a literal path.
func globEscape(path string) string {
	var sb strings.Builder
	for _, r := range path {
		switch r {
		case '*', '?', '[':
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
