package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/paths"
	"github.com/thoreinstein/mcpi/pkg/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

const (
	idFormat     = "20060102T150405.000"
	manifestName = "manifest.json"
)

var subjectPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Manager creates, restores, and prunes snapshots.
type Manager struct {
	rootDir        string
	retentionCount int
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets how many snapshots Backup keeps per subject.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithClock overrides the clock used for snapshot ids.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the root backup directory.
func (m *Manager) Root() string {
	return m.rootDir
}

// Backup snapshots the given files and directories under subject.
// Directories are captured recursively. Paths that do not exist are recorded
// as absent. Older snapshots beyond the retention count are pruned.
func (m *Manager) Backup(subject, reason string, targets []string) (*Manifest, error) {
	if err := checkSubject(subject); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, errors.New("at least one path is required")
	}

	now := m.now()
	id, dir, err := m.reserve(subject, now)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   now.UTC(),
		Subject:     subject,
		Reason:      reason,
		MCPIVersion: Version,
		ID:          id,
		Dir:         dir,
	}

	for _, p := range targets {
		abs, err := filepath.Abs(p)
		if err != nil {
			os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "resolving %s", p)
		}

		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				manifest.Absent = append(manifest.Absent, abs)
				continue
			}
			os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "stat %s", p)
		}

		if info.IsDir() {
			files, err := backupDirectory(abs, dir)
			if err != nil {
				os.RemoveAll(dir)
				return nil, errors.Wrapf(err, "backing up directory %s", p)
			}
			manifest.Files = append(manifest.Files, files...)
			continue
		}

		f, err := backupFile(abs, dir)
		if err != nil {
			os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "backing up file %s", p)
		}
		manifest.Files = append(manifest.Files, *f)
	}

	if len(manifest.Files) == 0 {
		os.RemoveAll(dir)
		return nil, errors.New("no files to back up")
	}

	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, manifestName), manifest); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(subject, m.retentionCount); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

// reserve creates a fresh snapshot directory. Two snapshots in the same
// millisecond get a numeric suffix.
func (m *Manager) reserve(subject string, now time.Time) (string, string, error) {
	base := now.Format(idFormat)
	subjectDir := filepath.Join(m.rootDir, subject)
	if err := paths.EnsureDir(subjectDir, 0); err != nil {
		return "", "", errors.Wrap(err, "creating backup directory")
	}

	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(subjectDir, id)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
}

func backupFile(src, snapshotDir string) (*File, error) {
	relPath := generateRelPath(src)
	dst := filepath.Join(snapshotDir, relPath)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating parent directory")
	}

	hash, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}

	return &File{
		OriginalPath: src,
		RelPath:      relPath,
		SHA256Hash:   hash,
		Mode:         mode,
	}, nil
}

func backupDirectory(srcDir, snapshotDir string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			// Directories are recreated from file paths; symlinks are skipped
			return nil
		}

		f, err := backupFile(path, snapshotDir)
		if err != nil {
			return err
		}
		files = append(files, *f)
		return nil
	})

	return files, err
}

// Restore writes every file in the snapshot back to its original location
// and removes paths that were absent when the snapshot was taken. Every
// stored file is verified before anything is written.
func (m *Manager) Restore(subject, id string) (*Manifest, error) {
	manifest, err := m.Get(subject, id)
	if err != nil {
		return nil, err
	}

	contents := make([][]byte, len(manifest.Files))
	for i, f := range manifest.Files {
		data, err := os.ReadFile(filepath.Join(manifest.Dir, f.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", f.RelPath)
		}
		if hashBytes(data) != f.SHA256Hash {
			return nil, errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", f.RelPath)
		}
		contents[i] = data
	}

	for i, f := range manifest.Files {
		if err := os.MkdirAll(filepath.Dir(f.OriginalPath), 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", f.OriginalPath)
		}
		if err := fileutil.AtomicWriteFile(f.OriginalPath, contents[i], f.Mode.Perm()); err != nil {
			return nil, errors.Wrapf(err, "restoring %s", f.OriginalPath)
		}
	}

	for _, p := range manifest.Absent {
		if err := os.RemoveAll(p); err != nil {
			return nil, errors.Wrapf(err, "removing %s", p)
		}
	}

	return manifest, nil
}

// List returns the snapshots for subject, newest first.
func (m *Manager) List(subject string) ([]Manifest, error) {
	if err := checkSubject(subject); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(m.rootDir, subject))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(subject, entry.Name())
		if err != nil {
			// Skip invalid backup directories
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return manifests, nil
}

// Subjects returns every subject with at least one snapshot directory.
func (m *Manager) Subjects() ([]string, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && subjectPattern.MatchString(e.Name()) {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// Prune removes snapshots beyond the newest keep for subject.
func (m *Manager) Prune(subject string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(subject)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(manifests[i].Dir); err != nil {
			return errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
	}
	return nil
}

// Get loads the manifest of one snapshot.
func (m *Manager) Get(subject, id string) (*Manifest, error) {
	if err := checkSubject(subject); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, errors.Newf("invalid backup id %q", id)
	}

	dir := filepath.Join(m.rootDir, subject, id)
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}

	manifest.ID = id
	manifest.Dir = dir
	return &manifest, nil
}

func checkSubject(subject string) error {
	if !subjectPattern.MatchString(subject) {
		return errors.Wrapf(ErrInvalidSubject, "%q", subject)
	}
	return nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// copyFile copies src to dst, returning the SHA256 hash and mode.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	// Compute hash while copying
	h := sha256.New()
	w := io.MultiWriter(dstFile, h)

	if _, err := io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, mode.Perm()); err != nil {
		return "", 0, errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}

// generateRelPath maps an absolute path to a relative path inside a
// snapshot. Drive-letter colons are dropped so the result is valid on
// every platform.
func generateRelPath(absPath string) string {
	clean := filepath.Clean(absPath)
	clean = strings.ReplaceAll(clean, ":", "")
	return strings.TrimLeft(clean, `/\`)
}
