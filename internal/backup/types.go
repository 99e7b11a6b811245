package backup

import (
	"io/fs"
	"time"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultRetentionCount is the default number of snapshots to retain per subject.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no snapshots exist for the subject.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a stored file no longer matches the hash
	// recorded in its manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrInvalidSubject indicates a subject that cannot be used as a
	// directory name.
	ErrInvalidSubject = errors.New("invalid backup subject")
)

// Manifest describes one snapshot. It is stored as manifest.json in the
// snapshot directory.
type Manifest struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`

	// Subject groups snapshots: a client name, or server-<id> for an
	// install directory.
	Subject string `json:"subject"`

	// Reason is a short free-form note such as "reinstall" or "manual".
	Reason string `json:"reason,omitempty"`

	// Files lists every file captured.
	Files []File `json:"files"`

	// Absent lists requested paths that did not exist when the snapshot was
	// taken. Restore removes them so the snapshot state is reproduced.
	Absent []string `json:"absent,omitempty"`

	// MCPIVersion is the version of mcpi that took the snapshot.
	MCPIVersion string `json:"mcpi_version"`

	// ID is the snapshot directory name. Populated on load, not stored.
	ID string `json:"-"`

	// Dir is the snapshot directory. Populated on load, not stored.
	Dir string `json:"-"`
}

// File is one captured file.
type File struct {
	// OriginalPath is the absolute path where the file was located.
	OriginalPath string `json:"original_path"`

	// RelPath is the path within the snapshot directory.
	RelPath string `json:"rel_path"`

	// SHA256Hash is the hex-encoded SHA256 of the contents.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the file's permission bits.
	Mode fs.FileMode `json:"mode"`
}
