package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under each XDG base directory.
const AppName = "mcpi"

// ProjectConfigFile is the ambient project configuration file name.
const ProjectConfigFile = ".mcpi.toml"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or "" if it cannot be determined.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.Wrap(ErrHomeDirNotFound, "resolving home directory")
	}
	return home, nil
}

// ExpandHome expands a leading ~ in path to home.
func ExpandHome(path, home string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns <ConfigHome>/mcpi.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// DefaultCatalogPath returns <ConfigHome>/mcpi/catalog.toml.
func DefaultCatalogPath() string {
	return filepath.Join(ConfigDir(), "catalog.toml")
}

// InstallDir returns <DataHome>/mcpi/servers, where git-clone recipes are checked out.
func InstallDir() string {
	return filepath.Join(DataHome(), AppName, "servers")
}

// BackupDir returns <DataHome>/mcpi/backups, where install snapshots are kept.
func BackupDir() string {
	return filepath.Join(DataHome(), AppName, "backups")
}

// ProjectRoot resolves the project root: flag if set, otherwise the working
// directory. The result is absolute and cleaned.
func ProjectRoot(flag string) (string, error) {
	root := flag
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "getting working directory")
		}
		root = wd
	}
	if strings.ContainsRune(root, '\x00') {
		return "", errors.Wrapf(ErrInvalidPath, "project root %q", root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, "resolving project root %q", root)
	}
	return filepath.Clean(abs), nil
}
