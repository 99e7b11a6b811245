// Package paths resolves the directories mcpi reads and writes.
//
// MCPI's own state (user config, default catalog, cloned servers, install
// snapshots) lives under the XDG base directories, resolved through
// github.com/adrg/xdg:
//
//	paths.ConfigDir()  // ~/.config/mcpi
//	paths.InstallDir() // ~/.local/share/mcpi/servers
//	paths.BackupDir()  // ~/.local/share/mcpi/backups
//
// Client configuration paths are not resolved here; each client definition
// under internal/client owns its own layout relative to the home directory
// and project root.
package paths
