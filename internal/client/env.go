package client

import (
	"os"
	"runtime"
)

// Env carries the host facts client definitions resolve their paths from.
type Env struct {
	Home        string
	ProjectRoot string
	GOOS        string
}

// WithDefaults fills GOOS from the running platform.
func (e Env) WithDefaults() Env {
	if e.GOOS == "" {
		e.GOOS = runtime.GOOS
	}
	return e
}

// InstallStatus indicates whether a client appears to be installed.
type InstallStatus string

const (
	StatusInstalled    InstallStatus = "installed"
	StatusNotInstalled InstallStatus = "not_installed"
)

// Detect reports whether the client's user-level config directory exists.
func (a *Adapter) Detect() InstallStatus {
	if a.def.ConfigDir == "" {
		return StatusNotInstalled
	}
	info, err := os.Stat(a.def.ConfigDir)
	if err != nil || !info.IsDir() {
		return StatusNotInstalled
	}
	return StatusInstalled
}

// ConfigDir returns the client's user-level config directory.
func (a *Adapter) ConfigDir() string { return a.def.ConfigDir }
