// Package claude defines the Claude Code client: its six configuration
// scopes, from the project's .mcp.json down to the administrator-managed
// file, and the launcher rules its server specs are held to.
package claude

import (
	"path/filepath"

	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/mcp"
)

// Name is the client identifier used on the command line.
const Name = "claude-code"

// Scope names.
const (
	ScopeProjectMCP   = "project-mcp"
	ScopeProjectLocal = "project-local"
	ScopeUserLocal    = "user-local"
	ScopeUserGlobal   = "user-global"
	ScopeUserMCP      = "user-mcp"
	ScopeManaged      = "managed"
)

const serversKey = "mcpServers"

// Launchers must be followed by the package they launch.
var Launchers = []string{"npx", "uvx", "bunx", "pipx"}

// Definition builds the client definition for env.
func Definition(env client.Env) client.Definition {
	env = env.WithDefaults()
	base := filepath.Join(env.Home, ".claude")
	local := filepath.Join(env.ProjectRoot, ".claude")
	state := filepath.Join(env.Home, ".claude.json")

	disabled := func(dir, scope string) string {
		return filepath.Join(dir, "mcpi-disabled."+scope+".json")
	}

	return client.Definition{
		Name:        Name,
		DisplayName: "Claude Code",
		ConfigDir:   base,
		Launchers:   Launchers,
		Transports:  mcp.Transports(),
		Scopes: []client.Scope{
			{
				Name:         ScopeProjectMCP,
				Path:         filepath.Join(env.ProjectRoot, ".mcp.json"),
				Pointer:      []string{serversKey},
				DisabledPath: disabled(local, ScopeProjectMCP),
				Priority:     1,
				Level:        client.LevelProject,
			},
			{
				Name:         ScopeProjectLocal,
				Path:         state,
				Pointer:      []string{"projects", env.ProjectRoot, serversKey},
				DisabledPath: disabled(local, ScopeProjectLocal),
				Priority:     2,
				Level:        client.LevelProject,
			},
			{
				Name:         ScopeUserLocal,
				Path:         filepath.Join(base, "settings.local.json"),
				Pointer:      []string{serversKey},
				DisabledPath: disabled(base, ScopeUserLocal),
				Priority:     3,
				Level:        client.LevelUser,
			},
			{
				Name:         ScopeUserGlobal,
				Path:         filepath.Join(base, "settings.json"),
				Pointer:      []string{serversKey},
				DisabledPath: disabled(base, ScopeUserGlobal),
				Priority:     4,
				Level:        client.LevelUser,
			},
			{
				Name:         ScopeUserMCP,
				Path:         state,
				Pointer:      []string{serversKey},
				DisabledPath: disabled(base, ScopeUserMCP),
				Priority:     5,
				Level:        client.LevelUser,
				Primary:      true,
			},
			{
				Name:     ScopeManaged,
				Path:     ManagedPath(env.GOOS),
				Pointer:  []string{serversKey},
				Priority: 6,
				Level:    client.LevelUser,
				ReadOnly: true,
			},
		},
	}
}

// ManagedPath returns the administrator-managed config file for goos.
func ManagedPath(goos string) string {
	switch goos {
	case "darwin":
		return "/Library/Application Support/ClaudeCode/managed-mcp.json"
	case "windows":
		return `C:\ProgramData\ClaudeCode\managed-mcp.json`
	default:
		return "/etc/claude-code/managed-mcp.json"
	}
}
