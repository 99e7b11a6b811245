// Package cursor defines the Cursor client and its two scopes.
package cursor

import (
	"path/filepath"

	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/mcp"
)

// Name is the client identifier used on the command line.
const Name = "cursor"

// Scope names.
const (
	ScopeProjectMCP = "project-mcp"
	ScopeUserMCP    = "user-mcp"
)

// Definition builds the client definition for env.
func Definition(env client.Env) client.Definition {
	user := filepath.Join(env.Home, ".cursor")
	project := filepath.Join(env.ProjectRoot, ".cursor")

	return client.Definition{
		Name:        Name,
		DisplayName: "Cursor",
		ConfigDir:   user,
		Launchers:   []string{"npx", "uvx", "bunx", "pipx"},
		Transports:  mcp.Transports(),
		Scopes: []client.Scope{
			{
				Name:         ScopeProjectMCP,
				Path:         filepath.Join(project, "mcp.json"),
				Pointer:      []string{"mcpServers"},
				DisabledPath: filepath.Join(project, "mcpi-disabled.json"),
				Priority:     1,
				Level:        client.LevelProject,
			},
			{
				Name:         ScopeUserMCP,
				Path:         filepath.Join(user, "mcp.json"),
				Pointer:      []string{"mcpServers"},
				DisabledPath: filepath.Join(user, "mcpi-disabled.json"),
				Priority:     2,
				Level:        client.LevelUser,
				Primary:      true,
			},
		},
	}
}
