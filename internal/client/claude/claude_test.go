package claude

import (
	"path/filepath"
	"testing"

	"github.com/thoreinstein/mcpi/internal/client"
)

func TestDefinition_Scopes(t *testing.T) {
	env := client.Env{Home: "/home/u", ProjectRoot: "/src/app", GOOS: "linux"}
	a, err := client.New(Definition(env))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := []struct {
		name     string
		path     string
		readonly bool
	}{
		{ScopeProjectMCP, "/src/app/.mcp.json", false},
		{ScopeProjectLocal, "/home/u/.claude.json", false},
		{ScopeUserLocal, "/home/u/.claude/settings.local.json", false},
		{ScopeUserGlobal, "/home/u/.claude/settings.json", false},
		{ScopeUserMCP, "/home/u/.claude.json", false},
		{ScopeManaged, "/etc/claude-code/managed-mcp.json", true},
	}

	scopes := a.Scopes()
	if len(scopes) != len(want) {
		t.Fatalf("got %d scopes, want %d", len(scopes), len(want))
	}
	for i, w := range want {
		s := scopes[i]
		if s.Name != w.name || s.Path != filepath.FromSlash(w.path) || s.ReadOnly != w.readonly {
			t.Errorf("scope %d = {%s %s %v}, want {%s %s %v}", i, s.Name, s.Path, s.ReadOnly, w.name, w.path, w.readonly)
		}
	}

	if got := a.PrimaryScope().Name; got != ScopeUserMCP {
		t.Errorf("PrimaryScope() = %s, want %s", got, ScopeUserMCP)
	}

	local, _ := a.Scope(ScopeProjectLocal)
	if got := local.Location(); got != filepath.FromSlash("/home/u/.claude.json")+"#projects//src/app" {
		t.Errorf("project-local location = %s", got)
	}
}

func TestManagedPath(t *testing.T) {
	tests := map[string]string{
		"linux":  "/etc/claude-code/managed-mcp.json",
		"darwin": "/Library/Application Support/ClaudeCode/managed-mcp.json",
	}
	for goos, want := range tests {
		if got := ManagedPath(goos); got != want {
			t.Errorf("ManagedPath(%s) = %s, want %s", goos, got, want)
		}
	}
}
