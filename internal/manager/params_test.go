package manager

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/install"
	"github.com/thoreinstein/mcpi/internal/mcp"
)

func TestBindArgs(t *testing.T) {
	r := catalog.Recipe{
		ID: "pg",
		Configuration: catalog.Configuration{
			RequiredParams: []string{"host", "port", "database_path", "api_key"},
			OptionalParams: []string{"ssl", "schema"},
		},
	}

	args, warnings := BindArgs(r, Params{Values: map[string]string{
		"port":   "6543",
		"schema": "public",
		"extra":  "x",
	}}, "/home/u")

	want := []string{"localhost", "6543", "./database.db", "--schema", "public"}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	wantWarnings := []string{
		"required parameter api_key is unbound; edit the server config or pass --param api_key=<value>",
		"parameter extra is not declared by pg and was ignored",
	}
	if diff := cmp.Diff(wantWarnings, warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultFor(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"root_path", "/home/u", true},
		{"database_path", "./database.db", true},
		{"repository_path", ".", true},
		{"host", "localhost", true},
		{"port", "5432", true},
		{"timeout", "30", true},
		{"token", "", false},
	}
	for _, tt := range tests {
		got, ok := DefaultFor(tt.name, "/home/u")
		if got != tt.want || ok != tt.ok {
			t.Errorf("DefaultFor(%s) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
	if _, ok := DefaultFor("root_path", ""); ok {
		t.Error("root_path without a home should be unbound")
	}
}

func TestBuildSpec(t *testing.T) {
	r := catalog.Recipe{
		ID:            "git",
		Configuration: catalog.Configuration{RequiredParams: []string{"repository_path"}},
	}
	a := &install.Artifact{Command: "python3", Args: []string{"-m", "mcp_server_git"}, Warnings: []string{"w"}}

	spec, warnings := BuildSpec(r, a, Params{Env: map[string]string{"GIT_TRACE": "1"}}, "/h")
	want := mcp.Spec{
		Command: "python3",
		Args:    []string{"-m", "mcp_server_git", "."},
		Env:     map[string]string{"GIT_TRACE": "1"},
	}
	if !spec.Equal(want) {
		t.Errorf("BuildSpec() = %+v, want %+v", spec, want)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v", warnings)
	}
	if len(a.Args) != 2 {
		t.Error("BuildSpec() mutated the artifact args")
	}
}

func TestPatch_Apply(t *testing.T) {
	cmd := "node"
	typ := mcp.TransportSSE
	base := mcp.Spec{Command: "npx", Args: []string{"pkg", "--mode", "a"}, Env: map[string]string{"K": "1"}}

	got := Patch{
		Command: &cmd,
		Type:    &typ,
		Env:     map[string]string{"K": "2"},
		Params:  map[string]string{"mode": "b", "level": "3"},
	}.Apply(base)

	want := mcp.Spec{
		Command: "node",
		Args:    []string{"pkg", "--mode", "b", "--level", "3"},
		Env:     map[string]string{"K": "2"},
		Type:    mcp.TransportSSE,
	}
	if !got.Equal(want) {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}
	if base.Args[2] != "a" || base.Env["K"] != "1" {
		t.Error("Apply() mutated its input")
	}
}
