package catalog

import (
	"strings"
	"testing"
)

func validRecipe() Recipe {
	return Recipe{
		ID:           "filesystem",
		Name:         "Filesystem",
		Description:  "File access",
		Author:       "Example",
		Categories:   []string{"filesystem"},
		Capabilities: []string{"read_file"},
		Platforms:    []string{"darwin", "linux"},
		Repository:   "https://github.com/example/filesystem",
		Versions:     Versions{Latest: "1.0.0"},
		Installation: Installation{Method: MethodJSPkg, Package: "@org/filesystem"},
		Configuration: Configuration{
			RequiredParams: []string{"root_path"},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	res := Validate(validRecipe())
	if res.HasErrors() {
		t.Fatalf("Validate() errors = %v", res.Errors())
	}
}

func TestValidate_LengthBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		mutate func(*Recipe, string)
	}{
		{"name", MaxNameLength, func(r *Recipe, s string) { r.Name = s }},
		{"description", MaxDescriptionLen, func(r *Recipe, s string) { r.Description = s }},
		{"category", MaxCategoryLength, func(r *Recipe, s string) { r.Categories = []string{s} }},
		{"capability", MaxCapabilityLength, func(r *Recipe, s string) { r.Capabilities = []string{s} }},
		{"dependency", MaxDependencyLength, func(r *Recipe, s string) { r.Installation.SystemDependencies = []string{s} }},
		{"param", MaxParamLength, func(r *Recipe, s string) { r.Configuration.OptionalParams = []string{s} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atLimit := validRecipe()
			tt.mutate(&atLimit, strings.Repeat("a", tt.limit))
			if res := Validate(atLimit); res.HasErrors() {
				t.Errorf("length %d rejected: %v", tt.limit, res.Errors())
			}

			over := validRecipe()
			tt.mutate(&over, strings.Repeat("a", tt.limit+1))
			if res := Validate(over); !res.HasErrors() {
				t.Errorf("length %d accepted", tt.limit+1)
			}
		})
	}
}

func TestValidVersion(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"1.0.0", true},
		{"1.0.0-alpha", true},
		{"1.0.0+build.1", true},
		{"2025.8.21", true},
		{"1.0", false},
		{"", false},
		{"latest", false},
		{"v1.0.0", false},
		{"1.0.x", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := ValidVersion(tt.version); got != tt.want {
				t.Errorf("ValidVersion(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"filesystem", true},
		{"mcp-server_2", true},
		{"0day", true},
		{"-leading", false},
		{"trailing-", false},
		{"Upper", false},
		{"has space", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ValidID(tt.id); got != tt.want {
				t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(*Recipe)
	}{
		{"empty name", "name", func(r *Recipe) { r.Name = " " }},
		{"empty author", "author", func(r *Recipe) { r.Author = "" }},
		{"no categories", "categories", func(r *Recipe) { r.Categories = nil }},
		{"no platforms", "platforms", func(r *Recipe) { r.Platforms = nil }},
		{"unknown platform", "platforms[0]", func(r *Recipe) { r.Platforms = []string{"plan9"} }},
		{"bad url", "repository", func(r *Recipe) { r.Repository = "not a url" }},
		{"ftp url", "documentation", func(r *Recipe) { r.Documentation = "ftp://example.com/doc" }},
		{"bad supported version", "versions.supported[0]", func(r *Recipe) { r.Versions.Supported = []string{"1.0"} }},
		{"no method", "installation.method", func(r *Recipe) { r.Installation.Method = Method{} }},
		{"empty package", "installation.package", func(r *Recipe) { r.Installation.Package = "" }},
		{"bad npm name", "installation.package", func(r *Recipe) { r.Installation.Package = "Has Spaces" }},
		{"bad py name", "installation.package", func(r *Recipe) {
			r.Installation = Installation{Method: MethodPyPkg, Package: "-bad"}
		}},
		{"bad git url", "installation.package", func(r *Recipe) {
			r.Installation = Installation{Method: MethodGitClone, Package: "ext::sh -c id"}
		}},
		{"duplicate param", "configuration.optional_params[0]", func(r *Recipe) {
			r.Configuration.OptionalParams = []string{"root_path"}
		}},
		{"param not identifier", "configuration.required_params[0]", func(r *Recipe) {
			r.Configuration.RequiredParams = []string{"has space"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecipe()
			tt.mutate(&r)
			res := Validate(r)
			found := false
			for _, issue := range res.Errors() {
				if issue.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on %q; got %v", tt.field, res.Errors())
			}
		})
	}
}

func TestValidate_PackageSyntax(t *testing.T) {
	tests := []struct {
		method Method
		pkg    string
		valid  bool
	}{
		{MethodJSPkg, "@modelcontextprotocol/server-filesystem", true},
		{MethodJSPkg, "server-memory@1.2.3", true},
		{MethodPyPkg, "mcp-server-sqlite", true},
		{MethodPyPkg, "mcp-server-fetch==2025.4.7", true},
		{MethodPyPkg, "package[extra]>=1.0", true},
		{MethodGitClone, "https://github.com/org/repo.git", true},
		{MethodGitClone, "git@github.com:org/repo.git", true},
		{MethodGitClone, "github.com/org/repo", false},
	}

	for _, tt := range tests {
		t.Run(tt.method.String()+" "+tt.pkg, func(t *testing.T) {
			r := validRecipe()
			r.Installation = Installation{Method: tt.method, Package: tt.pkg}
			if got := !Validate(r).HasErrors(); got != tt.valid {
				t.Errorf("valid = %v, want %v: %v", got, tt.valid, Validate(r).Errors())
			}
		})
	}
}

func TestValidateMetadata(t *testing.T) {
	if res := ValidateMetadata(Metadata{Version: "1.0.0", Updated: "2026-10-19"}); res.HasErrors() {
		t.Errorf("unexpected errors: %v", res.Errors())
	}
	if res := ValidateMetadata(Metadata{Version: "1", Updated: "yesterday"}); len(res.Errors()) != 2 {
		t.Errorf("Errors() = %v, want 2", res.Errors())
	}
}
