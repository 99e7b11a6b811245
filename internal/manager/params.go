package manager

import (
	"maps"
	"slices"

	"github.com/thoreinstein/mcpi/internal/catalog"
	"github.com/thoreinstein/mcpi/internal/install"
	"github.com/thoreinstein/mcpi/internal/mcp"
)

// Params are the user-supplied values bound into a server's launch command.
type Params struct {
	// Values maps recipe parameter names to values.
	Values map[string]string

	// Env is merged into the spec's environment, overwriting existing keys.
	Env map[string]string
}

// parameterDefaults are substituted for unbound required parameters.
// root_path is resolved from the manager's home directory.
var parameterDefaults = map[string]string{
	"database_path":   "./database.db",
	"repository_path": ".",
	"host":            "localhost",
	"port":            "5432",
	"timeout":         "30",
}

// DefaultFor returns the declared default for a parameter, if it has one.
func DefaultFor(name, home string) (string, bool) {
	if name == "root_path" {
		return home, home != ""
	}
	v, ok := parameterDefaults[name]
	return v, ok
}

// BindArgs binds params to the recipe's declared parameters. Required
// parameters are appended positionally in declared order, falling back to
// their defaults; optional parameters are appended as --name value only
// when supplied. Required parameters left unbound produce warnings.
func BindArgs(r catalog.Recipe, p Params, home string) (args, warnings []string) {
	for _, name := range r.Configuration.RequiredParams {
		if v, ok := p.Values[name]; ok {
			args = append(args, v)
			continue
		}
		if v, ok := DefaultFor(name, home); ok {
			args = append(args, v)
			continue
		}
		warnings = append(warnings, "required parameter "+name+" is unbound; edit the server config or pass --param "+name+"=<value>")
	}

	for _, name := range r.Configuration.OptionalParams {
		if v, ok := p.Values[name]; ok {
			args = append(args, "--"+name, v)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(p.Values)) {
		if !slices.Contains(r.Configuration.RequiredParams, name) && !slices.Contains(r.Configuration.OptionalParams, name) {
			warnings = append(warnings, "parameter "+name+" is not declared by "+r.ID+" and was ignored")
		}
	}

	return args, warnings
}

// BuildSpec synthesizes the command spec for an installed recipe.
func BuildSpec(r catalog.Recipe, a *install.Artifact, p Params, home string) (mcp.Spec, []string) {
	bound, warnings := BindArgs(r, p, home)

	spec := mcp.Spec{
		Command: a.Command,
		Args:    append(slices.Clone(a.Args), bound...),
	}
	if len(p.Env) > 0 {
		spec.MergeEnv(p.Env)
	}
	return spec, append(slices.Clone(a.Warnings), warnings...)
}
