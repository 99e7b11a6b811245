package manager

import (
	"context"
	"slices"
	"strings"

	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/install"
	"github.com/thoreinstein/mcpi/internal/mcp"
)

// Add installs the recipe id and registers it in scope.
//
// The package is installed before the client file is written. If
// registration then fails, the package stays installed and the error is
// marked ErrPartialSuccess with the artifact location attached.
func (m *Manager) Add(ctx context.Context, id string, p Params, scope string) (*Outcome, error) {
	r, err := m.recipe(id)
	if err != nil {
		return nil, err
	}

	s, err := m.ResolveScope(scope)
	if err != nil {
		return nil, err
	}
	if err := m.client.Writable(s.Name); err != nil {
		return nil, err
	}

	current, err := m.client.Get(s.Name, id)
	if err != nil {
		return nil, err
	}
	if current.State != client.StateNotInstalled {
		err := errors.Newf("%s is already managed in %s (%s)", id, current.QualifiedID(), current.State)
		err = errors.WithHint(err, "Use 'mcpi update' to change its configuration, or pick another --scope")
		return nil, errors.Mark(err, errors.ErrAlreadyManaged)
	}

	inst, err := m.installer(r)
	if err != nil {
		return nil, err
	}
	if err := install.BlockersErr(id, inst.Preflight(ctx, r)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "before install"), errors.ErrCancelled)
	}

	artifact, err := inst.Install(ctx, r, m.DryRun())
	if err != nil {
		return nil, err
	}

	spec, warnings := BuildSpec(r, artifact, p, m.home)
	if artifact.Pending && spec.Command == "" {
		spec.Command = pendingCommand(artifact)
	}
	for _, w := range warnings {
		m.logger.Warn(w, "id", id)
	}

	if res := m.client.ValidateSpec(spec); res.HasErrors() {
		err := res.Err(errors.ErrInvalidSpec, "generated spec for "+id)
		return nil, errors.WithDetailf(err, "package installed at %s", location(artifact))
	}

	change, err := m.client.Add(s.Name, id, spec)
	if err != nil {
		err = errors.Wrapf(err, "registering %s", id)
		err = errors.WithDetailf(err, "package installed at %s", location(artifact))
		err = errors.WithHint(err, "The package was left installed; fix the problem and run 'mcpi add' again")
		return nil, errors.Mark(err, errors.ErrPartialSuccess)
	}

	o := outcomeFrom("add", change, m.DryRun())
	o.Artifact = artifact
	if artifact.BackupPath != "" {
		o.Backups = append(o.Backups, artifact.BackupPath)
	}
	o.Warnings = warnings

	m.logger.Info("server added", "id", id, "client", o.Client, "scope", o.Scope, "status", o.Status)
	return o, nil
}

// pendingCommand stands in for a launch command that is unknown until the
// package is installed. It only ever appears in dry-run output.
func pendingCommand(a *install.Artifact) string {
	return "<entry point in " + location(a) + ">"
}

func location(a *install.Artifact) string {
	if a.Path != "" {
		return a.Path
	}
	return a.Method.String() + ":" + a.Package
}

// Remove unregisters id from scope. The package itself is left installed
// unless purge is set, and even then it is kept while any other scope of
// this client still references id.
func (m *Manager) Remove(ctx context.Context, id, scope string, purge bool) (*Outcome, error) {
	s, err := m.ResolveScope(scope)
	if err != nil {
		return nil, err
	}

	change, err := m.client.Remove(s.Name, id)
	if err != nil {
		return nil, err
	}
	o := outcomeFrom("remove", change, m.DryRun())

	if purge {
		artifact, warning, err := m.purge(ctx, id, s.Name)
		if err != nil {
			err = errors.Wrapf(err, "uninstalling %s after removal", id)
			return nil, errors.Mark(err, errors.ErrPartialSuccess)
		}
		o.Artifact = artifact
		if warning != "" {
			o.Warnings = append(o.Warnings, warning)
		}
	}

	m.logger.Info("server removed", "id", id, "client", o.Client, "scope", o.Scope, "status", o.Status)
	return o, nil
}

func (m *Manager) purge(ctx context.Context, id, removedFrom string) (*install.Artifact, string, error) {
	r, err := m.recipe(id)
	if errors.Is(err, errors.ErrUnknownRecipe) {
		return nil, "no catalog recipe for " + id + "; nothing to uninstall", nil
	}
	if err != nil {
		return nil, "", err
	}

	records, err := m.client.List("")
	if err != nil {
		return nil, "", err
	}
	var still []string
	for _, rec := range records {
		if rec.ID == id && rec.Scope != removedFrom && rec.State != client.StateNotInstalled {
			still = append(still, rec.Scope)
		}
	}
	if len(still) > 0 {
		return nil, id + " is still configured in " + strings.Join(still, ", ") + "; package kept", nil
	}

	inst, err := m.installer(r)
	if err != nil {
		return nil, "", err
	}
	artifact, err := inst.Uninstall(ctx, r, m.DryRun())
	return artifact, "", err
}

// Enable moves id from disabled back to enabled.
func (m *Manager) Enable(id, scope string) (*Outcome, error) {
	return m.toggle("enable", id, scope, m.client.Enable)
}

// Disable moves id from enabled to disabled, keeping its spec.
func (m *Manager) Disable(id, scope string) (*Outcome, error) {
	return m.toggle("disable", id, scope, m.client.Disable)
}

func (m *Manager) toggle(intent, id, scope string, fn func(scope, id string) (*client.Change, error)) (*Outcome, error) {
	s, err := m.ResolveScope(scope)
	if err != nil {
		return nil, err
	}
	change, err := fn(s.Name, id)
	if err != nil {
		return nil, err
	}
	o := outcomeFrom(intent, change, m.DryRun())
	m.logger.Info("server "+intent+"d", "id", id, "client", o.Client, "scope", o.Scope, "status", o.Status)
	return o, nil
}

// UpdateConfig replaces the spec of id in scope, preserving its state.
func (m *Manager) UpdateConfig(id string, spec mcp.Spec, scope string) (*Outcome, error) {
	s, err := m.ResolveScope(scope)
	if err != nil {
		return nil, err
	}
	change, err := m.client.UpdateConfig(s.Name, id, spec)
	if err != nil {
		return nil, err
	}
	o := outcomeFrom("update", change, m.DryRun())
	m.logger.Info("server updated", "id", id, "client", o.Client, "scope", o.Scope, "status", o.Status)
	return o, nil
}

// Patch describes a partial change to an existing spec.
type Patch struct {
	Command *string

	// Args replaces the argument list when non-nil.
	Args []string

	// Env is merged key-wise into the existing environment.
	Env map[string]string

	Type *string

	// Params set --name value pairs, replacing the value of an existing
	// --name flag in place or appending a new pair.
	Params map[string]string
}

// Apply returns a copy of spec with the patch applied.
func (p Patch) Apply(spec mcp.Spec) mcp.Spec {
	out := spec.Clone()
	if p.Command != nil {
		out.Command = *p.Command
	}
	if p.Args != nil {
		out.Args = slices.Clone(p.Args)
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if len(p.Env) > 0 {
		out.MergeEnv(p.Env)
	}

	names := make([]string, 0, len(p.Params))
	for k := range p.Params {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, name := range names {
		flag := "--" + name
		i := slices.Index(out.Args, flag)
		if i >= 0 && i+1 < len(out.Args) {
			out.Args[i+1] = p.Params[name]
			continue
		}
		out.Args = append(out.Args, flag, p.Params[name])
	}
	return out
}

// PatchConfig applies p to the current spec of id in scope.
func (m *Manager) PatchConfig(id, scope string, p Patch) (*Outcome, error) {
	s, err := m.ResolveScope(scope)
	if err != nil {
		return nil, err
	}
	rec, err := m.client.Get(s.Name, id)
	if err != nil {
		return nil, err
	}
	if rec.State == client.StateNotInstalled {
		return nil, m.client.NotFound(s.Name, id)
	}
	return m.UpdateConfig(id, p.Apply(rec.Spec), s.Name)
}
