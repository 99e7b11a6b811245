package client

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/mcp"
	"github.com/thoreinstein/mcpi/internal/validator"
	"github.com/thoreinstein/mcpi/pkg/fileutil"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithDryRun makes write operations report their planned writes instead of
// performing them.
func WithDryRun(dryRun bool) Option {
	return func(a *Adapter) {
		a.dryRun = dryRun
	}
}

// WithClock overrides the clock used to stamp sibling backups.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// WithLogger sets the logger for write operations.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithRetention keeps at most keep sibling backups per file after a write.
func WithRetention(keep int) Option {
	return func(a *Adapter) {
		a.keep = keep
	}
}

// Adapter serves one client definition over its on-disk files.
type Adapter struct {
	def       Definition
	scopes    []Scope
	validator *mcp.Validator
	dryRun    bool
	keep      int
	now       func() time.Time
	logger    *slog.Logger
}

// New creates an Adapter for def.
func New(def Definition, opts ...Option) (*Adapter, error) {
	scopes, err := def.check()
	if err != nil {
		return nil, err
	}

	vopts := []mcp.Option{mcp.WithLaunchers(def.Launchers...)}
	if len(def.Transports) > 0 {
		vopts = append(vopts, mcp.WithTransports(def.Transports...))
	}

	a := &Adapter{
		def:       def,
		scopes:    scopes,
		validator: mcp.NewValidator(vopts...),
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name returns the client name.
func (a *Adapter) Name() string { return a.def.Name }

// DisplayName returns the human-readable client name.
func (a *Adapter) DisplayName() string {
	if a.def.DisplayName != "" {
		return a.def.DisplayName
	}
	return a.def.Name
}

// DryRun reports whether writes are only planned.
func (a *Adapter) DryRun() bool { return a.dryRun }

// Scopes returns the client's scopes ordered by priority.
func (a *Adapter) Scopes() []Scope {
	return slices.Clone(a.scopes)
}

// Scope returns the named scope. Unknown names are usage errors.
func (a *Adapter) Scope(name string) (Scope, error) {
	for _, s := range a.scopes {
		if s.Name == name {
			return s, nil
		}
	}
	err := errors.Newf("client %s has no scope %q", a.def.Name, name)
	err = errors.WithHintf(err, "Valid scopes: %s", strings.Join(a.scopeNames(), ", "))
	return Scope{}, errors.Mark(err, errors.ErrUsage)
}

// HasScope reports whether the client defines the named scope.
func (a *Adapter) HasScope(name string) bool {
	return slices.Contains(a.scopeNames(), name)
}

// PrimaryScope returns the scope used when the caller names none.
func (a *Adapter) PrimaryScope() Scope {
	for _, s := range a.scopes {
		if s.Primary {
			return s
		}
	}
	// check guarantees a primary
	return a.scopes[0]
}

func (a *Adapter) scopeNames() []string {
	names := make([]string, len(a.scopes))
	for i, s := range a.scopes {
		names[i] = s.Name
	}
	return names
}

// ValidateSpec checks spec against the client's rules.
func (a *Adapter) ValidateSpec(spec mcp.Spec) *validator.Result {
	return a.validator.Validate(spec)
}

// List returns the records of one scope, or of every scope in priority
// order when scope is empty. Records within a scope are sorted by id.
func (a *Adapter) List(scope string) ([]Record, error) {
	targets := a.scopes
	if scope != "" {
		s, err := a.Scope(scope)
		if err != nil {
			return nil, err
		}
		targets = []Scope{s}
	}

	var records []Record
	for _, s := range targets {
		snap, err := a.load(s)
		if err != nil {
			return nil, err
		}
		records = append(records, snap.records()...)
	}
	return records, nil
}

// Get returns the record for id in scope. A server that is in neither file
// comes back with StateNotInstalled.
func (a *Adapter) Get(scope, id string) (Record, error) {
	s, err := a.Scope(scope)
	if err != nil {
		return Record{}, err
	}
	snap, err := a.load(s)
	if err != nil {
		return Record{}, err
	}
	return snap.record(id), nil
}

// Change describes the outcome of a write operation.
type Change struct {
	Client string   `json:"client"`
	Scope  string   `json:"scope"`
	ID     string   `json:"id"`
	From   State    `json:"from"`
	To     State    `json:"to"`
	Spec   mcp.Spec `json:"spec"`

	// NoOp is set when the requested state already held; nothing was written.
	NoOp bool `json:"noop,omitempty"`

	// Commit is nil for no-ops.
	Commit *fileutil.CommitResult `json:"commit,omitempty"`
}

// Add registers spec under id. The id must not be present in the scope.
func (a *Adapter) Add(scope, id string, spec mcp.Spec) (*Change, error) {
	snap, err := a.writable(scope)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.Mark(errors.New("server id must not be empty"), errors.ErrInvalidSpec)
	}
	if err := a.checkSpec(id, spec); err != nil {
		return nil, err
	}

	if st := snap.state(id); st != StateNotInstalled {
		err := errors.Newf("%s is already managed in %s:%s (%s)", id, a.def.Name, snap.scope.Name, st)
		err = errors.WithHint(err, "Use 'mcpi update' to change its configuration")
		return nil, errors.Mark(err, errors.ErrAlreadyManaged)
	}

	spec = spec.Clone()
	spec.Disabled = false
	snap.active.put(id, spec)

	return a.commit(snap, id, StateNotInstalled, StateEnabled, spec)
}

// Remove deletes id from both the scope file and its disabled-set.
func (a *Adapter) Remove(scope, id string) (*Change, error) {
	snap, err := a.writable(scope)
	if err != nil {
		return nil, err
	}

	rec := snap.record(id)
	if rec.State == StateNotInstalled {
		return nil, a.notFound(snap.scope, id)
	}

	snap.active.drop(id)
	snap.disabled.drop(id)

	return a.commit(snap, id, rec.State, StateNotInstalled, rec.Spec)
}

// Enable moves id from the disabled-set back into the scope file, or
// clears an inline disabled sentinel in place.
func (a *Adapter) Enable(scope, id string) (*Change, error) {
	snap, err := a.writable(scope)
	if err != nil {
		return nil, err
	}

	rec := snap.record(id)
	switch {
	case rec.State == StateNotInstalled:
		return nil, a.notFound(snap.scope, id)
	case rec.State == StateEnabled:
		return a.noop(snap.scope, rec), nil
	case rec.Inline:
		spec := rec.Spec.Clone()
		spec.Disabled = false
		snap.active.put(id, spec)
		return a.commit(snap, id, StateDisabled, StateEnabled, spec)
	default:
		snap.disabled.drop(id)
		snap.active.put(id, rec.Spec)
		return a.commit(snap, id, StateDisabled, StateEnabled, rec.Spec)
	}
}

// Disable moves id out of the scope file into the disabled-set.
func (a *Adapter) Disable(scope, id string) (*Change, error) {
	snap, err := a.writable(scope)
	if err != nil {
		return nil, err
	}

	rec := snap.record(id)
	switch rec.State {
	case StateNotInstalled:
		return nil, a.notFound(snap.scope, id)
	case StateDisabled:
		return a.noop(snap.scope, rec), nil
	}

	snap.active.drop(id)
	snap.disabled.put(id, rec.Spec)

	return a.commit(snap, id, StateEnabled, StateDisabled, rec.Spec)
}

// UpdateConfig replaces the spec of id, keeping its state and its place.
func (a *Adapter) UpdateConfig(scope, id string, spec mcp.Spec) (*Change, error) {
	snap, err := a.writable(scope)
	if err != nil {
		return nil, err
	}
	if err := a.checkSpec(id, spec); err != nil {
		return nil, err
	}

	rec := snap.record(id)
	spec = spec.Clone()
	switch {
	case rec.State == StateNotInstalled:
		return nil, a.notFound(snap.scope, id)
	case snap.active.has(id):
		spec.Disabled = rec.Spec.Disabled
	default:
		spec.Disabled = false
	}

	if spec.Equal(rec.Spec) {
		return a.noop(snap.scope, rec), nil
	}

	if snap.active.has(id) {
		snap.active.put(id, spec)
	} else {
		snap.disabled.put(id, spec)
	}

	return a.commit(snap, id, rec.State, rec.State, spec)
}

func (a *Adapter) checkSpec(id string, spec mcp.Spec) error {
	res := a.ValidateSpec(spec)
	if !res.HasErrors() {
		return nil
	}
	return res.Err(errors.ErrInvalidSpec, "server "+id)
}

// Writable returns nil if the named scope exists and accepts writes.
func (a *Adapter) Writable(name string) error {
	s, err := a.Scope(name)
	if err != nil {
		return err
	}
	if s.ReadOnly {
		err := errors.Newf("scope %s of %s is readonly", s.Name, a.def.Name)
		err = errors.WithDetailf(err, "file: %s", s.Path)
		err = errors.WithHintf(err, "Choose a writable scope with --scope (primary: %s)", a.PrimaryScope().Name)
		return errors.Mark(err, errors.ErrReadOnlyScope)
	}
	return nil
}

// NotFound builds the error returned when id is not configured in scope.
func (a *Adapter) NotFound(scope, id string) error {
	return a.notFound(Scope{Name: scope}, id)
}

func (a *Adapter) writable(name string) (*snapshot, error) {
	if err := a.Writable(name); err != nil {
		return nil, err
	}
	s, _ := a.Scope(name)
	return a.load(s)
}

func (a *Adapter) notFound(s Scope, id string) error {
	err := errors.Newf("%s is not configured in %s:%s", id, a.def.Name, s.Name)
	err = errors.WithHint(err, "Run 'mcpi list' to see configured servers")
	return errors.Mark(err, errors.ErrNotFound)
}

func (a *Adapter) noop(s Scope, rec Record) *Change {
	a.logger.Debug("no change", "client", a.def.Name, "scope", s.Name, "id", rec.ID, "state", rec.State)
	return &Change{
		Client: a.def.Name,
		Scope:  s.Name,
		ID:     rec.ID,
		From:   rec.State,
		To:     rec.State,
		Spec:   rec.Spec,
		NoOp:   true,
	}
}

func (a *Adapter) commit(snap *snapshot, id string, from, to State, spec mcp.Spec) (*Change, error) {
	tx := fileutil.NewTransaction(
		fileutil.WithDryRun(a.dryRun),
		fileutil.WithClock(a.now),
		fileutil.WithRetention(a.keep),
	)
	for _, d := range []*document{snap.active, snap.disabled} {
		if d == nil || !d.dirty {
			continue
		}
		data, err := d.encode()
		if err != nil {
			return nil, err
		}
		tx.Stage(d.path, data)
	}

	res, err := tx.Commit()
	if err != nil {
		return nil, errors.Wrapf(err, "writing %s:%s", a.def.Name, snap.scope.Name)
	}

	a.logger.Debug("scope updated",
		"client", a.def.Name,
		"scope", snap.scope.Name,
		"id", id,
		"from", from,
		"to", to,
		"written", res.Written,
		"planned", len(res.Planned),
	)

	return &Change{
		Client: a.def.Name,
		Scope:  snap.scope.Name,
		ID:     id,
		From:   from,
		To:     to,
		Spec:   spec,
		Commit: res,
	}, nil
}
