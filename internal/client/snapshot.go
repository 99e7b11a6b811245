package client

import (
	"slices"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// snapshot is a scope's two files read together.
type snapshot struct {
	client   string
	scope    Scope
	active   *document
	disabled *document
}

func (a *Adapter) load(s Scope) (*snapshot, error) {
	active, err := readDocument(s.Path, s.Pointer)
	if err != nil {
		return nil, err
	}
	snap := &snapshot{client: a.def.Name, scope: s, active: active}

	if s.DisabledPath != "" {
		snap.disabled, err = readDocument(s.DisabledPath, disabledPointer)
		if err != nil {
			return nil, err
		}
	}

	if err := snap.checkDisjoint(); err != nil {
		return nil, err
	}
	return snap, nil
}

// disabledPointer locates the server section in a disabled-set file.
var disabledPointer = []string{"mcpServers"}

func (s *snapshot) checkDisjoint() error {
	if s.disabled == nil {
		return nil
	}
	var both []string
	for _, id := range s.active.ids() {
		if s.disabled.has(id) {
			both = append(both, id)
		}
	}
	if len(both) == 0 {
		return nil
	}

	err := errors.Newf("scope %s:%s lists %v as both active and disabled", s.client, s.scope.Name, both)
	err = errors.WithHint(err, "Remove each id from one of the two files by hand")
	return inconsistent(err, s.active.path, s.disabled.path)
}

func (s *snapshot) state(id string) State {
	return s.record(id).State
}

func (s *snapshot) record(id string) Record {
	rec := Record{
		Client:   s.client,
		Scope:    s.scope.Name,
		ID:       id,
		State:    StateNotInstalled,
		Priority: s.scope.Priority,
	}
	if spec, ok := s.active.servers[id]; ok {
		rec.Spec = spec.Clone()
		rec.State = StateEnabled
		if spec.Disabled {
			rec.State = StateDisabled
			rec.Inline = true
		}
		return rec
	}
	if s.disabled != nil {
		if spec, ok := s.disabled.servers[id]; ok {
			rec.Spec = spec.Clone()
			rec.State = StateDisabled
		}
	}
	return rec
}

func (s *snapshot) records() []Record {
	ids := s.active.ids()
	if s.disabled != nil {
		ids = append(ids, s.disabled.ids()...)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.record(id))
	}
	return out
}
