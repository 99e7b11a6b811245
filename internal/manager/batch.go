package manager

import (
	"github.com/thoreinstein/mcpi/internal/errors"
)

// Failure records one id that a batch could not process.
type Failure struct {
	ID  string `json:"id"`
	Err error  `json:"-"`

	// Message is Err rendered for JSON output.
	Message string `json:"error"`
}

// Summary aggregates a batch run.
type Summary struct {
	Outcomes []*Outcome `json:"outcomes"`
	Failed   []Failure  `json:"failed,omitempty"`

	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
}

// Err returns nil when every id succeeded, otherwise an error carrying the
// kind of the first failure and one detail per failed id.
func (s *Summary) Err() error {
	if len(s.Failed) == 0 {
		return nil
	}
	first := s.Failed[0]
	if len(s.Failed) == 1 {
		return first.Err
	}
	err := errors.Newf("%d of %d servers failed", len(s.Failed), len(s.Failed)+s.Succeeded+s.Skipped)
	for _, f := range s.Failed {
		err = errors.WithDetailf(err, "%s: %s", f.ID, f.Message)
	}
	if kind := errors.Kind(first.Err); kind != nil {
		err = errors.Mark(err, kind)
	}
	return err
}

// Batch runs op for each id in order. Logical refusals and upstream
// failures are recorded and the batch continues; an InconsistentState or a
// cancellation stops it and is returned directly.
func Batch(ids []string, op func(id string) (*Outcome, error)) (*Summary, error) {
	s := &Summary{}
	for _, id := range ids {
		o, err := op(id)
		if err != nil {
			switch errors.Kind(err) {
			case errors.ErrInconsistentState, errors.ErrCancelled, errors.ErrUsage,
				errors.ErrCatalogCorrupt, errors.ErrCatalogMissing:
				return s, err
			}
			s.Failed = append(s.Failed, Failure{ID: id, Err: err, Message: err.Error()})
			continue
		}
		s.Outcomes = append(s.Outcomes, o)
		if o.Status == StatusNoOp {
			s.Skipped++
		} else {
			s.Succeeded++
		}
	}
	return s, nil
}
