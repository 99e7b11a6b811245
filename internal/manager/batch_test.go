package manager

import (
	"testing"

	"github.com/thoreinstein/mcpi/internal/errors"
)

func TestBatch(t *testing.T) {
	results := map[string]error{
		"a": nil,
		"b": errors.Mark(errors.New("b missing"), errors.ErrNotFound),
		"c": nil,
		"d": errors.Mark(errors.New("broken file"), errors.ErrInconsistentState),
		"e": nil,
	}
	var seen []string
	op := func(id string) (*Outcome, error) {
		seen = append(seen, id)
		if err := results[id]; err != nil {
			return nil, err
		}
		status := StatusApplied
		if id == "c" {
			status = StatusNoOp
		}
		return &Outcome{ID: id, Status: status}, nil
	}

	sum, err := Batch([]string{"a", "b", "c", "d", "e"}, op)
	if !errors.Is(err, errors.ErrInconsistentState) {
		t.Fatalf("Batch() error = %v, want inconsistent state", err)
	}
	if len(seen) != 4 {
		t.Errorf("Batch() ran %v, want it to stop at d", seen)
	}
	if sum.Succeeded != 1 || sum.Skipped != 1 || len(sum.Failed) != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if !errors.Is(sum.Err(), errors.ErrNotFound) {
		t.Errorf("Summary.Err() = %v, want not found", sum.Err())
	}
}

func TestSummary_ErrAggregates(t *testing.T) {
	s := &Summary{Succeeded: 1}
	if s.Err() != nil {
		t.Fatal("empty failure list should be nil")
	}
	s.Failed = []Failure{
		{ID: "x", Err: errors.Mark(errors.New("x"), errors.ErrAlreadyManaged), Message: "x"},
		{ID: "y", Err: errors.Mark(errors.New("y"), errors.ErrNotFound), Message: "y"},
	}
	err := s.Err()
	if !errors.Is(err, errors.ErrAlreadyManaged) {
		t.Errorf("Err() kind = %v", errors.Kind(err))
	}
	if len(errors.Details(err)) != 2 {
		t.Errorf("Details() = %v", errors.Details(err))
	}
}
