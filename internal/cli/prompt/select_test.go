package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/thoreinstein/mcpi/internal/errors"
)

type backupChoice struct {
	id     string
	reason string
}

func label(b backupChoice) string { return b.id + " (" + b.reason + ")" }

func TestSelect_EmptyList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	_, err := Select(s, "Backups", []backupChoice(nil), label)
	if !errors.Is(err, ErrNoChoices) {
		t.Errorf("expected ErrNoChoices, got: %v", err)
	}
}

func TestSelect_SingleItem(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	got, err := Select(s, "Backups", []backupChoice{{id: "a", reason: "reinstall"}}, label)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.id != "a" {
		t.Errorf("expected 'a', got %q", got.id)
	}
	// Should not prompt for single item
	if buf.Len() > 0 {
		t.Errorf("expected no output for single item, got: %s", buf.String())
	}
}

func TestSelect_Input(t *testing.T) {
	t.Parallel()

	items := []backupChoice{
		{id: "20261019T120000.000", reason: "reinstall"},
		{id: "20261018T090000.000", reason: "reinstall"},
		{id: "20261001T000000.000", reason: "manual"},
	}

	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr error
	}{
		{name: "explicit first", input: "1\n", wantID: items[0].id},
		{name: "last", input: "3\n", wantID: items[2].id},
		{name: "default on empty", input: "\n", wantID: items[0].id},
		{name: "no trailing newline", input: "2", wantID: items[1].id},
		{name: "with whitespace", input: "  2  \n", wantID: items[1].id},
		{name: "zero", input: "0\n", wantErr: ErrInvalidSelection},
		{name: "too high", input: "4\n", wantErr: ErrInvalidSelection},
		{name: "not a number", input: "abc\n", wantErr: ErrInvalidSelection},
		{name: "eof", input: "", wantErr: ErrSelectionCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelectorWithIO(strings.NewReader(tt.input), &buf)

			got, err := Select(s, "Backups for fs", items, label)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.id != tt.wantID {
				t.Errorf("got %q, want %q", got.id, tt.wantID)
			}
			if !strings.Contains(buf.String(), "[3] 20261001T000000.000 (manual)") {
				t.Errorf("prompt missing choices: %s", buf.String())
			}
		})
	}
}
