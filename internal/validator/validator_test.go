package validator

import (
	"testing"

	"github.com/thoreinstein/mcpi/internal/errors"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("Severity.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		name string
		i    Issue
		want string
	}{
		{
			name: "error with field and value",
			i: Issue{
				Severity: SeverityError,
				Field:    "name",
				Message:  "is required",
				Value:    "",
			},
			want: "error: field \"name\": is required (got )",
		},
		{
			name: "warning without field",
			i: Issue{
				Severity: SeverityWarning,
				Message:  "recommended description",
			},
			want: "warning: recommended description",
		},
		{
			name: "info with field",
			i: Issue{
				Severity: SeverityInfo,
				Field:    "version",
				Message:  "is outdated",
			},
			want: "info: field \"version\": is outdated",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.i.Error(); got != tt.want {
				t.Errorf("Issue.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResult_Helpers(t *testing.T) {
	r := &Result{}

	if r.HasErrors() {
		t.Error("expected no errors")
	}

	r.AddError("f1", "m1", "v1")
	if !r.HasErrors() {
		t.Error("expected errors")
	}
	if len(r.Errors()) != 1 {
		t.Errorf("expected 1 error, got %d", len(r.Errors()))
	}

	if r.HasWarnings() {
		t.Error("expected no warnings")
	}
	r.AddWarning("f2", "m2", "v2")
	if !r.HasWarnings() {
		t.Error("expected warnings")
	}
	if len(r.Warnings()) != 1 {
		t.Errorf("expected 1 warning, got %d", len(r.Warnings()))
	}

	r.AddInfo("f3", "m3", "v3")
	if len(r.Issues) != 3 {
		t.Errorf("expected 3 issues, got %d", len(r.Issues))
	}
}

func TestResult_NilSafety(t *testing.T) {
	var r *Result
	if r.HasErrors() {
		t.Error("expected no errors for nil result")
	}
	if r.HasWarnings() {
		t.Error("expected no warnings for nil result")
	}
	if r.Errors() != nil {
		t.Error("expected nil Errors() for nil result")
	}
	if r.Warnings() != nil {
		t.Error("expected nil Warnings() for nil result")
	}
}

func TestResult_Merge(t *testing.T) {
	inner := &Result{}
	inner.AddError("name", "is required", nil)
	inner.AddError("", "bad entry", nil)

	r := &Result{}
	r.Merge("servers.sqlite", inner)
	r.Merge("ignored", nil)

	if len(r.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(r.Issues))
	}
	if r.Issues[0].Field != "servers.sqlite.name" {
		t.Errorf("Field = %q, want servers.sqlite.name", r.Issues[0].Field)
	}
	if r.Issues[1].Field != "servers.sqlite" {
		t.Errorf("Field = %q, want servers.sqlite", r.Issues[1].Field)
	}
}

func TestResult_Err(t *testing.T) {
	r := &Result{}
	r.AddWarning("description", "is short", nil)
	if err := r.Err(errors.ErrInvalidSpec, "server x"); err != nil {
		t.Fatalf("Err() with only warnings = %v, want nil", err)
	}

	r.AddErrorWithHint("command", "must not be empty", "Set --command")
	err := r.Err(errors.ErrInvalidSpec, "server x")
	if err == nil {
		t.Fatal("Err() = nil, want error")
	}
	if !errors.Is(err, errors.ErrInvalidSpec) {
		t.Error("Err() should be marked with the given kind")
	}
	if want := `server x: field "command": must not be empty`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if hints := errors.Hints(err); len(hints) != 1 || hints[0] != "Set --command" {
		t.Errorf("Hints() = %v", hints)
	}

	r.AddError("args", "must be a list", nil)
	err = r.Err(errors.ErrInvalidSpec, "server x")
	if want := "server x: 2 validation error(s)"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if details := errors.Details(err); len(details) != 2 {
		t.Errorf("Details() = %v, want 2 entries", details)
	}
}
