package validator

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError indicates a blocking validation failure.
	SeverityError Severity = iota
	// SeverityWarning indicates a recommended but non-blocking issue.
	SeverityWarning
	// SeverityInfo indicates an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return errors.Newf("unknown severity %q", text)
	}
	return nil
}

// Issue represents a single validation problem.
type Issue struct {
	// Severity indicates the impact of the issue.
	Severity Severity `json:"severity"`
	// Field identifies the field with the issue (optional), dotted for nesting.
	Field string `json:"field,omitempty"`
	// Message is a human-readable description of the problem.
	Message string `json:"message"`
	// Value is the actual value that failed validation (optional).
	Value any `json:"value,omitempty"`
	// Hint is remediation text for the user (optional).
	Hint string `json:"hint,omitempty"`
	// Context is additional domain-specific context.
	Context map[string]string `json:"context,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Field != "" {
		sb.WriteString("field \"")
		sb.WriteString(i.Field)
		sb.WriteString("\": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result aggregates validation issues.
type Result struct {
	Issues []Issue `json:"issues"`
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	return len(r.Errors()) > 0
}

// HasWarnings returns true if any issue has SeverityWarning.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings()) > 0
}

// Add appends an issue.
func (r *Result) Add(i Issue) {
	r.Issues = append(r.Issues, i)
}

// AddError adds an error issue to the result.
func (r *Result) AddError(field, message string, value any) {
	r.Add(Issue{Severity: SeverityError, Field: field, Message: message, Value: value})
}

// AddErrorWithHint adds an error issue carrying remediation text.
func (r *Result) AddErrorWithHint(field, message, hint string) {
	r.Add(Issue{Severity: SeverityError, Field: field, Message: message, Hint: hint})
}

// AddWarning adds a warning issue to the result.
func (r *Result) AddWarning(field, message string, value any) {
	r.Add(Issue{Severity: SeverityWarning, Field: field, Message: message, Value: value})
}

// AddInfo adds an info issue to the result.
func (r *Result) AddInfo(field, message string, value any) {
	r.Add(Issue{Severity: SeverityInfo, Field: field, Message: message, Value: value})
}

// Merge appends other's issues, prefixing their fields with prefix.
func (r *Result) Merge(prefix string, other *Result) {
	if other == nil {
		return
	}
	for _, i := range other.Issues {
		if prefix != "" {
			if i.Field == "" {
				i.Field = prefix
			} else {
				i.Field = prefix + "." + i.Field
			}
		}
		r.Add(i)
	}
}

// Errors returns a slice of all issues with SeverityError.
func (r *Result) Errors() []Issue {
	return r.bySeverity(SeverityError)
}

// Warnings returns a slice of all issues with SeverityWarning.
func (r *Result) Warnings() []Issue {
	return r.bySeverity(SeverityWarning)
}

func (r *Result) bySeverity(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}

// Err converts the error-severity issues into a single error marked with kind.
// Each issue becomes a detail line and each issue hint becomes an error hint.
// Returns nil when there are no errors.
func (r *Result) Err(kind error, subject string) error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}

	msg := fmt.Sprintf("%s: %d validation error(s)", subject, len(errs))
	if len(errs) == 1 {
		msg = fmt.Sprintf("%s: %s", subject, strings.TrimPrefix(errs[0].Error(), "error: "))
	}

	err := errors.Mark(errors.New(msg), kind)
	for _, i := range errs {
		err = errors.WithDetail(err, i.Error())
		if i.Hint != "" {
			err = errors.WithHint(err, i.Hint)
		}
	}
	return err
}
