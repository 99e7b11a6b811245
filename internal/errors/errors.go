package errors

import (
	"context"
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a recoverable failure (refusal, invalid input, upstream error).
	ExitFailure = 1

	// ExitUsage indicates a malformed invocation.
	ExitUsage = 2

	// ExitCancelled follows the POSIX convention for SIGINT termination.
	ExitCancelled = 130
)

// Failure kinds. Use [Mark] to attach one to a specific error.
var (
	// ErrUsage indicates a malformed invocation.
	ErrUsage = crdb.New("usage error")

	// ErrUnknownRecipe indicates the catalog has no recipe with the requested id.
	ErrUnknownRecipe = crdb.New("unknown recipe")

	// ErrNotFound indicates the server is not in the state the transition requires.
	ErrNotFound = crdb.New("not found")

	// ErrAlreadyManaged indicates the server already exists in the target scope.
	ErrAlreadyManaged = crdb.New("already managed")

	// ErrReadOnlyScope indicates a write was attempted against a readonly scope.
	ErrReadOnlyScope = crdb.New("scope is read-only")

	// ErrInvalidSpec indicates a command spec or recipe failed validation.
	ErrInvalidSpec = crdb.New("invalid spec")

	// ErrCatalogCorrupt indicates the catalog file failed to parse or validate.
	ErrCatalogCorrupt = crdb.New("catalog corrupt")

	// ErrCatalogMissing indicates the catalog file is absent and no fallback exists.
	ErrCatalogMissing = crdb.New("catalog missing")

	// ErrPrerequisiteMissing indicates a required tool or dependency is unavailable.
	ErrPrerequisiteMissing = crdb.New("prerequisite missing")

	// ErrUpstreamFailure indicates an external tool exited non-zero.
	ErrUpstreamFailure = crdb.New("upstream failure")

	// ErrInconsistentState indicates an on-disk invariant is violated.
	ErrInconsistentState = crdb.New("inconsistent state")

	// ErrPartialSuccess indicates the package was installed but registration failed.
	ErrPartialSuccess = crdb.New("partial success")

	// ErrCancelled indicates the operation was interrupted.
	ErrCancelled = crdb.New("cancelled")
)

// kinds lists the failure kinds in classification order.
var kinds = []error{
	ErrUsage,
	ErrCancelled,
	ErrInconsistentState,
	ErrPartialSuccess,
	ErrUnknownRecipe,
	ErrNotFound,
	ErrAlreadyManaged,
	ErrReadOnlyScope,
	ErrInvalidSpec,
	ErrCatalogCorrupt,
	ErrCatalogMissing,
	ErrPrerequisiteMissing,
	ErrUpstreamFailure,
}

// New returns an error with the given message and a stack trace.
func New(msg string) error { return crdb.New(msg) }

// Newf returns a formatted error with a stack trace.
func Newf(format string, args ...any) error { return crdb.Newf(format, args...) }

// Wrap annotates err with msg. It returns nil if err is nil.
func Wrap(err error, msg string) error { return crdb.Wrap(err, msg) }

// Wrapf annotates err with a formatted message. It returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error { return crdb.Wrapf(err, format, args...) }

// Is reports whether any error in err's chain matches reference.
func Is(err, reference error) bool { return crdb.Is(err, reference) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return crdb.As(err, target) }

// Mark tags err with the given kind so that Is(err, kind) holds.
func Mark(err error, kind error) error { return crdb.Mark(err, kind) }

// WithHint attaches user-facing remediation text.
func WithHint(err error, hint string) error { return crdb.WithHint(err, hint) }

// WithHintf attaches formatted remediation text.
func WithHintf(err error, format string, args ...any) error {
	return crdb.WithHintf(err, format, args...)
}

// WithDetail attaches a user-facing detail such as captured stderr.
func WithDetail(err error, detail string) error { return crdb.WithDetail(err, detail) }

// WithDetailf attaches a formatted detail.
func WithDetailf(err error, format string, args ...any) error {
	return crdb.WithDetailf(err, format, args...)
}

// Hints returns every hint attached to err.
func Hints(err error) []string { return crdb.GetAllHints(err) }

// Details returns every detail attached to err.
func Details(err error) []string { return crdb.GetAllDetails(err) }

// Join combines errs into one error; nil entries are dropped.
func Join(errs ...error) error { return crdb.Join(errs...) }

// Kind returns the failure kind err is marked with, or nil if it carries none.
// A bare context cancellation is reported as ErrCancelled.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if crdb.Is(err, k) {
			return k
		}
	}
	if crdb.Is(err, context.Canceled) {
		return ErrCancelled
	}
	return nil
}

// IsRefusal reports whether err is a logical refusal that leaves state unchanged.
// Batch operations continue past refusals.
func IsRefusal(err error) bool {
	switch Kind(err) {
	case ErrUnknownRecipe, ErrNotFound, ErrAlreadyManaged, ErrReadOnlyScope,
		ErrInvalidSpec, ErrPrerequisiteMissing, ErrUpstreamFailure, ErrPartialSuccess:
		return true
	}
	return false
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return exitErr.Code
	}
	switch Kind(err) {
	case ErrUsage:
		return ExitUsage
	case ErrCancelled:
		return ExitCancelled
	}
	return ExitFailure
}

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewExitErrorWithSuggestion creates an ExitError with a suggestion.
func NewExitErrorWithSuggestion(err error, code int, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       code,
		Suggestion: suggestion,
	}
}

// NewUserError creates an ExitError with ExitFailure code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitFailure,
		Suggestion: suggestion,
	}
}

// NewUsageError marks err as a usage error and wraps it with ExitUsage.
func NewUsageError(err error, suggestion string) *ExitError {
	if err != nil {
		err = crdb.Mark(err, ErrUsage)
	}
	return &ExitError{
		Err:        err,
		Code:       ExitUsage,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitFailure code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitFailure,
		Suggestion: "Run: mcpi status",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
