// Package errors provides error handling conventions for the mcpi CLI.
//
// The package is a thin layer over [github.com/cockroachdb/errors]. It
// re-exports the constructors used across the codebase and defines one marker
// sentinel per failure kind. Operations attach a kind with [Mark] so the
// message stays specific while callers recover the kind with [Is]:
//
//	err := errors.Mark(errors.Newf("server %q is not disabled", id), errors.ErrNotFound)
//	if errors.Is(err, errors.ErrNotFound) {
//	    // logical refusal, state unchanged
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): command completed, including no-op transitions
//   - ExitFailure (1): recoverable failure reported with a diagnostic
//   - ExitUsage (2): malformed invocation
//   - ExitCancelled (130): interrupted by a signal
//
// # ExitError
//
// [ExitError] wraps an underlying error with an explicit exit code and an
// optional suggestion. [ExitCode] honours an ExitError anywhere in the chain
// before falling back to the kind of the error.
package errors
