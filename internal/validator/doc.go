// Package validator provides the violation list shared by catalog recipe
// validation, command spec validation, and installer preflight.
//
// Parsing never trusts its input: data is decoded into typed records first,
// then checked, and every failed check becomes an [Issue] in a [Result].
// A Result with errors converts to an error carrying a failure kind via
// [Result.Err], with one detail line per issue.
//
//	result := &validator.Result{}
//	if spec.Command == "" {
//		result.AddError("command", "must not be empty", spec.Command)
//	}
//	if err := result.Err(errors.ErrInvalidSpec, "server filesystem"); err != nil {
//		return err
//	}
package validator
