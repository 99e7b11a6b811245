// Package mcp defines the command spec a client launches for an MCP server:
// the command, its arguments and environment, and the transport tag.
//
// [Spec] keeps every JSON key it does not model, so rewriting a client's
// config file never drops settings that mcpi does not understand. Two specs
// are compared through their canonical encoding ([Spec.Canonical]): sorted
// keys, no insignificant whitespace.
//
// # Validation
//
// A [Validator] checks a spec before it is written:
//
//	v := mcp.NewValidator(mcp.WithLaunchers("npx", "uvx"))
//	if res := v.Validate(spec); res.HasErrors() {
//	    ...
//	}
//
// The base rules are a non-empty command, non-empty env keys and a known
// transport. Launcher rules are client specific.
package mcp
