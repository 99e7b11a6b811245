// Package client models an MCP client's configuration files as a set of
// scopes and runs the enable/disable state machine over the servers listed
// in each scope.
//
// A scope is one JSON file (or one object nested inside a JSON file) whose
// server section maps ids to [mcp.Spec] values. Next to each writable scope
// lives a disabled-set file owned by mcpi: disabling a server moves its spec
// out of the client's config into the disabled-set, and enabling moves it
// back. An id may appear in at most one of the two; a file that violates
// this is reported as an inconsistency and never repaired.
//
// Every transition touches at most the scope file and its disabled-set and
// commits both through a [fileutil.Transaction].
//
//	a, err := client.New(def, client.WithDryRun(dryRun))
//	change, err := a.Disable("user-mcp", "filesystem")
package client
