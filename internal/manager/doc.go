// Package manager is the state engine behind mcpi's user-facing intents.
//
// A [Manager] composes a catalog, one client adapter, and the installer set.
// Write intents (add, remove, enable, disable, update) resolve a scope,
// consult the catalog and an installer where needed, and finish with a
// single adapter transition. Read intents (list, info, status) only read.
//
// Failures come back as errors marked with a kind from internal/errors.
// A transition that is already satisfied is not a failure: it returns an
// [Outcome] with status [StatusNoOp].
package manager
