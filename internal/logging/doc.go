// Package logging builds the slog loggers mcpi writes its diagnostics with.
//
// The terminal stream uses [Handler]: kitchen-clock timestamps, colored
// level names when stderr is a color-capable terminal, and masking of
// attribute values that look like secrets (env keys such as API_KEY, or
// values carrying a known token prefix). --log-format json switches the
// terminal stream to [log/slog.JSONHandler], and --log-file mirrors every
// record into a JSON file.
//
// Loggers travel in the command context ([NewContext], [FromContext]) and
// are handed to the catalog, client adapter, installers and manager as
// options. Tests use [ForTest].
package logging
