// Package catalog is the read-mostly index of server recipes.
//
// A catalog file is a table keyed by recipe id. TOML is the canonical
// encoding; a YAML file with the same shape is accepted for older catalogs
// and written back as YAML.
//
//	version = "1.0.0"
//	updated = "2026-10-01"
//	description = "Default MCP server catalog"
//
//	[servers.filesystem]
//	name = "Filesystem"
//	description = "Read and write files under a root directory"
//	...
//	[servers.filesystem.installation]
//	method = "js-pkg"
//	package = "@modelcontextprotocol/server-filesystem"
//
// Files are decoded strictly (unknown keys are errors) and every recipe is
// validated before the catalog is usable. Any failure is reported as
// ErrCatalogCorrupt with one detail line per violation; a recipe whose
// optional id field disagrees with its table key is never reconciled.
//
// Loading is lazy: the file is read on the first query.
package catalog
