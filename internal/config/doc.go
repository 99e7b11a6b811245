// Package config loads mcpi's own configuration.
//
// Two sources are read:
//
//   - The user config, config.yaml under the XDG config directory (or the
//     current directory), loaded with Viper. Every key can be overridden with
//     an MCPI_-prefixed environment variable, for example MCPI_DEFAULT_CLIENT.
//   - The project ambient config, .mcpi.toml at the project root. It may name
//     a default_scope and default_client and is never written by mcpi.
//
// Example config.yaml:
//
//	version: 1
//	default_client: claude-code
//	catalog_path: ~/.config/mcpi/catalog.toml
//	backup_retention: 5
//	subprocess_timeout: 10m
//	network_timeout: 30s
package config
