// Package config loads, normalizes, and validates the crank configuration.
//
// Configuration is layered: built-in defaults, then a TOML file, then
// environment overrides. The resulting Config is treated as immutable and
// passed explicitly to every component; nothing in the repository mutates
// it after Load returns.
package config
