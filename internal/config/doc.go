// Package config loads, normalizes, and validates cyrfix configuration.
//
// Values start from repository defaults, are overlaid by an optional TOML
// file and finally normalized: user paths are expanded (including tilde
// shortcuts) and extensions are lower-cased with a leading dot. Validate
// rejects settings a run cannot use.
package config
