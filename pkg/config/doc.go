// Package config handles configuration management for cfgmigrate.
// It layers embedded TOML defaults, the host-wide and per-user TOML files,
// an explicit --config file and CFGMIGRATE_* environment variables using
// koanf, and exposes the result as a typed Config.
package config
