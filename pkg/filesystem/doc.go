// Package filesystem provides filesystem implementations for cfgmigrate.
//
// This package contains implementations of the types.FS interface: the
// standard OS filesystem used in production and an afero-backed one used
// wherever a swappable backing store is useful (tests, in-memory planning).
package filesystem
