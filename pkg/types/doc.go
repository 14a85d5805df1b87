// Package types defines the core types and interfaces shared across
// cfgmigrate: the filesystem abstraction, the execution context handed to
// every workflow step, services, and the symlink map.
package types
