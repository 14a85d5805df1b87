// Package testutil provides helpers for tests that need a configuration
// tree on disk or in memory.
package testutil
