package types

import "sort"

// SymlinkMap maps a path relative to the source configuration root to the
// raw target of the symlink found there. Targets are stored exactly as read
// with readlink and are never resolved.
type SymlinkMap map[string]string

// Paths returns the relative paths in sorted order
func (m SymlinkMap) Paths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
