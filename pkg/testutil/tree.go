// pkg/testutil/tree.go
// DEPENDENCIES: pkg/types (FS), testify
// PURPOSE: Build and inspect configuration trees in tests

package testutil

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/stretchr/testify/require"
)

// FileTree describes a directory. Values are a string (file content), a
// nested FileTree (directory) or a Link (symlink).
type FileTree map[string]interface{}

// Link is a symlink with the given raw target
type Link string

// CreateFileTree creates tree under base. Entries are created in name order
// so link creation does not depend on map iteration.
func CreateFileTree(t *testing.T, fs types.FS, base string, tree FileTree) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(base, 0755))

	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(base, name)
		switch v := tree[name].(type) {
		case string:
			require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
			require.NoError(t, fs.WriteFile(path, []byte(v), 0644), "write %s", path)
		case FileTree:
			CreateFileTree(t, fs, path, v)
		case Link:
			require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
			require.NoError(t, fs.Symlink(string(v), path), "symlink %s", path)
		default:
			t.Fatalf("invalid file tree entry %s: %T", name, v)
		}
	}
}

// AssertSymlink checks that path is a symlink pointing at target
func AssertSymlink(t *testing.T, fs types.FS, path, target string) {
	t.Helper()
	got, err := fs.Readlink(path)
	require.NoError(t, err, "%s is not a symlink", path)
	require.Equal(t, target, got, "symlink %s", path)
}

// AssertFileContent checks a regular file's content
func AssertFileContent(t *testing.T, fs types.FS, path, content string) {
	t.Helper()
	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, content, string(data), "content of %s", path)
}
