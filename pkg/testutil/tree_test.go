package testutil_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cfgmigrate/pkg/filesystem"
	"github.com/arthur-debert/cfgmigrate/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFileTree(t *testing.T) {
	fs := filesystem.NewOS()
	root := t.TempDir()

	testutil.CreateFileTree(t, fs, root, testutil.FileTree{
		"app.conf": "a=1\n",
		"conf.d": testutil.FileTree{
			"extra.conf": "b=2\n",
		},
		"current": testutil.Link("conf.d/extra.conf"),
	})

	testutil.AssertFileContent(t, fs, filepath.Join(root, "app.conf"), "a=1\n")
	testutil.AssertFileContent(t, fs, filepath.Join(root, "conf.d", "extra.conf"), "b=2\n")
	testutil.AssertSymlink(t, fs, filepath.Join(root, "current"), "conf.d/extra.conf")

	info, err := fs.Stat(filepath.Join(root, "current"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}
