// pkg/tunables/tunables_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: in-memory filesystem (afero)
// PURPOSE: Test configuration key extraction

package tunables_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/filesystem"
	"github.com/arthur-debert/cfgmigrate/pkg/tunables"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, fs types.FS, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, fs.WriteFile(path, []byte(content), 0644))
	}
}

func scanOne(t *testing.T, name, content string) (*tunables.Report, tunables.File) {
	t.Helper()
	fs := filesystem.NewMemFS()
	writeTree(t, fs, "/cfgs", map[string]string{name: content})
	report, err := tunables.NewScanner(fs, 0).Scan("/cfgs")
	require.NoError(t, err)
	if len(report.Files) == 0 {
		return report, tunables.File{}
	}
	return report, report.Files[0]
}

func TestParsers(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		content    string
		wantFormat string
		wantKeys   []string
	}{
		{
			name:       "toml",
			file:       "app.toml",
			content:    "port = 80\n[server]\nhost = \"x\"\n",
			wantFormat: tunables.FormatTOML,
			wantKeys:   []string{"port", "server"},
		},
		{
			name:       "yaml",
			file:       "app.yaml",
			content:    "workers: 4\nlog:\n  level: debug\n",
			wantFormat: tunables.FormatYAML,
			wantKeys:   []string{"log", "workers"},
		},
		{
			name:       "yml_empty",
			file:       "empty.yml",
			content:    "# nothing here\n",
			wantFormat: tunables.FormatYAML,
		},
		{
			name:       "xml_root_children",
			file:       "server.xml",
			content:    `<?xml version="1.0"?><Server><Listener/><Service><Engine/></Service><Listener/></Server>`,
			wantFormat: tunables.FormatXML,
			wantKeys:   []string{"Listener", "Service"},
		},
		{
			name:       "json",
			file:       "settings.json",
			content:    `{"timeout": 30, "hosts": ["a"]}`,
			wantFormat: tunables.FormatJSON,
			wantKeys:   []string{"hosts", "timeout"},
		},
		{
			name:       "ini_sections",
			file:       "php.ini",
			content:    "; comment\nengine = On\n[Session]\nsave_path=/tmp\n",
			wantFormat: tunables.FormatKeyValue,
			wantKeys:   []string{"Session.save_path", "engine"},
		},
		{
			name:       "env_export",
			file:       "app.env",
			content:    "export JAVA_OPTS=-Xmx1g\n# FOO=bar\nHOME_DIR=/srv\n",
			wantFormat: tunables.FormatKeyValue,
			wantKeys:   []string{"HOME_DIR", "JAVA_OPTS"},
		},
		{
			name:       "properties_colon",
			file:       "db.properties",
			content:    "! comment\ndb.url: jdbc:x\ndb.user=admin\n",
			wantFormat: tunables.FormatKeyValue,
			wantKeys:   []string{"db.url", "db.user"},
		},
		{
			name:       "directive_style_conf",
			file:       "nginx.conf",
			content:    "worker_processes 4;\nevents {\n}\n",
			wantFormat: tunables.FormatKeyValue,
		},
		{
			name:       "extension_case_insensitive",
			file:       "APP.TOML",
			content:    "a = 1\n",
			wantFormat: tunables.FormatTOML,
			wantKeys:   []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, file := scanOne(t, tt.file, tt.content)
			require.Empty(t, report.Warnings)
			require.Len(t, report.Files, 1)
			assert.Equal(t, tt.file, file.Path)
			assert.Equal(t, tt.wantFormat, file.Format)
			assert.Equal(t, tt.wantKeys, file.Keys)
		})
	}
}

func TestInvalidFilesAreWarnings(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "bad.toml", "= nope"},
		{"yaml", "bad.yaml", "a: [1, 2"},
		{"yaml_sequence", "list.yaml", "- a\n- b\n"},
		{"xml", "bad.xml", "<a><b></a>"},
		{"json", "bad.json", "{"},
		{"json_array", "list.json", "[1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, _ := scanOne(t, tt.file, tt.content)
			assert.Empty(t, report.Files)
			require.Len(t, report.Warnings, 1)
			assert.Equal(t, tt.file, report.Warnings[0].Path)
		})
	}
}

func TestScanTree(t *testing.T) {
	fs := filesystem.NewMemFS()
	writeTree(t, fs, "/cfgs", map[string]string{
		"app.toml":         "a = 1\nb = 2\n",
		"conf.d/extra.ini": "x=1\n",
		"conf.d/README":    "not config",
		"logo.png":         "\x89PNG",
		"big.json":         `{"k": "` + strings.Repeat("v", 100) + `"}`,
	})

	report, err := tunables.NewScanner(fs, 64).Scan("/cfgs")
	require.NoError(t, err)

	assert.Equal(t, "/cfgs", report.Root)
	require.Len(t, report.Files, 2)
	assert.Equal(t, "app.toml", report.Files[0].Path)
	assert.Equal(t, filepath.Join("conf.d", "extra.ini"), report.Files[1].Path)
	assert.Equal(t, 3, report.KeyCount())
	assert.Equal(t, 2, report.Ignored)

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "big.json", report.Warnings[0].Path)
	assert.Contains(t, report.Warnings[0].String(), "exceeds")
}

func TestScanSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "real.toml"), []byte("a = 1\n"), 0644))
	require.NoError(t, os.Symlink("real.toml", filepath.Join(root, "alias.toml")))

	report, err := tunables.NewScanner(filesystem.NewOS(), 0).Scan(root)
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "real.toml", report.Files[0].Path)
}

func TestScanInvalidRoot(t *testing.T) {
	fs := filesystem.NewMemFS()
	writeTree(t, fs, "/", map[string]string{"file.toml": "a = 1"})
	s := tunables.NewScanner(fs, 0)

	_, err := s.Scan("/missing")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = s.Scan("/file.toml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestExtensions(t *testing.T) {
	exts := tunables.Extensions()
	assert.Contains(t, exts, ".toml")
	assert.Contains(t, exts, ".yml")
	assert.IsIncreasing(t, exts)

	f, ok := tunables.FormatFor(".Properties")
	assert.True(t, ok)
	assert.Equal(t, tunables.FormatKeyValue, f)

	_, ok = tunables.FormatFor(".png")
	assert.False(t, ok)
}
