// pkg/discovery/locator_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: in-memory filesystem (afero)
// PURPOSE: Test application directory resolution

package discovery_test

import (
	"testing"

	"github.com/arthur-debert/cfgmigrate/pkg/discovery"
	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/filesystem"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFS(t *testing.T, dirs ...string) types.FS {
	t.Helper()
	fs := filesystem.NewMemFS()
	for _, d := range dirs {
		require.NoError(t, fs.MkdirAll(d, 0755))
	}
	return fs
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name        string
		dirs        []string
		files       []string
		app         string
		explicitDir string
		wantApp     string
		wantCode    errors.ErrorCode
	}{
		{
			name:    "first_root_wins",
			dirs:    []string{"/usr/local/nginx/etc/cfgs", "/var/lib/nginx/etc/cfgs"},
			app:     "nginx",
			wantApp: "/usr/local/nginx",
		},
		{
			name:    "later_root",
			dirs:    []string{"/var/lib/redis/etc/cfgs"},
			app:     "redis",
			wantApp: "/var/lib/redis",
		},
		{
			name:     "name_is_literal",
			dirs:     []string{"/opt/Nginx/etc/cfgs"},
			app:      "nginx",
			wantCode: errors.ErrAppNotFound,
		},
		{
			name:     "not_found",
			dirs:     []string{"/opt/other/etc/cfgs"},
			app:      "nginx",
			wantCode: errors.ErrAppNotFound,
		},
		{
			name:     "file_is_not_a_directory",
			files:    []string{"/opt/nginx"},
			app:      "nginx",
			wantCode: errors.ErrAppNotFound,
		},
		{
			name:     "missing_cfgs",
			dirs:     []string{"/opt/nginx/etc"},
			app:      "nginx",
			wantCode: errors.ErrConfigNotFound,
		},
		{
			name:        "explicit_dir",
			dirs:        []string{"/srv/custom/etc/cfgs", "/opt/nginx/etc/cfgs"},
			app:         "nginx",
			explicitDir: "/srv/custom",
			wantApp:     "/srv/custom",
		},
		{
			name:        "explicit_dir_without_cfgs",
			dirs:        []string{"/srv/custom", "/opt/nginx/etc/cfgs"},
			app:         "nginx",
			explicitDir: "/srv/custom",
			wantCode:    errors.ErrConfigNotFound,
		},
		{
			name:     "path_like_name_rejected",
			dirs:     []string{"/opt/nginx/etc/cfgs"},
			app:      "../opt/nginx",
			wantCode: errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memFS(t, tt.dirs...)
			for _, f := range tt.files {
				require.NoError(t, fs.WriteFile(f, []byte("x"), 0644))
			}
			loc := discovery.NewLocator(fs, nil, "")

			got, err := loc.Locate(tt.app, tt.explicitDir)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantApp, got.AppRoot)
			assert.Equal(t, tt.wantApp+"/etc/cfgs", got.ConfigRoot)
		})
	}
}

func TestLocateCustomRoots(t *testing.T) {
	fs := memFS(t, "/opt/app/conf", "/srv/app/conf")
	loc := discovery.NewLocator(fs, []string{"/srv", "/opt"}, "conf")

	assert.Equal(t, []string{"/srv", "/opt"}, loc.Roots())

	got, err := loc.Locate("app", "")
	require.NoError(t, err)
	assert.Equal(t, discovery.Location{AppRoot: "/srv/app", ConfigRoot: "/srv/app/conf"}, got)
}
