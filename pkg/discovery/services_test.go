// pkg/discovery/services_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: testify mock Manager, in-memory filesystem
// PURPOSE: Test service discovery strategies

package discovery_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/cfgmigrate/pkg/config"
	"github.com/arthur-debert/cfgmigrate/pkg/discovery"
	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/systemd/testutil"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var installed = []types.Service{
	{Name: "sshd.service", ActiveState: "active"},
	{Name: "nginx.service", ActiveState: "active"},
	{Name: "prometheus-NGINX-exporter.service", ActiveState: "inactive"},
	{Name: "cron.service", ActiveState: "active"},
}

func TestSubstringDiscoverer(t *testing.T) {
	t.Run("case_insensitive_in_order", func(t *testing.T) {
		m := &testutil.MockManager{}
		m.On("ListServices", mock.Anything).Return(installed, nil)

		got, err := discovery.NewSubstringDiscoverer(m).Discover(context.Background(), "Nginx", discovery.Location{})
		require.NoError(t, err)
		assert.Equal(t, []string{"nginx.service", "prometheus-NGINX-exporter.service"}, types.ServiceNames(got))
	})

	t.Run("no_match_is_empty_not_error", func(t *testing.T) {
		m := &testutil.MockManager{}
		m.On("ListServices", mock.Anything).Return(installed, nil)

		got, err := discovery.NewSubstringDiscoverer(m).Discover(context.Background(), "postgres", discovery.Location{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("query_failure", func(t *testing.T) {
		m := &testutil.MockManager{}
		m.On("ListServices", mock.Anything).Return(nil, errors.New(errors.ErrServiceQuery, "bus down"))

		_, err := discovery.NewSubstringDiscoverer(m).Discover(context.Background(), "nginx", discovery.Location{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrServiceQuery))
	})
}

func TestManifestDiscoverer(t *testing.T) {
	loc := discovery.Location{AppRoot: "/opt/nginx", ConfigRoot: "/opt/nginx/etc/cfgs"}

	t.Run("lists_manifest_units", func(t *testing.T) {
		fs := memFS(t, "/opt/nginx/etc/cfgs")
		require.NoError(t, fs.WriteFile("/opt/nginx/etc/cfgmigrate.toml", []byte(`services = ["nginx", "cron.service", "ghost.service"]`), 0644))
		m := &testutil.MockManager{}
		m.On("ListServices", mock.Anything).Return(installed, nil)

		got, err := discovery.NewManifestDiscoverer(fs, m).Discover(context.Background(), "nginx", loc)
		require.NoError(t, err)
		assert.Equal(t, []types.Service{
			{Name: "nginx.service", ActiveState: "active"},
			{Name: "cron.service", ActiveState: "active"},
			{Name: "ghost.service"},
		}, got)
	})

	t.Run("empty_manifest", func(t *testing.T) {
		fs := memFS(t, "/opt/nginx/etc/cfgs")
		require.NoError(t, fs.WriteFile("/opt/nginx/etc/cfgmigrate.toml", []byte("services = []\n"), 0644))
		m := &testutil.MockManager{}

		got, err := discovery.NewManifestDiscoverer(fs, m).Discover(context.Background(), "nginx", loc)
		require.NoError(t, err)
		assert.Empty(t, got)
		m.AssertNotCalled(t, "ListServices", mock.Anything)
	})

	t.Run("missing_manifest", func(t *testing.T) {
		fs := memFS(t, "/opt/nginx/etc/cfgs")
		_, err := discovery.NewManifestDiscoverer(fs, &testutil.MockManager{}).Discover(context.Background(), "nginx", loc)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigNotFound))
	})

	t.Run("malformed_manifest", func(t *testing.T) {
		fs := memFS(t, "/opt/nginx/etc/cfgs")
		require.NoError(t, fs.WriteFile("/opt/nginx/etc/cfgmigrate.toml", []byte("services = [\n"), 0644))
		_, err := discovery.NewManifestDiscoverer(fs, &testutil.MockManager{}).Discover(context.Background(), "nginx", loc)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestNewServiceDiscoverer(t *testing.T) {
	m := &testutil.MockManager{}

	d, err := discovery.NewServiceDiscoverer(config.StrategySubstring, nil, m)
	require.NoError(t, err)
	assert.IsType(t, &discovery.SubstringDiscoverer{}, d)

	d, err = discovery.NewServiceDiscoverer(config.StrategyManifest, nil, m)
	require.NoError(t, err)
	assert.IsType(t, &discovery.ManifestDiscoverer{}, d)

	_, err = discovery.NewServiceDiscoverer("regex", nil, m)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
