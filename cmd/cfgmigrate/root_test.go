// cmd/cfgmigrate/root_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: real filesystem (t.TempDir), mocked service manager
// PURPOSE: Test command wiring, flags and output formats

package cfgmigrate_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/cfgmigrate/cmd/cfgmigrate"
	"github.com/arthur-debert/cfgmigrate/internal/version"
	"github.com/arthur-debert/cfgmigrate/pkg/config"
	"github.com/arthur-debert/cfgmigrate/pkg/filesystem"
	"github.com/arthur-debert/cfgmigrate/pkg/migrate"
	"github.com/arthur-debert/cfgmigrate/pkg/symlinkmap"
	"github.com/arthur-debert/cfgmigrate/pkg/systemd"
	systemdtest "github.com/arthur-debert/cfgmigrate/pkg/systemd/testutil"
	"github.com/arthur-debert/cfgmigrate/pkg/testutil"
	"github.com/arthur-debert/cfgmigrate/pkg/tunables"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/arthur-debert/cfgmigrate/pkg/ui/display"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cli struct {
	root       string
	configFile string
	manager    *systemdtest.MockManager
	privileged bool
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("CFGMIGRATE_CONFIG_DIR", filepath.Join(root, "userconf"))

	testutil.CreateFileTree(t, filesystem.NewOS(), filepath.Join(root, "opt", "webapp", "etc", "cfgs"), testutil.FileTree{
		"shared":       testutil.FileTree{"base.toml": "port = 80\n"},
		"app.yaml":     "workers: 4\n",
		"current.toml": testutil.Link("shared/base.toml"),
	})

	configFile := filepath.Join(root, "cfgmigrate.toml")
	content := fmt.Sprintf("[discovery]\ninstall_roots = [%q]\n", filepath.Join(root, "opt"))
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	return &cli{root: root, configFile: configFile, manager: &systemdtest.MockManager{}, privileged: true}
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rt := cfgmigrate.Runtime{
		FS: filesystem.NewOS(),
		NewManager: func(config.Services) (systemd.Manager, error) {
			return c.manager, nil
		},
		Privileges: migrate.PrivilegesFunc(func() bool { return c.privileged }),
		Clock:      clockwork.NewFakeClockAt(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)),
		Getwd:      func() (string, error) { return c.root, nil },
	}
	cmd := cfgmigrate.NewRootCmdWith(rt)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", c.configFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) expectUnits() {
	c.manager.On("ListServices", mock.Anything).Return([]types.Service{
		{Name: "webapp.service", ActiveState: "active"},
		{Name: "webapp-queue.service", ActiveState: "active"},
		{Name: "cron.service", ActiveState: "active"},
	}, nil)
}

func TestVersionCmd(t *testing.T) {
	c := newCLI(t)
	out, err := c.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cfgmigrate version "+version.Version)
}

func TestGenConfigCmd(t *testing.T) {
	c := newCLI(t)
	out, err := c.run(t, "gen-config")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigContent(), out)
}

func TestNoCommand(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestBadConfigFile(t *testing.T) {
	c := newCLI(t)
	c.configFile = filepath.Join(c.root, "missing.toml")
	_, err := c.run(t, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestMigrateCmd(t *testing.T) {
	c := newCLI(t)
	c.expectUnits()
	c.manager.On("Stop", mock.Anything, mock.Anything).Return(nil)
	c.manager.On("Start", mock.Anything, mock.Anything).Return(nil)

	out, err := c.run(t, "migrate", "webapp", "--dest", "backup/webapp", "--symlink-map", "backup/links.json", "--format", "json")
	require.NoError(t, err)

	var res migrate.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, migrate.StatusSuccess, res.Status)
	assert.Equal(t, migrate.StateDone, res.State)
	assert.Equal(t, filepath.Join(c.root, "opt", "webapp"), res.AppRoot)
	assert.Equal(t, []string{"webapp.service", "webapp-queue.service"}, res.Stopped)
	assert.Equal(t, []string{"webapp.service", "webapp-queue.service"}, res.Started)
	assert.Equal(t, []string{"current.toml"}, res.Restored)
	require.NotNil(t, res.Tunables)
	assert.NotEmpty(t, res.Tunables.Files)

	dest := filepath.Join(c.root, "backup", "webapp")
	testutil.AssertSymlink(t, filesystem.NewOS(), filepath.Join(dest, "current.toml"), "shared/base.toml")
	testutil.AssertFileContent(t, filesystem.NewOS(), filepath.Join(dest, "shared", "base.toml"), "port = 80\n")

	m, ok, err := symlinkmap.Load(filesystem.NewOS(), filepath.Join(c.root, "backup", "links.json"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.SymlinkMap{"current.toml": "shared/base.toml"}, m)
}

func TestMigrateCmdDryRunUnprivileged(t *testing.T) {
	c := newCLI(t)
	c.privileged = false
	c.expectUnits()

	out, err := c.run(t, "migrate", "webapp", "-d", "backup/webapp", "-n", "--format", "json")
	require.NoError(t, err)

	var res migrate.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, migrate.StatusPlanned, res.Status)
	assert.Len(t, res.Services, 2)
	assert.Empty(t, c.manager.CallsTo("Stop"))
	assert.NoDirExists(t, filepath.Join(c.root, "backup", "webapp"))
}

func TestMigrateCmdUnprivileged(t *testing.T) {
	c := newCLI(t)
	c.privileged = false

	out, err := c.run(t, "migrate", "webapp", "--dest", "backup/webapp", "--format", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PERMISSION")
	assert.Contains(t, out, "failed")
	c.manager.AssertNotCalled(t, "ListServices", mock.Anything)
}

func TestMigrateCmdRequiresDest(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(t, "migrate", "webapp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dest")
}

func TestServicesCmd(t *testing.T) {
	c := newCLI(t)
	c.expectUnits()

	out, err := c.run(t, "services", "webapp", "--format", "json")
	require.NoError(t, err)

	var list display.ServiceList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, "substring", list.Strategy)
	assert.Equal(t, []string{"webapp.service", "webapp-queue.service"}, types.ServiceNames(list.Services))
}

func TestServicesCmdUnknownApp(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "services", "nothere", "--format", "json")
	require.Error(t, err)

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &obj))
	assert.Equal(t, "APP_NOT_FOUND", obj["code"])
}

func TestScanCmd(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "scan", "opt/webapp/etc/cfgs", "--format", "json")
	require.NoError(t, err)

	var report tunables.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	paths := make([]string, 0, len(report.Files))
	for _, f := range report.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"app.yaml", "shared/base.toml"}, paths)
}

func TestRestoreCmd(t *testing.T) {
	c := newCLI(t)
	dest := filepath.Join(c.root, "restored")
	require.NoError(t, os.MkdirAll(dest, 0755))
	mapPath := filepath.Join(c.root, "links.json")
	require.NoError(t, symlinkmap.Save(filesystem.NewOS(), types.SymlinkMap{"a/link": "../b"}, mapPath))

	out, err := c.run(t, "restore", "--dest", dest, "-m", mapPath, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "a/link")

	testutil.AssertSymlink(t, filesystem.NewOS(), filepath.Join(dest, "a", "link"), "../b")
}

func TestHelpTopics(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "discovery")
	assert.Contains(t, out, "symlink-map")

	out, err = c.run(t, "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration")
}
