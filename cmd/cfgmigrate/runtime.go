package cfgmigrate

import (
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/cfgmigrate/pkg/config"
	"github.com/arthur-debert/cfgmigrate/pkg/discovery"
	"github.com/arthur-debert/cfgmigrate/pkg/filesystem"
	"github.com/arthur-debert/cfgmigrate/pkg/migrate"
	"github.com/arthur-debert/cfgmigrate/pkg/systemd"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/arthur-debert/cfgmigrate/pkg/ui"
	"github.com/jonboulle/clockwork"
)

// Runtime holds the collaborators commands are built from. NewRootCmd uses
// the real system; tests substitute their own.
type Runtime struct {
	FS         types.FS
	NewManager func(config.Services) (systemd.Manager, error)
	Privileges migrate.Privileges
	Clock      clockwork.Clock

	// Getwd resolves relative paths given on the command line
	Getwd func() (string, error)
}

// DefaultRuntime uses the OS filesystem, the configured service manager,
// the effective uid and the wall clock
func DefaultRuntime() Runtime {
	return Runtime{
		FS:         filesystem.NewOS(),
		NewManager: systemd.New,
		Privileges: migrate.EffectiveRoot,
		Clock:      clockwork.NewRealClock(),
		Getwd:      os.Getwd,
	}
}

// session is the per-invocation state shared by the commands
type session struct {
	rt         Runtime
	verbosity  int
	configFile string
	cfg        *config.Config
}

func (s *session) manager() (systemd.Manager, func(), error) {
	m, err := s.rt.NewManager(s.cfg.Services)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	if c, ok := m.(io.Closer); ok {
		closeFn = func() { _ = c.Close() }
	}
	return m, closeFn, nil
}

func (s *session) locator() *discovery.Locator {
	return discovery.NewLocator(s.rt.FS, s.cfg.Discovery.InstallRoots, s.cfg.Discovery.CfgsSubdir)
}

func (s *session) discoverer(m systemd.Manager) (discovery.ServiceDiscoverer, error) {
	return discovery.NewServiceDiscoverer(s.cfg.Discovery.Strategy, s.rt.FS, m)
}

// format resolves --format, falling back to output.format
func (s *session) format(flag string) (ui.Format, error) {
	if flag == "" {
		flag = s.cfg.Output.Format
	}
	return ui.ParseFormat(flag)
}

// abs makes a command-line path absolute against the working directory
func (s *session) abs(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	wd, err := s.rt.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, path), nil
}

// symlinkMap resolves --symlink-map, falling back to symlinks.map_file
func (s *session) symlinkMap(flag string) (string, error) {
	if flag == "" {
		flag = s.cfg.Symlinks.MapFile
	}
	if flag == "" {
		flag = types.DefaultSymlinkMapFile
	}
	return s.abs(flag)
}
