package discovery

import (
	"path/filepath"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/logging"
	"github.com/arthur-debert/cfgmigrate/pkg/paths"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
)

// Location is a resolved application directory and its configuration tree
type Location struct {
	AppRoot    string
	ConfigRoot string
}

// Locator finds application directories under a list of install roots
type Locator struct {
	fs         types.FS
	roots      []string
	cfgsSubdir string
}

// NewLocator creates a Locator. Empty roots or subdir fall back to the
// defaults from pkg/paths.
func NewLocator(fs types.FS, roots []string, cfgsSubdir string) *Locator {
	if len(roots) == 0 {
		roots = paths.DefaultInstallRoots
	}
	if cfgsSubdir == "" {
		cfgsSubdir = paths.CfgsSubdir
	}
	return &Locator{fs: fs, roots: roots, cfgsSubdir: cfgsSubdir}
}

// Roots returns the install roots searched, in order
func (l *Locator) Roots() []string {
	return l.roots
}

// Locate resolves the application root for appName. An explicit directory
// is used as-is; otherwise the first install root containing a directory
// named exactly appName wins. The application root must contain the
// configuration subdirectory.
func (l *Locator) Locate(appName, explicitDir string) (Location, error) {
	logger := logging.GetLogger("discovery.locator")

	appRoot := explicitDir
	if appRoot == "" {
		if appName == "" || appName != filepath.Base(appName) {
			return Location{}, errors.Newf(errors.ErrInvalidInput, "invalid application name %q", appName)
		}
		for _, root := range l.roots {
			candidate := filepath.Join(root, appName)
			info, err := l.fs.Stat(candidate)
			if err != nil || !info.IsDir() {
				logger.Trace().Str("candidate", candidate).Msg("No application directory")
				continue
			}
			appRoot = candidate
			break
		}
		if appRoot == "" {
			return Location{}, errors.Newf(errors.ErrAppNotFound, "no directory named %q under any install root", appName).
				WithDetail("roots", l.roots)
		}
	}

	logger.Debug().Str("app", appName).Str("root", appRoot).Msg("Located application")

	configRoot := paths.ConfigRoot(appRoot, l.cfgsSubdir)
	info, err := l.fs.Stat(configRoot)
	if err != nil || !info.IsDir() {
		return Location{}, errors.Newf(errors.ErrConfigNotFound, "configuration directory %s not found", configRoot).
			WithDetail("appRoot", appRoot)
	}

	return Location{AppRoot: appRoot, ConfigRoot: configRoot}, nil
}
