package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/cfgmigrate/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for cfgmigrate
	EnvConfigDir = "CFGMIGRATE_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name for cfgmigrate-specific files
	AppDirName = "cfgmigrate"

	// ConfigFileName is the name of cfgmigrate's own configuration file
	ConfigFileName = "config.toml"

	// SystemConfigDir holds the host-wide configuration
	SystemConfigDir = "/etc/cfgmigrate"

	// ManifestFileName is the per-application service manifest, looked up
	// under <app>/etc
	ManifestFileName = "cfgmigrate.toml"

	// CfgsSubdir is where an application keeps its configuration tree,
	// relative to the application root
	CfgsSubdir = "etc/cfgs"
)

// DefaultInstallRoots are searched, in order, for an application directory
var DefaultInstallRoots = []string{
	"/opt",
	"/usr/local",
	"/usr/share",
	"/var/lib",
	"/etc",
}

// SystemConfigFile returns the host-wide configuration file path
func SystemConfigFile() string {
	return filepath.Join(SystemConfigDir, ConfigFileName)
}

// UserConfigFile returns the per-user configuration file path, respecting
// CFGMIGRATE_CONFIG_DIR and XDG_CONFIG_HOME
func UserConfigFile() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(expandHome(dir), ConfigFileName)
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppDirName, ConfigFileName)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// ManifestPath returns the service manifest location for an application root
func ManifestPath(appRoot string) string {
	return filepath.Join(appRoot, "etc", ManifestFileName)
}

// ConfigRoot returns the configuration tree location for an application
// root, given the configured cfgs subdirectory (CfgsSubdir when empty)
func ConfigRoot(appRoot, subdir string) string {
	if subdir == "" {
		subdir = CfgsSubdir
	}
	return filepath.Join(appRoot, filepath.FromSlash(subdir))
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", path)
	}

	return filepath.Clean(abs), nil
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
