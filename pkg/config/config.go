package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/paths"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides. Sections are separated
// from keys by a double underscore: CFGMIGRATE_SERVICES__MANAGER=dbus.
const EnvPrefix = "CFGMIGRATE_"

// Discovery strategies
const (
	StrategySubstring = "substring"
	StrategyManifest  = "manifest"
)

// Service manager backends
const (
	ManagerSystemctl = "systemctl"
	ManagerDBus      = "dbus"
)

// Config is cfgmigrate's resolved configuration
type Config struct {
	Discovery Discovery `koanf:"discovery"`
	Services  Services  `koanf:"services"`
	Symlinks  Symlinks  `koanf:"symlinks"`
	Tunables  Tunables  `koanf:"tunables"`
	Output    Output    `koanf:"output"`
}

// Discovery controls how applications and their services are found
type Discovery struct {
	InstallRoots []string `koanf:"install_roots"`
	CfgsSubdir   string   `koanf:"cfgs_subdir"`
	Strategy     string   `koanf:"strategy"`
}

// Services selects the service manager backend
type Services struct {
	Manager       string `koanf:"manager"`
	SystemctlPath string `koanf:"systemctl_path"`
}

// Symlinks configures symlink map persistence
type Symlinks struct {
	MapFile string `koanf:"map_file"`
}

// Tunables configures the informational configuration scan
type Tunables struct {
	Enabled     bool  `koanf:"enabled"`
	MaxFileSize int64 `koanf:"max_file_size"`
}

// Output configures terminal rendering
type Output struct {
	Format string `koanf:"format"`
}

// LoadOptions selects the files consulted by Load. Empty fields fall back to
// the standard locations from pkg/paths.
type LoadOptions struct {
	SystemFile   string
	UserFile     string
	ExplicitFile string
}

// DefaultLoadOptions uses the standard system and user config locations
func DefaultLoadOptions(explicitFile string) LoadOptions {
	return LoadOptions{
		SystemFile:   paths.SystemConfigFile(),
		UserFile:     paths.UserConfigFile(),
		ExplicitFile: explicitFile,
	}
}

// Load builds the configuration from all layers, later layers winning:
// embedded defaults, system file, user file, explicit file, environment.
func Load(opts LoadOptions) (*Config, error) {
	k, err := NewKoanf(opts)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to decode configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewKoanf returns the merged koanf instance behind Load
func NewKoanf(opts LoadOptions) (*koanf.Koanf, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// Optional files: silently skipped when absent.
	for _, path := range []string{opts.SystemFile, opts.UserFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	// An explicit file must exist.
	if opts.ExplicitFile != "" {
		path := paths.ExpandHome(opts.ExplicitFile)
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", path)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	return k, nil
}

// envTransform maps CFGMIGRATE_DISCOVERY__INSTALL_ROOTS=/opt:/srv to
// discovery.install_roots = ["/opt", "/srv"]
func envTransform(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if key == "discovery.install_roots" {
		return key, filepath.SplitList(value)
	}
	return key, value
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Discovery.Strategy {
	case StrategySubstring, StrategyManifest:
	default:
		return errors.Newf(errors.ErrConfigLoad, "unknown discovery strategy %q", c.Discovery.Strategy).
			WithDetail("valid", []string{StrategySubstring, StrategyManifest})
	}

	switch c.Services.Manager {
	case ManagerSystemctl, ManagerDBus:
	default:
		return errors.Newf(errors.ErrConfigLoad, "unknown service manager %q", c.Services.Manager).
			WithDetail("valid", []string{ManagerSystemctl, ManagerDBus})
	}

	if len(c.Discovery.InstallRoots) == 0 {
		return errors.New(errors.ErrConfigLoad, "discovery.install_roots must not be empty")
	}
	return nil
}
