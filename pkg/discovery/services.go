package discovery

import (
	"context"
	"strings"

	"github.com/arthur-debert/cfgmigrate/pkg/config"
	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/logging"
	"github.com/arthur-debert/cfgmigrate/pkg/paths"
	"github.com/arthur-debert/cfgmigrate/pkg/systemd"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/pelletier/go-toml/v2"
)

// ServiceDiscoverer returns the services that must be quiesced while an
// application's configuration is migrated. An empty result is not an error.
type ServiceDiscoverer interface {
	Discover(ctx context.Context, appName string, loc Location) ([]types.Service, error)
}

// SubstringDiscoverer selects every installed service whose unit name
// contains the application name, ignoring case
type SubstringDiscoverer struct {
	manager systemd.Manager
}

// NewSubstringDiscoverer creates a name-matching discoverer
func NewSubstringDiscoverer(m systemd.Manager) *SubstringDiscoverer {
	return &SubstringDiscoverer{manager: m}
}

// Discover implements ServiceDiscoverer
func (d *SubstringDiscoverer) Discover(ctx context.Context, appName string, _ Location) ([]types.Service, error) {
	all, err := d.manager.ListServices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrServiceQuery, "failed to query service manager")
	}

	needle := strings.ToLower(appName)
	var matched []types.Service
	for _, svc := range all {
		if strings.Contains(strings.ToLower(svc.Name), needle) {
			matched = append(matched, svc)
		}
	}

	logger := logging.GetLogger("discovery.services")
	logger.Debug().
		Str("app", appName).
		Int("installed", len(all)).
		Strs("matched", types.ServiceNames(matched)).
		Msg("Discovered services by name")

	return matched, nil
}

// Manifest is the per-application file listing its units explicitly
type Manifest struct {
	Services []string `toml:"services"`
}

// ManifestDiscoverer reads the unit list from <app>/etc/cfgmigrate.toml
// and annotates each unit with the manager's view of it
type ManifestDiscoverer struct {
	fs      types.FS
	manager systemd.Manager
}

// NewManifestDiscoverer creates a manifest-based discoverer
func NewManifestDiscoverer(fs types.FS, m systemd.Manager) *ManifestDiscoverer {
	return &ManifestDiscoverer{fs: fs, manager: m}
}

// Discover implements ServiceDiscoverer. Units listed in the manifest but
// unknown to the manager are still returned so the stop fails loudly
// rather than being silently skipped.
func (d *ManifestDiscoverer) Discover(ctx context.Context, appName string, loc Location) ([]types.Service, error) {
	manifestPath := paths.ManifestPath(loc.AppRoot)
	data, err := d.fs.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigNotFound, "service manifest %s not readable", manifestPath)
	}

	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "service manifest %s is malformed", manifestPath)
	}
	if len(manifest.Services) == 0 {
		return nil, nil
	}

	all, err := d.manager.ListServices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrServiceQuery, "failed to query service manager")
	}
	known := make(map[string]types.Service, len(all))
	for _, svc := range all {
		known[svc.Name] = svc
	}

	services := make([]types.Service, 0, len(manifest.Services))
	for _, name := range manifest.Services {
		if !strings.Contains(name, ".") {
			name += ".service"
		}
		if svc, ok := known[name]; ok {
			services = append(services, svc)
			continue
		}
		logger := logging.GetLogger("discovery.services")
		logger.Warn().
			Str("app", appName).
			Str("unit", name).
			Msg("Manifest lists a unit the service manager does not know")
		services = append(services, types.Service{Name: name})
	}
	return services, nil
}

// NewServiceDiscoverer returns the strategy selected in the configuration
func NewServiceDiscoverer(strategy string, fs types.FS, m systemd.Manager) (ServiceDiscoverer, error) {
	switch strategy {
	case config.StrategySubstring, "":
		return NewSubstringDiscoverer(m), nil
	case config.StrategyManifest:
		return NewManifestDiscoverer(fs, m), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown discovery strategy %q", strategy)
	}
}
