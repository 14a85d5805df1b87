package systemd

import (
	"context"

	"github.com/arthur-debert/cfgmigrate/pkg/config"
	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
)

// Manager is the subset of a service manager cfgmigrate needs
type Manager interface {
	// ListServices returns every installed service unit with its states
	ListServices(ctx context.Context) ([]types.Service, error)

	// Stop stops a unit and waits for the job to finish
	Stop(ctx context.Context, name string) error

	// Start starts a unit and waits for the job to finish
	Start(ctx context.Context, name string) error
}

// New returns the backend selected in the configuration. Callers should
// Close the result when it implements io.Closer.
func New(cfg config.Services) (Manager, error) {
	switch cfg.Manager {
	case config.ManagerSystemctl, "":
		return NewSystemctl(cfg.SystemctlPath, nil), nil
	case config.ManagerDBus:
		return NewDBus(), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown service manager %q", cfg.Manager)
	}
}
