package systemd

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/logging"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
)

// Observer is told about every stop/start attempt
type Observer func(action, unit string, err error)

// StopAll stops services in list order and returns on the first failure or
// once ctx is cancelled. Units stopped before that stay stopped.
func StopAll(ctx context.Context, m Manager, services []types.Service, observe Observer) error {
	logger := logging.GetLogger("systemd.control")
	for _, svc := range services {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrServiceControl, "cancelled while stopping services").
				WithDetail("unit", svc.Name)
		}
		err := m.Stop(ctx, svc.Name)
		if observe != nil {
			observe("stop", svc.Name, err)
		}
		if err != nil {
			logger.Error().Err(err).Str("unit", svc.Name).Msg("Failed to stop service")
			return err
		}
		logger.Info().Str("unit", svc.Name).Msg("Stopped service")
	}
	return nil
}

// StartAll starts services in list order. Every unit is attempted even when
// an earlier one fails; the failures are returned joined.
func StartAll(ctx context.Context, m Manager, services []types.Service, observe Observer) error {
	logger := logging.GetLogger("systemd.control")
	var errs []error
	for _, svc := range services {
		err := m.Start(ctx, svc.Name)
		if observe != nil {
			observe("start", svc.Name, err)
		}
		if err != nil {
			logger.Error().Err(err).Str("unit", svc.Name).Msg("Failed to start service")
			errs = append(errs, err)
			continue
		}
		logger.Info().Str("unit", svc.Name).Msg("Started service")
	}
	return stderrors.Join(errs...)
}
