package systemd

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
)

// Systemctl drives systemd through the systemctl binary
type Systemctl struct {
	binary string
	runner Runner
}

// NewSystemctl creates a systemctl backend. An empty binary means
// "systemctl" from PATH; a nil runner means os/exec.
func NewSystemctl(binary string, runner Runner) *Systemctl {
	if binary == "" {
		binary = "systemctl"
	}
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Systemctl{binary: binary, runner: runner}
}

// ListServices merges `list-unit-files` (installed units and their enabled
// state) with `list-units` (runtime state, plus instantiated template units
// that have no unit file of their own). Unit file order is preserved.
// Uninstantiated templates are left out since they cannot be stopped.
func (s *Systemctl) ListServices(ctx context.Context) ([]types.Service, error) {
	out, err := s.runner.Run(ctx, s.binary, "list-unit-files", "--type=service", "--no-legend", "--no-pager", "--plain")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrServiceQuery, "failed to list service unit files")
	}
	unitFiles := parseColumns(out)

	out, err = s.runner.Run(ctx, s.binary, "list-units", "--type=service", "--all", "--no-legend", "--no-pager", "--plain")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrServiceQuery, "failed to list service units")
	}
	units := parseColumns(out)

	active := make(map[string]string, len(units))
	for _, fields := range units {
		if len(fields) >= 3 {
			active[fields[0]] = fields[2]
		}
	}

	var services []types.Service
	seen := make(map[string]bool)
	for _, fields := range unitFiles {
		name := fields[0]
		if seen[name] || types.IsTemplateUnit(name) {
			continue
		}
		seen[name] = true

		svc := types.Service{Name: name, ActiveState: "inactive"}
		if len(fields) >= 2 {
			svc.EnabledState = fields[1]
		}
		if state, ok := active[name]; ok {
			svc.ActiveState = state
		}
		services = append(services, svc)
	}

	for _, fields := range units {
		name := fields[0]
		if seen[name] || types.IsTemplateUnit(name) {
			continue
		}
		seen[name] = true
		svc := types.Service{Name: name}
		if len(fields) >= 3 {
			svc.ActiveState = fields[2]
		}
		services = append(services, svc)
	}

	return services, nil
}

// Stop runs `systemctl stop <name>`
func (s *Systemctl) Stop(ctx context.Context, name string) error {
	if _, err := s.runner.Run(ctx, s.binary, "stop", name); err != nil {
		return errors.Wrapf(err, errors.ErrServiceControl, "failed to stop %s", name).
			WithDetail("unit", name)
	}
	return nil
}

// Start runs `systemctl start <name>`
func (s *Systemctl) Start(ctx context.Context, name string) error {
	if _, err := s.runner.Run(ctx, s.binary, "start", name); err != nil {
		return errors.Wrapf(err, errors.ErrServiceControl, "failed to start %s", name).
			WithDetail("unit", name)
	}
	return nil
}

// parseColumns splits systemctl's plain, legend-less output into fields,
// dropping blank lines and the status bullet some versions still print
func parseColumns(out []byte) [][]string {
	var rows [][]string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 && (fields[0] == "●" || fields[0] == "*") {
			fields = fields[1:]
		}
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}
	return rows
}
