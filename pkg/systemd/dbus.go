package systemd

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
	sddbus "github.com/coreos/go-systemd/v22/dbus"
)

// jobMode is passed to StartUnit/StopUnit; "replace" queues the job and
// replaces any conflicting pending job, matching systemctl's default
const jobMode = "replace"

// dbusConn is the part of *sddbus.Conn used here
type dbusConn interface {
	ListUnitFilesContext(ctx context.Context) ([]sddbus.UnitFile, error)
	ListUnitsContext(ctx context.Context) ([]sddbus.UnitStatus, error)
	StopUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	StartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	Close()
}

// DBus drives systemd over the system bus
type DBus struct {
	connect func(ctx context.Context) (dbusConn, error)

	mu   sync.Mutex
	conn dbusConn
}

// NewDBus creates a D-Bus backend. The connection is opened on first use.
func NewDBus() *DBus {
	return &DBus{
		connect: func(ctx context.Context) (dbusConn, error) {
			return sddbus.NewWithContext(ctx)
		},
	}
}

func (d *DBus) get(ctx context.Context) (dbusConn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		return d.conn, nil
	}
	conn, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}
	d.conn = conn
	return conn, nil
}

// Close releases the bus connection
func (d *DBus) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
	return nil
}

// ListServices returns installed service unit files, followed by loaded
// service units without a unit file of their own
func (d *DBus) ListServices(ctx context.Context) ([]types.Service, error) {
	conn, err := d.get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrServiceQuery, "failed to connect to systemd")
	}

	files, err := conn.ListUnitFilesContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrServiceQuery, "failed to list service unit files")
	}
	units, err := conn.ListUnitsContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrServiceQuery, "failed to list service units")
	}

	active := make(map[string]string, len(units))
	for _, u := range units {
		active[u.Name] = u.ActiveState
	}

	var services []types.Service
	seen := make(map[string]bool)
	for _, f := range files {
		name := filepath.Base(f.Path)
		if !strings.HasSuffix(name, ".service") || seen[name] || types.IsTemplateUnit(name) {
			continue
		}
		seen[name] = true
		svc := types.Service{Name: name, EnabledState: f.Type, ActiveState: "inactive"}
		if state, ok := active[name]; ok {
			svc.ActiveState = state
		}
		services = append(services, svc)
	}

	for _, u := range units {
		if !strings.HasSuffix(u.Name, ".service") || seen[u.Name] || types.IsTemplateUnit(u.Name) {
			continue
		}
		seen[u.Name] = true
		services = append(services, types.Service{Name: u.Name, ActiveState: u.ActiveState})
	}

	return services, nil
}

// Stop stops a unit and waits for the job result
func (d *DBus) Stop(ctx context.Context, name string) error {
	return d.runJob(ctx, "stop", name)
}

// Start starts a unit and waits for the job result
func (d *DBus) Start(ctx context.Context, name string) error {
	return d.runJob(ctx, "start", name)
}

func (d *DBus) runJob(ctx context.Context, action, name string) error {
	conn, err := d.get(ctx)
	if err != nil {
		return errors.Wrapf(err, errors.ErrServiceControl, "failed to %s %s", action, name).
			WithDetail("unit", name)
	}

	ch := make(chan string, 1)
	if action == "stop" {
		_, err = conn.StopUnitContext(ctx, name, jobMode, ch)
	} else {
		_, err = conn.StartUnitContext(ctx, name, jobMode, ch)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrServiceControl, "failed to %s %s", action, name).
			WithDetail("unit", name)
	}

	select {
	case result := <-ch:
		if result != "done" {
			return errors.Newf(errors.ErrServiceControl, "%s %s: job finished with result %q", action, name, result).
				WithDetail("unit", name).
				WithDetail("result", result)
		}
		return nil
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), errors.ErrServiceControl, "%s %s: interrupted waiting for job", action, name).
			WithDetail("unit", name)
	}
}
