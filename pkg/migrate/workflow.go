package migrate

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cfgmigrate/pkg/copytree"
	"github.com/arthur-debert/cfgmigrate/pkg/discovery"
	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/logging"
	"github.com/arthur-debert/cfgmigrate/pkg/symlinkmap"
	"github.com/arthur-debert/cfgmigrate/pkg/systemd"
	"github.com/arthur-debert/cfgmigrate/pkg/tunables"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Options wires a Workflow to its collaborators. FS, Manager, Locator and
// Discoverer are required.
type Options struct {
	FS         types.FS
	Manager    systemd.Manager
	Locator    *discovery.Locator
	Discoverer discovery.ServiceDiscoverer

	// Privileges defaults to EffectiveRoot
	Privileges Privileges

	// Clock stamps the result; defaults to the real clock
	Clock clockwork.Clock

	// Progress defaults to discarding progress
	Progress Progress

	// ScanTunables enables the tunables scan of the copied tree
	ScanTunables bool

	// MaxTunableFileSize bounds the files the scan parses
	MaxTunableFileSize int64
}

// Workflow migrates an application's configuration tree
type Workflow struct {
	opts Options
}

// New creates a Workflow
func New(opts Options) *Workflow {
	if opts.Privileges == nil {
		opts.Privileges = EffectiveRoot
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Progress == nil {
		opts.Progress = nopProgress{}
	}
	return &Workflow{opts: opts}
}

// Run executes one migration. The returned Result is never nil; its Err is
// also returned.
func (w *Workflow) Run(ctx context.Context, ec *types.ExecutionContext) (*Result, error) {
	logger := logging.WithRun("migrate", ec.RunID)
	res := &Result{
		RunID:          ec.RunID,
		App:            ec.AppName,
		DestRoot:       ec.DestRoot,
		SymlinkMapPath: ec.SymlinkMapPath,
		DryRun:         ec.DryRun,
		StartedAt:      w.opts.Clock.Now(),
	}

	w.run(ctx, ec, res, logger)

	res.FinishedAt = w.opts.Clock.Now()
	res.Errors = errorStrings(res.err)
	if res.err != nil {
		res.Status = StatusFailed
		logger.Error().Err(res.err).Str("state", string(res.State)).Msg("Migration failed")
	} else {
		logger.Info().
			Str("status", string(res.Status)).
			Dur("duration", res.Duration()).
			Msg("Migration finished")
	}
	return res, res.err
}

func (w *Workflow) run(ctx context.Context, ec *types.ExecutionContext, res *Result, logger zerolog.Logger) {
	// Init
	w.enter(res, StateInit, "checking privileges")
	ec.Privileged = w.opts.Privileges.IsPrivileged()
	if !ec.Privileged {
		if !ec.DryRun {
			res.fail(errors.New(errors.ErrPermission, "controlling services requires root privileges"))
			return
		}
		logger.Warn().Msg("Not running as root, continuing because this is a dry run")
	}

	// Discover
	w.enter(res, StateDiscover, fmt.Sprintf("locating %s", ec.AppName))
	services, err := w.discover(ctx, ec, res)
	if err != nil {
		res.fail(err)
		return
	}

	if ec.DryRun {
		res.Status = StatusPlanned
		if len(services) == 0 {
			res.Status = StatusNothingToDo
		}
		w.enter(res, StateDone, "dry run, nothing changed")
		return
	}

	if len(services) == 0 {
		logger.Info().Msg("No services found, creating destination only")
		if err := w.opts.FS.MkdirAll(ec.DestRoot, 0755); err != nil {
			res.fail(errors.Wrapf(err, errors.ErrCopy, "failed to create destination %s", ec.DestRoot))
			return
		}
		res.Status = StatusNothingToDo
		w.enter(res, StateDone, "no services matched, nothing to migrate")
		return
	}

	if err := ctx.Err(); err != nil {
		res.fail(errors.Wrap(err, errors.ErrInternal, "cancelled before stopping services"))
		return
	}

	// Quiesce
	w.enter(res, StateQuiesce, fmt.Sprintf("stopping %d service(s)", len(services)))
	err = systemd.StopAll(ctx, w.opts.Manager, services, w.observer(&res.Stopped, "stop"))
	if err != nil {
		res.fail(err)
		// A failed stop leaves the stopped units alone; an interrupt does not.
		if ctx.Err() != nil && len(res.Stopped) > 0 {
			res.fail(w.resume(ctx, res, stoppedServices(services, res.Stopped)))
		}
		return
	}

	res.fail(w.migrateAndResume(ctx, ec, res, services))
	if res.err == nil {
		res.Status = StatusSuccess
		w.enter(res, StateDone, "migration complete")
	}
}

// migrateAndResume runs Migrate with Resume deferred. Resume uses a context
// detached from ctx so that services come back even after cancellation.
func (w *Workflow) migrateAndResume(ctx context.Context, ec *types.ExecutionContext, res *Result, services []types.Service) (err error) {
	defer func() {
		err = stderrors.Join(err, w.resume(ctx, res, services))
	}()

	w.enter(res, StateMigrate, fmt.Sprintf("copying %s to %s", ec.ConfigRoot, ec.DestRoot))
	return w.migrate(ctx, ec, res)
}

// resume starts services on a context detached from ctx
func (w *Workflow) resume(ctx context.Context, res *Result, services []types.Service) error {
	w.enter(res, StateResume, fmt.Sprintf("starting %d service(s)", len(services)))
	return systemd.StartAll(context.WithoutCancel(ctx), w.opts.Manager, services, w.observer(&res.Started, "start"))
}

func (w *Workflow) migrate(ctx context.Context, ec *types.ExecutionContext, res *Result) (err error) {
	logger := logging.WithRun("migrate", ec.RunID)
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Recovered from panic during migration")
			err = errors.Newf(errors.ErrInternal, "migration panicked: %v", r)
		}
	}()

	links, stats, err := copytree.New(w.opts.FS).CopyTree(ctx, ec.ConfigRoot, ec.DestRoot)
	res.Copy = stats
	res.Symlinks = len(links)
	if err != nil {
		return err
	}

	if err := symlinkmap.Save(w.opts.FS, links, ec.SymlinkMapPath); err != nil {
		return err
	}

	if w.opts.ScanTunables {
		report, err := tunables.NewScanner(w.opts.FS, w.opts.MaxTunableFileSize).Scan(ec.DestRoot)
		if err != nil {
			logger.Warn().Err(err).Msg("Tunables scan failed")
		}
		res.Tunables = report
	}

	w.opts.Progress.Step(StateMigrate, fmt.Sprintf("restoring %d symlink(s)", len(links)))
	report, err := symlinkmap.Restore(w.opts.FS, ec.DestRoot, ec.SymlinkMapPath)
	res.Restored = report.Restored
	res.FailedSymlinks = report.FailedPaths()
	return err
}

func (w *Workflow) discover(ctx context.Context, ec *types.ExecutionContext, res *Result) ([]types.Service, error) {
	loc, err := w.opts.Locator.Locate(ec.AppName, ec.ExplicitDir)
	if err != nil {
		return nil, err
	}
	ec.AppRoot, ec.ConfigRoot = loc.AppRoot, loc.ConfigRoot
	res.AppRoot, res.ConfigRoot = loc.AppRoot, loc.ConfigRoot

	if within(ec.DestRoot, ec.ConfigRoot) {
		return nil, errors.Newf(errors.ErrInvalidInput, "destination %s is inside the configuration tree %s", ec.DestRoot, ec.ConfigRoot)
	}

	services, err := w.opts.Discoverer.Discover(ctx, ec.AppName, loc)
	if err != nil {
		return nil, err
	}
	res.Services = services
	w.opts.Progress.Step(StateDiscover, fmt.Sprintf("found %d service(s) for %s", len(services), ec.AppName))
	return services, nil
}

func (w *Workflow) enter(res *Result, state State, message string) {
	res.State = state
	w.opts.Progress.Step(state, message)
}

func (w *Workflow) observer(done *[]string, action string) systemd.Observer {
	return func(a, unit string, err error) {
		if err == nil && a == action {
			*done = append(*done, unit)
		}
		w.opts.Progress.Service(a, unit, err)
	}
}

func stoppedServices(services []types.Service, stopped []string) []types.Service {
	done := make(map[string]bool, len(stopped))
	for _, name := range stopped {
		done[name] = true
	}
	var out []types.Service
	for _, svc := range services {
		if done[svc.Name] {
			out = append(out, svc)
		}
	}
	return out
}

func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
