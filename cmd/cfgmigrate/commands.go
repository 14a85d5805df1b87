package cfgmigrate

import (
	migratecmd "github.com/arthur-debert/cfgmigrate/cmd/cfgmigrate/commands/migrate"
	"github.com/arthur-debert/cfgmigrate/cmd/cfgmigrate/commands/restore"
	"github.com/arthur-debert/cfgmigrate/cmd/cfgmigrate/commands/scan"
	"github.com/arthur-debert/cfgmigrate/cmd/cfgmigrate/commands/services"
	"github.com/arthur-debert/cfgmigrate/pkg/config"
	"github.com/arthur-debert/cfgmigrate/pkg/logging"
	"github.com/arthur-debert/cfgmigrate/pkg/migrate"
	"github.com/arthur-debert/cfgmigrate/pkg/symlinkmap"
	"github.com/arthur-debert/cfgmigrate/pkg/tunables"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/arthur-debert/cfgmigrate/pkg/ui"
	"github.com/arthur-debert/cfgmigrate/pkg/ui/display"
	"github.com/spf13/cobra"
)

// render writes result to stdout in the requested format and passes err
// through so the process exits non-zero. Without a result, only JSON output
// gets an error object; other formats leave the error to main.
func render(cmd *cobra.Command, format ui.Format, result interface{}, err error) error {
	out := cmd.OutOrStdout()
	if result == nil && ui.Resolve(format, out) != ui.FormatJSON {
		return err
	}
	r, rerr := ui.NewRenderer(format, out)
	if rerr != nil {
		return rerr
	}
	if result == nil {
		if err != nil {
			_ = r.RenderError(err)
		}
		return err
	}
	if rerr := r.RenderResult(result); rerr != nil {
		return rerr
	}
	return err
}

func newMigrateCmd(s *session) *cobra.Command {
	cmd := migratecmd.NewCommand(MsgMigrateLong)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cli.migrate")
		flags := cmd.Flags()
		destFlag, _ := flags.GetString(migratecmd.FlagDest)
		dir, _ := flags.GetString(migratecmd.FlagDir)
		mapFlag, _ := flags.GetString(migratecmd.FlagSymlinkMap)
		dryRun, _ := flags.GetBool(migratecmd.FlagDryRun)
		formatFlag, _ := flags.GetString(migratecmd.FlagFormat)

		format, err := s.format(formatFlag)
		if err != nil {
			return err
		}
		dest, err := s.abs(destFlag)
		if err != nil {
			return err
		}
		mapPath, err := s.symlinkMap(mapFlag)
		if err != nil {
			return err
		}
		if dir, err = s.abs(dir); err != nil {
			return err
		}

		manager, closeManager, err := s.manager()
		if err != nil {
			return render(cmd, format, nil, err)
		}
		defer closeManager()

		discoverer, err := s.discoverer(manager)
		if err != nil {
			return render(cmd, format, nil, err)
		}

		ec := types.NewExecutionContext(args[0], dest, mapPath).
			WithExplicitDir(dir).
			WithDryRun(dryRun)
		logging.LogCommand(logger, "migrate", args)

		workflow := migrate.New(migrate.Options{
			FS:                 s.rt.FS,
			Manager:            manager,
			Locator:            s.locator(),
			Discoverer:         discoverer,
			Privileges:         s.rt.Privileges,
			Clock:              s.rt.Clock,
			Progress:           ui.NewProgress(format, cmd.ErrOrStderr()),
			ScanTunables:       s.cfg.Tunables.Enabled,
			MaxTunableFileSize: s.cfg.Tunables.MaxFileSize,
		})

		result, err := workflow.Run(cmd.Context(), ec)
		return render(cmd, format, result, err)
	}
	return cmd
}

func newRestoreCmd(s *session) *cobra.Command {
	cmd := restore.NewCommand()
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		destFlag, _ := flags.GetString("dest")
		mapFlag, _ := flags.GetString("symlink-map")
		formatFlag, _ := flags.GetString("format")

		format, err := s.format(formatFlag)
		if err != nil {
			return err
		}
		dest, err := s.abs(destFlag)
		if err != nil {
			return err
		}
		mapPath, err := s.symlinkMap(mapFlag)
		if err != nil {
			return err
		}

		report, err := symlinkmap.Restore(s.rt.FS, dest, mapPath)
		if err != nil {
			return render(cmd, format, nil, err)
		}
		return render(cmd, format, display.NewRestoreSummary(dest, mapPath, report), nil)
	}
	return cmd
}

func newServicesCmd(s *session) *cobra.Command {
	cmd := services.NewCommand()
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		formatFlag, _ := cmd.Flags().GetString("format")

		format, err := s.format(formatFlag)
		if err != nil {
			return err
		}
		if dir, err = s.abs(dir); err != nil {
			return err
		}

		loc, err := s.locator().Locate(args[0], dir)
		if err != nil {
			return render(cmd, format, nil, err)
		}

		manager, closeManager, err := s.manager()
		if err != nil {
			return render(cmd, format, nil, err)
		}
		defer closeManager()

		discoverer, err := s.discoverer(manager)
		if err != nil {
			return render(cmd, format, nil, err)
		}
		found, err := discoverer.Discover(cmd.Context(), args[0], loc)
		if err != nil {
			return render(cmd, format, nil, err)
		}

		strategy := s.cfg.Discovery.Strategy
		if strategy == "" {
			strategy = config.StrategySubstring
		}
		return render(cmd, format, &display.ServiceList{
			App:      args[0],
			AppRoot:  loc.AppRoot,
			Strategy: strategy,
			Services: found,
		}, nil)
	}
	return cmd
}

func newScanCmd(s *session) *cobra.Command {
	cmd := scan.NewCommand()
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		maxSize, _ := cmd.Flags().GetInt64("max-file-size")

		format, err := s.format(formatFlag)
		if err != nil {
			return err
		}
		root, err := s.abs(args[0])
		if err != nil {
			return err
		}
		if maxSize <= 0 {
			maxSize = s.cfg.Tunables.MaxFileSize
		}

		report, err := tunables.NewScanner(s.rt.FS, maxSize).Scan(root)
		if err != nil {
			return render(cmd, format, nil, err)
		}
		return render(cmd, format, report, nil)
	}
	return cmd
}
