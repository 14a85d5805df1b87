package cfgmigrate

import (
	"fmt"

	"github.com/arthur-debert/cfgmigrate/cmd/cfgmigrate/commands/genconfig"
	topicscmd "github.com/arthur-debert/cfgmigrate/cmd/cfgmigrate/commands/topics"
	"github.com/arthur-debert/cfgmigrate/internal/version"
	"github.com/arthur-debert/cfgmigrate/pkg/cobrax/topics"
	"github.com/arthur-debert/cfgmigrate/pkg/config"
	"github.com/arthur-debert/cfgmigrate/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command wired to the real system
func NewRootCmd() *cobra.Command {
	return NewRootCmdWith(DefaultRuntime())
}

// NewRootCmdWith creates the root command with the given runtime
func NewRootCmdWith(rt Runtime) *cobra.Command {
	s := &session{rt: rt}

	rootCmd := &cobra.Command{
		Use:     "cfgmigrate",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(s.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			cfg, err := config.Load(config.DefaultLoadOptions(s.configFile))
			if err != nil {
				return fmt.Errorf(MsgErrLoadConfig, err)
			}
			s.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&s.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&s.configFile, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "COMMANDS:"},
		&cobra.Group{ID: "inspect", Title: "INSPECT:"},
		&cobra.Group{ID: "misc", Title: "MISC:"},
	)

	rootCmd.AddCommand(newMigrateCmd(s))
	rootCmd.AddCommand(newRestoreCmd(s))
	rootCmd.AddCommand(newServicesCmd(s))
	rootCmd.AddCommand(newScanCmd(s))
	rootCmd.AddCommand(genconfig.NewCommand())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	_, err := topics.InitializeWithOptions(rootCmd, TopicsFS(), topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	} else if help, _, err := rootCmd.Find([]string{"help"}); err == nil {
		rootCmd.AddCommand(topicscmd.NewCommand(help))
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(cfgmigrate completion bash)

Zsh:
  $ cfgmigrate completion zsh > "${fpath[1]}/_cfgmigrate"

Fish:
  $ cfgmigrate completion fish | source

PowerShell:
  PS> cfgmigrate completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
