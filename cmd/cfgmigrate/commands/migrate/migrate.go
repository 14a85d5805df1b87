package migrate

import (
	"github.com/spf13/cobra"
)

// Flag names
const (
	FlagDest       = "dest"
	FlagDir        = "dir"
	FlagSymlinkMap = "symlink-map"
	FlagDryRun     = "dry-run"
	FlagFormat     = "format"
)

// NewCommand creates the migrate command. The root command fills in RunE.
func NewCommand(long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate <app>",
		Short:   MsgShort,
		Long:    long,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
	}

	cmd.Flags().StringP(FlagDest, "d", "", MsgFlagDest)
	cmd.Flags().String(FlagDir, "", MsgFlagDir)
	cmd.Flags().StringP(FlagSymlinkMap, "m", "", MsgFlagSymlinkMap)
	cmd.Flags().BoolP(FlagDryRun, "n", false, MsgFlagDryRun)
	cmd.Flags().String(FlagFormat, "", MsgFlagFormat)
	_ = cmd.MarkFlagRequired(FlagDest)
	_ = cmd.MarkFlagDirname(FlagDest)
	_ = cmd.MarkFlagDirname(FlagDir)

	return cmd
}
