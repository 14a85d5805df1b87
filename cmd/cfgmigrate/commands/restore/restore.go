package restore

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the restore command. The root command fills in RunE.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "restore",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
	}

	cmd.Flags().StringP("dest", "d", "", MsgFlagDest)
	cmd.Flags().StringP("symlink-map", "m", "", MsgFlagSymlinkMap)
	cmd.Flags().String("format", "", "Output format: auto, term, text or json")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}
