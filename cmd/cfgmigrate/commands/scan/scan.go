package scan

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the scan command. The root command fills in RunE.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scan <dir>",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "inspect",
		Args:    cobra.ExactArgs(1),
	}

	cmd.Flags().String("format", "", "Output format: auto, term, text or json")
	cmd.Flags().Int64("max-file-size", 0, "Skip files larger than this many bytes (default from config)")

	return cmd
}
