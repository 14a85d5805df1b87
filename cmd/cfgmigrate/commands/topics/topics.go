package topics

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the topics command. It is the same as `help topics`.
func NewCommand(help *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgShort,
		Long:    MsgLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			help.SetOut(cmd.OutOrStdout())
			help.Run(help, []string{"topics"})
		},
	}
}
