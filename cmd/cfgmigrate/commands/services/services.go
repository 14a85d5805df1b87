package services

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the services command. The root command fills in RunE.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services <app>",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "inspect",
		Args:    cobra.ExactArgs(1),
	}

	cmd.Flags().String("dir", "", "Application directory to use instead of searching the install roots")
	cmd.Flags().String("format", "", "Output format: auto, term, text or json")

	return cmd
}
