package genconfig

import (
	"fmt"

	"github.com/arthur-debert/cfgmigrate/pkg/config"
	"github.com/spf13/cobra"
)

// NewCommand creates the gen-config command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "gen-config",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultConfigContent())
			return err
		},
	}
}
