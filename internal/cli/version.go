package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wallacegibbon/skillclaw/internal/config"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "skillclaw version %s\n", config.Version)
		},
	}
}
