package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wallacegibbon/skillclaw/internal/memory"
)

func newMemoryCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect the long-term memory file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the remembered facts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := memory.Open(st.settings.MemoryFile)
			if err != nil {
				return err
			}
			if file == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No memory file at %s; run 'skillclaw memory init' to enable memory.\n", st.settings.MemoryFile)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), file.Content())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create an empty memory file so sessions start remembering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := memory.Create(st.settings.MemoryFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Memory enabled in %s\n", file.Path())
			return nil
		},
	})

	return cmd
}
