package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version of this program and of the windscribe CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "windscribe-client %s\n", version)

			return d.with(func(rt *runtime) error {
				v, err := rt.client.Version(cmd.Context())
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: unavailable (%v)\n", rt.client.Binary(), err)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", rt.client.Binary(), v)
				return nil
			})
		},
	}
}
