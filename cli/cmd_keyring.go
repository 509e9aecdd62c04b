package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yllada/windscribe-client/keyring"
)

func newKeyringCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage the credentials stored in the system keyring",
		Long: `Manage the credentials stored in the system keyring.

Login reads them only when credentials.use_keyring is enabled in the
config file, after explicit flags and the environment.`,
	}

	cmd.AddCommand(
		newKeyringSetCmd(d),
		newKeyringDeleteCmd(d),
		newKeyringStatusCmd(d),
	)
	return cmd
}

func newKeyringSetCmd(d *deps) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a username and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				u, err := d.prompt.ReadLine("Username: ")
				if err != nil {
					return err
				}
				username = u
			}

			var password string
			var err error
			if passwordStdin {
				password, err = readFirstLine(cmd.InOrStdin())
			} else {
				password, err = d.prompt.ReadSecret("Password: ")
			}
			if err != nil {
				return err
			}

			return d.with(func(rt *runtime) error {
				if err := rt.store.Save(username, password); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Credentials saved.")
				if !rt.cfg.Credentials.UseKeyring {
					fmt.Fprintln(cmd.OutOrStdout(), "Note: set credentials.use_keyring to true so login uses them.")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")
	return cmd
}

func newKeyringDeleteCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.with(func(rt *runtime) error {
				if err := rt.store.Delete(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Credentials removed.")
				return nil
			})
		},
	}
}

func newKeyringStatusCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether credentials are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.with(func(rt *runtime) error {
				user, err := rt.store.Username()
				if err != nil {
					if errors.Is(err, keyring.ErrNotFound) {
						fmt.Fprintln(cmd.OutOrStdout(), "No credentials stored.")
						return nil
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored credentials for %s.\n", user)
				return nil
			})
		},
	}
}
