package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yllada/windscribe-client/vpn"
)

func newLoginCmd(d *deps) *cobra.Command {
	var (
		username      string
		prompt        bool
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Windscribe account",
		Long: `Log in to the Windscribe account.

Missing credentials are taken from the environment (WINDSCRIBE_USER and
WINDSCRIBE_PW by default) and then from the system keyring when
credentials.use_keyring is enabled. Nothing is stored by this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := vpn.Credentials{Username: username}

			if passwordStdin {
				pw, err := readFirstLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading password from stdin: %w", err)
				}
				creds.Password = pw
			}
			if prompt {
				if creds.Username == "" {
					u, err := d.prompt.ReadLine("Username: ")
					if err != nil {
						return err
					}
					creds.Username = u
				}
				if creds.Password == "" {
					pw, err := d.prompt.ReadSecret("Password: ")
					if err != nil {
						return err
					}
					creds.Password = pw
				}
			}

			return d.with(func(rt *runtime) error {
				ok, err := rt.client.Login(cmd.Context(), creds)
				if err != nil {
					return explain(err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Already logged in.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().BoolVarP(&prompt, "prompt", "p", false, "ask for missing credentials on the terminal")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")
	cmd.MarkFlagsMutuallyExclusive("prompt", "password-stdin")
	return cmd
}

func newLogoutCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the Windscribe account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.with(func(rt *runtime) error {
				ok, err := rt.client.Logout(cmd.Context())
				if err != nil {
					return explain(err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
}
