// Package cli provides the command-line interface of the windscribe client.
// Each subcommand maps onto one operation of vpn.Client.
package cli

import (
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
}

// NewRootCmd builds the command tree backed by the real external client.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newDeps(loadRuntime, terminalPrompter{}))
}

func newRootCmd(d *deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "windscribe-client",
		Short:         "Drive the Windscribe command line client",
		Long:          "windscribe-client runs the windscribe CLI for you: it logs in, lists\nlocations, connects and reports the tunnel state with typed errors.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVarP(&d.opts.configPath, "config", "c", "", "config file (default ~/.config/windscribe-client/config.yaml)")
	flags.StringVar(&d.opts.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	flags.StringVar(&d.opts.binary, "binary", "", "override the configured windscribe binary")
	flags.BoolVar(&d.opts.noNotify, "no-notify", false, "disable desktop notifications")

	root.AddCommand(
		newVersionCmd(d),
		newLoginCmd(d),
		newLogoutCmd(d),
		newLocationsCmd(d),
		newConnectCmd(d),
		newPickCmd(d),
		newDisconnectCmd(d),
		newStatusCmd(d),
		newAccountCmd(d),
		newKeyringCmd(d),
	)

	return root
}
