package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/ui"
	"github.com/yllada/windscribe-client/vpn"
)

func newConnectCmd(d *deps) *cobra.Command {
	var random bool

	cmd := &cobra.Command{
		Use:   "connect [label]",
		Short: "Connect to a location (best location by default)",
		Long: `Connect to a location.

Without arguments the windscribe CLI picks the best location. A label is
the last column of 'windscribe-client locations', e.g. "CA Toronto"; words
are joined so quoting is optional.`,
		Example: `  windscribe-client connect
  windscribe-client connect CA Toronto
  windscribe-client connect --random`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := vpn.Best()
			switch {
			case random && len(args) > 0:
				return errors.New("--random does not take a label")
			case random:
				sel = vpn.Random()
			case len(args) > 0:
				sel = vpn.ByLabel(strings.Join(args, " "))
			}

			return d.with(func(rt *runtime) error {
				return connect(cmd, rt, sel)
			})
		},
	}

	cmd.Flags().BoolVarP(&random, "random", "r", false, "connect to a random location")
	return cmd
}

func newPickCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose a location interactively and connect to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.with(func(rt *runtime) error {
				locations, err := rt.client.Locations(cmd.Context())
				if err != nil {
					return explain(err)
				}

				loc, err := rt.pick(cmd.Context(), locations, ui.PickOptions{})
				if errors.Is(err, ui.ErrCanceled) {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing selected.")
					return nil
				}
				if err != nil {
					return err
				}
				return connect(cmd, rt, vpn.ByLocation(loc))
			})
		},
	}
}

func connect(cmd *cobra.Command, rt *runtime, sel vpn.LocationSelector) error {
	ctx := cmd.Context()
	common.LogDebug("Connecting to %s", sel)
	rt.notifier.NotifyConnecting(ctx, sel.String())

	if err := rt.client.Connect(ctx, sel); err != nil {
		rt.notifier.NotifyError(ctx, "Connection Error", err)
		return explain(err)
	}

	rt.notifier.NotifyConnected(ctx, sel.String())
	fmt.Fprintf(cmd.OutOrStdout(), "Connected (%s).\n", sel)
	return nil
}

func newDisconnectCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the tunnel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.with(func(rt *runtime) error {
				if err := rt.client.Disconnect(cmd.Context()); err != nil {
					return explain(err)
				}
				rt.notifier.NotifyDisconnected(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Disconnected.")
				return nil
			})
		},
	}
}
