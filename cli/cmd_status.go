package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yllada/windscribe-client/output"
	"github.com/yllada/windscribe-client/ui"
)

func newStatusCmd(d *deps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the tunnel state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.with(func(rt *runtime) error {
				st, err := rt.client.Status(cmd.Context())
				if err != nil {
					return explain(err)
				}
				if asJSON {
					return writeJSON(cmd, st)
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderStatus(st))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newLocationsCmd(d *deps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "locations [filter]",
		Short: "List the locations available to the account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter string
			if len(args) > 0 {
				filter = strings.ToLower(args[0])
			}

			return d.with(func(rt *runtime) error {
				locations, err := rt.client.Locations(cmd.Context())
				if err != nil {
					return explain(err)
				}

				if filter != "" {
					kept := locations[:0]
					for _, loc := range locations {
						if strings.Contains(strings.ToLower(loc.String()), filter) {
							kept = append(kept, loc)
						}
					}
					locations = kept
				}

				if asJSON {
					return writeJSON(cmd, locations)
				}
				printLocations(cmd, locations, filter)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printLocations(cmd *cobra.Command, locations []output.Location, filter string) {
	if len(locations) == 0 {
		if filter != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching locations.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No locations available.")
		}
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LOCATION\tSHORT\tCITY\tLABEL")
	fmt.Fprintln(w, "--------\t-----\t----\t-----")
	for _, loc := range locations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", loc.Name, loc.Abbreviation, loc.City, loc.Label)
	}
	w.Flush()
}

func newAccountCmd(d *deps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show the account details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.with(func(rt *runtime) error {
				info, err := rt.client.Account(cmd.Context())
				if err != nil {
					return explain(err)
				}
				if asJSON {
					return writeJSON(cmd, info)
				}
				printAccount(cmd, info)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// summaryKeys are the field keys already folded into AccountInfo.
var summaryKeys = map[string]bool{
	"username": true, "user": true,
	"plan": true, "plan_type": true, "account_type": true,
	"data_usage": true, "data_used": true, "usage": true,
	"data_limit": true, "bandwidth": true,
	"reset_date": true, "resets": true, "expiry_date": true, "expires": true,
}

func printAccount(cmd *cobra.Command, info output.AccountInfo) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	known := []struct{ label, value string }{
		{"Username", info.Username},
		{"Plan", info.Plan},
		{"Data usage", info.DataUsage},
		{"Data limit", info.DataLimit},
		{"Reset date", info.ResetDate},
	}
	for _, f := range known {
		if f.value != "" {
			fmt.Fprintf(w, "%s:\t%s\n", f.label, f.value)
		}
	}

	// Remaining fields in a stable order.
	keys := make([]string, 0, len(info.Fields))
	for k := range info.Fields {
		if !summaryKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s:\t%s\n", strings.ReplaceAll(k, "_", " "), info.Fields[k])
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
