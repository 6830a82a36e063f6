package commands

import (
	"fmt"

	"parislib/cmd/parislib-cli/globals"
	"parislib/lib/htmlutil"

	"github.com/spf13/cobra"
)

var rawAddress *bool

func init() {
	rawAddress = addressCmd.Flags().Bool("raw", false, "Print the address text as found on the page, without collapsing whitespace.")
	rootCmd.AddCommand(addressCmd)
}

var addressCmd = &cobra.Command{
	Use:   "address <library page url>",
	Short: "Prints the address published on a library page, as linked by `availability`.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		address, found, err := g.Client.GetLibraryAddress(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !*rawAddress {
			address = htmlutil.CollapseWhitespace(address)
		}
		if g.Json {
			return printJson(cmd, map[string]any{"found": found, "address": address})
		}
		if !found {
			fmt.Fprintln(cmd.ErrOrStderr(), "no address published on this page")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), address)
		return nil
	},
}
