package commands

import (
	"parislib/cmd/parislib-cli/globals"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authorsCmd)
}

var authorsCmd = &cobra.Command{
	Use:   "authors <name>",
	Short: "Lists the authors the catalog suggests for a name.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		authors, err := g.Client.SearchAuthors(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if g.Json {
			return printJson(cmd, authors)
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Id", "Author"})
		for _, a := range authors {
			t.AppendRow(table.Row{a.Id, a.Label})
		}
		t.Render()
		return nil
	},
}
