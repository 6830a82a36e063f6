package commands

import (
	"fmt"

	"parislib/cmd/parislib-cli/globals"
	"parislib/pkg/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var docbase *string

func init() {
	docbase = availabilityCmd.Flags().String("docbase", catalog.DefaultDocbase, "The docbase of the record, as listed by `books`.")
	rootCmd.AddCommand(availabilityCmd)
}

func renderHoldings(cmd *cobra.Command, g *globals.Value, libraries []catalog.LibraryHolding) {
	now := g.Time.Now()

	t := newTable(cmd)
	t.AppendHeader(table.Row{"Library", "Cote", "Section", "Status", "Available", "Back in"})
	for _, l := range libraries {
		t.AppendRow(table.Row{
			l.Name,
			l.Cote,
			l.Section,
			l.Statut,
			yesNo(l.IsAvailable),
			backIn(now, l.WhenBack),
		})
	}
	t.Render()
}

var availabilityCmd = &cobra.Command{
	Use:   "availability <record id> [--docbase <docbase>]",
	Short: "Shows which libraries hold a book and whether it is on the shelf.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		record, err := g.Client.GetBookAvailability(cmd.Context(), args[0], *docbase)
		if err != nil {
			return err
		}
		if g.Json {
			return printJson(cmd, record)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s, %s (%d)\nisbn %s\n", record.Title, record.AuthorName, record.YearOfPublication, record.Isbn)
		renderHoldings(cmd, g, record.Libraries)
		return nil
	},
}
