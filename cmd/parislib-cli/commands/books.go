package commands

import (
	"fmt"

	"parislib/cmd/parislib-cli/globals"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(booksCmd)
}

var booksCmd = &cobra.Command{
	Use:   "books <author id>",
	Short: "Lists the physical books of an author, use `authors` to find the id.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		result, err := g.Client.SearchBooksFromAuthor(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if g.Json {
			return printJson(cmd, result)
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Record", "Docbase", "Title", "Publisher"})
		for _, b := range result.Results {
			t.AppendRow(table.Row{b.RscId, b.Docbase, b.Title, b.Publisher})
		}
		// page counts include the filtered out digital editions
		t.AppendFooter(table.Row{fmt.Sprintf("page %d/%d", result.Page, result.PageMax)})
		t.Render()
		return nil
	},
}
