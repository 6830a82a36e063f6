package commands

import (
	"encoding/json"
	"strconv"
	"time"

	"parislib/internal/components/chrono"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(cmd.OutOrStdout())
	return t
}

func printJson(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// backIn formats how long until a borrowed copy is returned.
func backIn(now time.Time, whenBack *time.Time) string {
	if whenBack == nil {
		return ""
	}
	days := chrono.DaysUntil(now, *whenBack)
	switch {
	case days < 0:
		return "overdue " + strconv.Itoa(-days) + "d"
	case days == 0:
		return "today"
	default:
		return strconv.Itoa(days) + "d"
	}
}
