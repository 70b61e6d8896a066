package shell

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/tsqlite/internal/styled"
	"github.com/nsqlite/tsqlite/internal/util/numutil"
)

func (s *Shell) cmdStats(arg string) {
	statsQty := 5
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			fmt.Fprintln(s.out, "Usage: .stats [minutes], minutes must be a positive number")
			return
		}
		statsQty = n
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Minute (UTC)", "Reads", "Writes", "Begins", "Commits", "Rollbacks", "Errors", "All"})

	rows := []table.Row{}
	for _, stat := range s.stats.Last(statsQty) {
		rows = append(rows, statRow(stat.Minute.Format("2006-01-02 15:04"), stat.Stat))
	}
	slices.Reverse(rows)
	tw.AppendRows(rows)
	tw.AppendFooter(statRow("Total", s.stats.Total()))

	fmt.Fprintln(s.out, tw.Render())
	styled.DimmedColor().Fprintf(s.out, "Showing the last %d minutes with activity\n", statsQty)
	styled.DimmedColor().Fprintf(s.out, "Uptime: %s\n", s.stats.Uptime().Round(time.Second))
	styled.DimmedColor().Fprintf(s.out, "Total changes: %s\n", numutil.IntWithCommas(s.conn.TotalChanges()))
	fmt.Fprintln(s.out)
}

func statRow(label string, stat Stat) table.Row {
	return table.Row{
		label,
		numutil.IntWithCommas(stat.Read),
		numutil.IntWithCommas(stat.Write),
		numutil.IntWithCommas(stat.Begin),
		numutil.IntWithCommas(stat.Commit),
		numutil.IntWithCommas(stat.Rollback),
		numutil.IntWithCommas(stat.Error),
		numutil.IntWithCommas(stat.All),
	}
}
