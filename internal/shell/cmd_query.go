package shell

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/tsqlite/internal/styled"
	"github.com/nsqlite/tsqlite/internal/util/numutil"
	"github.com/nsqlite/tsqlite/sqlite"
)

// runSQL runs every statement of input in order and stops at the first
// failure.
func (s *Shell) runSQL(input string) {
	rest := input
	for rest != "" {
		stmt, err := s.conn.Prepare(rest)
		if errors.Is(err, sqlite.ErrEmptyQuery) {
			return
		}
		if err != nil {
			s.stats.IncErrors()
			s.printError(err)
			return
		}
		rest = stmt.Tail()

		kind := classify(stmt)
		err = s.runStmt(stmt, kind)
		_ = stmt.Finalize()
		if err != nil {
			s.stats.IncErrors()
			s.printError(err)
			return
		}
		s.stats.Record(kind)
	}
}

// runStmt executes stmt and prints its rows, or its effect when it returns
// no columns.
func (s *Shell) runStmt(stmt *sqlite.Stmt, kind stmtKind) error {
	start := time.Now()

	if stmt.ColumnCount() == 0 {
		if err := s.conn.Execute(stmt, func(*sqlite.Row) error { return nil }); err != nil {
			return err
		}
		s.printEffect(stmt, kind)
		return nil
	}

	rows := []table.Row{}
	err := s.conn.Execute(stmt, func(row *sqlite.Row) error {
		values, err := row.Values()
		if err != nil {
			return err
		}
		rows = append(rows, cells(values))
		return nil
	}, sqlite.WithLimit(s.conf.MaxRows))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	truncated := len(rows) > s.conf.MaxRows
	if truncated {
		rows = rows[:s.conf.MaxRows]
	}

	header := table.Row{}
	for _, name := range stmt.ColumnNames() {
		header = append(header, name)
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	fmt.Fprintln(s.out, tw.Render())

	if truncated {
		styled.DimmedColor().Fprintf(s.out, "Showing the first %s rows, use --max-rows to see more\n",
			numutil.IntWithCommas(s.conf.MaxRows))
		return nil
	}
	styled.DimmedColor().Fprintf(s.out, "%s rows in %s\n",
		numutil.IntWithCommas(len(rows)), elapsed.Round(time.Microsecond))
	return nil
}

func (s *Shell) printEffect(stmt *sqlite.Stmt, kind stmtKind) {
	tw := styled.NewTableWriter()

	switch {
	case kind == kindBegin:
		tw.AppendHeader(table.Row{"OK"})
		tw.AppendRow(table.Row{"Transaction started"})
	case kind == kindCommit:
		tw.AppendHeader(table.Row{"OK"})
		tw.AppendRow(table.Row{"Transaction committed"})
	case kind == kindRollback:
		tw.AppendHeader(table.Row{"OK"})
		tw.AppendRow(table.Row{"Transaction rolled back"})
	case isDML(stmt):
		tw.AppendHeader(table.Row{"-", "Rows Affected", "Last Insert ID"})
		tw.AppendRow(table.Row{"OK", s.conn.Changes(), s.conn.LastInsertRowID()})
	default:
		tw.AppendHeader(table.Row{"OK"})
		tw.AppendRow(table.Row{"OK"})
	}

	fmt.Fprintln(s.out, tw.Render())
}

func cells(values []sqlite.Value) table.Row {
	row := make(table.Row, len(values))
	for i, value := range values {
		if value.IsNull() {
			row[i] = styled.DimmedColor().Sprint("NULL")
			continue
		}
		row[i] = value.String()
	}
	return row
}
