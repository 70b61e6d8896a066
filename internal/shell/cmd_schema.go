package shell

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/tsqlite/internal/styled"
	"github.com/nsqlite/tsqlite/sqlite"
)

// queryTable runs query with args and prints its rows.
func (s *Shell) queryTable(query string, args ...sqlite.Value) {
	stmt, err := s.conn.Prepare(query)
	if err != nil {
		s.printError(err)
		return
	}
	defer stmt.Finalize()

	if err := stmt.BindAll(args...); err != nil {
		s.printError(err)
		return
	}
	if err := s.runStmt(stmt, kindRead); err != nil {
		s.printError(err)
	}
}

func (s *Shell) cmdTables() {
	s.queryTable(`
		SELECT name, type FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
}

func (s *Shell) cmdIndexes() {
	s.queryTable(`
		SELECT name, tbl_name AS "table" FROM sqlite_master
		WHERE type = 'index'
		ORDER BY tbl_name, name
	`)
}

// cmdSchema prints the CREATE statements of every object, or only of those
// belonging to tableName.
func (s *Shell) cmdSchema(tableName string) {
	filter := sqlite.Null()
	if tableName != "" {
		filter = sqlite.Text(tableName)
	}

	statements, err := sqlite.Query(s.conn, `
		SELECT sql FROM sqlite_master
		WHERE sql IS NOT NULL AND (?1 IS NULL OR tbl_name = ?1)
		ORDER BY tbl_name, CASE type WHEN 'table' THEN 0 ELSE 1 END, name
	`, func(row *sqlite.Row) (string, error) {
		return row.Text(0)
	}, filter)
	if err != nil {
		s.printError(err)
		return
	}

	if len(statements) == 0 {
		styled.DimmedColor().Fprintln(s.out, "No schema found")
		return
	}
	for _, statement := range statements {
		fmt.Fprintf(s.out, "%s;\n", statement)
	}
}

type columnInfo struct {
	cid        int64
	name       string
	declType   string
	notNull    bool
	defaultVal sqlite.Value
	pk         int64
}

// cmdColumns lists the columns of tableName with the affinity their
// declared type yields.
func (s *Shell) cmdColumns(tableName string) {
	if tableName == "" {
		fmt.Fprintln(s.out, "Usage: .columns [table_name]")
		return
	}

	columns, err := sqlite.Query(s.conn, `
		SELECT cid, name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(?1)
		ORDER BY cid
	`, func(row *sqlite.Row) (columnInfo, error) {
		values, err := row.Values()
		if err != nil {
			return columnInfo{}, err
		}
		cid, _ := values[0].Int64()
		name, _ := values[1].Text()
		declType, _ := values[2].Text()
		notNull, _ := values[3].Int64()
		pk, _ := values[5].Int64()
		return columnInfo{
			cid:        cid,
			name:       name,
			declType:   declType,
			notNull:    notNull == 1,
			defaultVal: values[4],
			pk:         pk,
		}, nil
	}, sqlite.Text(tableName))
	if err != nil {
		s.printError(err)
		return
	}

	if len(columns) == 0 {
		fmt.Fprintf(s.out, "Table %s not found\n", tableName)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"#", "Name", "Type", "Affinity", "Not Null", "Default", "Primary Key"})
	for _, col := range columns {
		def := ""
		if !col.defaultVal.IsNull() {
			def = col.defaultVal.String()
		}
		pk := ""
		if col.pk > 0 {
			pk = fmt.Sprintf("%d", col.pk)
		}
		tw.AppendRow(table.Row{
			col.cid,
			col.name,
			col.declType,
			sqlite.AffinityOf(col.declType).String(),
			col.notNull,
			def,
			pk,
		})
	}
	fmt.Fprintln(s.out, tw.Render())
}

func (s *Shell) cmdCount(tableName string) {
	if tableName == "" {
		fmt.Fprintln(s.out, "Usage: .count [table_name]")
		return
	}
	s.queryTable(fmt.Sprintf("SELECT COUNT(*) AS count FROM %s", quoteIdent(tableName)))
}
