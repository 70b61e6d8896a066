package export

import (
	"fmt"
	"time"

	"github.com/nsqlite/tsqlite/sqlite"
)

// Result holds statistics about a finished export.
type Result struct {
	Columns []string
	Rows    int64
	Elapsed time.Duration
}

// Run executes query on conn and streams its rows into enc. A positive limit
// caps the number of exported rows. The encoder is flushed but not closed.
func Run(conn *sqlite.Conn, query string, enc RowEncoder, limit int) (Result, error) {
	start := time.Now()

	stmt, err := conn.Prepare(query)
	if err != nil {
		return Result{}, err
	}
	defer stmt.Finalize()

	result := Result{Columns: stmt.ColumnNames()}
	if len(result.Columns) == 0 {
		return Result{}, fmt.Errorf("statement returns no columns: %s", stmt.SQL())
	}
	if err := enc.WriteHeader(result.Columns); err != nil {
		return Result{}, fmt.Errorf("failed to write header: %w", err)
	}

	var opts []sqlite.ExecuteOption
	if limit > 0 {
		opts = append(opts, sqlite.WithLimit(limit-1))
	}
	err = conn.Execute(stmt, func(row *sqlite.Row) error {
		values, err := row.Values()
		if err != nil {
			return err
		}
		if err := enc.WriteRow(values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row.Index(), err)
		}
		result.Rows++
		return nil
	}, opts...)
	if err != nil {
		return Result{}, err
	}

	if err := enc.Flush(); err != nil {
		return Result{}, fmt.Errorf("failed to flush %d rows: %w", result.Rows, err)
	}
	if err := enc.Error(); err != nil {
		return Result{}, err
	}

	result.Elapsed = time.Since(start)
	return result, nil
}
