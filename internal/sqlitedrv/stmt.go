package sqlitedrv

import (
	"context"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"

	"github.com/nsqlite/tsqlite/sqlite"
)

var (
	_ driver.Stmt                           = (*Stmt)(nil)
	_ driver.StmtExecContext                = (*Stmt)(nil)
	_ driver.StmtQueryContext               = (*Stmt)(nil)
	_ driver.Rows                           = (*Rows)(nil)
	_ driver.RowsColumnTypeDatabaseTypeName = (*Rows)(nil)
)

// Stmt implements the database/sql/driver.Stmt interface.
type Stmt struct {
	conn *Conn
	stmt *sqlite.Stmt
}

// Close finalizes the statement.
func (s *Stmt) Close() error {
	return s.stmt.Finalize()
}

// NumInput returns the number of parameters.
func (s *Stmt) NumInput() int {
	return s.stmt.ParamCount()
}

// Exec runs the statement with positional arguments.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.ExecContext(context.Background(), valuesToNamed(args))
}

// Query runs the statement with positional arguments.
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.QueryContext(context.Background(), valuesToNamed(args))
}

// ExecContext runs the statement to completion, discarding any rows.
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	if err := s.bind(args); err != nil {
		return nil, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hasRow, err := s.stmt.Step()
		if err != nil {
			return nil, err
		}
		if !hasRow {
			break
		}
	}
	return s.conn.result(), nil
}

// QueryContext runs the statement and returns its rows.
func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	return s.query(ctx, args)
}

func (s *Stmt) query(ctx context.Context, args []driver.NamedValue) (*Rows, error) {
	if err := s.bind(args); err != nil {
		return nil, err
	}
	return &Rows{ctx: ctx, stmt: s}, nil
}

// bind rewinds the statement and binds args, by name when they carry one.
func (s *Stmt) bind(args []driver.NamedValue) error {
	// Reset repeats the error of a failed previous run, already reported.
	_ = s.stmt.Reset()
	if err := s.stmt.ClearBindings(); err != nil {
		return err
	}

	for _, arg := range args {
		value, err := sqlite.ValueOf(arg.Value)
		if err != nil {
			return fmt.Errorf("failed to convert argument %d: %w", arg.Ordinal, err)
		}
		if arg.Name != "" {
			err = s.stmt.BindNamed(arg.Name, value)
		} else {
			err = s.stmt.Bind(arg.Ordinal, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func valuesToNamed(args []driver.Value) []driver.NamedValue {
	named := make([]driver.NamedValue, len(args))
	for i, arg := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: arg}
	}
	return named
}

// Rows implements the database/sql/driver.Rows interface.
type Rows struct {
	ctx  context.Context
	stmt *Stmt
	// ownsStmt is set for rows of Conn.QueryContext, whose statement is
	// finalized by Close.
	ownsStmt bool
	done     bool
}

// Columns returns the result column names.
func (r *Rows) Columns() []string {
	return r.stmt.stmt.ColumnNames()
}

// ColumnTypeDatabaseTypeName returns the declared type of column index in
// upper case, or "" for expressions.
func (r *Rows) ColumnTypeDatabaseTypeName(index int) string {
	return strings.ToUpper(r.stmt.stmt.ColumnDeclType(index))
}

// Next reads the next row into dest.
func (r *Rows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	if err := r.ctx.Err(); err != nil {
		return err
	}

	hasRow, err := r.stmt.stmt.Step()
	if err != nil {
		return err
	}
	if !hasRow {
		r.done = true
		return io.EOF
	}

	row := r.stmt.stmt.Row()
	for i := range dest {
		value, err := row.Read(i)
		if err != nil {
			return err
		}
		dest[i] = value.Any()
	}
	return nil
}

// Close releases the rows, finalizing the statement when the rows own it.
func (r *Rows) Close() error {
	if r.ownsStmt {
		return r.stmt.Close()
	}
	_ = r.stmt.stmt.Reset()
	return nil
}
