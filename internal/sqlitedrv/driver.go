// Package sqlitedrv provides a database/sql/driver implementation on top of
// the sqlite package, registered under the name "tsqlite".
//
// It exists to take advantage of the connection pooling and the Scan
// conversions of database/sql. Code that needs typed values or borrowed row
// views should use the sqlite package directly, reachable through Conn.Raw.
package sqlitedrv

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/nsqlite/tsqlite/sqlite"
)

// DriverName is the name the driver is registered under.
const DriverName = "tsqlite"

func init() {
	sql.Register(DriverName, &Driver{})
}

var (
	_ driver.Driver             = (*Driver)(nil)
	_ driver.DriverContext      = (*Driver)(nil)
	_ driver.Connector          = (*Connector)(nil)
	_ driver.Conn               = (*Conn)(nil)
	_ driver.ConnPrepareContext = (*Conn)(nil)
	_ driver.ConnBeginTx        = (*Conn)(nil)
	_ driver.ExecerContext      = (*Conn)(nil)
	_ driver.QueryerContext     = (*Conn)(nil)
	_ driver.NamedValueChecker  = (*Conn)(nil)
	_ driver.Validator          = (*Conn)(nil)
	_ driver.SessionResetter    = (*Conn)(nil)
)

// Driver implements the database/sql/driver interface.
type Driver struct{}

// Open opens a new connection to the database at dsn.
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	return NewConnector(dsn).Connect(context.Background())
}

// OpenConnector returns a Connector for dsn.
func (d *Driver) OpenConnector(dsn string) (driver.Connector, error) {
	return NewConnector(dsn), nil
}

type connectorOption func(*Connector)

// WithPostConnectQueries sets queries to be executed after every connection
// is established.
func WithPostConnectQueries(queries []string) connectorOption {
	return func(connector *Connector) {
		connector.options = append(connector.options, sqlite.WithPostConnectQueries(queries...))
	}
}

// WithOptions passes options to sqlite.Open for every connection.
func WithOptions(options ...sqlite.Option) connectorOption {
	return func(connector *Connector) {
		connector.options = append(connector.options, options...)
	}
}

// Connector implements the database/sql/driver.Connector interface.
type Connector struct {
	dsn     string
	options []sqlite.Option
}

// NewConnector creates a connector to the database at dsn.
func NewConnector(dsn string, options ...connectorOption) *Connector {
	connector := &Connector{
		dsn: dsn,
	}

	for _, option := range options {
		option(connector)
	}

	return connector
}

// Connect opens a new connection.
func (connector *Connector) Connect(_ context.Context) (driver.Conn, error) {
	conn, err := sqlite.Open(connector.dsn, connector.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	return &Conn{conn: conn}, nil
}

// Driver returns the driver.
func (connector *Connector) Driver() driver.Driver {
	return &Driver{}
}

// Conn implements the database/sql/driver.Conn interface.
type Conn struct {
	conn *sqlite.Conn
}

// Raw returns the underlying sqlite connection. Use it inside
// (*sql.Conn).Raw only.
func (conn *Conn) Raw() *sqlite.Conn {
	return conn.conn
}

// Close closes the connection.
func (conn *Conn) Close() error {
	if err := conn.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// Prepare prepares query.
func (conn *Conn) Prepare(query string) (driver.Stmt, error) {
	return conn.PrepareContext(context.Background(), query)
}

// PrepareContext prepares query.
func (conn *Conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stmt, err := conn.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &Stmt{conn: conn, stmt: stmt}, nil
}

// Begin starts a transaction.
func (conn *Conn) Begin() (driver.Tx, error) {
	return conn.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx starts a deferred transaction. Only the default and serializable
// isolation levels are accepted.
func (conn *Conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sql.IsolationLevel(opts.Isolation) != sql.LevelDefault &&
		sql.IsolationLevel(opts.Isolation) != sql.LevelSerializable {
		return nil, fmt.Errorf("unsupported isolation level %s", sql.IsolationLevel(opts.Isolation))
	}

	if err := conn.conn.Exec("BEGIN"); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{conn: conn}, nil
}

// ExecContext runs query. Without arguments the query may hold several
// statements.
func (conn *Conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		if err := conn.conn.Exec(query); err != nil {
			return nil, err
		}
		return conn.result(), nil
	}

	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	return stmt.(*Stmt).ExecContext(ctx, args)
}

// QueryContext runs query and returns its rows. The statement is finalized
// when the rows are closed.
func (conn *Conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	s := stmt.(*Stmt)
	rows, err := s.query(ctx, args)
	if err != nil {
		s.Close()
		return nil, err
	}
	rows.ownsStmt = true
	return rows, nil
}

// CheckNamedValue accepts every Go type sqlite.ValueOf understands and lets
// database/sql convert the others.
func (conn *Conn) CheckNamedValue(nv *driver.NamedValue) error {
	if _, err := sqlite.ValueOf(nv.Value); err != nil {
		if errors.Is(err, sqlite.ErrMismatch) {
			return driver.ErrSkip
		}
		return err
	}
	return nil
}

// ResetSession reports a closed connection as bad so database/sql drops it.
func (conn *Conn) ResetSession(_ context.Context) error {
	if conn.conn.IsClosed() {
		return driver.ErrBadConn
	}
	return nil
}

// IsValid reports whether the connection is still open.
func (conn *Conn) IsValid() bool {
	return !conn.conn.IsClosed()
}

func (conn *Conn) result() driver.Result {
	return &Result{
		lastInsertID: conn.conn.LastInsertRowID(),
		rowsAffected: conn.conn.Changes(),
	}
}

// Tx implements the database/sql/driver.Tx interface.
type Tx struct {
	conn *Conn
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	if err := tx.conn.conn.Exec("COMMIT"); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls the transaction back.
func (tx *Tx) Rollback() error {
	if err := tx.conn.conn.Exec("ROLLBACK"); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Result implements the database/sql/driver.Result interface.
type Result struct {
	lastInsertID int64
	rowsAffected int64
}

// LastInsertId returns the rowid of the last inserted row.
func (r *Result) LastInsertId() (int64, error) {
	return r.lastInsertID, nil
}

// RowsAffected returns the number of rows changed by the statement.
func (r *Result) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}
