// Package sqlite is a typed access layer over the SQLite C library.
//
// A Conn owns one native connection handle and a Stmt owns one prepared
// statement handle. Rows handed out while executing a statement are borrowed
// views: they become invalid as soon as the statement steps again, resets or
// is finalized, and reading an invalid Row fails with ErrRowExpired instead of
// touching stale native state.
//
// None of the types in this package are safe for concurrent use. Use a Pool
// to give each goroutine its own Conn.
package sqlite

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/nsqlite/tsqlite/sqlitec"
	"github.com/nsqlite/tsqlite/sqliteh"
)

// Option configures Open.
type Option func(*options)

type options struct {
	readOnly           bool
	extendedCodes      bool
	vfs                string
	postConnectQueries []string
	lib                sqliteh.Library
}

// WithReadOnly opens the database read-only and never creates it.
func WithReadOnly() Option {
	return func(o *options) {
		o.readOnly = true
	}
}

// WithExtendedErrorCodes enables extended result codes right after opening.
func WithExtendedErrorCodes() Option {
	return func(o *options) {
		o.extendedCodes = true
	}
}

// WithVFS selects the SQLite VFS by name.
func WithVFS(name string) Option {
	return func(o *options) {
		o.vfs = name
	}
}

// WithPostConnectQueries sets queries to be executed after the connection is
// established, such as PRAGMA statements.
func WithPostConnectQueries(queries ...string) Option {
	return func(o *options) {
		o.postConnectQueries = append(o.postConnectQueries, queries...)
	}
}

// WithLibrary replaces the linked SQLite library, mostly for tests.
func WithLibrary(lib sqliteh.Library) Option {
	return func(o *options) {
		o.lib = lib
	}
}

// Conn is a connection to a SQLite database.
type Conn struct {
	lib      sqliteh.Library
	db       sqliteh.DB
	path     string
	extended bool
	closed   bool
	// live counts statements prepared on this connection and not finalized.
	// Statement finalizers decrement it from the finalizer goroutine.
	live atomic.Int32
}

// Open opens the database at path, creating it unless WithReadOnly is given.
// The path may be a file: URI.
//
// https://www.sqlite.org/c3ref/open.html
func Open(path string, opts ...Option) (*Conn, error) {
	o := options{lib: sqlitec.Default}
	for _, opt := range opts {
		opt(&o)
	}

	flags := sqliteh.SQLITE_OPEN_CREATE | sqliteh.SQLITE_OPEN_READWRITE
	if o.readOnly {
		flags = sqliteh.SQLITE_OPEN_READONLY
	}
	flags |= sqliteh.SQLITE_OPEN_FULLMUTEX | sqliteh.SQLITE_OPEN_URI

	db, code := o.lib.Open(path, flags, o.vfs)
	if db == nil {
		return nil, &Error{
			Op:       OpOpen,
			Code:     code.Primary(),
			Message:  msgOpen,
			Filename: path,
			Err:      ErrOpen,
		}
	}
	if code != sqliteh.SQLITE_OK {
		err := &Error{
			Op:           OpOpen,
			Code:         code.Primary(),
			ExtendedCode: db.ExtendedErrCode(),
			Detail:       db.ErrMsg(),
			Filename:     path,
		}
		db.Close()
		return nil, err
	}

	conn := &Conn{lib: o.lib, db: db, path: path}
	runtime.SetFinalizer(conn, (*Conn).release)

	if o.extendedCodes {
		if err := conn.SetExtendedErrorCodes(true); err != nil {
			conn.Close()
			return nil, err
		}
	}

	for _, query := range o.postConnectQueries {
		if err := conn.Exec(query); err != nil {
			conn.Close()
			return nil, fmt.Errorf(`failed to execute "%s" post-connect query: %w`, query, err)
		}
	}

	return conn, nil
}

// OpenLocation opens the database described by loc.
func OpenLocation(loc Location, opts ...Option) (*Conn, error) {
	return Open(loc.String(), opts...)
}

// release is the finalizer of unreachable connections. Unreachable statements
// keep their Conn reachable, so they are always released first.
func (conn *Conn) release() {
	if !conn.closed {
		conn.db.Close()
		conn.closed = true
	}
}

// Close closes the connection. Closing an already closed connection is a
// no-op. Close refuses to run while statements prepared on this connection
// are not finalized, and leaves the connection open in that case.
//
// https://www.sqlite.org/c3ref/close.html
func (conn *Conn) Close() error {
	if conn.closed {
		return nil
	}
	if live := conn.live.Load(); live > 0 {
		return &Error{
			Op:       OpClose,
			Code:     sqliteh.SQLITE_BUSY,
			Filename: conn.path,
			Err:      fmt.Errorf("%w: %d open", ErrLiveStatements, live),
		}
	}
	if code := conn.db.Close(); code != sqliteh.SQLITE_OK {
		return conn.errorFor(OpClose, code, "")
	}
	conn.closed = true
	runtime.SetFinalizer(conn, nil)
	return nil
}

// IsClosed reports whether Close succeeded.
func (conn *Conn) IsClosed() bool {
	return conn.closed
}

func (conn *Conn) checkOpen(op Op) error {
	if conn.closed {
		return &Error{Op: op, Code: sqliteh.SQLITE_MISUSE, Filename: conn.path, Err: ErrClosed}
	}
	return nil
}

// errorFor builds an Error from a failing result code and the diagnostic
// state of the connection.
func (conn *Conn) errorFor(op Op, code sqliteh.Code, sql string) *Error {
	err := &Error{
		Op:       op,
		Code:     code.Primary(),
		Detail:   conn.db.ErrMsg(),
		Filename: conn.Filename(),
		SQL:      sql,
	}
	if conn.extended {
		err.ExtendedCode = conn.db.ExtendedErrCode()
		if err.ExtendedCode == sqliteh.SQLITE_OK {
			err.ExtendedCode = code
		}
	}
	return err
}

// CheckResult converts a result code into an error. SQLITE_OK, SQLITE_ROW
// and SQLITE_DONE are successes; any other code yields an *Error carrying
// the current SQLite error message and the database filename.
func (conn *Conn) CheckResult(code sqliteh.Code) error {
	if code.IsSuccess() {
		return nil
	}
	if conn.closed {
		return &Error{Op: OpExec, Code: code.Primary(), Filename: conn.path}
	}
	return conn.errorFor(OpExec, code, "")
}

// SetExtendedErrorCodes toggles extended result codes for this connection.
//
// https://www.sqlite.org/c3ref/extended_result_codes.html
func (conn *Conn) SetExtendedErrorCodes(on bool) error {
	if err := conn.checkOpen(OpExec); err != nil {
		return err
	}
	if err := conn.CheckResult(conn.db.ExtendedResultCodes(on)); err != nil {
		return err
	}
	conn.extended = on
	return nil
}

// ExtendedErrorCodes reports whether extended result codes are enabled.
func (conn *Conn) ExtendedErrorCodes() bool {
	return conn.extended
}

// IsReadOnly reports whether the main database is read-only.
//
// https://www.sqlite.org/c3ref/db_readonly.html
func (conn *Conn) IsReadOnly() bool {
	if conn.closed {
		return false
	}
	return conn.db.Readonly("main") == 1
}

// LastInsertRowID returns the rowid of the most recent successful INSERT.
//
// https://www.sqlite.org/c3ref/last_insert_rowid.html
func (conn *Conn) LastInsertRowID() int64 {
	if conn.closed {
		return 0
	}
	return conn.db.LastInsertRowid()
}

// Changes returns the number of rows modified by the most recently
// completed INSERT, UPDATE or DELETE.
//
// https://www.sqlite.org/c3ref/changes.html
func (conn *Conn) Changes() int64 {
	if conn.closed {
		return 0
	}
	return conn.db.Changes()
}

// TotalChanges returns the number of rows modified since the connection
// was opened.
//
// https://www.sqlite.org/c3ref/total_changes.html
func (conn *Conn) TotalChanges() int64 {
	if conn.closed {
		return 0
	}
	return conn.db.TotalChanges()
}

// InTransaction reports whether a transaction is open. It follows the
// engine, so a transaction rolled back by SQLite itself reads as closed.
//
// https://www.sqlite.org/c3ref/get_autocommit.html
func (conn *Conn) InTransaction() bool {
	if conn.closed {
		return false
	}
	return !conn.db.GetAutocommit()
}

// Filename returns the absolute path of the main database file, or the path
// given to Open for in-memory and temporary databases.
//
// https://www.sqlite.org/c3ref/db_filename.html
func (conn *Conn) Filename() string {
	if conn.closed {
		return conn.path
	}
	if name := conn.db.Filename("main"); name != "" {
		return name
	}
	return conn.path
}

// IsThreadSafe reports whether the SQLite build behind this connection is
// thread-safe.
func (conn *Conn) IsThreadSafe() bool {
	return conn.lib.Threadsafe()
}

// IsThreadSafe reports whether the linked SQLite library was compiled to be
// thread-safe. It is a property of the build, not of any connection.
//
// https://www.sqlite.org/c3ref/threadsafe.html
func IsThreadSafe() bool {
	return sqlitec.Default.Threadsafe()
}

// LibVersion returns the version of the linked SQLite library.
func LibVersion() string {
	return sqlitec.Default.Version()
}

// Exec runs every statement in script to completion, discarding rows.
func (conn *Conn) Exec(script string) error {
	if err := conn.checkOpen(OpExec); err != nil {
		return err
	}

	rest := script
	for rest != "" {
		native, tail, code := conn.db.Prepare(rest)
		if code != sqliteh.SQLITE_OK {
			err := conn.errorFor(OpExec, code, rest)
			err.Message = msgPrepare
			return err
		}
		if native == nil {
			if tail == rest {
				break
			}
			rest = tail
			continue
		}

		for {
			code = native.Step()
			if code != sqliteh.SQLITE_ROW {
				break
			}
		}
		if code != sqliteh.SQLITE_DONE {
			err := conn.errorFor(OpExec, code, native.SQL())
			native.Finalize()
			return err
		}
		native.Finalize()
		rest = tail
	}

	return nil
}
