package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nsqlite/tsqlite/sqliteh"
)

// Op names the category of operation that produced an Error.
type Op string

const (
	OpOpen     Op = "open"
	OpClose    Op = "close"
	OpPrepare  Op = "prepare"
	OpBind     Op = "bind"
	OpStep     Op = "step"
	OpRead     Op = "read"
	OpFinalize Op = "finalize"
	OpReset    Op = "reset"
	OpExec     Op = "exec"
)

// Fixed diagnostic messages for the two failures that leave no usable object.
const (
	msgOpen    = "Unable to initialize connection."
	msgPrepare = "Unable to initialize statement."
)

var (
	// ErrOpen means SQLite could not allocate a connection handle at all.
	ErrOpen = errors.New("unable to initialize connection")
	// ErrClosed is returned by every operation on a closed Conn.
	ErrClosed = errors.New("connection is closed")
	// ErrFinalized is returned by every operation on a finalized Stmt except
	// Finalize itself.
	ErrFinalized = errors.New("statement is finalized")
	// ErrRowExpired is returned when a Row is read after its statement
	// stepped, reset or was finalized.
	ErrRowExpired = errors.New("row is no longer current")
	// ErrOutOfRange is returned for a column index outside [0, ColumnCount).
	ErrOutOfRange = errors.New("column index out of range")
	// ErrBindAfterStep is returned when binding a statement that already
	// started stepping without a Reset in between.
	ErrBindAfterStep = errors.New("cannot bind after the statement started stepping")
	// ErrLiveStatements is returned by Close while statements prepared on the
	// connection are still unfinalized.
	ErrLiveStatements = errors.New("connection has unfinalized statements")
	// ErrMismatch is returned by decoders given a value of the wrong storage
	// class.
	ErrMismatch = errors.New("value type mismatch")
	// ErrForeignStatement is returned when a statement is used with a
	// connection other than the one that prepared it.
	ErrForeignStatement = errors.New("statement belongs to another connection")
	// ErrEmptyQuery is returned by Prepare when the query holds only
	// whitespace or comments.
	ErrEmptyQuery = errors.New("query contains no statement")
)

// Error is the single error type produced by this package. Code holds the
// primary SQLite result code and ExtendedCode the extended one when extended
// result codes are enabled on the connection.
type Error struct {
	Op           Op
	Code         sqliteh.Code
	ExtendedCode sqliteh.Code
	// Message is a fixed description of the failure, if any.
	Message string
	// Detail is the message reported by SQLite (sqlite3_errmsg).
	Detail   string
	Filename string
	SQL      string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("failed to ")
	b.WriteString(string(e.Op))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Code != sqliteh.SQLITE_OK {
		b.WriteString(": ")
		if e.ExtendedCode != sqliteh.SQLITE_OK && e.ExtendedCode != e.Code {
			b.WriteString(e.ExtendedCode.String())
		} else {
			b.WriteString(e.Code.String())
		}
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.SQL != "" {
		fmt.Fprintf(&b, " (sql %q)", e.SQL)
	}
	if e.Filename != "" {
		fmt.Fprintf(&b, " (file %q)", e.Filename)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sqliteh.Code targets against both the primary and the extended
// result code.
func (e *Error) Is(target error) bool {
	code, ok := target.(sqliteh.Code)
	if !ok {
		return false
	}
	if code == e.Code {
		return true
	}
	return e.ExtendedCode != sqliteh.SQLITE_OK && code == e.ExtendedCode
}

// CodeOf returns the primary SQLite result code carried by err. A nil error
// yields SQLITE_OK and an error that carries no code yields SQLITE_ERROR.
func CodeOf(err error) sqliteh.Code {
	if err == nil {
		return sqliteh.SQLITE_OK
	}
	var sqliteErr *Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code != sqliteh.SQLITE_OK {
		return sqliteErr.Code
	}
	var code sqliteh.Code
	if errors.As(err, &code) {
		return code.Primary()
	}
	return sqliteh.SQLITE_ERROR
}

// misuse builds an Error for API misuse detected before reaching SQLite.
func misuse(op Op, sentinel error, sql string) *Error {
	code := sqliteh.SQLITE_MISUSE
	if sentinel == ErrOutOfRange {
		code = sqliteh.SQLITE_RANGE
	}
	return &Error{Op: op, Code: code, SQL: sql, Err: sentinel}
}
