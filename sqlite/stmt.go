package sqlite

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/nsqlite/tsqlite/sqliteh"
)

// Stmt is a prepared statement. It owns its native handle and borrows the
// Conn that prepared it, so it must be finalized before that Conn can be
// closed.
type Stmt struct {
	conn      *Conn
	native    sqliteh.Stmt
	query     string
	tail      string
	columns   []string
	declTypes []string

	// gen changes on every step, reset and finalize. Rows remember the value
	// they were created with and refuse to read once it moved on.
	gen       uint64
	stepped   bool
	finalized bool
	// rows counts the rows produced since the statement was last reset;
	// current is set while the last step produced a row.
	rows    int
	current bool
}

// Prepare compiles the first SQL statement in query.
//
// https://www.sqlite.org/c3ref/prepare.html
func (conn *Conn) Prepare(query string) (*Stmt, error) {
	if err := conn.checkOpen(OpPrepare); err != nil {
		return nil, err
	}

	native, tail, code := conn.db.Prepare(query)
	if code != sqliteh.SQLITE_OK {
		err := conn.errorFor(OpPrepare, code, query)
		err.Message = msgPrepare
		return nil, err
	}
	if native == nil {
		return nil, &Error{
			Op:       OpPrepare,
			Code:     sqliteh.SQLITE_MISUSE,
			Message:  msgPrepare,
			Filename: conn.Filename(),
			SQL:      query,
			Err:      ErrEmptyQuery,
		}
	}

	count := native.ColumnCount()
	stmt := &Stmt{
		conn:      conn,
		native:    native,
		query:     query,
		tail:      tail,
		columns:   make([]string, count),
		declTypes: make([]string, count),
	}
	for i := 0; i < count; i++ {
		stmt.columns[i] = native.ColumnName(i)
		stmt.declTypes[i] = native.ColumnDeclType(i)
	}

	conn.live.Add(1)
	runtime.SetFinalizer(stmt, (*Stmt).release)
	return stmt, nil
}

// release is the finalizer of unreachable statements.
func (stmt *Stmt) release() {
	if !stmt.finalized {
		stmt.native.Finalize()
		stmt.finalized = true
		stmt.conn.live.Add(-1)
	}
}

// Finalize destroys the prepared statement. Finalizing twice is a no-op.
// Every other method of a finalized statement fails with ErrFinalized.
//
// sqlite3_finalize repeats the error of the last failed step, which Step
// already reported, so only SQLITE_MISUSE is surfaced here.
//
// https://www.sqlite.org/c3ref/finalize.html
func (stmt *Stmt) Finalize() error {
	if stmt.finalized {
		return nil
	}
	code := stmt.native.Finalize()
	stmt.finalized = true
	stmt.gen++
	stmt.conn.live.Add(-1)
	runtime.SetFinalizer(stmt, nil)

	if code.Primary() == sqliteh.SQLITE_MISUSE {
		return &Error{Op: OpFinalize, Code: sqliteh.SQLITE_MISUSE, SQL: stmt.query, Filename: stmt.conn.path}
	}
	return nil
}

// IsFinalized reports whether Finalize ran.
func (stmt *Stmt) IsFinalized() bool {
	return stmt.finalized
}

func (stmt *Stmt) checkLive(op Op) error {
	if stmt.finalized {
		return misuse(op, ErrFinalized, stmt.query)
	}
	return stmt.conn.checkOpen(op)
}

// Conn returns the connection that prepared the statement.
func (stmt *Stmt) Conn() *Conn {
	return stmt.conn
}

// Query returns the query text given to Prepare.
func (stmt *Stmt) Query() string {
	return stmt.query
}

// Tail returns the part of the query after the compiled statement, to be
// prepared next when the query holds several statements.
func (stmt *Stmt) Tail() string {
	return stmt.tail
}

// SQL returns the text of the compiled statement.
//
// https://www.sqlite.org/c3ref/expanded_sql.html
func (stmt *Stmt) SQL() string {
	stmt.mustLive()
	return stmt.native.SQL()
}

// ExpandedSQL returns the statement text with bound parameters expanded.
func (stmt *Stmt) ExpandedSQL() string {
	stmt.mustLive()
	return stmt.native.ExpandedSQL()
}

// ReadOnly reports whether the statement makes no direct changes to the
// database file.
//
// https://www.sqlite.org/c3ref/stmt_readonly.html
func (stmt *Stmt) ReadOnly() bool {
	stmt.mustLive()
	return stmt.native.Readonly()
}

// ColumnCount returns the number of result columns. It is zero for
// statements that return no data.
func (stmt *Stmt) ColumnCount() int {
	stmt.mustLive()
	return len(stmt.columns)
}

// mustLive guards the accessors that have no error result.
func (stmt *Stmt) mustLive() {
	if stmt.finalized {
		panic("sqlite: use of finalized statement")
	}
}

func (stmt *Stmt) mustColumn(index int) {
	stmt.mustLive()
	if index < 0 || index >= len(stmt.columns) {
		panic(fmt.Sprintf("sqlite: column index %d out of range [0, %d)", index, len(stmt.columns)))
	}
}

// ColumnName returns the name of the result column at index. It panics if
// index is not in [0, ColumnCount()).
func (stmt *Stmt) ColumnName(index int) string {
	stmt.mustColumn(index)
	return stmt.columns[index]
}

// ColumnNames returns the names of all result columns.
func (stmt *Stmt) ColumnNames() []string {
	stmt.mustLive()
	return append([]string(nil), stmt.columns...)
}

// ColumnDeclType returns the declared type of the table column behind the
// result column at index, or "" for expressions.
func (stmt *Stmt) ColumnDeclType(index int) string {
	stmt.mustColumn(index)
	return stmt.declTypes[index]
}

// ColumnAffinity returns the affinity of the declared type at index.
func (stmt *Stmt) ColumnAffinity(index int) TypeAffinity {
	return AffinityOf(stmt.ColumnDeclType(index))
}

// ColumnIndex returns the index of the first result column named name,
// compared case-insensitively, or -1.
func (stmt *Stmt) ColumnIndex(name string) int {
	stmt.mustLive()
	for i, column := range stmt.columns {
		if column == name {
			return i
		}
	}
	for i, column := range stmt.columns {
		if strings.EqualFold(column, name) {
			return i
		}
	}
	return -1
}

// ParamCount returns the number of SQL parameters.
func (stmt *Stmt) ParamCount() int {
	stmt.mustLive()
	return stmt.native.BindParameterCount()
}

// Bind binds value to the 1-based parameter index. Text and blob values are
// copied by SQLite before Bind returns. Binding is only possible before the
// first Step or after Reset. A failed bind leaves the statement usable.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) Bind(index int, value Value) error {
	if err := stmt.checkLive(OpBind); err != nil {
		return err
	}
	if stmt.stepped {
		return misuse(OpBind, ErrBindAfterStep, stmt.query)
	}

	var code sqliteh.Code
	switch value.kind {
	case kindNull:
		code = stmt.native.BindNull(index)
	case kindInteger:
		code = stmt.native.BindInt64(index, value.i)
	case kindReal:
		code = stmt.native.BindDouble(index, value.f)
	case kindText:
		code = stmt.native.BindText(index, value.s)
	case kindBlob:
		code = stmt.native.BindBlob(index, value.b)
	case kindZeroBlob:
		code = stmt.native.BindZeroBlob(index, int(value.i))
	}

	if code != sqliteh.SQLITE_OK {
		err := stmt.conn.errorFor(OpBind, code, stmt.query)
		err.Message = fmt.Sprintf("parameter %d", index)
		return err
	}
	return nil
}

// BindAll binds values to parameters 1 through len(values).
func (stmt *Stmt) BindAll(values ...Value) error {
	for i, value := range values {
		if err := stmt.Bind(i+1, value); err != nil {
			return err
		}
	}
	return nil
}

// BindNamed binds value to the parameter called name. The name may carry
// its prefix (":id", "@id", "$id") or omit it ("id").
//
// https://www.sqlite.org/c3ref/bind_parameter_index.html
func (stmt *Stmt) BindNamed(name string, value Value) error {
	if err := stmt.checkLive(OpBind); err != nil {
		return err
	}
	index := stmt.paramIndex(name)
	if index == 0 {
		return &Error{
			Op:       OpBind,
			Code:     sqliteh.SQLITE_RANGE,
			Message:  fmt.Sprintf("no parameter named %q", name),
			SQL:      stmt.query,
			Filename: stmt.conn.Filename(),
		}
	}
	return stmt.Bind(index, value)
}

func (stmt *Stmt) paramIndex(name string) int {
	if name == "" {
		return 0
	}
	if strings.ContainsRune(":@$?", rune(name[0])) {
		return stmt.native.BindParameterIndex(name)
	}
	for _, prefix := range []string{":", "@", "$", "?"} {
		if index := stmt.native.BindParameterIndex(prefix + name); index > 0 {
			return index
		}
	}
	return 0
}

// ClearBindings sets every parameter back to NULL.
//
// https://www.sqlite.org/c3ref/clear_bindings.html
func (stmt *Stmt) ClearBindings() error {
	if err := stmt.checkLive(OpBind); err != nil {
		return err
	}
	if code := stmt.native.ClearBindings(); code != sqliteh.SQLITE_OK {
		return stmt.conn.errorFor(OpBind, code, stmt.query)
	}
	return nil
}

// Reset rewinds the statement so that it can be stepped, and bound, again.
// Bindings are kept. Rows of the previous run become invalid. When the last
// step failed, Reset reports that failure again.
//
// https://www.sqlite.org/c3ref/reset.html
func (stmt *Stmt) Reset() error {
	if err := stmt.checkLive(OpReset); err != nil {
		return err
	}
	stmt.gen++
	stmt.stepped = false
	stmt.rows = 0
	stmt.current = false
	if code := stmt.native.Reset(); !code.IsSuccess() {
		return stmt.conn.errorFor(OpReset, code, stmt.query)
	}
	return nil
}

// Step evaluates the statement up to the next row. It returns true when a
// row is available and false once the statement completed.
//
// https://www.sqlite.org/c3ref/step.html
func (stmt *Stmt) Step() (bool, error) {
	if err := stmt.checkLive(OpStep); err != nil {
		return false, err
	}
	stmt.stepped = true
	stmt.gen++
	stmt.current = false

	switch code := stmt.native.Step(); code {
	case sqliteh.SQLITE_ROW:
		stmt.rows++
		stmt.current = true
		return true, nil
	case sqliteh.SQLITE_DONE:
		stmt.rows = 0
		return false, nil
	default:
		return false, stmt.conn.errorFor(OpStep, code, stmt.query)
	}
}

// Row returns a view of the row produced by the last call to Step, or nil
// when that call produced no row. Its index counts the rows produced since
// the statement was prepared or reset.
func (stmt *Stmt) Row() *Row {
	if stmt.finalized || !stmt.current {
		return nil
	}
	return &Row{stmt: stmt, index: stmt.rows - 1, gen: stmt.gen}
}
