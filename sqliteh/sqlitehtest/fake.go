// Package sqlitehtest provides a scriptable, in-memory implementation of the
// sqliteh interfaces. Every native call is appended to a shared Log so tests
// can assert on exact call order without a real SQLite build.
package sqlitehtest

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/nsqlite/tsqlite/sqliteh"
)

var (
	_ sqliteh.Library = (*Library)(nil)
	_ sqliteh.DB      = (*DB)(nil)
	_ sqliteh.Stmt    = (*Stmt)(nil)
)

// Log is an append-only record of native calls.
type Log struct {
	mu    sync.Mutex
	calls []string
}

func (l *Log) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the recorded calls.
func (l *Log) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// Reset forgets every recorded call.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}

// Count returns how many recorded calls start with prefix.
func (l *Log) Count(prefix string) int {
	n := 0
	for _, c := range l.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Result scripts what a prepared query produces.
//
// Row values must be int64, float64, string, []byte or nil; they select the
// storage class reported by ColumnType.
type Result struct {
	Columns   []string
	DeclTypes []string
	Rows      [][]any
	Params    []string
	Readonly  bool

	// PrepareCode, when not OK, makes Prepare fail with PrepareMsg.
	PrepareCode sqliteh.Code
	PrepareMsg  string
	// StepCode, when not OK, is returned by the step that would have produced
	// the row at StepCodeAt.
	StepCode   sqliteh.Code
	StepCodeAt int
	StepMsg    string
	// ReadCode is returned next to every typed column value.
	ReadCode sqliteh.Code
	// Changes is reported by DB.Changes after the statement completes.
	Changes int64
}

// Library is a fake sqliteh.Library.
type Library struct {
	Log *Log

	// OpenCode is returned by Open. NoHandle makes Open return a nil DB.
	OpenCode   sqliteh.Code
	OpenMsg    string
	NoHandle   bool
	ThreadSafe bool
	// Results maps query text to its scripted result. Unknown queries
	// prepare fine and complete without rows.
	Results map[string]*Result

	Opened    []*DB
	LastFlags sqliteh.OpenFlags
	LastVFS   string
}

// New returns a Library with an empty log and no scripted results.
func New() *Library {
	return &Library{
		Log:        &Log{},
		ThreadSafe: true,
		Results:    map[string]*Result{},
	}
}

// Script registers the result for query and returns it for further tweaks.
func (lib *Library) Script(query string, columns []string, rows ...[]any) *Result {
	res := &Result{Columns: columns, Rows: rows, Readonly: true}
	lib.Results[query] = res
	return res
}

func (lib *Library) Open(filename string, flags sqliteh.OpenFlags, vfs string) (sqliteh.DB, sqliteh.Code) {
	lib.Log.add("open %s %s", filename, flags)
	lib.LastFlags = flags
	lib.LastVFS = vfs
	if lib.NoHandle {
		return nil, sqliteh.SQLITE_NOMEM
	}
	db := &DB{lib: lib, filename: filename, readonly: flags&sqliteh.SQLITE_OPEN_READONLY != 0}
	if lib.OpenCode != sqliteh.SQLITE_OK {
		db.setErr(lib.OpenCode, lib.OpenMsg)
	}
	lib.Opened = append(lib.Opened, db)
	return db, lib.OpenCode
}

func (lib *Library) Threadsafe() bool { return lib.ThreadSafe }

func (lib *Library) Version() string { return "3.0.0-fake" }

// DB is a fake sqliteh.DB.
type DB struct {
	lib      *Library
	filename string
	readonly bool
	extended bool

	closed       bool
	errCode      sqliteh.Code
	errMsg       string
	lastInsertID int64
	changes      int64
	totalChanges int64
	inTx         bool
}

// Closed reports whether Close succeeded.
func (db *DB) Closed() bool { return db.closed }

// SetInTransaction sets the state reported by GetAutocommit.
func (db *DB) SetInTransaction(on bool) { db.inTx = on }

// SetLastInsertRowid sets the value reported by LastInsertRowid.
func (db *DB) SetLastInsertRowid(id int64) { db.lastInsertID = id }

func (db *DB) setErr(code sqliteh.Code, msg string) {
	if !db.extended {
		code = code.Primary()
	}
	db.errCode = code
	db.errMsg = msg
}

func (db *DB) Close() sqliteh.Code {
	db.lib.Log.add("close")
	db.closed = true
	return sqliteh.SQLITE_OK
}

func (db *DB) ErrCode() sqliteh.Code         { return db.errCode.Primary() }
func (db *DB) ExtendedErrCode() sqliteh.Code { return db.errCode }
func (db *DB) ErrMsg() string {
	if db.errMsg == "" {
		return "not an error"
	}
	return db.errMsg
}

func (db *DB) ExtendedResultCodes(on bool) sqliteh.Code {
	db.lib.Log.add("extended_result_codes %t", on)
	db.extended = on
	return sqliteh.SQLITE_OK
}

func (db *DB) Prepare(query string) (sqliteh.Stmt, string, sqliteh.Code) {
	db.lib.Log.add("prepare %s", query)
	if strings.TrimSpace(query) == "" {
		return nil, "", sqliteh.SQLITE_OK
	}
	res, ok := db.lib.Results[query]
	if !ok {
		res = &Result{}
	}
	if res.PrepareCode != sqliteh.SQLITE_OK {
		db.setErr(res.PrepareCode, res.PrepareMsg)
		return nil, "", res.PrepareCode
	}
	return &Stmt{db: db, query: query, res: res, cursor: -1, binds: map[int]any{}}, "", sqliteh.SQLITE_OK
}

func (db *DB) LastInsertRowid() int64 { return db.lastInsertID }
func (db *DB) Changes() int64         { return db.changes }
func (db *DB) TotalChanges() int64    { return db.totalChanges }
func (db *DB) GetAutocommit() bool    { return !db.inTx }

func (db *DB) Readonly(schema string) int {
	if schema != "" && schema != "main" {
		return -1
	}
	if db.readonly {
		return 1
	}
	return 0
}

func (db *DB) Filename(schema string) string {
	if db.filename == ":memory:" {
		return ""
	}
	return db.filename
}

// Stmt is a fake sqliteh.Stmt.
type Stmt struct {
	db        *DB
	query     string
	res       *Result
	cursor    int
	binds     map[int]any
	finalized bool
}

// Bound returns the value bound at the 1-based param index.
func (s *Stmt) Bound(param int) any { return s.binds[param] }

func (s *Stmt) log(format string, args ...any) { s.db.lib.Log.add(format, args...) }

func (s *Stmt) Finalize() sqliteh.Code {
	s.log("finalize")
	s.finalized = true
	return sqliteh.SQLITE_OK
}

func (s *Stmt) Reset() sqliteh.Code {
	s.log("reset")
	s.cursor = -1
	return sqliteh.SQLITE_OK
}

func (s *Stmt) ClearBindings() sqliteh.Code {
	s.log("clear_bindings")
	s.binds = map[int]any{}
	return sqliteh.SQLITE_OK
}

func (s *Stmt) SQL() string { return strings.TrimSpace(s.query) }

func (s *Stmt) ExpandedSQL() string {
	out := s.SQL()
	for i := 1; i <= len(s.res.Params); i++ {
		out = strings.Replace(out, s.res.Params[i-1], fmt.Sprint(s.binds[i]), 1)
	}
	return out
}

func (s *Stmt) Readonly() bool { return s.res.Readonly }

func (s *Stmt) BindParameterCount() int { return len(s.res.Params) }

func (s *Stmt) BindParameterIndex(name string) int {
	for i, p := range s.res.Params {
		if p == name {
			return i + 1
		}
	}
	return 0
}

func (s *Stmt) bind(kind string, param int, value any) sqliteh.Code {
	s.log("bind_%s %d", kind, param)
	if param < 1 || param > len(s.res.Params) {
		s.db.setErr(sqliteh.SQLITE_RANGE, "column index out of range")
		return sqliteh.SQLITE_RANGE
	}
	s.binds[param] = value
	return sqliteh.SQLITE_OK
}

func (s *Stmt) BindNull(param int) sqliteh.Code { return s.bind("null", param, nil) }

func (s *Stmt) BindInt64(param int, value int64) sqliteh.Code {
	return s.bind("int64", param, value)
}

func (s *Stmt) BindDouble(param int, value float64) sqliteh.Code {
	return s.bind("double", param, value)
}

func (s *Stmt) BindText(param int, value string) sqliteh.Code {
	return s.bind("text", param, value)
}

func (s *Stmt) BindBlob(param int, value []byte) sqliteh.Code {
	return s.bind("blob", param, append([]byte{}, value...))
}

func (s *Stmt) BindZeroBlob(param int, n int) sqliteh.Code {
	if n < 0 {
		n = 0
	}
	return s.bind("zeroblob", param, make([]byte, n))
}

func (s *Stmt) Step() sqliteh.Code {
	s.log("step")
	next := s.cursor + 1
	if s.res.StepCode != sqliteh.SQLITE_OK && next == s.res.StepCodeAt {
		s.db.setErr(s.res.StepCode, s.res.StepMsg)
		return s.db.errCode
	}
	if next >= len(s.res.Rows) {
		s.cursor = -1
		s.db.changes = s.res.Changes
		s.db.totalChanges += s.res.Changes
		return sqliteh.SQLITE_DONE
	}
	s.cursor = next
	return sqliteh.SQLITE_ROW
}

func (s *Stmt) ColumnCount() int { return len(s.res.Columns) }

func (s *Stmt) ColumnName(col int) string { return s.res.Columns[col] }

func (s *Stmt) ColumnDeclType(col int) string {
	if col < len(s.res.DeclTypes) {
		return s.res.DeclTypes[col]
	}
	return ""
}

func (s *Stmt) value(col int) any {
	if s.cursor < 0 || s.cursor >= len(s.res.Rows) {
		return nil
	}
	row := s.res.Rows[s.cursor]
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

func (s *Stmt) ColumnType(col int) sqliteh.ColumnType {
	s.log("column_type %d", col)
	switch s.value(col).(type) {
	case int64:
		return sqliteh.SQLITE_INTEGER
	case float64:
		return sqliteh.SQLITE_FLOAT
	case string:
		return sqliteh.SQLITE_TEXT
	case []byte:
		return sqliteh.SQLITE_BLOB
	default:
		return sqliteh.SQLITE_NULL
	}
}

func (s *Stmt) ColumnInt64(col int) (int64, sqliteh.Code) {
	s.log("column_int64 %d", col)
	switch v := s.value(col).(type) {
	case int64:
		return v, s.res.ReadCode
	case float64:
		return int64(v), s.res.ReadCode
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n, s.res.ReadCode
	}
	return 0, s.res.ReadCode
}

func (s *Stmt) ColumnDouble(col int) (float64, sqliteh.Code) {
	s.log("column_double %d", col)
	switch v := s.value(col).(type) {
	case int64:
		return float64(v), s.res.ReadCode
	case float64:
		return v, s.res.ReadCode
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f, s.res.ReadCode
	}
	return 0, s.res.ReadCode
}

func (s *Stmt) ColumnText(col int) (string, sqliteh.Code) {
	s.log("column_text %d", col)
	switch v := s.value(col).(type) {
	case nil:
		return "", s.res.ReadCode
	case string:
		return v, s.res.ReadCode
	case []byte:
		return string(v), s.res.ReadCode
	default:
		return fmt.Sprint(v), s.res.ReadCode
	}
}

func (s *Stmt) ColumnBytes(col int) int {
	s.log("column_bytes %d", col)
	switch v := s.value(col).(type) {
	case string:
		return len(v)
	case []byte:
		return len(v)
	case nil:
		return 0
	default:
		return len(fmt.Sprint(v))
	}
}

func (s *Stmt) ColumnBlob(col int, n int) ([]byte, sqliteh.Code) {
	s.log("column_blob %d", col)
	var src []byte
	switch v := s.value(col).(type) {
	case []byte:
		src = v
	case string:
		src = []byte(v)
	}
	if n > len(src) {
		n = len(src)
	}
	return append([]byte{}, src[:n]...), s.res.ReadCode
}
