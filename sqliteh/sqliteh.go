// Package sqliteh describes the boundary between tsqlite and the SQLite C
// library: the handful of native calls the typed layer needs, expressed as Go
// interfaces, plus the SQLite constants they exchange.
//
// Every method returns raw result codes instead of errors. Turning a code into
// a diagnostic error is the job of the typed layer, which knows the SQL text
// and the database filename involved.
//
//   - https://www.sqlite.org/c3ref/intro.html
package sqliteh

// Library is the process-wide entry point of a SQLite build.
type Library interface {
	// Open is sqlite3_open_v2.
	//
	// An error opening the database can still return a non-nil handle, which
	// must be closed by the caller. A nil handle means SQLite could not even
	// allocate the connection object.
	//
	// https://www.sqlite.org/c3ref/open.html
	Open(filename string, flags OpenFlags, vfs string) (DB, Code)
	// Threadsafe reports sqlite3_threadsafe() != 0, a compile-time property
	// of the library build.
	//
	// https://www.sqlite.org/c3ref/threadsafe.html
	Threadsafe() bool
	// Version is sqlite3_libversion.
	//
	// https://www.sqlite.org/c3ref/libversion.html
	Version() string
}

// DB is an sqlite3* database connection object.
//
// https://www.sqlite.org/c3ref/sqlite3.html
type DB interface {
	// Close is sqlite3_close_v2.
	// https://www.sqlite.org/c3ref/close.html
	Close() Code
	// ErrCode is sqlite3_errcode.
	// https://www.sqlite.org/c3ref/errcode.html
	ErrCode() Code
	// ExtendedErrCode is sqlite3_extended_errcode.
	// https://www.sqlite.org/c3ref/errcode.html
	ExtendedErrCode() Code
	// ErrMsg is sqlite3_errmsg.
	// https://www.sqlite.org/c3ref/errcode.html
	ErrMsg() string
	// ExtendedResultCodes is sqlite3_extended_result_codes.
	// https://www.sqlite.org/c3ref/extended_result_codes.html
	ExtendedResultCodes(on bool) Code
	// Prepare is sqlite3_prepare_v2. It compiles the first statement of query
	// and returns the uncompiled remainder. A nil Stmt with SQLITE_OK means
	// the input held no statement (whitespace or comments only).
	// https://www.sqlite.org/c3ref/prepare.html
	Prepare(query string) (stmt Stmt, tail string, code Code)
	// LastInsertRowid is sqlite3_last_insert_rowid.
	// https://www.sqlite.org/c3ref/last_insert_rowid.html
	LastInsertRowid() int64
	// Changes is sqlite3_changes.
	// https://www.sqlite.org/c3ref/changes.html
	Changes() int64
	// TotalChanges is sqlite3_total_changes.
	// https://www.sqlite.org/c3ref/total_changes.html
	TotalChanges() int64
	// GetAutocommit is sqlite3_get_autocommit. It is false while a
	// transaction is open.
	// https://www.sqlite.org/c3ref/get_autocommit.html
	GetAutocommit() bool
	// Readonly is sqlite3_db_readonly: 1 read-only, 0 read/write, -1 when
	// schema is not attached.
	// https://www.sqlite.org/c3ref/db_readonly.html
	Readonly(schema string) int
	// Filename is sqlite3_db_filename.
	// https://www.sqlite.org/c3ref/db_filename.html
	Filename(schema string) string
}

// Stmt is an sqlite3_stmt* prepared statement object.
//
// https://www.sqlite.org/c3ref/stmt.html
type Stmt interface {
	// Finalize is sqlite3_finalize.
	// https://www.sqlite.org/c3ref/finalize.html
	Finalize() Code
	// Reset is sqlite3_reset.
	// https://www.sqlite.org/c3ref/reset.html
	Reset() Code
	// ClearBindings is sqlite3_clear_bindings.
	// https://www.sqlite.org/c3ref/clear_bindings.html
	ClearBindings() Code
	// SQL is sqlite3_sql.
	// https://www.sqlite.org/c3ref/expanded_sql.html
	SQL() string
	// ExpandedSQL is sqlite3_expanded_sql.
	// https://www.sqlite.org/c3ref/expanded_sql.html
	ExpandedSQL() string
	// Readonly is sqlite3_stmt_readonly.
	// https://www.sqlite.org/c3ref/stmt_readonly.html
	Readonly() bool

	// BindParameterCount is sqlite3_bind_parameter_count.
	// https://www.sqlite.org/c3ref/bind_parameter_count.html
	BindParameterCount() int
	// BindParameterIndex is sqlite3_bind_parameter_index. Zero means no
	// parameter has that name.
	// https://www.sqlite.org/c3ref/bind_parameter_index.html
	BindParameterIndex(name string) int
	// BindNull is sqlite3_bind_null.
	// https://www.sqlite.org/c3ref/bind_blob.html
	BindNull(param int) Code
	// BindInt64 is sqlite3_bind_int64.
	BindInt64(param int, value int64) Code
	// BindDouble is sqlite3_bind_double.
	BindDouble(param int, value float64) Code
	// BindText is sqlite3_bind_text64 with SQLITE_TRANSIENT. Lengths over
	// SQLITE_LIMIT_LENGTH yield SQLITE_TOOBIG.
	BindText(param int, value string) Code
	// BindBlob is sqlite3_bind_blob64 with SQLITE_TRANSIENT. SQLite copies the
	// bytes before returning.
	BindBlob(param int, value []byte) Code
	// BindZeroBlob is sqlite3_bind_zeroblob64. A negative n binds a
	// zero-length blob; n over SQLITE_LIMIT_LENGTH yields SQLITE_TOOBIG.
	BindZeroBlob(param int, n int) Code

	// Step is sqlite3_step. SQLITE_ROW and SQLITE_DONE are the non-error
	// results.
	// https://www.sqlite.org/c3ref/step.html
	Step() Code

	// ColumnCount is sqlite3_column_count.
	// https://www.sqlite.org/c3ref/column_count.html
	ColumnCount() int
	// ColumnName is sqlite3_column_name.
	// https://www.sqlite.org/c3ref/column_name.html
	ColumnName(col int) string
	// ColumnDeclType is sqlite3_column_decltype.
	// https://www.sqlite.org/c3ref/column_decltype.html
	ColumnDeclType(col int) string
	// ColumnType is sqlite3_column_type, the storage class of the value in
	// the current row.
	// https://www.sqlite.org/c3ref/column_blob.html
	ColumnType(col int) ColumnType

	// The typed accessors report, next to the value, the connection error
	// state observed right after the accessor ran. SQLITE_OK (or
	// SQLITE_ROW) means the value is trustworthy.
	//
	// https://www.sqlite.org/c3ref/column_blob.html

	// ColumnInt64 is sqlite3_column_int64.
	ColumnInt64(col int) (int64, Code)
	// ColumnDouble is sqlite3_column_double.
	ColumnDouble(col int) (float64, Code)
	// ColumnText is sqlite3_column_text + sqlite3_column_bytes.
	ColumnText(col int) (string, Code)
	// ColumnBytes is sqlite3_column_bytes.
	ColumnBytes(col int) int
	// ColumnBlob is sqlite3_column_blob. It copies exactly n bytes into Go
	// memory; the native pointer never leaves the call.
	ColumnBlob(col int, n int) ([]byte, Code)
}
