package sqlitec

/*
#cgo LDFLAGS: -lsqlite3
#include <sqlite3.h>
#include <stdlib.h>

// cgo cannot express the SQLITE_TRANSIENT destructor constant.
static int tsq_bind_text(sqlite3_stmt *s, int i, const char *p, sqlite3_uint64 n) {
	return sqlite3_bind_text64(s, i, p, n, SQLITE_TRANSIENT, SQLITE_UTF8);
}
static int tsq_bind_blob(sqlite3_stmt *s, int i, const void *p, sqlite3_uint64 n) {
	return sqlite3_bind_blob64(s, i, p, n, SQLITE_TRANSIENT);
}
*/
import "C"
import (
	"unsafe"

	"github.com/nsqlite/tsqlite/sqliteh"
)

var (
	_ sqliteh.Library = Lib{}
	_ sqliteh.DB      = (*db)(nil)
	_ sqliteh.Stmt    = (*stmt)(nil)
)

// Default is the library linked into the binary.
var Default sqliteh.Library = Lib{}

// Lib is the cgo-backed sqliteh.Library.
type Lib struct{}

// Open opens a database connection with sqlite3_open_v2. An empty vfs selects
// the default VFS.
//
// https://www.sqlite.org/c3ref/open.html
func (Lib) Open(filename string, flags sqliteh.OpenFlags, vfs string) (sqliteh.DB, sqliteh.Code) {
	cFilename := C.CString(filename)
	defer C.free(unsafe.Pointer(cFilename))

	var cVfs *C.char
	if vfs != "" {
		cVfs = C.CString(vfs)
		defer C.free(unsafe.Pointer(cVfs))
	}

	var cDB *C.sqlite3
	resCode := C.sqlite3_open_v2(cFilename, &cDB, C.int(flags), cVfs)
	if cDB == nil {
		return nil, sqliteh.Code(resCode)
	}
	return &db{cDB: cDB}, sqliteh.Code(resCode)
}

// Threadsafe reports whether the library was compiled with thread safety.
//
// https://www.sqlite.org/c3ref/threadsafe.html
func (Lib) Threadsafe() bool {
	return C.sqlite3_threadsafe() != 0
}

// Version returns the SQLite library version string.
func (Lib) Version() string {
	return C.GoString(C.sqlite3_libversion())
}

// db wraps a sqlite3* handle.
//
// https://www.sqlite.org/c3ref/sqlite3.html
type db struct {
	cDB *C.sqlite3
}

// Close uses sqlite3_close_v2, which is intended for host languages that
// are garbage collected and where destructor order is arbitrary.
func (d *db) Close() sqliteh.Code {
	if d.cDB == nil {
		return sqliteh.SQLITE_OK
	}
	resCode := sqliteh.Code(C.sqlite3_close_v2(d.cDB))
	if resCode == sqliteh.SQLITE_OK {
		d.cDB = nil
	}
	return resCode
}

func (d *db) ErrCode() sqliteh.Code {
	return sqliteh.Code(C.sqlite3_errcode(d.cDB))
}

func (d *db) ExtendedErrCode() sqliteh.Code {
	return sqliteh.Code(C.sqlite3_extended_errcode(d.cDB))
}

func (d *db) ErrMsg() string {
	return C.GoString(C.sqlite3_errmsg(d.cDB))
}

func (d *db) ExtendedResultCodes(on bool) sqliteh.Code {
	onoff := C.int(0)
	if on {
		onoff = 1
	}
	return sqliteh.Code(C.sqlite3_extended_result_codes(d.cDB, onoff))
}

// Prepare compiles the first statement in query.
//
// https://www.sqlite.org/c3ref/prepare.html
func (d *db) Prepare(query string) (sqliteh.Stmt, string, sqliteh.Code) {
	cQuery := C.CString(query)
	defer C.free(unsafe.Pointer(cQuery))

	var cStmt *C.sqlite3_stmt
	var cTail *C.char
	resCode := sqliteh.Code(C.sqlite3_prepare_v2(d.cDB, cQuery, C.int(-1), &cStmt, &cTail))

	tail := ""
	if cTail != nil {
		offset := int(uintptr(unsafe.Pointer(cTail)) - uintptr(unsafe.Pointer(cQuery)))
		if offset >= 0 && offset < len(query) {
			tail = query[offset:]
		}
	}

	if resCode != sqliteh.SQLITE_OK {
		if cStmt != nil {
			C.sqlite3_finalize(cStmt)
		}
		return nil, tail, resCode
	}
	if cStmt == nil {
		return nil, tail, resCode
	}
	return &stmt{cStmt: cStmt, cDB: d.cDB}, tail, resCode
}

func (d *db) LastInsertRowid() int64 {
	return int64(C.sqlite3_last_insert_rowid(d.cDB))
}

func (d *db) Changes() int64 {
	return int64(C.sqlite3_changes(d.cDB))
}

func (d *db) TotalChanges() int64 {
	return int64(C.sqlite3_total_changes(d.cDB))
}

func (d *db) GetAutocommit() bool {
	return C.sqlite3_get_autocommit(d.cDB) != 0
}

func (d *db) Readonly(schema string) int {
	cSchema := C.CString(schemaOrMain(schema))
	defer C.free(unsafe.Pointer(cSchema))
	return int(C.sqlite3_db_readonly(d.cDB, cSchema))
}

func (d *db) Filename(schema string) string {
	cSchema := C.CString(schemaOrMain(schema))
	defer C.free(unsafe.Pointer(cSchema))
	return C.GoString(C.sqlite3_db_filename(d.cDB, cSchema))
}

func schemaOrMain(schema string) string {
	if schema == "" {
		return "main"
	}
	return schema
}

// accessorCode is the error signal of the sqlite3_column_* family: those
// calls only fail when SQLite runs out of memory converting a value.
func accessorCode(cDB *C.sqlite3) sqliteh.Code {
	if sqliteh.Code(C.sqlite3_errcode(cDB)) == sqliteh.SQLITE_NOMEM {
		return sqliteh.SQLITE_NOMEM
	}
	return sqliteh.SQLITE_OK
}

// stmt wraps a sqlite3_stmt* handle.
//
// https://www.sqlite.org/c3ref/stmt.html
type stmt struct {
	cStmt *C.sqlite3_stmt
	cDB   *C.sqlite3
}

func (s *stmt) Finalize() sqliteh.Code {
	if s.cStmt == nil {
		return sqliteh.SQLITE_OK
	}
	resCode := sqliteh.Code(C.sqlite3_finalize(s.cStmt))
	s.cStmt = nil
	return resCode
}

func (s *stmt) Reset() sqliteh.Code {
	return sqliteh.Code(C.sqlite3_reset(s.cStmt))
}

func (s *stmt) ClearBindings() sqliteh.Code {
	return sqliteh.Code(C.sqlite3_clear_bindings(s.cStmt))
}

func (s *stmt) SQL() string {
	return C.GoString(C.sqlite3_sql(s.cStmt))
}

func (s *stmt) ExpandedSQL() string {
	cSQL := C.sqlite3_expanded_sql(s.cStmt)
	if cSQL == nil {
		return ""
	}
	defer C.sqlite3_free(unsafe.Pointer(cSQL))
	return C.GoString(cSQL)
}

func (s *stmt) Readonly() bool {
	return C.sqlite3_stmt_readonly(s.cStmt) != 0
}

func (s *stmt) BindParameterCount() int {
	return int(C.sqlite3_bind_parameter_count(s.cStmt))
}

func (s *stmt) BindParameterIndex(name string) int {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return int(C.sqlite3_bind_parameter_index(s.cStmt, cName))
}

func (s *stmt) BindNull(param int) sqliteh.Code {
	return sqliteh.Code(C.sqlite3_bind_null(s.cStmt, C.int(param)))
}

func (s *stmt) BindInt64(param int, value int64) sqliteh.Code {
	return sqliteh.Code(C.sqlite3_bind_int64(s.cStmt, C.int(param), C.sqlite3_int64(value)))
}

func (s *stmt) BindDouble(param int, value float64) sqliteh.Code {
	return sqliteh.Code(C.sqlite3_bind_double(s.cStmt, C.int(param), C.double(value)))
}

// BindText passes the explicit byte length, so embedded NUL bytes survive.
func (s *stmt) BindText(param int, value string) sqliteh.Code {
	cStr := C.CString(value)
	defer C.free(unsafe.Pointer(cStr))
	return sqliteh.Code(C.tsq_bind_text(s.cStmt, C.int(param), cStr, C.sqlite3_uint64(len(value))))
}

// BindBlob never hands SQLite a nil base address: an empty slice binds a
// zero-length zeroblob instead.
func (s *stmt) BindBlob(param int, value []byte) sqliteh.Code {
	if len(value) == 0 {
		return sqliteh.Code(C.sqlite3_bind_zeroblob64(s.cStmt, C.int(param), 0))
	}
	return sqliteh.Code(C.tsq_bind_blob(s.cStmt, C.int(param), unsafe.Pointer(&value[0]), C.sqlite3_uint64(len(value))))
}

func (s *stmt) BindZeroBlob(param int, n int) sqliteh.Code {
	if n < 0 {
		n = 0
	}
	return sqliteh.Code(C.sqlite3_bind_zeroblob64(s.cStmt, C.int(param), C.sqlite3_uint64(n)))
}

func (s *stmt) Step() sqliteh.Code {
	return sqliteh.Code(C.sqlite3_step(s.cStmt))
}

func (s *stmt) ColumnCount() int {
	return int(C.sqlite3_column_count(s.cStmt))
}

func (s *stmt) ColumnName(col int) string {
	return C.GoString(C.sqlite3_column_name(s.cStmt, C.int(col)))
}

func (s *stmt) ColumnDeclType(col int) string {
	return C.GoString(C.sqlite3_column_decltype(s.cStmt, C.int(col)))
}

func (s *stmt) ColumnType(col int) sqliteh.ColumnType {
	return sqliteh.ColumnType(C.sqlite3_column_type(s.cStmt, C.int(col)))
}

func (s *stmt) ColumnInt64(col int) (int64, sqliteh.Code) {
	value := int64(C.sqlite3_column_int64(s.cStmt, C.int(col)))
	return value, accessorCode(s.cDB)
}

func (s *stmt) ColumnDouble(col int) (float64, sqliteh.Code) {
	value := float64(C.sqlite3_column_double(s.cStmt, C.int(col)))
	return value, accessorCode(s.cDB)
}

// ColumnText returns "" for a NULL pointer; the accompanying code tells an
// absent value apart from an allocation failure.
func (s *stmt) ColumnText(col int) (string, sqliteh.Code) {
	text := (*C.char)(unsafe.Pointer(C.sqlite3_column_text(s.cStmt, C.int(col))))
	if text == nil {
		return "", accessorCode(s.cDB)
	}
	length := C.sqlite3_column_bytes(s.cStmt, C.int(col))
	return C.GoStringN(text, length), sqliteh.SQLITE_OK
}

func (s *stmt) ColumnBytes(col int) int {
	return int(C.sqlite3_column_bytes(s.cStmt, C.int(col)))
}

// ColumnBlob copies n bytes out of the engine-owned buffer. The buffer is
// only valid until the next call on this statement, so it is never returned.
func (s *stmt) ColumnBlob(col int, n int) ([]byte, sqliteh.Code) {
	if n <= 0 {
		return []byte{}, sqliteh.SQLITE_OK
	}
	dataPtr := C.sqlite3_column_blob(s.cStmt, C.int(col))
	if dataPtr == nil {
		return nil, sqliteh.SQLITE_NOMEM
	}
	return C.GoBytes(dataPtr, C.int(n)), sqliteh.SQLITE_OK
}
