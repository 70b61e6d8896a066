package sqliteh

import "strconv"

// Code is a SQLite result code, primary or extended.
//
// https://www.sqlite.org/rescode.html
type Code int

const (
	SQLITE_OK         Code = 0
	SQLITE_ERROR      Code = 1
	SQLITE_INTERNAL   Code = 2
	SQLITE_PERM       Code = 3
	SQLITE_ABORT      Code = 4
	SQLITE_BUSY       Code = 5
	SQLITE_LOCKED     Code = 6
	SQLITE_NOMEM      Code = 7
	SQLITE_READONLY   Code = 8
	SQLITE_INTERRUPT  Code = 9
	SQLITE_IOERR      Code = 10
	SQLITE_CORRUPT    Code = 11
	SQLITE_NOTFOUND   Code = 12
	SQLITE_FULL       Code = 13
	SQLITE_CANTOPEN   Code = 14
	SQLITE_PROTOCOL   Code = 15
	SQLITE_EMPTY      Code = 16
	SQLITE_SCHEMA     Code = 17
	SQLITE_TOOBIG     Code = 18
	SQLITE_CONSTRAINT Code = 19
	SQLITE_MISMATCH   Code = 20
	SQLITE_MISUSE     Code = 21
	SQLITE_NOLFS      Code = 22
	SQLITE_AUTH       Code = 23
	SQLITE_FORMAT     Code = 24
	SQLITE_RANGE      Code = 25
	SQLITE_NOTADB     Code = 26
	SQLITE_NOTICE     Code = 27
	SQLITE_WARNING    Code = 28
	SQLITE_ROW        Code = 100
	SQLITE_DONE       Code = 101
)

// Extended result codes that callers commonly branch on.
const (
	SQLITE_ERROR_MISSING_COLLSEQ   Code = SQLITE_ERROR | (1 << 8)
	SQLITE_ERROR_RETRY             Code = SQLITE_ERROR | (2 << 8)
	SQLITE_IOERR_READ              Code = SQLITE_IOERR | (1 << 8)
	SQLITE_IOERR_WRITE             Code = SQLITE_IOERR | (3 << 8)
	SQLITE_LOCKED_SHAREDCACHE      Code = SQLITE_LOCKED | (1 << 8)
	SQLITE_BUSY_RECOVERY           Code = SQLITE_BUSY | (1 << 8)
	SQLITE_BUSY_SNAPSHOT           Code = SQLITE_BUSY | (2 << 8)
	SQLITE_BUSY_TIMEOUT            Code = SQLITE_BUSY | (3 << 8)
	SQLITE_CANTOPEN_NOTEMPDIR      Code = SQLITE_CANTOPEN | (1 << 8)
	SQLITE_CANTOPEN_ISDIR          Code = SQLITE_CANTOPEN | (2 << 8)
	SQLITE_CANTOPEN_FULLPATH       Code = SQLITE_CANTOPEN | (3 << 8)
	SQLITE_READONLY_RECOVERY       Code = SQLITE_READONLY | (1 << 8)
	SQLITE_READONLY_CANTLOCK       Code = SQLITE_READONLY | (2 << 8)
	SQLITE_READONLY_ROLLBACK       Code = SQLITE_READONLY | (3 << 8)
	SQLITE_READONLY_DBMOVED        Code = SQLITE_READONLY | (4 << 8)
	SQLITE_CONSTRAINT_CHECK        Code = SQLITE_CONSTRAINT | (1 << 8)
	SQLITE_CONSTRAINT_FOREIGNKEY   Code = SQLITE_CONSTRAINT | (3 << 8)
	SQLITE_CONSTRAINT_NOTNULL      Code = SQLITE_CONSTRAINT | (5 << 8)
	SQLITE_CONSTRAINT_PRIMARYKEY   Code = SQLITE_CONSTRAINT | (6 << 8)
	SQLITE_CONSTRAINT_UNIQUE       Code = SQLITE_CONSTRAINT | (8 << 8)
	SQLITE_CONSTRAINT_ROWID        Code = SQLITE_CONSTRAINT | (10 << 8)
	SQLITE_CONSTRAINT_DATATYPE     Code = SQLITE_CONSTRAINT | (12 << 8)
	SQLITE_NOTICE_RECOVER_WAL      Code = SQLITE_NOTICE | (1 << 8)
	SQLITE_WARNING_AUTOINDEX       Code = SQLITE_WARNING | (1 << 8)
	SQLITE_AUTH_USER               Code = SQLITE_AUTH | (1 << 8)
	SQLITE_OK_LOAD_PERMANENTLY     Code = SQLITE_OK | (1 << 8)
	SQLITE_CONSTRAINT_TRIGGER      Code = SQLITE_CONSTRAINT | (7 << 8)
	SQLITE_CONSTRAINT_FUNCTION     Code = SQLITE_CONSTRAINT | (4 << 8)
	SQLITE_CONSTRAINT_VTAB         Code = SQLITE_CONSTRAINT | (9 << 8)
	SQLITE_CONSTRAINT_COMMITHOOK   Code = SQLITE_CONSTRAINT | (2 << 8)
	SQLITE_CONSTRAINT_PINNED       Code = SQLITE_CONSTRAINT | (11 << 8)
	SQLITE_READONLY_CANTINIT       Code = SQLITE_READONLY | (5 << 8)
	SQLITE_READONLY_DIRECTORY      Code = SQLITE_READONLY | (6 << 8)
	SQLITE_CORRUPT_VTAB            Code = SQLITE_CORRUPT | (1 << 8)
	SQLITE_ABORT_ROLLBACK          Code = SQLITE_ABORT | (2 << 8)
	SQLITE_CANTOPEN_CONVPATH       Code = SQLITE_CANTOPEN | (4 << 8)
	SQLITE_CANTOPEN_SYMLINK        Code = SQLITE_CANTOPEN | (6 << 8)
	SQLITE_IOERR_SHORT_READ        Code = SQLITE_IOERR | (2 << 8)
	SQLITE_IOERR_FSYNC             Code = SQLITE_IOERR | (4 << 8)
	SQLITE_IOERR_NOMEM             Code = SQLITE_IOERR | (12 << 8)
	SQLITE_IOERR_ACCESS            Code = SQLITE_IOERR | (13 << 8)
	SQLITE_IOERR_LOCK              Code = SQLITE_IOERR | (15 << 8)
	SQLITE_LOCKED_VTAB             Code = SQLITE_LOCKED | (2 << 8)
	SQLITE_ERROR_SNAPSHOT          Code = SQLITE_ERROR | (3 << 8)
	SQLITE_NOTICE_RECOVER_ROLLBACK Code = SQLITE_NOTICE | (2 << 8)
)

var codeNames = map[Code]string{
	SQLITE_OK:         "SQLITE_OK",
	SQLITE_ERROR:      "SQLITE_ERROR",
	SQLITE_INTERNAL:   "SQLITE_INTERNAL",
	SQLITE_PERM:       "SQLITE_PERM",
	SQLITE_ABORT:      "SQLITE_ABORT",
	SQLITE_BUSY:       "SQLITE_BUSY",
	SQLITE_LOCKED:     "SQLITE_LOCKED",
	SQLITE_NOMEM:      "SQLITE_NOMEM",
	SQLITE_READONLY:   "SQLITE_READONLY",
	SQLITE_INTERRUPT:  "SQLITE_INTERRUPT",
	SQLITE_IOERR:      "SQLITE_IOERR",
	SQLITE_CORRUPT:    "SQLITE_CORRUPT",
	SQLITE_NOTFOUND:   "SQLITE_NOTFOUND",
	SQLITE_FULL:       "SQLITE_FULL",
	SQLITE_CANTOPEN:   "SQLITE_CANTOPEN",
	SQLITE_PROTOCOL:   "SQLITE_PROTOCOL",
	SQLITE_EMPTY:      "SQLITE_EMPTY",
	SQLITE_SCHEMA:     "SQLITE_SCHEMA",
	SQLITE_TOOBIG:     "SQLITE_TOOBIG",
	SQLITE_CONSTRAINT: "SQLITE_CONSTRAINT",
	SQLITE_MISMATCH:   "SQLITE_MISMATCH",
	SQLITE_MISUSE:     "SQLITE_MISUSE",
	SQLITE_NOLFS:      "SQLITE_NOLFS",
	SQLITE_AUTH:       "SQLITE_AUTH",
	SQLITE_FORMAT:     "SQLITE_FORMAT",
	SQLITE_RANGE:      "SQLITE_RANGE",
	SQLITE_NOTADB:     "SQLITE_NOTADB",
	SQLITE_NOTICE:     "SQLITE_NOTICE",
	SQLITE_WARNING:    "SQLITE_WARNING",
	SQLITE_ROW:        "SQLITE_ROW",
	SQLITE_DONE:       "SQLITE_DONE",

	SQLITE_ERROR_MISSING_COLLSEQ:   "SQLITE_ERROR_MISSING_COLLSEQ",
	SQLITE_ERROR_RETRY:             "SQLITE_ERROR_RETRY",
	SQLITE_ERROR_SNAPSHOT:          "SQLITE_ERROR_SNAPSHOT",
	SQLITE_IOERR_READ:              "SQLITE_IOERR_READ",
	SQLITE_IOERR_SHORT_READ:        "SQLITE_IOERR_SHORT_READ",
	SQLITE_IOERR_WRITE:             "SQLITE_IOERR_WRITE",
	SQLITE_IOERR_FSYNC:             "SQLITE_IOERR_FSYNC",
	SQLITE_IOERR_NOMEM:             "SQLITE_IOERR_NOMEM",
	SQLITE_IOERR_ACCESS:            "SQLITE_IOERR_ACCESS",
	SQLITE_IOERR_LOCK:              "SQLITE_IOERR_LOCK",
	SQLITE_LOCKED_SHAREDCACHE:      "SQLITE_LOCKED_SHAREDCACHE",
	SQLITE_LOCKED_VTAB:             "SQLITE_LOCKED_VTAB",
	SQLITE_BUSY_RECOVERY:           "SQLITE_BUSY_RECOVERY",
	SQLITE_BUSY_SNAPSHOT:           "SQLITE_BUSY_SNAPSHOT",
	SQLITE_BUSY_TIMEOUT:            "SQLITE_BUSY_TIMEOUT",
	SQLITE_CANTOPEN_NOTEMPDIR:      "SQLITE_CANTOPEN_NOTEMPDIR",
	SQLITE_CANTOPEN_ISDIR:          "SQLITE_CANTOPEN_ISDIR",
	SQLITE_CANTOPEN_FULLPATH:       "SQLITE_CANTOPEN_FULLPATH",
	SQLITE_CANTOPEN_CONVPATH:       "SQLITE_CANTOPEN_CONVPATH",
	SQLITE_CANTOPEN_SYMLINK:        "SQLITE_CANTOPEN_SYMLINK",
	SQLITE_CORRUPT_VTAB:            "SQLITE_CORRUPT_VTAB",
	SQLITE_READONLY_RECOVERY:       "SQLITE_READONLY_RECOVERY",
	SQLITE_READONLY_CANTLOCK:       "SQLITE_READONLY_CANTLOCK",
	SQLITE_READONLY_ROLLBACK:       "SQLITE_READONLY_ROLLBACK",
	SQLITE_READONLY_DBMOVED:        "SQLITE_READONLY_DBMOVED",
	SQLITE_READONLY_CANTINIT:       "SQLITE_READONLY_CANTINIT",
	SQLITE_READONLY_DIRECTORY:      "SQLITE_READONLY_DIRECTORY",
	SQLITE_ABORT_ROLLBACK:          "SQLITE_ABORT_ROLLBACK",
	SQLITE_CONSTRAINT_CHECK:        "SQLITE_CONSTRAINT_CHECK",
	SQLITE_CONSTRAINT_COMMITHOOK:   "SQLITE_CONSTRAINT_COMMITHOOK",
	SQLITE_CONSTRAINT_FOREIGNKEY:   "SQLITE_CONSTRAINT_FOREIGNKEY",
	SQLITE_CONSTRAINT_FUNCTION:     "SQLITE_CONSTRAINT_FUNCTION",
	SQLITE_CONSTRAINT_NOTNULL:      "SQLITE_CONSTRAINT_NOTNULL",
	SQLITE_CONSTRAINT_PRIMARYKEY:   "SQLITE_CONSTRAINT_PRIMARYKEY",
	SQLITE_CONSTRAINT_TRIGGER:      "SQLITE_CONSTRAINT_TRIGGER",
	SQLITE_CONSTRAINT_UNIQUE:       "SQLITE_CONSTRAINT_UNIQUE",
	SQLITE_CONSTRAINT_VTAB:         "SQLITE_CONSTRAINT_VTAB",
	SQLITE_CONSTRAINT_ROWID:        "SQLITE_CONSTRAINT_ROWID",
	SQLITE_CONSTRAINT_PINNED:       "SQLITE_CONSTRAINT_PINNED",
	SQLITE_CONSTRAINT_DATATYPE:     "SQLITE_CONSTRAINT_DATATYPE",
	SQLITE_NOTICE_RECOVER_WAL:      "SQLITE_NOTICE_RECOVER_WAL",
	SQLITE_NOTICE_RECOVER_ROLLBACK: "SQLITE_NOTICE_RECOVER_ROLLBACK",
	SQLITE_WARNING_AUTOINDEX:       "SQLITE_WARNING_AUTOINDEX",
	SQLITE_AUTH_USER:               "SQLITE_AUTH_USER",
	SQLITE_OK_LOAD_PERMANENTLY:     "SQLITE_OK_LOAD_PERMANENTLY",
}

// String returns the SQLite constant name of the code, falling back to the
// primary code name for unknown extended codes.
func (code Code) String() string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	if name, ok := codeNames[code.Primary()]; ok {
		return name + "(" + strconv.Itoa(int(code)) + ")"
	}
	return "SQLITE_UNKNOWN(" + strconv.Itoa(int(code)) + ")"
}

// Primary strips the extended bits, leaving the primary result code.
func (code Code) Primary() Code {
	return code & 0xff
}

// IsSuccess reports whether the code is one of the non-error results
// SQLITE_OK, SQLITE_ROW or SQLITE_DONE.
func (code Code) IsSuccess() bool {
	switch code.Primary() {
	case SQLITE_OK, SQLITE_ROW, SQLITE_DONE:
		return true
	}
	return false
}

// Error makes a Code usable as an error target, so that
// errors.Is(err, sqliteh.SQLITE_BUSY) works on wrapped errors.
func (code Code) Error() string {
	return code.String()
}
