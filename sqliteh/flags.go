package sqliteh

import "strings"

// OpenFlags are the flags accepted by sqlite3_open_v2.
//
// https://www.sqlite.org/c3ref/c_open_autoproxy.html
type OpenFlags int

const (
	SQLITE_OPEN_READONLY      OpenFlags = 0x00000001
	SQLITE_OPEN_READWRITE     OpenFlags = 0x00000002
	SQLITE_OPEN_CREATE        OpenFlags = 0x00000004
	SQLITE_OPEN_DELETEONCLOSE OpenFlags = 0x00000008
	SQLITE_OPEN_EXCLUSIVE     OpenFlags = 0x00000010
	SQLITE_OPEN_URI           OpenFlags = 0x00000040
	SQLITE_OPEN_MEMORY        OpenFlags = 0x00000080
	SQLITE_OPEN_NOMUTEX       OpenFlags = 0x00008000
	SQLITE_OPEN_FULLMUTEX     OpenFlags = 0x00010000
	SQLITE_OPEN_SHAREDCACHE   OpenFlags = 0x00020000
	SQLITE_OPEN_PRIVATECACHE  OpenFlags = 0x00040000
	SQLITE_OPEN_NOFOLLOW      OpenFlags = 0x01000000
)

var openFlagNames = []struct {
	flag OpenFlags
	name string
}{
	{SQLITE_OPEN_READONLY, "SQLITE_OPEN_READONLY"},
	{SQLITE_OPEN_READWRITE, "SQLITE_OPEN_READWRITE"},
	{SQLITE_OPEN_CREATE, "SQLITE_OPEN_CREATE"},
	{SQLITE_OPEN_DELETEONCLOSE, "SQLITE_OPEN_DELETEONCLOSE"},
	{SQLITE_OPEN_EXCLUSIVE, "SQLITE_OPEN_EXCLUSIVE"},
	{SQLITE_OPEN_URI, "SQLITE_OPEN_URI"},
	{SQLITE_OPEN_MEMORY, "SQLITE_OPEN_MEMORY"},
	{SQLITE_OPEN_NOMUTEX, "SQLITE_OPEN_NOMUTEX"},
	{SQLITE_OPEN_FULLMUTEX, "SQLITE_OPEN_FULLMUTEX"},
	{SQLITE_OPEN_SHAREDCACHE, "SQLITE_OPEN_SHAREDCACHE"},
	{SQLITE_OPEN_PRIVATECACHE, "SQLITE_OPEN_PRIVATECACHE"},
	{SQLITE_OPEN_NOFOLLOW, "SQLITE_OPEN_NOFOLLOW"},
}

// String renders the set flags joined by '|'.
func (flags OpenFlags) String() string {
	var names []string
	for _, f := range openFlagNames {
		if flags&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}

// ColumnType is the storage class of a value, as reported by
// sqlite3_column_type.
//
// https://www.sqlite.org/c3ref/c_blob.html
type ColumnType int

const (
	SQLITE_INTEGER ColumnType = 1
	SQLITE_FLOAT   ColumnType = 2
	SQLITE_TEXT    ColumnType = 3
	SQLITE_BLOB    ColumnType = 4
	SQLITE_NULL    ColumnType = 5
)

func (t ColumnType) String() string {
	switch t {
	case SQLITE_INTEGER:
		return "SQLITE_INTEGER"
	case SQLITE_FLOAT:
		return "SQLITE_FLOAT"
	case SQLITE_TEXT:
		return "SQLITE_TEXT"
	case SQLITE_BLOB:
		return "SQLITE_BLOB"
	case SQLITE_NULL:
		return "SQLITE_NULL"
	default:
		return "UNKNOWN_SQLITE_DATATYPE"
	}
}
