package sqlite

import (
	"net/url"
	"strings"

	"github.com/orsinium-labs/enum"
)

// Location describes where a database lives.
//
// https://www.sqlite.org/uri.html
type Location struct {
	filename string
	params   []URIQueryParameter
}

// InMemory is a private, in-memory database.
//
// https://www.sqlite.org/inmemorydb.html
func InMemory() Location {
	return Location{filename: ":memory:"}
}

// Temporary is a private, temporary on-disk database deleted on close.
//
// https://www.sqlite.org/inmemorydb.html#temp_db
func Temporary() Location {
	return Location{filename: ""}
}

// URI is a database at the given path or file: URI, with optional query
// parameters.
func URI(filename string, params ...URIQueryParameter) Location {
	return Location{filename: filename, params: params}
}

// String returns the filename passed to sqlite3_open_v2. When parameters are
// present, a file: scheme is added if missing and the parameters are
// appended after any existing query.
func (loc Location) String() string {
	if len(loc.params) == 0 {
		return loc.filename
	}

	query := make([]string, 0, len(loc.params))
	for _, param := range loc.params {
		query = append(query, param.String())
	}
	extra := strings.Join(query, "&")

	u, err := url.Parse(loc.filename)
	if err != nil {
		filename := loc.filename
		if !strings.HasPrefix(filename, "file:") {
			filename = "file:" + filename
		}
		return filename + "?" + extra
	}

	if u.Scheme == "" {
		u.Scheme = "file"
		u.OmitHost = true
	}
	if u.RawQuery == "" {
		u.RawQuery = extra
	} else {
		u.RawQuery += "&" + extra
	}
	return u.String()
}

// CacheMode is the value of the cache URI parameter.
type CacheMode enum.Member[string]

var (
	CacheShared  = CacheMode{Value: "shared"}
	CachePrivate = CacheMode{Value: "private"}

	CacheModes = enum.New(CacheShared, CachePrivate)
)

// FileMode is the value of the mode URI parameter.
type FileMode enum.Member[string]

var (
	ModeReadOnly        = FileMode{Value: "ro"}
	ModeReadWrite       = FileMode{Value: "rw"}
	ModeReadWriteCreate = FileMode{Value: "rwc"}
	ModeMemory          = FileMode{Value: "memory"}

	FileModes = enum.New(ModeReadOnly, ModeReadWrite, ModeReadWriteCreate, ModeMemory)
)

// URIQueryParameter is one query parameter of a database URI.
type URIQueryParameter struct {
	Name  string
	Value string
}

// String renders the parameter percent-encoded. SQLite does not decode '+'
// as a space, so spaces are written as %20.
func (p URIQueryParameter) String() string {
	return uriEscape(p.Name) + "=" + uriEscape(p.Value)
}

func uriEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func boolParam(name string, on bool) URIQueryParameter {
	if on {
		return URIQueryParameter{Name: name, Value: "1"}
	}
	return URIQueryParameter{Name: name, Value: "0"}
}

// Cache selects shared or private cache mode.
func Cache(mode CacheMode) URIQueryParameter {
	return URIQueryParameter{Name: "cache", Value: mode.Value}
}

// Immutable declares the database file as held on read-only media.
func Immutable(on bool) URIQueryParameter {
	return boolParam("immutable", on)
}

// ModeOf copies the permissions of filename to a newly created database.
func ModeOf(filename string) URIQueryParameter {
	return URIQueryParameter{Name: "modeOf", Value: filename}
}

// Mode opens the database read-only, read-write, read-write-create or as a
// pure in-memory database.
func Mode(mode FileMode) URIQueryParameter {
	return URIQueryParameter{Name: "mode", Value: mode.Value}
}

// NoLock disables file locking.
func NoLock(on bool) URIQueryParameter {
	return boolParam("nolock", on)
}

// PowersafeOverwrite overrides the powersafe_overwrite property of the file.
func PowersafeOverwrite(on bool) URIQueryParameter {
	return boolParam("psow", on)
}

// VFS opens the database with the VFS called name.
func VFS(name string) URIQueryParameter {
	return URIQueryParameter{Name: "vfs", Value: name}
}
