package shell

import (
	"strings"
	"unicode"

	"github.com/nsqlite/tsqlite/sqlite"
)

type stmtKind int

const (
	kindRead stmtKind = iota
	kindWrite
	kindBegin
	kindCommit
	kindRollback
)

// classify tells transaction control statements apart from reads and writes.
// sqlite3_stmt_readonly is true for BEGIN, COMMIT and ROLLBACK, so those are
// matched by keyword first.
func classify(stmt *sqlite.Stmt) stmtKind {
	switch firstKeyword(stmt.SQL()) {
	case "BEGIN":
		return kindBegin
	case "COMMIT", "END":
		return kindCommit
	case "ROLLBACK":
		if strings.Contains(strings.ToUpper(stmt.SQL()), " TO ") {
			return kindWrite
		}
		return kindRollback
	}
	if stmt.ReadOnly() {
		return kindRead
	}
	return kindWrite
}

// isDML reports whether the statement changes rows, which is when
// sqlite3_changes is meaningful.
func isDML(stmt *sqlite.Stmt) bool {
	switch firstKeyword(stmt.SQL()) {
	case "INSERT", "UPDATE", "DELETE", "REPLACE", "WITH":
		return !stmt.ReadOnly()
	}
	return false
}

// firstKeyword returns the first word of query in upper case, skipping
// leading whitespace and comments.
func firstKeyword(query string) string {
	rest := query
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		switch {
		case strings.HasPrefix(rest, "--"):
			_, after, found := strings.Cut(rest, "\n")
			if !found {
				return ""
			}
			rest = after
		case strings.HasPrefix(rest, "/*"):
			_, after, found := strings.Cut(rest[2:], "*/")
			if !found {
				return ""
			}
			rest = after
		default:
			end := strings.IndexFunc(rest, func(r rune) bool {
				return !unicode.IsLetter(r)
			})
			if end < 0 {
				end = len(rest)
			}
			return strings.ToUpper(rest[:end])
		}
	}
}

// cutFields splits the first n whitespace separated fields off s and returns
// them with the untouched remainder.
func cutFields(s string, n int) ([]string, string) {
	fields := make([]string, 0, n)
	rest := strings.TrimSpace(s)
	for len(fields) < n && rest != "" {
		i := strings.IndexFunc(rest, unicode.IsSpace)
		if i < 0 {
			fields = append(fields, rest)
			return fields, ""
		}
		fields = append(fields, rest[:i])
		rest = strings.TrimLeftFunc(rest[i:], unicode.IsSpace)
	}
	return fields, rest
}

// quoteIdent quotes name as an SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
