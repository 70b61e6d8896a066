package sqlitec

import (
	"path/filepath"
	"testing"

	"github.com/nsqlite/tsqlite/sqliteh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rwFlags = sqliteh.SQLITE_OPEN_CREATE | sqliteh.SQLITE_OPEN_READWRITE |
	sqliteh.SQLITE_OPEN_FULLMUTEX | sqliteh.SQLITE_OPEN_URI

func openMemory(t *testing.T) sqliteh.DB {
	t.Helper()
	db, code := Default.Open(":memory:", rwFlags, "")
	require.Equal(t, sqliteh.SQLITE_OK, code)
	require.NotNil(t, db)
	t.Cleanup(func() { db.Close() })
	return db
}

func execAll(t *testing.T, db sqliteh.DB, query string) {
	t.Helper()
	for query != "" {
		stmt, tail, code := db.Prepare(query)
		require.Equal(t, sqliteh.SQLITE_OK, code, db.ErrMsg())
		query = tail
		if stmt == nil {
			continue
		}
		for {
			code = stmt.Step()
			if code != sqliteh.SQLITE_ROW {
				break
			}
		}
		require.Equal(t, sqliteh.SQLITE_DONE, code, db.ErrMsg())
		stmt.Finalize()
	}
}

func TestSQLiteC(t *testing.T) {
	t.Run("OpenClose", func(t *testing.T) {
		db, code := Default.Open(":memory:", rwFlags, "")
		assert.Equal(t, sqliteh.SQLITE_OK, code)
		assert.NotNil(t, db)
		assert.Equal(t, sqliteh.SQLITE_OK, db.Close())
		assert.Equal(t, sqliteh.SQLITE_OK, db.Close())
	})

	t.Run("LibraryInfo", func(t *testing.T) {
		assert.NotEmpty(t, Default.Version())
		assert.True(t, Default.Threadsafe())
	})

	t.Run("OpenUnwritablePath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "db.sqlite")
		db, code := Default.Open(path, rwFlags, "")
		assert.Equal(t, sqliteh.SQLITE_CANTOPEN, code.Primary())
		if db != nil {
			db.Close()
		}
	})

	t.Run("ReadOnlyAndFilename", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ro.sqlite")
		rw, code := Default.Open(path, rwFlags, "")
		require.Equal(t, sqliteh.SQLITE_OK, code)
		execAll(t, rw, "CREATE TABLE t (id INTEGER)")
		assert.Equal(t, 0, rw.Readonly(""))
		assert.Equal(t, path, rw.Filename(""))
		rw.Close()

		ro, code := Default.Open(path, sqliteh.SQLITE_OPEN_READONLY|sqliteh.SQLITE_OPEN_URI, "")
		require.Equal(t, sqliteh.SQLITE_OK, code)
		defer ro.Close()
		assert.Equal(t, 1, ro.Readonly("main"))
		assert.Equal(t, -1, ro.Readonly("nope"))
	})

	t.Run("PrepareTail", func(t *testing.T) {
		db := openMemory(t)
		stmt, tail, code := db.Prepare("SELECT 1; SELECT 2")
		require.Equal(t, sqliteh.SQLITE_OK, code)
		defer stmt.Finalize()
		assert.Equal(t, " SELECT 2", tail)
		assert.Equal(t, "SELECT 1;", stmt.SQL())

		empty, tail, code := db.Prepare("  -- nothing")
		assert.Equal(t, sqliteh.SQLITE_OK, code)
		assert.Nil(t, empty)
		assert.Equal(t, "", tail)
	})

	t.Run("PrepareError", func(t *testing.T) {
		db := openMemory(t)
		stmt, _, code := db.Prepare("SELEC 1")
		assert.Nil(t, stmt)
		assert.Equal(t, sqliteh.SQLITE_ERROR, code)
		assert.Contains(t, db.ErrMsg(), "syntax error")
	})

	t.Run("BindAndReadAllTypes", func(t *testing.T) {
		db := openMemory(t)
		execAll(t, db, `
			CREATE TABLE test_types (
				num_int INTEGER,
				num_float REAL,
				txt TEXT,
				bytes BLOB,
				empty_blob BLOB,
				zeros BLOB,
				nullable TEXT
			)
		`)

		ins, _, code := db.Prepare("INSERT INTO test_types VALUES (?, ?, ?, ?, ?, ?, ?)")
		require.Equal(t, sqliteh.SQLITE_OK, code)
		assert.Equal(t, 7, ins.BindParameterCount())
		assert.Equal(t, sqliteh.SQLITE_OK, ins.BindInt64(1, 123))
		assert.Equal(t, sqliteh.SQLITE_OK, ins.BindDouble(2, 3.14))
		assert.Equal(t, sqliteh.SQLITE_OK, ins.BindText(3, "ho\x00la"))
		assert.Equal(t, sqliteh.SQLITE_OK, ins.BindBlob(4, []byte("raw")))
		assert.Equal(t, sqliteh.SQLITE_OK, ins.BindBlob(5, nil))
		assert.Equal(t, sqliteh.SQLITE_OK, ins.BindZeroBlob(6, 4))
		assert.Equal(t, sqliteh.SQLITE_OK, ins.BindNull(7))
		assert.Equal(t, sqliteh.SQLITE_RANGE, ins.BindNull(8))
		assert.Equal(t, sqliteh.SQLITE_DONE, ins.Step())
		assert.Equal(t, sqliteh.SQLITE_OK, ins.Finalize())
		assert.Equal(t, int64(1), db.Changes())
		assert.Equal(t, int64(1), db.LastInsertRowid())

		sel, _, code := db.Prepare("SELECT * FROM test_types")
		require.Equal(t, sqliteh.SQLITE_OK, code)
		defer sel.Finalize()
		assert.True(t, sel.Readonly())
		assert.Equal(t, 7, sel.ColumnCount())
		assert.Equal(t, "num_float", sel.ColumnName(1))
		assert.Equal(t, "REAL", sel.ColumnDeclType(1))
		require.Equal(t, sqliteh.SQLITE_ROW, sel.Step())

		assert.Equal(t, sqliteh.SQLITE_INTEGER, sel.ColumnType(0))
		i, code := sel.ColumnInt64(0)
		assert.Equal(t, sqliteh.SQLITE_OK, code)
		assert.Equal(t, int64(123), i)

		assert.Equal(t, sqliteh.SQLITE_FLOAT, sel.ColumnType(1))
		f, code := sel.ColumnDouble(1)
		assert.Equal(t, sqliteh.SQLITE_OK, code)
		assert.Equal(t, 3.14, f)

		assert.Equal(t, sqliteh.SQLITE_TEXT, sel.ColumnType(2))
		s, code := sel.ColumnText(2)
		assert.Equal(t, sqliteh.SQLITE_OK, code)
		assert.Equal(t, "ho\x00la", s)

		assert.Equal(t, sqliteh.SQLITE_BLOB, sel.ColumnType(3))
		b, code := sel.ColumnBlob(3, sel.ColumnBytes(3))
		assert.Equal(t, sqliteh.SQLITE_OK, code)
		assert.Equal(t, []byte("raw"), b)

		assert.Equal(t, 0, sel.ColumnBytes(4))
		b, code = sel.ColumnBlob(4, 0)
		assert.Equal(t, sqliteh.SQLITE_OK, code)
		assert.Empty(t, b)

		b, _ = sel.ColumnBlob(5, sel.ColumnBytes(5))
		assert.Equal(t, []byte{0, 0, 0, 0}, b)

		assert.Equal(t, sqliteh.SQLITE_NULL, sel.ColumnType(6))
		s, code = sel.ColumnText(6)
		assert.Equal(t, sqliteh.SQLITE_OK, code)
		assert.Equal(t, "", s)

		assert.Equal(t, sqliteh.SQLITE_DONE, sel.Step())
	})

	t.Run("NamedParametersAndExpandedSQL", func(t *testing.T) {
		db := openMemory(t)
		stmt, _, code := db.Prepare("SELECT :name, @other")
		require.Equal(t, sqliteh.SQLITE_OK, code)
		defer stmt.Finalize()

		assert.Equal(t, 1, stmt.BindParameterIndex(":name"))
		assert.Equal(t, 2, stmt.BindParameterIndex("@other"))
		assert.Equal(t, 0, stmt.BindParameterIndex(":missing"))

		stmt.BindText(1, "x")
		stmt.BindInt64(2, 7)
		assert.Equal(t, "SELECT 'x', 7", stmt.ExpandedSQL())

		assert.Equal(t, sqliteh.SQLITE_OK, stmt.ClearBindings())
		assert.Equal(t, "SELECT NULL, NULL", stmt.ExpandedSQL())
	})

	t.Run("ConstraintErrorAndExtendedCodes", func(t *testing.T) {
		db := openMemory(t)
		execAll(t, db, "CREATE TABLE u (id INTEGER PRIMARY KEY, name TEXT UNIQUE)")
		execAll(t, db, "INSERT INTO u (name) VALUES ('a')")
		assert.Equal(t, sqliteh.SQLITE_OK, db.ExtendedResultCodes(true))

		stmt, _, code := db.Prepare("INSERT INTO u (name) VALUES ('a')")
		require.Equal(t, sqliteh.SQLITE_OK, code)
		defer stmt.Finalize()

		assert.Equal(t, sqliteh.SQLITE_CONSTRAINT_UNIQUE, stmt.Step())
		assert.Equal(t, sqliteh.SQLITE_CONSTRAINT_UNIQUE, db.ExtendedErrCode())
		assert.Contains(t, db.ErrMsg(), "UNIQUE constraint failed")

		assert.Equal(t, int64(1), db.TotalChanges())
	})
}
