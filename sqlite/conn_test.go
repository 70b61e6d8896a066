package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/nsqlite/tsqlite/sqliteh"
	"github.com/nsqlite/tsqlite/sqliteh/sqlitehtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFake(t *testing.T, opts ...Option) (*Conn, *sqlitehtest.Library) {
	t.Helper()
	lib := sqlitehtest.New()
	conn, err := Open(":memory:", append([]Option{WithLibrary(lib)}, opts...)...)
	require.NoError(t, err)
	return conn, lib
}

func openMemory(t *testing.T) *Conn {
	t.Helper()
	conn, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestOpen(t *testing.T) {
	t.Run("ReadWriteFlags", func(t *testing.T) {
		conn, lib := openFake(t)
		defer conn.Close()

		want := sqliteh.SQLITE_OPEN_CREATE | sqliteh.SQLITE_OPEN_READWRITE |
			sqliteh.SQLITE_OPEN_FULLMUTEX | sqliteh.SQLITE_OPEN_URI
		assert.Equal(t, want, lib.LastFlags)
		assert.Equal(t, "", lib.LastVFS)
		assert.False(t, conn.IsReadOnly())
	})

	t.Run("ReadOnlyFlags", func(t *testing.T) {
		conn, lib := openFake(t, WithReadOnly(), WithVFS("unix-none"))
		defer conn.Close()

		want := sqliteh.SQLITE_OPEN_READONLY | sqliteh.SQLITE_OPEN_FULLMUTEX | sqliteh.SQLITE_OPEN_URI
		assert.Equal(t, want, lib.LastFlags)
		assert.Equal(t, "unix-none", lib.LastVFS)
		assert.True(t, conn.IsReadOnly())
	})

	t.Run("NoHandle", func(t *testing.T) {
		lib := sqlitehtest.New()
		lib.NoHandle = true

		conn, err := Open("/data/app.db", WithLibrary(lib))
		assert.Nil(t, conn)
		assert.ErrorIs(t, err, ErrOpen)

		var sqliteErr *Error
		require.True(t, errors.As(err, &sqliteErr))
		assert.Equal(t, OpOpen, sqliteErr.Op)
		assert.Equal(t, "Unable to initialize connection.", sqliteErr.Message)
		assert.Equal(t, "/data/app.db", sqliteErr.Filename)
	})

	t.Run("HandleWithErrorIsClosed", func(t *testing.T) {
		lib := sqlitehtest.New()
		lib.OpenCode = sqliteh.SQLITE_CANTOPEN
		lib.OpenMsg = "unable to open database file"

		conn, err := Open("/nope/app.db", WithLibrary(lib))
		assert.Nil(t, conn)
		assert.ErrorIs(t, err, sqliteh.SQLITE_CANTOPEN)
		assert.NotErrorIs(t, err, ErrOpen)
		assert.Contains(t, err.Error(), "unable to open database file")
		assert.Contains(t, err.Error(), "/nope/app.db")

		require.Len(t, lib.Opened, 1)
		assert.True(t, lib.Opened[0].Closed())
	})

	t.Run("UnwritablePath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "app.db")
		conn, err := Open(path)
		assert.Nil(t, conn)
		assert.Error(t, err)
		assert.Equal(t, sqliteh.SQLITE_CANTOPEN, CodeOf(err))
		assert.Contains(t, err.Error(), path)
	})

	t.Run("ReadOnlyMissingFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.db")
		conn, err := Open(path, WithReadOnly())
		assert.Nil(t, conn)
		assert.ErrorIs(t, err, sqliteh.SQLITE_CANTOPEN)
	})

	t.Run("ExtendedCodesOption", func(t *testing.T) {
		conn, lib := openFake(t, WithExtendedErrorCodes())
		defer conn.Close()

		assert.True(t, conn.ExtendedErrorCodes())
		assert.Equal(t, 1, lib.Log.Count("extended_result_codes true"))
	})

	t.Run("PostConnectQueries", func(t *testing.T) {
		conn, lib := openFake(t, WithPostConnectQueries("PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"))
		defer conn.Close()

		assert.Equal(t, 1, lib.Log.Count("prepare PRAGMA foreign_keys = ON"))
		assert.Equal(t, 1, lib.Log.Count("prepare PRAGMA busy_timeout = 5000"))
		assert.Equal(t, 2, lib.Log.Count("finalize"))
	})

	t.Run("PostConnectQueryFailureClosesConn", func(t *testing.T) {
		lib := sqlitehtest.New()
		lib.Results["PRAGMA nope"] = &sqlitehtest.Result{
			PrepareCode: sqliteh.SQLITE_ERROR,
			PrepareMsg:  "unknown pragma",
		}

		conn, err := Open(":memory:", WithLibrary(lib), WithPostConnectQueries("PRAGMA nope"))
		assert.Nil(t, conn)
		assert.ErrorContains(t, err, `failed to execute "PRAGMA nope" post-connect query`)
		assert.True(t, lib.Opened[0].Closed())
	})

	t.Run("OpenLocation", func(t *testing.T) {
		lib := sqlitehtest.New()
		conn, err := OpenLocation(URI("app.db", Mode(ModeReadWriteCreate)), WithLibrary(lib))
		require.NoError(t, err)
		defer conn.Close()
		assert.Equal(t, []string{"open file:app.db?mode=rwc SQLITE_OPEN_READWRITE|SQLITE_OPEN_CREATE|SQLITE_OPEN_URI|SQLITE_OPEN_FULLMUTEX"}, lib.Log.Calls())
	})
}

func TestConnClose(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		conn, lib := openFake(t)
		assert.NoError(t, conn.Close())
		assert.NoError(t, conn.Close())
		assert.Equal(t, 1, lib.Log.Count("close"))
		assert.True(t, conn.IsClosed())
	})

	t.Run("RefusedWhileStatementsAreLive", func(t *testing.T) {
		conn, lib := openFake(t)
		stmt, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)

		err = conn.Close()
		assert.ErrorIs(t, err, ErrLiveStatements)
		assert.False(t, lib.Opened[0].Closed())
		assert.False(t, conn.IsClosed())

		require.NoError(t, stmt.Finalize())
		assert.NoError(t, conn.Close())
		assert.True(t, lib.Opened[0].Closed())
	})

	t.Run("OperationsAfterClose", func(t *testing.T) {
		conn, _ := openFake(t)
		require.NoError(t, conn.Close())

		_, err := conn.Prepare("SELECT 1")
		assert.ErrorIs(t, err, ErrClosed)
		assert.ErrorIs(t, conn.Exec("SELECT 1"), ErrClosed)
		assert.ErrorIs(t, conn.SetExtendedErrorCodes(true), ErrClosed)
		assert.Zero(t, conn.Changes())
		assert.Equal(t, ":memory:", conn.Filename())
	})
}

func TestCheckResult(t *testing.T) {
	conn, lib := openFake(t)
	defer conn.Close()

	assert.NoError(t, conn.CheckResult(sqliteh.SQLITE_OK))
	assert.NoError(t, conn.CheckResult(sqliteh.SQLITE_ROW))
	assert.NoError(t, conn.CheckResult(sqliteh.SQLITE_DONE))

	lib.Results["INSERT"] = &sqlitehtest.Result{
		StepCode:   sqliteh.SQLITE_CONSTRAINT_UNIQUE,
		StepCodeAt: 0,
		StepMsg:    "UNIQUE constraint failed: t.id",
	}
	require.Error(t, conn.Exec("INSERT"))

	err := conn.CheckResult(sqliteh.SQLITE_CONSTRAINT)
	require.Error(t, err)
	assert.ErrorIs(t, err, sqliteh.SQLITE_CONSTRAINT)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed: t.id")
}

func TestExtendedErrorCodes(t *testing.T) {
	conn := openMemory(t)
	require.NoError(t, conn.Exec(`
		CREATE TABLE u (id INTEGER PRIMARY KEY, name TEXT UNIQUE);
		INSERT INTO u (name) VALUES ('a');
	`))

	err := conn.Exec("INSERT INTO u (name) VALUES ('a')")
	assert.ErrorIs(t, err, sqliteh.SQLITE_CONSTRAINT)
	assert.NotErrorIs(t, err, sqliteh.SQLITE_CONSTRAINT_UNIQUE)

	require.NoError(t, conn.SetExtendedErrorCodes(true))
	assert.True(t, conn.ExtendedErrorCodes())

	err = conn.Exec("INSERT INTO u (name) VALUES ('a')")
	assert.ErrorIs(t, err, sqliteh.SQLITE_CONSTRAINT)
	assert.ErrorIs(t, err, sqliteh.SQLITE_CONSTRAINT_UNIQUE)
	assert.Equal(t, sqliteh.SQLITE_CONSTRAINT, CodeOf(err))
	assert.Contains(t, err.Error(), "SQLITE_CONSTRAINT_UNIQUE")
}

func TestConnProperties(t *testing.T) {
	t.Run("Counters", func(t *testing.T) {
		conn := openMemory(t)
		require.NoError(t, conn.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)"))
		require.NoError(t, conn.Exec("INSERT INTO t (v) VALUES ('a'), ('b'), ('c')"))
		assert.EqualValues(t, 3, conn.Changes())
		assert.EqualValues(t, 3, conn.LastInsertRowID())

		require.NoError(t, conn.Exec("UPDATE t SET v = 'z' WHERE id < 3"))
		assert.EqualValues(t, 2, conn.Changes())
		assert.EqualValues(t, 5, conn.TotalChanges())
	})

	t.Run("Filename", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.db")
		conn, err := Open(path)
		require.NoError(t, err)
		defer conn.Close()

		assert.Equal(t, path, conn.Filename())
		assert.False(t, conn.IsReadOnly())

		memory := openMemory(t)
		assert.Equal(t, ":memory:", memory.Filename())
	})

	t.Run("ReadOnly", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.db")
		rw, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, rw.Exec("CREATE TABLE t (id INTEGER)"))
		require.NoError(t, rw.Close())

		ro, err := Open(path, WithReadOnly())
		require.NoError(t, err)
		defer ro.Close()

		assert.True(t, ro.IsReadOnly())
		err = ro.Exec("INSERT INTO t VALUES (1)")
		assert.ErrorIs(t, err, sqliteh.SQLITE_READONLY)
	})

	t.Run("ThreadSafety", func(t *testing.T) {
		conn, lib := openFake(t)
		defer conn.Close()
		assert.True(t, conn.IsThreadSafe())
		lib.ThreadSafe = false
		assert.False(t, conn.IsThreadSafe())

		assert.True(t, IsThreadSafe())
		assert.NotEmpty(t, LibVersion())
	})
	t.Run("InTransaction", func(t *testing.T) {
		conn := openMemory(t)
		require.NoError(t, conn.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)"))
		assert.False(t, conn.InTransaction())

		require.NoError(t, conn.Exec("BEGIN; INSERT INTO t VALUES (1)"))
		assert.True(t, conn.InTransaction())

		// ON CONFLICT ROLLBACK ends the transaction inside the engine.
		err := conn.Exec("INSERT OR ROLLBACK INTO t VALUES (1)")
		assert.ErrorIs(t, err, sqliteh.SQLITE_CONSTRAINT)
		assert.False(t, conn.InTransaction())

		fake, lib := openFake(t)
		lib.Opened[0].SetInTransaction(true)
		assert.True(t, fake.InTransaction())
		require.NoError(t, fake.Close())
		assert.False(t, fake.InTransaction())
	})
}

func TestExec(t *testing.T) {
	t.Run("RunsEveryStatement", func(t *testing.T) {
		conn := openMemory(t)
		require.NoError(t, conn.Exec(`
			CREATE TABLE t (v INTEGER);
			INSERT INTO t VALUES (1);
			;
			INSERT INTO t VALUES (2); -- trailing comment
		`))

		counts, err := Query(conn, "SELECT COUNT(*) FROM t", func(row *Row) (int64, error) {
			return row.Int64(0)
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, counts)
	})

	t.Run("StopsAtFirstError", func(t *testing.T) {
		conn := openMemory(t)
		err := conn.Exec("CREATE TABLE t (v); INSERT INTO missing VALUES (1); CREATE TABLE u (v)")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such table: missing")

		names, err := Query(conn, "SELECT name FROM sqlite_master ORDER BY name", func(row *Row) (string, error) {
			return row.Text(0)
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"t"}, names)
	})
}
