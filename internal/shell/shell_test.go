package shell

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nsqlite/tsqlite/internal/config"
	"github.com/nsqlite/tsqlite/internal/log"
	"github.com/nsqlite/tsqlite/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	conn, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var out bytes.Buffer
	logger := log.NewLogger(io.Discard)
	sh := New(conn, config.ShellConfig{Database: ":memory:", MaxRows: 3}, &out, &logger)

	require.False(t, sh.Exec("CREATE TABLE sites (id INTEGER PRIMARY KEY, name TEXT NOT NULL, rating DOUBLE)"))
	out.Reset()
	return sh, &out
}

func countSites(t *testing.T, sh *Shell) int64 {
	t.Helper()
	counts, err := sqlite.Query(sh.conn, "SELECT COUNT(*) FROM sites", func(row *sqlite.Row) (int64, error) {
		return row.Int64(0)
	})
	require.NoError(t, err)
	return counts[0]
}

func TestShellExec(t *testing.T) {
	t.Run("WriteReportsChanges", func(t *testing.T) {
		sh, out := newTestShell(t)
		assert.False(t, sh.Exec("INSERT INTO sites (name, rating) VALUES ('Fire Pit', 4.5), ('Bear Locker', NULL)"))
		assert.Contains(t, out.String(), "Rows Affected")
		assert.Contains(t, out.String(), "Last Insert ID")
		assert.EqualValues(t, 2, countSites(t, sh))
	})

	t.Run("QueryRendersTable", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec("INSERT INTO sites (name, rating) VALUES ('Fire Pit', 4.5), ('Bear Locker', NULL)")
		out.Reset()

		sh.Exec("SELECT name, rating FROM sites ORDER BY id")
		assert.Contains(t, out.String(), "name")
		assert.Contains(t, out.String(), "Fire Pit")
		assert.Contains(t, out.String(), "4.5")
		assert.Contains(t, out.String(), "NULL")
		assert.Contains(t, out.String(), "2 rows in")
	})

	t.Run("MaxRows", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec("INSERT INTO sites (name) VALUES ('row1'), ('row2'), ('row3'), ('row4'), ('row5')")
		out.Reset()

		sh.Exec("SELECT name FROM sites ORDER BY id")
		assert.Contains(t, out.String(), "row3")
		assert.NotContains(t, out.String(), "row4")
		assert.Contains(t, out.String(), "Showing the first 3 rows")

		out.Reset()
		sh.Exec("SELECT name FROM sites ORDER BY id LIMIT 3")
		assert.Contains(t, out.String(), "3 rows in")
	})

	t.Run("SeveralStatements", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec("INSERT INTO sites (name) VALUES ('x'); INSERT INTO sites (name) VALUES ('y');  SELECT COUNT(*) AS total FROM sites; ")
		assert.Contains(t, out.String(), "total")
		assert.EqualValues(t, 2, countSites(t, sh))

		total := sh.stats.Total()
		// The CREATE TABLE of newTestShell is a write too.
		assert.EqualValues(t, 3, total.Write)
		assert.EqualValues(t, 1, total.Read)
	})

	t.Run("StopsAtFirstError", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec("INSERT INTO sites (id, name) VALUES (1, 'x'); INSERT INTO sites (id, name) VALUES (1, 'y'); INSERT INTO sites (name) VALUES ('z')")
		assert.Contains(t, out.String(), "Error: SQLITE_CONSTRAINT: UNIQUE constraint failed: sites.id")
		assert.EqualValues(t, 1, countSites(t, sh))
		assert.EqualValues(t, 1, sh.stats.Total().Error)

		out.Reset()
		sh.Exec("SELEC 1")
		assert.Contains(t, out.String(), "Error: SQLITE_ERROR")
		assert.Contains(t, out.String(), "syntax error")
	})

	t.Run("EngineRollbackClearsPrompt", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec("BEGIN; INSERT INTO sites (id, name) VALUES (1, 'first')")
		assert.Equal(t, "tsqlite(tx)> ", sh.label())

		sh.Exec("INSERT OR ROLLBACK INTO sites (id, name) VALUES (1, 'again')")
		assert.Contains(t, out.String(), "Error: SQLITE_CONSTRAINT")
		assert.Equal(t, "tsqlite> ", sh.label())
		assert.EqualValues(t, 0, countSites(t, sh))
	})

	t.Run("EmptyInput", func(t *testing.T) {
		sh, out := newTestShell(t)
		before := sh.stats.Total()
		assert.False(t, sh.Exec(""))
		assert.False(t, sh.Exec("   "))
		assert.False(t, sh.Exec("-- just a comment"))
		assert.Empty(t, out.String())
		assert.Equal(t, before, sh.stats.Total())
	})

	t.Run("Transactions", func(t *testing.T) {
		sh, out := newTestShell(t)
		assert.Equal(t, "tsqlite> ", sh.label())

		sh.Exec("BEGIN")
		assert.Contains(t, out.String(), "Transaction started")
		assert.Equal(t, "tsqlite(tx)> ", sh.label())

		sh.Exec("INSERT INTO sites (name) VALUES ('dropped')")
		sh.Exec("ROLLBACK")
		assert.Contains(t, out.String(), "Transaction rolled back")
		assert.Equal(t, "tsqlite> ", sh.label())
		assert.EqualValues(t, 0, countSites(t, sh))

		sh.Exec("BEGIN; INSERT INTO sites (name) VALUES ('kept'); COMMIT")
		assert.Contains(t, out.String(), "Transaction committed")
		assert.EqualValues(t, 1, countSites(t, sh))

		total := sh.stats.Total()
		assert.EqualValues(t, 2, total.Begin)
		assert.EqualValues(t, 1, total.Commit)
		assert.EqualValues(t, 1, total.Rollback)
	})

	t.Run("Quit", func(t *testing.T) {
		sh, _ := newTestShell(t)
		assert.True(t, sh.Exec(".quit"))
		assert.True(t, sh.Exec(".exit"))
		assert.True(t, sh.Exec("exit"))
		assert.False(t, sh.Exec(".quitting"))
	})
}

func TestShellDotCommands(t *testing.T) {
	t.Run("Unknown", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec(".frobnicate")
		assert.Contains(t, out.String(), "Unknown command, type .help for usage hints")
	})

	t.Run("Help", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec(".help")
		assert.Contains(t, out.String(), "Available commands:")
		assert.Contains(t, out.String(), ".export [format] [file] [query]")
	})

	t.Run("TablesAndIndexes", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec("CREATE VIEW rated AS SELECT * FROM sites WHERE rating IS NOT NULL")
		sh.Exec("CREATE INDEX sites_name ON sites (name)")
		out.Reset()

		sh.Exec(".tables")
		assert.Contains(t, out.String(), "sites")
		assert.Contains(t, out.String(), "rated")
		assert.Contains(t, out.String(), "view")

		out.Reset()
		sh.Exec(".indexes")
		assert.Contains(t, out.String(), "sites_name")
	})

	t.Run("Schema", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec("CREATE TABLE other (x)")
		out.Reset()

		sh.Exec(".schema sites")
		assert.Contains(t, out.String(), "CREATE TABLE sites (id INTEGER PRIMARY KEY, name TEXT NOT NULL, rating DOUBLE);")
		assert.NotContains(t, out.String(), "other")

		out.Reset()
		sh.Exec(".schema")
		assert.Contains(t, out.String(), "CREATE TABLE other (x);")

		out.Reset()
		sh.Exec(".schema missing")
		assert.Contains(t, out.String(), "No schema found")
	})

	t.Run("Columns", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec(".columns sites")
		assert.Contains(t, out.String(), "Affinity")
		assert.Contains(t, out.String(), "INTEGER")
		assert.Contains(t, out.String(), "TEXT")
		assert.Contains(t, out.String(), "REAL")
		assert.Contains(t, out.String(), "DOUBLE")

		out.Reset()
		sh.Exec(".columns missing")
		assert.Contains(t, out.String(), "Table missing not found")

		out.Reset()
		sh.Exec(".columns")
		assert.Contains(t, out.String(), "Usage: .columns")
	})

	t.Run("Count", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec(".count nowhere")
		assert.Contains(t, out.String(), "Error: SQLITE_ERROR: no such table: nowhere")

		out.Reset()
		sh.Exec(".count sites")
		assert.Contains(t, out.String(), "count")
		assert.Contains(t, out.String(), "0")
	})

	t.Run("Stats", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec("INSERT INTO sites (name) VALUES ('a')")
		sh.Exec("SELECT * FROM sites")
		out.Reset()

		sh.Exec(".stats")
		assert.Contains(t, out.String(), "Minute (UTC)")
		assert.Contains(t, out.String(), "Total")
		assert.Contains(t, out.String(), "Showing the last 5 minutes with activity")
		assert.Contains(t, out.String(), "Total changes: 1")

		out.Reset()
		sh.Exec(".stats zero")
		assert.Contains(t, out.String(), "Usage: .stats")
	})

	t.Run("ExportCSV", func(t *testing.T) {
		sh, out := newTestShell(t)
		sh.Exec("INSERT INTO sites (name, rating) VALUES ('Fire Pit', 4.5), ('=cmd', NULL)")
		out.Reset()

		path := filepath.Join(t.TempDir(), "sites.csv")
		sh.Exec(".export csv " + path + "   SELECT id, name, rating FROM sites ORDER BY id")
		assert.Contains(t, out.String(), "Exported 2 rows to "+path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "id,name,rating\n1,Fire Pit,4.5\n2,'=cmd,NULL\n", string(data))
	})

	t.Run("ExportFailures", func(t *testing.T) {
		sh, out := newTestShell(t)
		dir := t.TempDir()

		sh.Exec(".export csv")
		assert.Contains(t, out.String(), "Usage: .export")

		out.Reset()
		sh.Exec(".export xml " + filepath.Join(dir, "a.xml") + " SELECT 1")
		assert.Contains(t, out.String(), `unknown export format "xml"`)
		assert.NoFileExists(t, filepath.Join(dir, "a.xml"))

		out.Reset()
		path := filepath.Join(dir, "b.csv")
		sh.Exec(".export csv " + path + " SELECT * FROM missing")
		assert.Contains(t, out.String(), "no such table: missing")
		assert.NoFileExists(t, path)
	})
}

func TestCleanError(t *testing.T) {
	sh, _ := newTestShell(t)
	_, err := sh.conn.Prepare("SELECT * FROM nowhere")
	require.Error(t, err)
	assert.Equal(t, "SQLITE_ERROR: no such table: nowhere", cleanError(err))
	assert.Equal(t, "plain", cleanError(errors.New("plain")))
}
