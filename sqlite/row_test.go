package sqlite

import (
	"math"
	"testing"

	"github.com/nsqlite/tsqlite/sqliteh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowRead(t *testing.T) {
	t.Run("OneTypedReadPerColumn", func(t *testing.T) {
		conn, lib := openFake(t)
		defer conn.Close()
		lib.Script("SELECT", []string{"i", "f", "s", "b", "n"},
			[]any{int64(7), 1.5, "seven", []byte{1, 2}, nil},
		)

		stmt, err := conn.Prepare("SELECT")
		require.NoError(t, err)
		defer stmt.Finalize()

		hasRow, err := stmt.Step()
		require.NoError(t, err)
		require.True(t, hasRow)
		lib.Log.Reset()

		values, err := stmt.Row().Values()
		require.NoError(t, err)
		assert.Equal(t, []Value{Integer(7), Real(1.5), Text("seven"), Blob([]byte{1, 2}), Null()}, values)
		assert.Equal(t, []string{
			"column_type 0", "column_int64 0",
			"column_type 1", "column_double 1",
			"column_type 2", "column_text 2",
			"column_type 3", "column_bytes 3", "column_blob 3",
			"column_type 4",
		}, lib.Log.Calls())
	})

	t.Run("EmptyBlobSkipsBlobRead", func(t *testing.T) {
		conn, lib := openFake(t)
		defer conn.Close()
		lib.Script("SELECT", []string{"b"}, []any{[]byte{}})

		stmt, err := conn.Prepare("SELECT")
		require.NoError(t, err)
		defer stmt.Finalize()
		lib.Log.Reset()

		hasRow, err := stmt.Step()
		require.NoError(t, err)
		require.True(t, hasRow)

		v, err := stmt.Row().Read(0)
		require.NoError(t, err)
		assert.Equal(t, BlobType, v.Type())
		assert.Equal(t, 0, v.Len())
		b, ok := v.Bytes()
		assert.True(t, ok)
		assert.NotNil(t, b)
		assert.Equal(t, []string{"step", "column_type 0", "column_bytes 0"}, lib.Log.Calls())
	})

	t.Run("ReadFailure", func(t *testing.T) {
		conn, lib := openFake(t)
		defer conn.Close()
		res := lib.Script("SELECT", []string{"s"}, []any{"big"})
		res.ReadCode = sqliteh.SQLITE_NOMEM

		stmt, err := conn.Prepare("SELECT")
		require.NoError(t, err)
		defer stmt.Finalize()
		_, err = stmt.Step()
		require.NoError(t, err)

		_, err = stmt.Row().Read(0)
		assert.ErrorIs(t, err, sqliteh.SQLITE_NOMEM)
		assert.ErrorContains(t, err, "failed to read: column 0")
	})

	t.Run("OutOfRange", func(t *testing.T) {
		conn := openMemory(t)
		stmt, err := conn.Prepare("SELECT 1, 2")
		require.NoError(t, err)
		defer stmt.Finalize()
		_, err = stmt.Step()
		require.NoError(t, err)

		row := stmt.Row()
		for _, col := range []int{-1, 2, 100} {
			_, err := row.Read(col)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.ErrorIs(t, err, sqliteh.SQLITE_RANGE)
			_, err = row.ReadType(col)
			assert.ErrorIs(t, err, ErrOutOfRange)
		}
		assert.Panics(t, func() { row.Columns().At(2) })
	})

	t.Run("ExpiresWithItsStatement", func(t *testing.T) {
		conn := openMemory(t)
		stmt, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)

		_, err = stmt.Step()
		require.NoError(t, err)
		row := stmt.Row()
		assert.True(t, row.Valid())

		require.NoError(t, stmt.Reset())
		assert.False(t, row.Valid())
		_, err = row.Read(0)
		assert.ErrorIs(t, err, ErrRowExpired)

		_, err = stmt.Step()
		require.NoError(t, err)
		row = stmt.Row()
		require.NoError(t, stmt.Finalize())
		_, err = row.Read(0)
		assert.ErrorIs(t, err, ErrFinalized)
	})

	t.Run("RoundTripsEveryStorageClass", func(t *testing.T) {
		conn := openMemory(t)
		require.NoError(t, conn.Exec("CREATE TABLE r (v)"))

		values := []Value{
			Integer(math.MinInt64),
			Integer(math.MaxInt64),
			Real(-0.5),
			Real(math.MaxFloat64),
			Text(""),
			Text("héllo\x00world"),
			Blob([]byte{0, 1, 2, 0xff}),
			Blob(nil),
			ZeroBlob(3),
			Null(),
		}

		insert, err := conn.Prepare("INSERT INTO r (v) VALUES (?)")
		require.NoError(t, err)
		for _, v := range values {
			require.NoError(t, insert.Bind(1, v))
			_, err := insert.Step()
			require.NoError(t, err)
			require.NoError(t, insert.Reset())
		}
		require.NoError(t, insert.Finalize())

		got, err := Query(conn, "SELECT v FROM r ORDER BY rowid", func(row *Row) (Value, error) {
			return row.Read(0)
		})
		require.NoError(t, err)
		require.Len(t, got, len(values))

		for i, v := range values {
			want := v
			if v.IsZeroBlob() {
				want = Blob(make([]byte, 3))
			}
			assert.True(t, want.Equal(got[i]), "row %d: want %s, got %s", i, want, got[i])
		}
	})

	t.Run("ReadTypeFollowsStoredValue", func(t *testing.T) {
		conn := openMemory(t)
		require.NoError(t, conn.Exec(`
			CREATE TABLE t (n INTEGER);
			INSERT INTO t VALUES (1), ('x'), (2.5), (NULL);
		`))

		types, err := Query(conn, "SELECT n FROM t ORDER BY rowid", func(row *Row) (ValueType, error) {
			return row.ReadType(0)
		})
		require.NoError(t, err)
		assert.Equal(t, []ValueType{IntegerType, TextType, RealType, NullType}, types)
	})
}

func TestRowColumns(t *testing.T) {
	conn := openMemory(t)
	stmt, err := conn.Prepare("SELECT 1 AS a, 'b' AS b, NULL AS c")
	require.NoError(t, err)
	defer stmt.Finalize()

	_, err = stmt.Step()
	require.NoError(t, err)
	cols := stmt.Row().Columns()
	assert.Equal(t, 3, cols.Len())

	names := []string{}
	for i, col := range cols.All() {
		assert.Equal(t, i, col.Index)
		assert.Equal(t, 0, col.RowIndex)
		names = append(names, col.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	v, err := cols.At(1).Read()
	require.NoError(t, err)
	assert.Equal(t, Text("b"), v)

	typ, err := cols.At(2).ReadType()
	require.NoError(t, err)
	assert.Equal(t, NullType, typ)

	n := 0
	for range cols.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
