package sqlite

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateValue(t *testing.T) {
	ts := time.Date(2024, time.March, 9, 17, 45, 30, 250_000_000, time.FixedZone("CET", 3600))

	assert.Equal(t, Integer(ts.Unix()), DateValue(ts, DateInteger))
	assert.Equal(t, Text("2024-03-09T16:45:30Z"), DateValue(ts, DateText))

	julian, ok := DateValue(ts, DateReal).Float64()
	require.True(t, ok)
	assert.InDelta(t, 2460379.1982667, julian, 1e-6)

	back, err := AsTime(DateValue(ts, DateReal))
	require.NoError(t, err)
	assert.WithinDuration(t, ts, back, time.Millisecond)
}

func TestAsTime(t *testing.T) {
	want := time.Date(2024, time.March, 9, 16, 45, 30, 0, time.UTC)

	tests := []struct {
		name  string
		value Value
		want  time.Time
	}{
		{"Unix", Integer(want.Unix()), want},
		{"RFC3339", Text("2024-03-09T17:45:30+01:00"), want},
		{"SQLiteDatetime", Text("2024-03-09 16:45:30"), want},
		{"WithoutSeconds", Text("2024-03-09 16:45"), want.Truncate(time.Minute)},
		{"DateOnly", Text("2024-03-09"), time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)},
		{"Julian", Real(2460379.19826389), want},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AsTime(tt.value)
			require.NoError(t, err)
			assert.WithinDuration(t, tt.want, got, time.Millisecond)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := AsTime(Text("yesterday"))
	assert.ErrorIs(t, err, ErrMismatch)
	_, err = AsTime(Blob([]byte{1}))
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestDatesThroughSQLite(t *testing.T) {
	conn := openMemory(t)
	ts := time.Date(2021, time.July, 4, 12, 0, 0, 0, time.UTC)

	got, err := Query(conn, "SELECT datetime(?, 'unixepoch'), julianday(?), unixepoch(?)",
		func(row *Row) ([]time.Time, error) {
			var out []time.Time
			for i := range 3 {
				tm, err := Decode(row, i, AsTime)
				if err != nil {
					return nil, err
				}
				out = append(out, tm)
			}
			return out, nil
		},
		DateValue(ts, DateInteger), DateValue(ts, DateReal), DateValue(ts, DateText),
	)
	require.NoError(t, err)
	require.Len(t, got, 1)
	for _, tm := range got[0] {
		assert.WithinDuration(t, ts, tm, time.Millisecond)
	}
}

func TestUUID(t *testing.T) {
	u := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")

	blob := UUIDValue(u, UUIDBlob)
	assert.Equal(t, BlobType, blob.Type())
	assert.Equal(t, 16, blob.Len())

	text := UUIDValue(u, UUIDText)
	assert.Equal(t, Text("7d444840-9dc0-11d1-b245-5ffdce74fad2"), text)

	for _, v := range []Value{blob, text} {
		got, err := AsUUID(v)
		require.NoError(t, err)
		assert.Equal(t, u, got)
	}

	_, err := AsUUID(Blob([]byte{1, 2, 3}))
	assert.Error(t, err)
	_, err = AsUUID(Integer(1))
	assert.ErrorIs(t, err, ErrMismatch)

	conn := openMemory(t)
	got, err := Query(conn, "SELECT ?", func(row *Row) (uuid.UUID, error) {
		return Decode(row, 0, AsUUID)
	}, blob)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{u}, got)
}
