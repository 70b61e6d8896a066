package export

import (
	"bufio"
	"encoding/json"
	"io"
	"math"

	"github.com/nsqlite/tsqlite/sqlite"
)

// JSONEncoder writes JSON lines: one object per row keyed by column name.
// Blobs are base64 encoded and infinite reals are written as strings.
type JSONEncoder struct {
	buf     *bufio.Writer
	enc     *json.Encoder
	columns []string
	err     error
}

// NewJSONEncoder creates a JSON lines encoder that writes to w.
func NewJSONEncoder(w io.Writer) *JSONEncoder {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &JSONEncoder{buf: buf, enc: enc}
}

// WriteHeader captures the column names used as keys.
func (e *JSONEncoder) WriteHeader(columns []string) error {
	e.columns = columns
	return nil
}

// WriteRow writes one object. Duplicate column names keep the last value.
func (e *JSONEncoder) WriteRow(values []sqlite.Value) error {
	if e.err != nil {
		return e.err
	}

	object := make(map[string]any, len(values))
	for i, v := range values {
		object[e.columns[i]] = jsonValue(v)
	}
	if err := e.enc.Encode(object); err != nil {
		e.err = err
		return err
	}
	return nil
}

func jsonValue(v sqlite.Value) any {
	if f, ok := v.Float64(); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return v.String()
	}
	return v.Any()
}

// Flush writes buffered lines to the underlying writer.
func (e *JSONEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.buf.Flush(); err != nil {
		e.err = err
	}
	return e.err
}

// Error returns the first encoding error.
func (e *JSONEncoder) Error() error {
	return e.err
}

// Close flushes the encoder.
func (e *JSONEncoder) Close() error {
	return e.Flush()
}
