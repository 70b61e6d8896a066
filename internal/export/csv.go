package export

import (
	"bufio"
	"encoding/csv"
	"io"

	"github.com/nsqlite/tsqlite/sqlite"
)

// CSVEncoder writes RFC 4180 CSV through a 64KB buffer. NULL is written as
// the literal NULL and blobs in their x'..' hex form.
type CSVEncoder struct {
	w      *csv.Writer
	buf    *bufio.Writer
	record []string
}

// NewCSVEncoder creates a CSV encoder that writes to w.
func NewCSVEncoder(w io.Writer) *CSVEncoder {
	buf := bufio.NewWriterSize(w, 64*1024)
	return &CSVEncoder{
		w:   csv.NewWriter(buf),
		buf: buf,
	}
}

// WriteHeader writes the header record.
func (e *CSVEncoder) WriteHeader(columns []string) error {
	e.record = make([]string, len(columns))
	return e.w.Write(columns)
}

// WriteRow writes one record. Text that a spreadsheet would run as a
// formula is prefixed with a single quote.
func (e *CSVEncoder) WriteRow(values []sqlite.Value) error {
	if len(e.record) != len(values) {
		e.record = make([]string, len(values))
	}
	for i, v := range values {
		if s, ok := v.Text(); ok {
			e.record[i] = guardFormula(s)
			continue
		}
		e.record[i] = v.String()
	}
	return e.w.Write(e.record)
}

// Flush writes buffered records to the underlying writer.
func (e *CSVEncoder) Flush() error {
	e.w.Flush()
	if err := e.w.Error(); err != nil {
		return err
	}
	return e.buf.Flush()
}

// Error returns any error stored in the CSV writer.
func (e *CSVEncoder) Error() error {
	return e.w.Error()
}

// Close flushes the encoder.
func (e *CSVEncoder) Close() error {
	return e.Flush()
}
