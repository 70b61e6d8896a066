// Package export streams the rows of a query into files: CSV, JSON lines,
// Excel workbooks and PDF tables.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/nsqlite/tsqlite/sqlite"
	"github.com/orsinium-labs/enum"
)

// RowEncoder writes rows in one output format.
type RowEncoder interface {
	// WriteHeader is called once, before any row.
	WriteHeader(columns []string) error
	// WriteRow writes one row. values has one entry per header column.
	WriteRow(values []sqlite.Value) error
	// Flush writes everything buffered to the underlying writer.
	Flush() error
	// Error returns the first error that occurred while encoding.
	Error() error
	// Close releases the encoder. It does not close the underlying writer.
	io.Closer
}

// Format is an output format.
type Format enum.Member[string]

var (
	FormatCSV   = Format{Value: "csv"}
	FormatJSONL = Format{Value: "jsonl"}
	FormatXLSX  = Format{Value: "xlsx"}
	FormatPDF   = Format{Value: "pdf"}

	Formats = enum.New(FormatCSV, FormatJSONL, FormatXLSX, FormatPDF)
)

// ParseFormat returns the format called name.
func ParseFormat(name string) (Format, error) {
	format := Formats.Parse(name)
	if format == nil {
		return Format{}, fmt.Errorf("unknown export format %q, expected one of %s", name, formatNames())
	}
	return *format, nil
}

func formatNames() string {
	members := Formats.Members()
	names := make([]string, 0, len(members))
	for _, format := range members {
		names = append(names, format.Value)
	}
	return strings.Join(names, ", ")
}

// New returns an encoder for format writing to w.
func New(format Format, w io.Writer) (RowEncoder, error) {
	switch format {
	case FormatCSV:
		return NewCSVEncoder(w), nil
	case FormatJSONL:
		return NewJSONEncoder(w), nil
	case FormatXLSX:
		return NewExcelEncoder(w), nil
	case FormatPDF:
		return NewPDFEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown export format %q", format.Value)
}

// guardFormula prefixes text that a spreadsheet would evaluate as a formula
// with a single quote.
func guardFormula(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
