package export

import (
	"fmt"
	"io"

	"github.com/nsqlite/tsqlite/sqlite"
	"github.com/xuri/excelize/v2"
)

// maxExcelRows is the row limit of a worksheet, header included.
const maxExcelRows = 1_048_576

// ExcelEncoder writes a single sheet workbook with excelize's stream writer.
// The workbook is written to the underlying writer on Flush.
type ExcelEncoder struct {
	f       *excelize.File
	sw      *excelize.StreamWriter
	w       io.Writer
	rowIdx  int
	flushed bool
	err     error
}

// NewExcelEncoder creates an Excel encoder that writes to w.
func NewExcelEncoder(w io.Writer) *ExcelEncoder {
	f := excelize.NewFile()
	sw, err := f.NewStreamWriter("Sheet1")
	if err != nil {
		return &ExcelEncoder{f: f, err: fmt.Errorf("failed to create stream writer: %w", err)}
	}
	return &ExcelEncoder{
		f:      f,
		sw:     sw,
		w:      w,
		rowIdx: 1,
	}
}

func (e *ExcelEncoder) setRow(row []any) error {
	if e.err != nil {
		return e.err
	}
	if e.rowIdx > maxExcelRows {
		e.err = fmt.Errorf("excel row limit exceeded (%d rows)", maxExcelRows)
		return e.err
	}

	cell, err := excelize.CoordinatesToCellName(1, e.rowIdx)
	if err != nil {
		e.err = err
		return err
	}
	if err := e.sw.SetRow(cell, row); err != nil {
		e.err = err
		return err
	}
	e.rowIdx++
	return nil
}

// WriteHeader writes the header row.
func (e *ExcelEncoder) WriteHeader(columns []string) error {
	row := make([]any, len(columns))
	for i, column := range columns {
		row[i] = column
	}
	return e.setRow(row)
}

// WriteRow writes one row. Numbers stay numeric cells, NULL is an empty
// cell and blobs are written in their x'..' hex form.
func (e *ExcelEncoder) WriteRow(values []sqlite.Value) error {
	row := make([]any, len(values))
	for i, v := range values {
		switch v.Type() {
		case sqlite.NullType:
			row[i] = nil
		case sqlite.IntegerType, sqlite.RealType:
			row[i] = v.Any()
		case sqlite.TextType:
			s, _ := v.Text()
			row[i] = guardFormula(s)
		default:
			row[i] = v.String()
		}
	}
	return e.setRow(row)
}

// Flush writes the workbook. Only the first call writes.
func (e *ExcelEncoder) Flush() error {
	if e.err != nil || e.flushed {
		return e.err
	}
	e.flushed = true
	if err := e.sw.Flush(); err != nil {
		e.err = err
		return err
	}
	if err := e.f.Write(e.w); err != nil {
		e.err = err
	}
	return e.err
}

// Error returns the first encoding error.
func (e *ExcelEncoder) Error() error {
	return e.err
}

// Close releases the workbook.
func (e *ExcelEncoder) Close() error {
	return e.f.Close()
}
