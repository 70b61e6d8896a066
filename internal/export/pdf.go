package export

import (
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/nsqlite/tsqlite/sqlite"
)

const pdfRowHeight = 7.0

// PDFEncoder draws the rows as a grid on landscape A4 pages, repeating the
// header on every page. The document is written to the underlying writer on
// Flush.
type PDFEncoder struct {
	pdf      *fpdf.Fpdf
	w        io.Writer
	tr       func(string) string
	colWidth float64
	flushed  bool
}

// NewPDFEncoder creates a PDF encoder that writes to w.
func NewPDFEncoder(w io.Writer) *PDFEncoder {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 9)
	return &PDFEncoder{
		pdf: pdf,
		w:   w,
		// Core fonts are cp1252.
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// WriteHeader sets up the page header and starts the first page.
func (e *PDFEncoder) WriteHeader(columns []string) error {
	pageWidth, _ := e.pdf.GetPageSize()
	left, _, right, _ := e.pdf.GetMargins()
	e.colWidth = (pageWidth - left - right) / float64(max(len(columns), 1))

	e.pdf.SetHeaderFunc(func() {
		e.pdf.SetFont("Arial", "B", 9)
		for _, column := range columns {
			e.cell(column, "C")
		}
		e.pdf.Ln(-1)
		e.pdf.SetFont("Arial", "", 9)
	})
	e.pdf.AddPage()
	return e.pdf.Error()
}

// cell draws one bordered cell, truncating text that does not fit.
func (e *PDFEncoder) cell(text, align string) {
	text = e.tr(text)
	limit := e.colWidth - 2*e.pdf.GetCellMargin()
	if e.pdf.GetStringWidth(text) > limit {
		for len(text) > 0 && e.pdf.GetStringWidth(text+"...") > limit {
			text = text[:len(text)-1]
		}
		text += "..."
	}
	e.pdf.CellFormat(e.colWidth, pdfRowHeight, text, "1", 0, align, false, 0, "")
}

// WriteRow draws one row. Numbers are right aligned.
func (e *PDFEncoder) WriteRow(values []sqlite.Value) error {
	for _, v := range values {
		align := "L"
		if t := v.Type(); t == sqlite.IntegerType || t == sqlite.RealType {
			align = "R"
		}
		e.cell(v.String(), align)
	}
	e.pdf.Ln(-1)
	return e.pdf.Error()
}

// Flush writes the document. Only the first call writes.
func (e *PDFEncoder) Flush() error {
	if e.flushed {
		return e.pdf.Error()
	}
	e.flushed = true
	if e.pdf.PageNo() == 0 {
		e.pdf.AddPage()
	}
	return e.pdf.Output(e.w)
}

// Error returns the first error recorded by the document.
func (e *PDFEncoder) Error() error {
	return e.pdf.Error()
}

// Close is a no-op; the document lives in memory until Flush.
func (e *PDFEncoder) Close() error {
	return nil
}
