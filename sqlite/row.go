package sqlite

import (
	"fmt"
	"iter"

	"github.com/nsqlite/tsqlite/sqliteh"
)

// Row is a view of the current result row of a statement. It is only valid
// until the statement steps again, resets or is finalized; reading it
// afterwards fails with ErrRowExpired.
type Row struct {
	stmt  *Stmt
	index int
	gen   uint64
}

// Index returns the zero-based position of the row within its execution.
func (row *Row) Index() int {
	return row.index
}

// Stmt returns the statement that produced the row.
func (row *Row) Stmt() *Stmt {
	return row.stmt
}

// Valid reports whether the row can still be read.
func (row *Row) Valid() bool {
	return !row.stmt.finalized && row.gen == row.stmt.gen
}

// ColumnCount returns the number of columns in the row.
func (row *Row) ColumnCount() int {
	return row.stmt.ColumnCount()
}

// ColumnIndex returns the index of the column called name, or -1.
func (row *Row) ColumnIndex(name string) int {
	return row.stmt.ColumnIndex(name)
}

// Columns returns the fixed, ordered set of columns of the row.
func (row *Row) Columns() Columns {
	return Columns{row: row}
}

func (row *Row) check(col int) error {
	if row.stmt.finalized {
		return misuse(OpRead, ErrFinalized, row.stmt.query)
	}
	if row.gen != row.stmt.gen {
		return misuse(OpRead, ErrRowExpired, row.stmt.query)
	}
	if col < 0 || col >= row.stmt.ColumnCount() {
		err := misuse(OpRead, ErrOutOfRange, row.stmt.query)
		err.Message = fmt.Sprintf("column %d of %d", col, row.stmt.ColumnCount())
		return err
	}
	return nil
}

// ReadType returns the storage class of the value in column col of the
// current row. It can differ from row to row and from the declared type.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (row *Row) ReadType(col int) (ValueType, error) {
	if err := row.check(col); err != nil {
		return NullType, err
	}
	return valueTypeOf(row.stmt.native.ColumnType(col)), nil
}

func valueTypeOf(t sqliteh.ColumnType) ValueType {
	switch t {
	case sqliteh.SQLITE_INTEGER:
		return IntegerType
	case sqliteh.SQLITE_FLOAT:
		return RealType
	case sqliteh.SQLITE_TEXT:
		return TextType
	case sqliteh.SQLITE_BLOB:
		return BlobType
	default:
		return NullType
	}
}

// Read returns the value in column col of the current row. It asks SQLite
// for the storage class first and then issues exactly one typed read.
func (row *Row) Read(col int) (Value, error) {
	if err := row.check(col); err != nil {
		return Null(), err
	}

	native := row.stmt.native
	var (
		value Value
		code  sqliteh.Code
	)
	switch native.ColumnType(col) {
	case sqliteh.SQLITE_INTEGER:
		var i int64
		i, code = native.ColumnInt64(col)
		value = Integer(i)
	case sqliteh.SQLITE_FLOAT:
		var f float64
		f, code = native.ColumnDouble(col)
		value = Real(f)
	case sqliteh.SQLITE_TEXT:
		var s string
		s, code = native.ColumnText(col)
		value = Text(s)
	case sqliteh.SQLITE_BLOB:
		n := native.ColumnBytes(col)
		if n == 0 {
			return Value{kind: kindBlob, b: []byte{}}, nil
		}
		var b []byte
		b, code = native.ColumnBlob(col, n)
		// The native layer already copied the bytes into Go memory.
		value = Value{kind: kindBlob, b: b}
	default:
		return Null(), nil
	}

	if !code.IsSuccess() {
		err := row.stmt.conn.errorFor(OpRead, code, row.stmt.query)
		err.Message = fmt.Sprintf("column %d", col)
		return Null(), err
	}
	return value, nil
}

// Values reads every column of the current row.
func (row *Row) Values() ([]Value, error) {
	values := make([]Value, row.ColumnCount())
	for i := range values {
		v, err := row.Read(i)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// Int64 reads column col as an integer.
func (row *Row) Int64(col int) (int64, error) {
	return Decode(row, col, AsInt64)
}

// Float64 reads column col as a real. Integers are converted.
func (row *Row) Float64(col int) (float64, error) {
	return Decode(row, col, AsFloat64)
}

// Text reads column col as text.
func (row *Row) Text(col int) (string, error) {
	return Decode(row, col, AsText)
}

// Bytes reads column col as a blob. Text is returned as its UTF-8 bytes.
func (row *Row) Bytes(col int) ([]byte, error) {
	return Decode(row, col, AsBytes)
}

// Columns is the ordered, fixed-size set of columns of a Row.
type Columns struct {
	row *Row
}

// Len returns the number of columns.
func (cols Columns) Len() int {
	return cols.row.ColumnCount()
}

// At returns the column at index i. It panics if i is out of range.
func (cols Columns) At(i int) Column {
	return Column{
		RowIndex: cols.row.index,
		Index:    i,
		Name:     cols.row.stmt.ColumnName(i),
		row:      cols.row,
	}
}

// All iterates over the columns in order.
func (cols Columns) All() iter.Seq2[int, Column] {
	return func(yield func(int, Column) bool) {
		for i := 0; i < cols.Len(); i++ {
			if !yield(i, cols.At(i)) {
				return
			}
		}
	}
}

// Column identifies one column of a Row. Its value is not stored; Read
// fetches it from the row.
type Column struct {
	RowIndex int
	Index    int
	Name     string

	row *Row
}

// Read returns the value of the column in its row.
func (col Column) Read() (Value, error) {
	return col.row.Read(col.Index)
}

// ReadType returns the storage class of the column value in its row.
func (col Column) ReadType() (ValueType, error) {
	return col.row.ReadType(col.Index)
}
