package sqlite

import (
	"bytes"
	"fmt"
	"strconv"
)

// ValueType is the storage class of a Value.
//
// https://www.sqlite.org/datatype3.html
type ValueType int

const (
	NullType ValueType = iota
	IntegerType
	RealType
	TextType
	BlobType
)

func (t ValueType) String() string {
	switch t {
	case NullType:
		return "NULL"
	case IntegerType:
		return "INTEGER"
	case RealType:
		return "REAL"
	case TextType:
		return "TEXT"
	case BlobType:
		return "BLOB"
	default:
		return "ValueType(" + strconv.Itoa(int(t)) + ")"
	}
}

type valueKind uint8

const (
	kindNull valueKind = iota
	kindInteger
	kindReal
	kindText
	kindBlob
	kindZeroBlob
)

// Value is an immutable SQLite value: NULL, an integer, a real, a text, a
// blob of bytes, or a zero-filled blob placeholder of a given length.
//
// The zero Value is NULL.
type Value struct {
	kind valueKind
	i    int64
	f    float64
	s    string
	b    []byte
}

// Null returns the NULL value.
func Null() Value {
	return Value{}
}

// Integer returns an INTEGER value.
func Integer(v int64) Value {
	return Value{kind: kindInteger, i: v}
}

// Real returns a REAL value.
func Real(v float64) Value {
	return Value{kind: kindReal, f: v}
}

// Text returns a TEXT value.
func Text(v string) Value {
	return Value{kind: kindText, s: v}
}

// Blob returns a BLOB value holding a copy of b. A nil b is an empty blob,
// not NULL.
func Blob(b []byte) Value {
	return Value{kind: kindBlob, b: append([]byte{}, b...)}
}

// ZeroBlob returns a BLOB placeholder of n zero bytes, bound with
// sqlite3_bind_zeroblob64. A negative n is clamped to zero.
func ZeroBlob(n int) Value {
	if n < 0 {
		n = 0
	}
	return Value{kind: kindZeroBlob, i: int64(n)}
}

// Bool returns 1 or 0 as an INTEGER; SQLite has no boolean storage class.
func Bool(v bool) Value {
	if v {
		return Integer(1)
	}
	return Integer(0)
}

// Int returns an INTEGER value from an int.
func Int(v int) Value {
	return Integer(int64(v))
}

// Float32 returns a REAL value from a float32.
func Float32(v float32) Value {
	return Real(float64(v))
}

// TypeOf returns the storage class of v. A zero blob is a BLOB.
func TypeOf(v Value) ValueType {
	switch v.kind {
	case kindInteger:
		return IntegerType
	case kindReal:
		return RealType
	case kindText:
		return TextType
	case kindBlob, kindZeroBlob:
		return BlobType
	default:
		return NullType
	}
}

// Type returns the storage class of v.
func (v Value) Type() ValueType {
	return TypeOf(v)
}

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool {
	return v.kind == kindNull
}

// IsZeroBlob reports whether v is a zero blob placeholder.
func (v Value) IsZeroBlob() bool {
	return v.kind == kindZeroBlob
}

// Int64 returns the integer held by v.
func (v Value) Int64() (int64, bool) {
	return v.i, v.kind == kindInteger
}

// Float64 returns the real held by v.
func (v Value) Float64() (float64, bool) {
	return v.f, v.kind == kindReal
}

// Text returns the text held by v.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == kindText
}

// Bytes returns a copy of the blob held by v. A zero blob yields its length
// in zero bytes.
func (v Value) Bytes() ([]byte, bool) {
	switch v.kind {
	case kindBlob:
		return append([]byte{}, v.b...), true
	case kindZeroBlob:
		return make([]byte, v.i), true
	}
	return nil, false
}

// Len returns the byte length of a text or blob value and zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case kindText:
		return len(v.s)
	case kindBlob:
		return len(v.b)
	case kindZeroBlob:
		return int(v.i)
	}
	return 0
}

// Equal reports whether v and o hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindInteger, kindZeroBlob:
		return v.i == o.i
	case kindReal:
		return v.f == o.f
	case kindText:
		return v.s == o.s
	case kindBlob:
		return bytes.Equal(v.b, o.b)
	}
	return true
}

// Any returns the payload as a Go value: nil, int64, float64, string or
// []byte.
func (v Value) Any() any {
	switch v.kind {
	case kindInteger:
		return v.i
	case kindReal:
		return v.f
	case kindText:
		return v.s
	case kindBlob, kindZeroBlob:
		b, _ := v.Bytes()
		return b
	}
	return nil
}

// String renders v the way the shell prints it.
func (v Value) String() string {
	switch v.kind {
	case kindInteger:
		return strconv.FormatInt(v.i, 10)
	case kindReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case kindText:
		return v.s
	case kindBlob:
		return fmt.Sprintf("x'%X'", v.b)
	case kindZeroBlob:
		return fmt.Sprintf("zeroblob(%d)", v.i)
	}
	return "NULL"
}
