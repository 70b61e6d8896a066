package sqlite

import (
	"fmt"
	"math"
)

// Decode reads column col of row and converts it with decode.
func Decode[T any](row *Row, col int, decode func(Value) (T, error)) (T, error) {
	value, err := row.Read(col)
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := decode(value)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to decode column %d: %w", col, err)
	}
	return out, nil
}

func mismatch(v Value, target string) error {
	return fmt.Errorf("%w: cannot decode %s as %s", ErrMismatch, v.Type(), target)
}

// AsInt64 decodes an INTEGER, or a REAL with no fractional part.
func AsInt64(v Value) (int64, error) {
	switch v.kind {
	case kindInteger:
		return v.i, nil
	case kindReal:
		if v.f == math.Trunc(v.f) && v.f >= math.MinInt64 && v.f < math.MaxInt64 {
			return int64(v.f), nil
		}
	}
	return 0, mismatch(v, "int64")
}

// AsFloat64 decodes a REAL or an INTEGER.
func AsFloat64(v Value) (float64, error) {
	switch v.kind {
	case kindReal:
		return v.f, nil
	case kindInteger:
		return float64(v.i), nil
	}
	return 0, mismatch(v, "float64")
}

// AsText decodes a TEXT.
func AsText(v Value) (string, error) {
	if v.kind == kindText {
		return v.s, nil
	}
	return "", mismatch(v, "text")
}

// AsBytes decodes a BLOB, or a TEXT as its bytes.
func AsBytes(v Value) ([]byte, error) {
	if v.kind == kindText {
		return []byte(v.s), nil
	}
	if b, ok := v.Bytes(); ok {
		return b, nil
	}
	return nil, mismatch(v, "bytes")
}

// AsBool decodes an INTEGER, where any non-zero value is true.
func AsBool(v Value) (bool, error) {
	if v.kind == kindInteger {
		return v.i != 0, nil
	}
	return false, mismatch(v, "bool")
}

// AsValue returns v unchanged, for use with Decode and Collect.
func AsValue(v Value) (Value, error) {
	return v, nil
}

// Nullable wraps decode so that NULL decodes to a nil pointer.
func Nullable[T any](decode func(Value) (T, error)) func(Value) (*T, error) {
	return func(v Value) (*T, error) {
		if v.IsNull() {
			return nil, nil
		}
		out, err := decode(v)
		if err != nil {
			return nil, err
		}
		return &out, nil
	}
}
