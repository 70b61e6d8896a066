package sqlite

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ValueOf converts a Go value into a Value. It accepts nil, the integer and
// float kinds, bool, string, []byte, time.Time (as unix seconds), uuid.UUID
// (as a 16 byte blob), Value, and pointers to any of them.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case int:
		return Integer(int64(x)), nil
	case int8:
		return Integer(int64(x)), nil
	case int16:
		return Integer(int64(x)), nil
	case int32:
		return Integer(int64(x)), nil
	case int64:
		return Integer(x), nil
	case uint:
		return unsignedValue(uint64(x))
	case uint8:
		return Integer(int64(x)), nil
	case uint16:
		return Integer(int64(x)), nil
	case uint32:
		return Integer(int64(x)), nil
	case uint64:
		return unsignedValue(x)
	case float32:
		return Float32(x), nil
	case float64:
		return Real(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case []byte:
		if x == nil {
			return Null(), nil
		}
		return Blob(x), nil
	case time.Time:
		return DateValue(x, DateInteger), nil
	case uuid.UUID:
		return UUIDValue(x, UUIDBlob), nil
	case *string:
		if x == nil {
			return Null(), nil
		}
		return Text(*x), nil
	case *int64:
		if x == nil {
			return Null(), nil
		}
		return Integer(*x), nil
	case *float64:
		if x == nil {
			return Null(), nil
		}
		return Real(*x), nil
	case *bool:
		if x == nil {
			return Null(), nil
		}
		return Bool(*x), nil
	case *time.Time:
		if x == nil {
			return Null(), nil
		}
		return DateValue(*x, DateInteger), nil
	}
	return Null(), fmt.Errorf("%w: unsupported Go type %T", ErrMismatch, v)
}

func unsignedValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Null(), fmt.Errorf("%w: %d overflows int64", ErrMismatch, u)
	}
	return Integer(int64(u)), nil
}
