package numutil

import "fmt"

// Integer is any signed or unsigned integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IntWithCommas returns a string representation of an integer with commas.
//
// Example:
//
//	12345 -> "12,345"
func IntWithCommas[T Integer](i T) string {
	if i < 0 {
		// -i overflows for the minimum value, so the digits are taken from
		// the unsigned magnitude.
		return "-" + uintWithCommas(uint64(-(int64(i)+1))+1)
	}
	return uintWithCommas(uint64(i))
}

func uintWithCommas(u uint64) string {
	if u < 1000 {
		return fmt.Sprintf("%d", u)
	}
	return uintWithCommas(u/1000) + "," + fmt.Sprintf("%03d", u%1000)
}
