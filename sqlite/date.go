package sqlite

import (
	"fmt"
	"math"
	"time"
)

// DateFormat selects how a time is stored. SQLite has no date storage class;
// its date functions understand all three forms.
//
// https://www.sqlite.org/lang_datefunc.html
type DateFormat int

const (
	// DateInteger stores unix seconds.
	DateInteger DateFormat = iota
	// DateText stores an ISO-8601 string in UTC.
	DateText
	// DateReal stores a Julian day number.
	DateReal
)

const (
	unixEpochJulianDay = 2440587.5
	secondsPerDay      = 86400
)

// textDateLayouts are tried in order when decoding TEXT dates. The second
// one is what SQLite's own datetime() produces.
var textDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DateValue returns t in the given storage format.
func DateValue(t time.Time, format DateFormat) Value {
	switch format {
	case DateText:
		return Text(t.UTC().Format(time.RFC3339))
	case DateReal:
		seconds := float64(t.UnixNano()) / float64(time.Second)
		return Real(seconds/secondsPerDay + unixEpochJulianDay)
	default:
		return Integer(t.Unix())
	}
}

// AsTime decodes unix seconds, a Julian day number or an ISO-8601 string.
// The result is in UTC.
func AsTime(v Value) (time.Time, error) {
	switch v.kind {
	case kindInteger:
		return time.Unix(v.i, 0).UTC(), nil
	case kindReal:
		seconds := (v.f - unixEpochJulianDay) * secondsPerDay
		whole, frac := math.Modf(seconds)
		nanos := math.Round(frac*1e6) * 1e3
		return time.Unix(int64(whole), int64(nanos)).UTC(), nil
	case kindText:
		for _, layout := range textDateLayouts {
			if t, err := time.Parse(layout, v.s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q is not a date", ErrMismatch, v.s)
	}
	return time.Time{}, mismatch(v, "time")
}
