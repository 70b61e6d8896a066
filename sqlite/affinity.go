package sqlite

import (
	"strings"

	"github.com/orsinium-labs/enum"
)

// TypeAffinity is the preferred storage class SQLite derives from a
// column's declared type.
//
// https://www.sqlite.org/datatype3.html#determination_of_column_affinity
type TypeAffinity enum.Member[string]

var (
	AffinityInteger = TypeAffinity{Value: "INTEGER"}
	AffinityText    = TypeAffinity{Value: "TEXT"}
	AffinityBlob    = TypeAffinity{Value: "BLOB"}
	AffinityReal    = TypeAffinity{Value: "REAL"}
	AffinityNumeric = TypeAffinity{Value: "NUMERIC"}

	// Affinities lists the affinities in rule order.
	Affinities = enum.New(
		AffinityInteger,
		AffinityText,
		AffinityBlob,
		AffinityReal,
		AffinityNumeric,
	)
)

// AffinityOf applies the five affinity rules to a declared column type, in
// order, case-insensitively. A missing declaration has BLOB affinity.
func AffinityOf(declaration string) TypeAffinity {
	decl := strings.ToUpper(declaration)
	switch {
	case strings.Contains(decl, "INT"):
		return AffinityInteger
	case strings.Contains(decl, "CHAR"),
		strings.Contains(decl, "CLOB"),
		strings.Contains(decl, "TEXT"):
		return AffinityText
	case strings.TrimSpace(decl) == "",
		strings.Contains(decl, "BLOB"):
		return AffinityBlob
	case strings.Contains(decl, "REAL"),
		strings.Contains(decl, "FLOA"),
		strings.Contains(decl, "DOUB"):
		return AffinityReal
	default:
		return AffinityNumeric
	}
}

// ParseAffinity returns the affinity named s, such as "integer" or "TEXT".
func ParseAffinity(s string) (TypeAffinity, bool) {
	a := Affinities.Parse(strings.ToUpper(s))
	if a == nil {
		return TypeAffinity{}, false
	}
	return *a, true
}

// Rule returns the number (1 to 5) of the affinity rule that yields a.
func (a TypeAffinity) Rule() int {
	for i, member := range Affinities.Members() {
		if member == a {
			return i + 1
		}
	}
	return 0
}

func (a TypeAffinity) String() string {
	return a.Value
}
