package log

import (
	"maps"
	"slices"
)

// KV is a set of key-value pairs attached to a log record.
type KV map[string]any

// Namespaces used across the binaries.
const (
	NsShell    = "shell"
	NsBench    = "bench"
	NsDatabase = "database"
	NsExport   = "export"
)

// kvToArgs flattens the first KV into slog arguments sorted by key. Any
// further KV is ignored.
func kvToArgs(keyVals ...KV) []any {
	if len(keyVals) == 0 {
		return []any{}
	}

	kv := keyVals[0]
	args := make([]any, 0, len(kv)*2)
	for _, key := range slices.Sorted(maps.Keys(kv)) {
		args = append(args, key, kv[key])
	}
	return args
}

// kvToArgsNs is kvToArgs with the namespace as the leading "ns" pair.
func kvToArgsNs(namespace string, keyVals ...KV) []any {
	return append([]any{"ns", namespace}, kvToArgs(keyVals...)...)
}
