package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyOrder returns the position of every key in a raw JSON record.
func keyOrder(t *testing.T, line string, keys ...string) []int {
	t.Helper()
	positions := make([]int, len(keys))
	for i, key := range keys {
		positions[i] = strings.Index(line, `"`+key+`":`)
		require.GreaterOrEqual(t, positions[i], 0, "key %q missing in %s", key, line)
	}
	return positions
}

func TestKV(t *testing.T) {
	t.Run("SortedByKey", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("exported", KV{"rows": 3, "format": "csv", "path": "out.csv"})

		pos := keyOrder(t, buf.String(), "msg", "format", "path", "rows")
		assert.IsIncreasing(t, pos)
	})

	t.Run("NamespaceLeads", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.InfoNs(NsExport, "exported", KV{"a": 1, "z": 2})

		line := buf.String()
		assert.Contains(t, line, `"ns":"export"`)
		pos := keyOrder(t, line, "ns", "a", "z")
		assert.IsIncreasing(t, pos)
	})

	t.Run("OnlyFirstKVIsUsed", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.InfoNs(NsShell, "query", KV{"sql": "SELECT 1"}, KV{"ignored": true})

		line := buf.String()
		assert.Contains(t, line, `"sql":"SELECT 1"`)
		assert.NotContains(t, line, "ignored")
	})

	t.Run("NoPairs", func(t *testing.T) {
		assert.Empty(t, kvToArgs())
		assert.Equal(t, []any{"ns", NsBench}, kvToArgsNs(NsBench))
	})
}
