package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		record := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		records = append(records, record)
	}
	return records
}

func TestLogger(t *testing.T) {
	t.Run("WritesJSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.InfoNs(NsShell, "opened database", KV{"path": "app.db", "readOnly": true})
		logger.Error("query failed", KV{"code": "SQLITE_BUSY"})

		records := decodeLines(t, &buf)
		require.Len(t, records, 2)
		assert.Equal(t, "INFO", records[0]["level"])
		assert.Equal(t, "opened database", records[0]["msg"])
		assert.Equal(t, "shell", records[0]["ns"])
		assert.Equal(t, "app.db", records[0]["path"])
		assert.Equal(t, true, records[0]["readOnly"])
		assert.Equal(t, "ERROR", records[1]["level"])
		assert.Equal(t, "SQLITE_BUSY", records[1]["code"])
	})

	t.Run("DebugIsOptIn", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.DebugNs(NsBench, "hidden")
		assert.Empty(t, buf.String())

		logger.SetDebug(true)
		logger.Debug("shown")
		logger.WarnNs(NsBench, "warned")
		records := decodeLines(t, &buf)
		require.Len(t, records, 2)
		assert.Equal(t, "DEBUG", records[0]["level"])
		assert.Equal(t, "WARN", records[1]["level"])
		assert.Equal(t, "bench", records[1]["ns"])

		buf.Reset()
		logger.SetDebug(false)
		logger.Debug("hidden again")
		assert.Empty(t, buf.String())
	})
}
