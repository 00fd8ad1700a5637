package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l := NewIsolatedLogger(path)

	l.Info("EVENTS", "QA_SESSION_CREATED", map[string]interface{}{"session_id": 7})
	l.Error("EVENTS", "publish failed", map[string]interface{}{"error": "nats down"})
	l.Debug("EVENTS", "below file level", nil)
	_ = l.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}

	require.Len(t, lines, 2)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "QA_SESSION_CREATED", lines[0]["message"])
	assert.Equal(t, "EVENTS", lines[0]["module"])
	assert.Contains(t, lines[0], "timestamp")

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "nats down", lines[1]["error_ref"])
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Warn("QA", "ignored", nil)
		_ = l.Sync()
	})
}
