package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lastLogLine decodes the final structured log line written to buf.
func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &decoded))
	return decoded
}

// TestLoggerStructuredOutput verifies that messages, errors and structured info reach the
// configured writer as JSON fields.
func TestLoggerStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buf)

	logger.Info("loaded contract ", "Token")
	line := lastLogLine(t, &buf)
	assert.Equal(t, "loaded contract Token", line["message"])
	assert.Equal(t, "info", line["level"])

	logger.Error("load failed", errors.New("bad artifact"))
	line = lastLogLine(t, &buf)
	assert.Equal(t, "bad artifact", line["error"])

	logger.Warn("selector mismatch", StructuredLogInfo{"signature": "f()"})
	line = lastLogLine(t, &buf)
	info, ok := line["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "f()", info["signature"])
}

// TestLoggerLevelFiltering verifies that events below the configured level are suppressed.
func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.WarnLevel, false, &buf)

	logger.Info("should be filtered")
	assert.Zero(t, buf.Len())

	logger.Warn("should pass")
	assert.NotZero(t, buf.Len())

	logger.SetLevel(zerolog.InfoLevel)
	buf.Reset()
	logger.Info("now passes")
	assert.NotZero(t, buf.Len())
}

// TestSubLoggerContext verifies that a sub-logger stamps its key-value context on every event.
func TestSubLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buf)
	subLogger := logger.NewSubLogger("contract", "Token")

	subLogger.Info("building methods")
	line := lastLogLine(t, &buf)
	assert.Equal(t, "Token", line["contract"])

	// The parent logger is unaffected.
	buf.Reset()
	logger.Info("no context")
	line = lastLogLine(t, &buf)
	assert.NotContains(t, line, "contract")
}

// TestNilLoggerDiscards verifies that the fallback sink is disabled and safe to use.
func TestNilLoggerDiscards(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, NilLogger.Level())
	assert.NotPanics(t, func() {
		NilLogger.Info("discarded")
		NilLogger.Error("discarded", errors.New("discarded"))
	})
}
