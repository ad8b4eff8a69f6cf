package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.Debug("hidden")
	assert.Zero(t, buf.Len(), "debug sits below the configured level")

	logger.Info("shown")
	entry := decodeEntry(t, &buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "shown", entry["msg"])
}

func TestLoggerErrorLevelOnly(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(ErrorLevel, &buf)

	logger.Info("quiet")
	logger.Warn("still quiet")
	assert.Zero(t, buf.Len())

	logger.Error("loud")
	entry := decodeEntry(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithField("org_id", "org1").Info("scoped")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "org1", entry["org_id"])
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithFields(map[string]interface{}{
		"user_id": "42",
		"attempt": 3,
	}).Info("login")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "42", entry["user_id"])
	assert.Equal(t, float64(3), entry["attempt"])
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithError(errors.New("boom")).Error("operation failed")
	entry := decodeEntry(t, &buf)
	assert.Equal(t, "boom", entry["error"])

	buf.Reset()
	logger.WithError(nil).Info("clean")
	entry = decodeEntry(t, &buf)
	_, exists := entry["error"]
	assert.False(t, exists, "nil error attaches nothing")
}

func TestLoggerFieldsAccumulate(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf).WithField("request_id", "req-1")

	logger.WithField("org_id", "org2").Info("handled")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "org2", entry["org_id"])
}

func TestLoggerFormatters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DebugLevel, &buf)

	logger.Debugf("seen %d of %d", 2, 5)
	entry := decodeEntry(t, &buf)
	assert.Equal(t, "seen 2 of 5", entry["msg"])

	buf.Reset()
	logger.Warnf("retrying %s", "login")
	entry = decodeEntry(t, &buf)
	assert.Equal(t, "retrying login", entry["msg"])
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{LogLevel(99), "INFO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}
