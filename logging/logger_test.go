package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mitra-credit/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" warning "))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
	assert.Equal(t, slog.LevelDebug+2, parseLevel("debug+2"))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LoggingConfig{Level: "info", Format: "json"}, "gateway")

	logger.Debug("hidden")
	logger.Info("session started", "session_id", "S-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "session started", entry["msg"])
	assert.Equal(t, "S-1", entry["session_id"])
	assert.Equal(t, "gateway", entry["component"])
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LoggingConfig{Level: "debug"}, "")

	logger.Debug("screen transition", "to", "otp")
	assert.Contains(t, buf.String(), "msg=\"screen transition\"")
	assert.Contains(t, buf.String(), "to=otp")
	assert.NotContains(t, buf.String(), "component=")
}
