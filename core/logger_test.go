package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("test", LoggingConfig{Level: "INFO", Format: "text"})
	logger.SetOutput(&buf)

	logger.Debug("debug message", nil)
	logger.Info("info message", nil)
	logger.Warn("warn message", nil)
	logger.Error("error message", nil)

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestStructuredLoggerDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("test", LoggingConfig{Level: "DEBUG", Format: "text"})
	logger.SetOutput(&buf)

	logger.Debug("debug message", map[string]interface{}{"operation": "cache_get"})

	assert.Contains(t, buf.String(), "debug message")
	assert.Contains(t, buf.String(), "operation=cache_get")
}

func TestStructuredLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("storefront", LoggingConfig{Level: "INFO", Format: "json"})
	logger.SetOutput(&buf)

	logger.Info("request completed", map[string]interface{}{
		"endpoint": "/products",
		"attempt":  1,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "storefront", entry["service"])
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "/products", entry["endpoint"])
	assert.NotEmpty(t, entry["timestamp"])
}

func TestStructuredLoggerFieldsCannotOverwriteCore(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("storefront", LoggingConfig{Level: "INFO", Format: "json"})
	logger.SetOutput(&buf)

	logger.Info("real message", map[string]interface{}{"message": "spoofed"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "real message", entry["message"])
}

func TestStructuredLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("test", LoggingConfig{Level: "ERROR", Format: "text"})
	logger.SetOutput(&buf)

	logger.Info("hidden", nil)
	assert.Empty(t, buf.String())

	logger.SetLevel("debug")
	logger.Debug("now visible", nil)
	assert.Contains(t, buf.String(), "now visible")
}

func TestStructuredLoggerTextFieldOrdering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("test", LoggingConfig{Level: "INFO", Format: "text"})
	logger.SetOutput(&buf)

	logger.Error("request failed", map[string]interface{}{
		"endpoint": "/products",
		"error":    "boom",
		"attempt":  2,
	})

	out := buf.String()
	// Endpoint and error lead the field list
	endpointIdx := strings.Index(out, "endpoint=")
	attemptIdx := strings.Index(out, "attempt=")
	require.GreaterOrEqual(t, endpointIdx, 0)
	require.GreaterOrEqual(t, attemptIdx, 0)
	assert.Less(t, endpointIdx, attemptIdx)
}
