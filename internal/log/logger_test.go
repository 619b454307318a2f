package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/isoflow-go/internal/config"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "warn")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var data map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &data))
	}
}

func TestLoggerComponentAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO").Component("cache")

	ctx := WithRequestID(context.Background(), "req-1")
	logger.InfoContext(ctx, "entry loaded", "accession", "P04637")

	var data map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "cache", data["component"])
	assert.Equal(t, "req-1", data["request_id"])
	assert.Equal(t, "P04637", data["accession"])
}

func TestWithContextWithoutRequestID(t *testing.T) {
	logger := Discard()
	assert.Same(t, logger, logger.WithContext(context.Background()))
	assert.Empty(t, RequestID(context.Background()))
}

func TestTerminalHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	ts := time.Date(2026, 1, 15, 10, 30, 45, 123000000, time.UTC)
	r := slog.NewRecord(ts, slog.LevelWarn, "edit dropped", 0)
	r.AddAttrs(slog.String("reason", "out of range"), slog.Int("begin", 12))

	require.NoError(t, h.WithGroup("edit").Handle(context.Background(), r))

	out := buf.String()
	assert.Contains(t, out, "10:30:45.123")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "edit dropped")
	assert.Contains(t, out, `edit.reason=`+ansiReset+`"out of range"`)
	assert.Contains(t, out, "edit.begin="+ansiReset+"12")
}

func TestTerminalHandlerLevels(t *testing.T) {
	tests := []struct {
		level slog.Level
		label string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			_, label := levelStyle(tt.level)
			assert.Equal(t, tt.label, label)
		})
	}

	h := newTerminalHandler(&bytes.Buffer{}, nil)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
}
