package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHandler struct {
	logs  *[]string
	attrs []slog.Attr
}

func (h *testHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *testHandler) Handle(_ context.Context, record slog.Record) error {
	parts := []string{record.Message}
	for _, attr := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s=%v", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s=%v", attr.Key, attr.Value))
		return true
	})
	*h.logs = append(*h.logs, strings.Join(parts, " "))
	return nil
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &testHandler{logs: h.logs, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *testHandler) WithGroup(_ string) slog.Handler {
	return h
}

func capture() (*SlogLogger, *[]string) {
	var logs []string
	return &SlogLogger{logger: slog.New(&testHandler{logs: &logs})}, &logs
}

func TestNew_Success(t *testing.T) {
	log := New("test-package")

	assert.NotNil(t, log)
	assert.IsType(t, &SlogLogger{}, log)
}

func TestNewHandler_Formats(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatText} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			log := &SlogLogger{logger: slog.New(newHandler(Options{Format: format, Writer: &buf}))}

			log.Info("tower saved", "place", "Ely")

			assert.Contains(t, buf.String(), "tower saved")
			assert.Contains(t, buf.String(), "Ely")
		})
	}
}

func TestNewHandler_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := &SlogLogger{logger: slog.New(newHandler(Options{Format: FormatText, Level: slog.LevelWarn, Writer: &buf}))}

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for value, expected := range testCases {
		t.Run(value, func(t *testing.T) {
			assert.Equal(t, expected, ParseLevel(value))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatText, ParseFormat(" Text "))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat(""))
}

func TestConfigure(t *testing.T) {
	mu.RLock()
	previous := defaults
	mu.RUnlock()
	t.Cleanup(func() { Configure(previous) })

	Configure(Options{Format: FormatText, Level: slog.LevelDebug})

	mu.RLock()
	defer mu.RUnlock()
	assert.Equal(t, FormatText, defaults.Format)
	assert.Equal(t, slog.LevelDebug, defaults.Level)
}

func TestErr_ReturnsSameError(t *testing.T) {
	log, logs := capture()
	original := errors.New("boom")

	err := log.Function("Save").Err("failed to save tower", original, "towerID", 7)

	assert.Same(t, original, err)
	require.Len(t, *logs, 1)
	assert.Contains(t, (*logs)[0], "failed to save tower")
	assert.Contains(t, (*logs)[0], "function=Save")
	assert.Contains(t, (*logs)[0], "towerID=7")
}

func TestErrMsg_And_Error(t *testing.T) {
	log, logs := capture()

	assert.EqualError(t, log.ErrMsg("database is nil"), "database is nil")
	assert.EqualError(t, log.Error("invalid port", "port", 0), "invalid port")
	assert.Len(t, *logs, 2)
}

func TestTraceFromContext(t *testing.T) {
	t.Run("with trace id", func(t *testing.T) {
		log, logs := capture()
		ctx := ContextWithTraceID(context.Background(), "trace-123")

		log.TraceFromContext(ctx).Info("request")

		require.Len(t, *logs, 1)
		assert.Contains(t, (*logs)[0], "traceID=trace-123")
	})

	t.Run("without trace id", func(t *testing.T) {
		log, logs := capture()

		traced := log.TraceFromContext(context.Background())
		traced.Info("request")

		assert.Same(t, log, traced)
		assert.NotContains(t, (*logs)[0], "traceID")
	})
}

func TestTraceIDFromContext(t *testing.T) {
	assert.Equal(t, "", TraceIDFromContext(context.Background()))
	assert.Equal(t, "abc", TraceIDFromContext(ContextWithTraceID(context.Background(), "abc")))
}

func TestTimer(t *testing.T) {
	log, logs := capture()

	done := log.Timer("reload")
	done()

	require.Len(t, *logs, 1)
	assert.Contains(t, (*logs)[0], "reload finished")
	assert.Contains(t, (*logs)[0], "durationMs=")
}
