package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	buf := &bytes.Buffer{}
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	prev := otel.GetTracerProvider()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Tracing(), Logger())
	r.GET("/books/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestLogger_TraceID(t *testing.T) {
	t.Run("启用追踪时日志带trace_id", func(t *testing.T) {
		sr := installRecorder(t)
		buf := captureLogs(t)

		w := httptest.NewRecorder()
		newEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/42", nil))
		require.Equal(t, http.StatusNoContent, w.Code)

		ended := sr.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, "GET /books/:id", ended[0].Name())
		want := ended[0].SpanContext().TraceID().String()

		lines := logLines(t, buf)
		require.Len(t, lines, 2)
		for _, line := range lines {
			assert.Equal(t, want, line["trace_id"])
			assert.Equal(t, w.Header().Get(RequestIDHeader), line["request_id"])
		}
		assert.Equal(t, "[Request] GET /books/42", lines[0]["msg"])
	})

	t.Run("未启用追踪时不输出trace_id", func(t *testing.T) {
		prev := otel.GetTracerProvider()
		otel.SetTracerProvider(noop.NewTracerProvider())
		t.Cleanup(func() { otel.SetTracerProvider(prev) })
		buf := captureLogs(t)

		req := httptest.NewRequest(http.MethodGet, "/books/42", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		w := httptest.NewRecorder()
		newEngine().ServeHTTP(w, req)

		assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
		for _, line := range logLines(t, buf) {
			assert.NotContains(t, line, "trace_id")
			assert.Equal(t, "req-1", line["request_id"])
		}
	})
}
