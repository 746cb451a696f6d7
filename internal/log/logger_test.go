package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentLedger, Output: &buf})
	logger.Info("transaction added", FieldTxID, 7)
	logger.Debug("dropped")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "transaction added", rec["msg"])
	assert.Equal(t, ComponentLedger, rec[FieldComponent])
	assert.Equal(t, float64(7), rec[FieldTxID])
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "debug record should be filtered")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Component: ComponentApp}).WithComponent(ComponentStorage)
	assert.Equal(t, ComponentStorage, logger.Component())

	logger.Warn("slow query")
	out := buf.String()
	assert.Contains(t, out, "component=app")
	assert.Contains(t, out, "subsystem=storage")
}

func TestFromContext(t *testing.T) {
	logger := Discard()
	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Component: ComponentHTTP})

	var seen *Logger
	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/summary", http.NoBody))

	assert.Same(t, logger, seen)
	assert.Equal(t, http.StatusTeapot, w.Code)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "path=/api/summary")
	assert.Contains(t, out, "status_code=418")
}
