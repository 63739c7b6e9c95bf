package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gradaid/gradaid-api/internal/api/shared"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	logBuf, log := logger.NewTestLogger(t)

	var traceID string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	require.Len(t, traceID, 2*shared.TraceIDLength)
	assert.Equal(t, traceID, rec.Header().Get(TraceIDHeader))
	logger.AssertLogField(t, logBuf, logger.TraceIDKey, traceID)
	logger.AssertLogContains(t, logBuf, "inside handler")
}

func TestTraceMiddleware_DistinctPerRequest(t *testing.T) {
	handler := NewTraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, first.Header().Get(TraceIDHeader), second.Header().Get(TraceIDHeader))
}
