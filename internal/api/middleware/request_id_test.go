package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/screenaware/screenaware/internal/api/middleware"
)

func captureRequestID(t *testing.T, header string) (fromCtx, fromResp string) {
	t.Helper()
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		fromCtx = middleware.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	if header != "" {
		req.Header.Set(middleware.RequestIDHeader, header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return fromCtx, w.Header().Get(middleware.RequestIDHeader)
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	ctxID, respID := captureRequestID(t, "")

	assert.True(t, strings.HasPrefix(ctxID, "req_"))
	assert.Len(t, ctxID, 26)
	assert.Equal(t, ctxID, respID)
}

func TestRequestID_PreservesWellFormedID(t *testing.T) {
	ctxID, respID := captureRequestID(t, "client-trace.42")

	assert.Equal(t, "client-trace.42", ctxID)
	assert.Equal(t, "client-trace.42", respID)
}

func TestRequestID_ReplacesMalformedID(t *testing.T) {
	for _, bad := range []string{"has spaces", "new\nline", strings.Repeat("x", 129)} {
		ctxID, _ := captureRequestID(t, bad)
		assert.NotEqual(t, bad, ctxID)
		assert.True(t, strings.HasPrefix(ctxID, "req_"))
	}
}

func TestRequestID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := middleware.NewRequestID()
		assert.False(t, seen[id], "duplicate request ID %s", id)
		seen[id] = true
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, middleware.GetRequestID(context.Background()))
	assert.Equal(t, "req_x", middleware.GetRequestID(middleware.WithRequestID(context.Background(), "req_x")))
}
