package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenaware/screenaware/internal/api/middleware"
	"github.com/screenaware/screenaware/internal/api/models"
)

func requestFrom(ip, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	req.RemoteAddr = ip + ":12345"
	return req
}

func TestRateLimitByIP(t *testing.T) {
	limiter := middleware.RateLimitByIP(middleware.RateLimitConfig{RequestLimit: 2, WindowLength: time.Minute})
	handler := limiter(statusHandler(http.StatusOK, ""))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1", "/predict_report"))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1", "/predict_report"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeTooManyRequests, problem.Type)
	assert.Equal(t, "/predict_report", problem.Instance)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.2", "/predict_report"))
	assert.Equal(t, http.StatusOK, w.Code, "other IPs have their own budget")
}

func TestRateLimitByUserParam(t *testing.T) {
	r := chi.NewRouter()
	r.With(middleware.RateLimitByUserParam(middleware.RateLimitConfig{RequestLimit: 1, WindowLength: time.Minute})).
		Get("/v1/analytics/overview/{userId}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

	serve := func(user string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, requestFrom("10.0.0.1", "/v1/analytics/overview/"+user))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve("alice"))
	assert.Equal(t, http.StatusTooManyRequests, serve("alice"))
	assert.Equal(t, http.StatusOK, serve("bob"))
}

func TestRateLimit_Disabled(t *testing.T) {
	handler := middleware.RateLimitByIP(middleware.RateLimitConfig{})(statusHandler(http.StatusOK, ""))

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1", "/"))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestDefaultRateLimitConfigs(t *testing.T) {
	assert.True(t, middleware.PredictionRateLimit.Enabled())
	assert.True(t, middleware.StandardRateLimit.Enabled())
	assert.Greater(t, middleware.PredictionRateLimit.RequestLimit, middleware.StandardRateLimit.RequestLimit)
}
