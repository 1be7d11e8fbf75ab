package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenaware/screenaware/internal/api/models"
)

func TestNewProblem_UnknownTypeIsInternal(t *testing.T) {
	p := models.NewProblem("https://example.com/problems/teapot", "req_1", "detail")

	assert.Equal(t, models.ProblemTypeInternal, p.Type)
	assert.Equal(t, http.StatusInternalServerError, p.Status)
	assert.Equal(t, "detail", p.Detail)
}

func TestProblem_Write(t *testing.T) {
	p := models.NewBadRequest("req_test123", "invalid input", []models.FieldError{
		{Field: "sleep_quality", Message: "is required", Code: "required"},
	})
	p.Instance = "/predict_report"

	w := httptest.NewRecorder()
	p.Write(w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req_test123", w.Header().Get("X-Request-Id"))

	var result models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, models.ProblemTypeValidation, result.Type)
	assert.Equal(t, "Invalid request", result.Title)
	assert.Equal(t, "invalid input", result.Detail)
	assert.Equal(t, "/predict_report", result.Instance)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "sleep_quality", result.Errors[0].Field)
}

func TestProblem_Constructors(t *testing.T) {
	tests := []struct {
		name    string
		problem *models.Problem
		typ     string
		status  int
	}{
		{"bad request", models.NewBadRequest("req_1", "detail", nil), models.ProblemTypeValidation, http.StatusBadRequest},
		{"no data", models.NewNotFound("req_1", "detail"), models.ProblemTypeNotFound, http.StatusNotFound},
		{"rate limited", models.NewTooManyRequests("req_1", "detail"), models.ProblemTypeTooManyRequests, http.StatusTooManyRequests},
		{"unsupported media type", models.NewUnsupportedMediaType("req_1", "detail"), models.ProblemTypeUnsupportedType, http.StatusUnsupportedMediaType},
		{"tls required", models.NewTLSRequired("req_1", "detail"), models.ProblemTypeTLSRequired, http.StatusForbidden},
		{"internal", models.NewInternalError("req_1", "detail"), models.ProblemTypeInternal, http.StatusInternalServerError},
		{"unavailable", models.NewServiceUnavailable("req_1", "detail"), models.ProblemTypeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.problem.Type)
			assert.NotEmpty(t, tt.problem.Title)
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, "detail", tt.problem.Detail)
			assert.Equal(t, "req_1", tt.problem.TraceID)
		})
	}
}
