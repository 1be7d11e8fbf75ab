package models

import (
	"encoding/json"
	"net/http"
)

// Problem represents an RFC7807 error response.
// This is used for all API error responses with Content-Type: application/problem+json.
type Problem struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`

	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`

	// Status is the HTTP status code for this occurrence of the problem.
	Status int `json:"status"`

	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`

	// Instance is a URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`

	// TraceID is the request trace identifier for debugging.
	TraceID string `json:"traceId"`

	// Errors contains structured field validation errors.
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const problemBase = "https://api.screenaware.app/problems/"

// Problem types returned by the API.
const (
	ProblemTypeValidation      = problemBase + "invalid-request"
	ProblemTypeNotFound        = problemBase + "no-data"
	ProblemTypeTooManyRequests = problemBase + "rate-limited"
	ProblemTypeUnsupportedType = problemBase + "unsupported-media-type"
	ProblemTypeTLSRequired     = problemBase + "tls-required"
	ProblemTypeInternal        = problemBase + "internal-error"
	ProblemTypeUnavailable     = problemBase + "unavailable"
)

type problemKind struct {
	title  string
	status int
}

var problemKinds = map[string]problemKind{
	ProblemTypeValidation:      {"Invalid request", http.StatusBadRequest},
	ProblemTypeNotFound:        {"No data", http.StatusNotFound},
	ProblemTypeTooManyRequests: {"Rate limited", http.StatusTooManyRequests},
	ProblemTypeUnsupportedType: {"Unsupported media type", http.StatusUnsupportedMediaType},
	ProblemTypeTLSRequired:     {"TLS required", http.StatusForbidden},
	ProblemTypeInternal:        {"Internal error", http.StatusInternalServerError},
	ProblemTypeUnavailable:     {"Unavailable", http.StatusServiceUnavailable},
}

// NewProblem creates a Problem of one of the API's problem types, taking the
// title and status from the type. Unknown types become internal errors.
func NewProblem(problemType, traceID, detail string) *Problem {
	kind, ok := problemKinds[problemType]
	if !ok {
		problemType = ProblemTypeInternal
		kind = problemKinds[ProblemTypeInternal]
	}
	return &Problem{
		Type:    problemType,
		Title:   kind.title,
		Status:  kind.status,
		Detail:  detail,
		TraceID: traceID,
	}
}

// Write writes the Problem as JSON to the ResponseWriter.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Set("X-Request-Id", p.TraceID)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewBadRequest reports invalid metrics or identifiers, with one entry per
// offending field.
func NewBadRequest(traceID, detail string, errors []FieldError) *Problem {
	p := NewProblem(ProblemTypeValidation, traceID, detail)
	p.Errors = errors
	return p
}

// NewNotFound reports a user without stored data points.
func NewNotFound(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeNotFound, traceID, detail)
}

// NewTooManyRequests reports an exhausted rate limit.
func NewTooManyRequests(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeTooManyRequests, traceID, detail)
}

// NewUnsupportedMediaType reports a non-JSON request body.
func NewUnsupportedMediaType(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeUnsupportedType, traceID, detail)
}

// NewTLSRequired reports a plain HTTP request behind a TLS-terminating proxy.
func NewTLSRequired(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeTLSRequired, traceID, detail)
}

// NewInternalError reports a server-side failure. detail must not carry
// internal error text.
func NewInternalError(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeInternal, traceID, detail)
}

// NewServiceUnavailable reports a missing bundle or an unreachable store.
func NewServiceUnavailable(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeUnavailable, traceID, detail)
}
