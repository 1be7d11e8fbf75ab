package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/screenaware/screenaware/internal/api/middleware"
	"github.com/screenaware/screenaware/internal/api/response"
	"github.com/screenaware/screenaware/internal/prediction"
	"github.com/screenaware/screenaware/internal/userdata"
)

// writeError maps service errors to problem responses. Internal failures are
// logged with their detail and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var valErr *prediction.ValidationError

	switch {
	case errors.As(err, &valErr):
		response.BadRequest(w, r, "request validation failed", valErr.Errors)
	case errors.Is(err, userdata.ErrNotFound):
		response.NotFound(w, r, "no data found for user")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("request timed out")
		response.ServiceUnavailable(w, r, "request timed out")
	case prediction.IsInternal(err):
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("prediction failed")
		response.InternalError(w, r, "prediction failed")
	default:
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		response.InternalError(w, r, "an unexpected error occurred")
	}
}
