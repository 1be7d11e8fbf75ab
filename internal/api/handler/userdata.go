package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/screenaware/screenaware/internal/api/models"
	"github.com/screenaware/screenaware/internal/api/response"
)

// UserDataService records and reads scored submissions.
type UserDataService interface {
	Record(ctx context.Context, in *models.UserDataInput) (*models.UserData, error)
	Latest(ctx context.Context, userID string) (*models.UserData, error)
	Overview(ctx context.Context, userID string) (*models.AnalyticsOverview, error)
	Detailed(ctx context.Context, userID string) (*models.DetailedAnalytics, error)
}

// UserDataHandler handles the storage and analytics endpoints.
type UserDataHandler struct {
	svc UserDataService
	log zerolog.Logger
}

// NewUserDataHandler creates a new UserDataHandler.
func NewUserDataHandler(svc UserDataService, log zerolog.Logger) *UserDataHandler {
	return &UserDataHandler{svc: svc, log: log}
}

// Create handles POST /v1/user-data - score and store a submission.
func (h *UserDataHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.UserDataInput
	if !response.DecodeJSON(w, r, &input) {
		return
	}

	stored, err := h.svc.Record(r.Context(), &input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	location := "/v1/user-data/" + url.PathEscape(stored.UserID) + "/latest"
	response.Created(w, r, location, stored)
}

// Latest handles GET /v1/user-data/{userId}/latest.
func (h *UserDataHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	dp, err := h.svc.Latest(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, dp)
}

// Overview handles GET /v1/analytics/overview/{userId}.
func (h *UserDataHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	overview, err := h.svc.Overview(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, overview)
}

// Detailed handles GET /v1/analytics/detailed/{userId}.
func (h *UserDataHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	detailed, err := h.svc.Detailed(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, detailed)
}

func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		response.BadRequest(w, r, "userId is required", []models.FieldError{
			{Field: "userId", Message: "is required", Code: "required"},
		})
		return "", false
	}
	return userID, true
}
