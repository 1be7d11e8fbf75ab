package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/screenaware/screenaware/internal/api/models"
	"github.com/screenaware/screenaware/internal/api/response"
	"github.com/screenaware/screenaware/internal/prediction"
)

// Predictor computes predictions from validated metrics.
type Predictor interface {
	ComputeReport(ctx context.Context, raw prediction.RawUserMetrics) (*prediction.Report, error)
	ComputeRisk(ctx context.Context, raw prediction.RawUserMetrics) (string, error)
	ComputeMood(ctx context.Context, raw prediction.RawUserMetrics) (int, error)
	ComputeCluster(ctx context.Context, raw prediction.RawUserMetrics) (string, error)
}

// PredictionHandler handles the prediction endpoints.
type PredictionHandler struct {
	predictor Predictor
	log       zerolog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictor Predictor, log zerolog.Logger) *PredictionHandler {
	return &PredictionHandler{predictor: predictor, log: log}
}

// Report handles POST /v1/predictions/report - all three predictions plus
// the dominant usage category.
func (h *PredictionHandler) Report(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decode(w, r)
	if !ok {
		return
	}

	report, err := h.predictor.ComputeReport(r.Context(), raw)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, prediction.ToAPIReport(report))
}

// Risk handles POST /v1/predictions/risk.
func (h *PredictionHandler) Risk(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decode(w, r)
	if !ok {
		return
	}

	label, err := h.predictor.ComputeRisk(r.Context(), raw)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.RiskPrediction{RiskLevel: label})
}

// Mood handles POST /v1/predictions/mood.
func (h *PredictionHandler) Mood(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decode(w, r)
	if !ok {
		return
	}

	rating, err := h.predictor.ComputeMood(r.Context(), raw)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.MoodPrediction{MoodRating: rating})
}

// Cluster handles POST /v1/predictions/cluster.
func (h *PredictionHandler) Cluster(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decode(w, r)
	if !ok {
		return
	}

	label, err := h.predictor.ComputeCluster(r.Context(), raw)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.ClusterPrediction{ClusterLabel: label})
}

func (h *PredictionHandler) decode(w http.ResponseWriter, r *http.Request) (prediction.RawUserMetrics, bool) {
	var input models.MetricsInput
	if !response.DecodeJSON(w, r, &input) {
		return prediction.RawUserMetrics{}, false
	}

	raw, err := prediction.ParseInput(&input)
	if err != nil {
		writeError(w, r, h.log, err)
		return prediction.RawUserMetrics{}, false
	}
	return raw, true
}
