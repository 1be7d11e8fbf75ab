// Package handler provides HTTP handlers for the ScreenAware API.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/screenaware/screenaware/internal/api/models"
	"github.com/screenaware/screenaware/internal/api/response"
	"github.com/screenaware/screenaware/internal/modelbundle"
)

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// readyTimeout bounds each dependency check of the readiness probe.
const readyTimeout = 2 * time.Second

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version      string
	buildTime    string
	bundle       *modelbundle.Bundle
	bundleSource string
	store        Pinger
}

// NewOpsHandler creates a new OpsHandler. store may be nil when the service
// runs without persistence.
func NewOpsHandler(version, buildTime string, bundle *modelbundle.Bundle, bundleSource string, store Pinger) *OpsHandler {
	return &OpsHandler{
		version:      version,
		buildTime:    buildTime,
		bundle:       bundle,
		bundleSource: bundleSource,
		store:        store,
	}
}

// Root handles GET / - service banner.
func (h *OpsHandler) Root(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Banner{
		Message: "ScreenAware prediction API",
		Status:  "running",
		Version: h.version,
	})
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready - the bundle must be loaded and
// the store reachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ready := models.Readiness{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	bundle := models.SubsystemStatus{Name: "model-bundle", Status: models.HealthStatusOK}
	if h.bundle == nil {
		bundle.Status = models.HealthStatusFail
		ready.Status = models.HealthStatusFail
	}
	ready.Subsystems = append(ready.Subsystems, bundle)

	if h.store != nil {
		store := models.SubsystemStatus{Name: "store", Status: models.HealthStatusOK}
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		err := h.store.Ping(ctx)
		cancel()
		if err != nil {
			detail := "unreachable"
			store.Status = models.HealthStatusFail
			store.Detail = &detail
			ready.Status = models.HealthStatusFail
		}
		ready.Subsystems = append(ready.Subsystems, store)
	}

	status := http.StatusOK
	if ready.Status != models.HealthStatusOK {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, r, status, ready)
}

// ModelInfo handles GET /v1/ops/model - metadata of the loaded bundle.
func (h *OpsHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	if h.bundle == nil {
		response.ServiceUnavailable(w, r, "model bundle not loaded")
		return
	}

	b := h.bundle
	names := make(map[string]string)
	for _, id := range b.Cluster.Names.IDs() {
		name, _ := b.Cluster.Names.Lookup(id)
		names[strconv.Itoa(id)] = name
	}

	response.JSON(w, r, http.StatusOK, models.ModelInfo{
		Source:          h.bundleSource,
		RiskFeatures:    b.Risk.Features,
		MoodFeatures:    b.Mood.Features,
		ClusterFeatures: b.Cluster.Features,
		RiskClasses:     b.Risk.Labels.Labels(),
		ClusterNames:    names,
		MoodRange: models.MoodRange{
			Min:     b.Mood.Range.Min,
			Max:     b.Mood.Range.Max,
			Default: b.Mood.Range.Default,
		},
	})
}
