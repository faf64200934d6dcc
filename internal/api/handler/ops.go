package handler

import (
	"net/http"
	"time"

	"github.com/tripcast/tripcast/internal/api/models"
	"github.com/tripcast/tripcast/internal/api/response"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version     string
	buildTime   string
	modelLoaded func() bool
}

// NewOpsHandler creates a new OpsHandler. modelLoaded reports whether the
// delay model artifact is loaded and usable.
func NewOpsHandler(version, buildTime string, modelLoaded func() bool) *OpsHandler {
	return &OpsHandler{
		version:     version,
		buildTime:   buildTime,
		modelLoaded: modelLoaded,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// Reports unavailable until the delay model is loaded.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.modelLoaded != nil && !h.modelLoaded() {
		response.ServiceUnavailable(w, r, "delay model not loaded")
		return
	}

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	}
	response.JSON(w, r, http.StatusOK, health)
}
