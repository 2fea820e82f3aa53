package handlers

import (
	"net/http"
	"time"

	"caduceus-hq/veritas/pkg/record"
)

// HealthHandler serves liveness, readiness, and the service health summary.
type HealthHandler struct {
	service *record.Service
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service *record.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// Live handles GET /health for liveness probes.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// Ready handles GET /ready. The service is ready when the stores answer.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "not_ready",
			"timestamp": time.Now().Unix(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}

// Summary handles GET /v1/health: the counts-and-model summary in both
// structured and fixed string form.
func (h *HealthHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Health(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		*record.HealthSummary
		Summary string `json:"summary"`
	}{
		HealthSummary: summary,
		Summary:       summary.String(),
	})
}
