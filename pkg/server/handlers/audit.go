package handlers

import (
	"net/http"

	"caduceus-hq/veritas/pkg/record"
)

// AuditHandler serves the audit trail query surface.
type AuditHandler struct {
	service *record.Service
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(service *record.Service) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /v1/audit: every audit entry in ascending ID order.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.AuditTrail(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListByRecord handles GET /v1/records/{id}/audit. An unknown record ID
// yields an empty list, matching the audit subsystem's contract that
// foreign keys need not resolve.
func (h *AuditHandler) ListByRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entries, err := h.service.AuditTrailForRecord(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
