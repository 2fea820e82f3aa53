package handlers

import (
	"net/http"

	"caduceus-hq/veritas/pkg/record"
)

// ComplianceHandler serves compliance reports and signature verification.
type ComplianceHandler struct {
	service *record.Service
}

// NewComplianceHandler creates a compliance handler.
func NewComplianceHandler(service *record.Service) *ComplianceHandler {
	return &ComplianceHandler{service: service}
}

// Report handles GET /v1/records/{id}/compliance-report. Generation
// appends one audit entry, which makes this the only read path with a
// write side effect.
func (h *ComplianceHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	report, err := h.service.ComplianceReport(r.Context(), id, caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// VerifySignature handles GET /v1/records/{id}/signature.
func (h *ComplianceHandler) VerifySignature(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	verified, err := h.service.VerifySignature(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifySignatureResponse{RecordID: id, Verified: verified})
}
