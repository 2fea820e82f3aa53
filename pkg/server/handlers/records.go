package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"caduceus-hq/veritas/pkg/record"
)

// RecordsHandler serves record creation and the record query surface.
type RecordsHandler struct {
	service      *record.Service
	maxBodyBytes int64
}

// NewRecordsHandler creates a records handler.
func NewRecordsHandler(service *record.Service, maxBodyBytes int64) *RecordsHandler {
	return &RecordsHandler{service: service, maxBodyBytes: maxBodyBytes}
}

// Create handles POST /v1/records: the full creation pipeline from raw
// content to a committed, signed record.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	rec, err := h.service.CreateRecord(r.Context(), req.ImageData, req.Patient, caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// List handles GET /v1/records.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListRecords(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Get handles GET /v1/records/{id}.
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, err := h.service.GetRecord(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// pathID parses the {id} path value. On failure it writes a 400 response
// and returns ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid record ID: " + raw})
		return 0, false
	}
	return id, true
}
