package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"caduceus-hq/veritas/pkg/record"
)

// CallerHeader carries the caller identity recorded in audit entries.
// Requests without it are attributed to "anonymous".
const CallerHeader = "X-Caller-ID"

// CreateRecordRequest is the body of POST /v1/records. ImageData is
// base64-encoded in JSON per encoding/json []byte handling.
type CreateRecordRequest struct {
	ImageData []byte                 `json:"image_data"`
	Patient   record.PatientMetadata `json:"patient_metadata"`
}

// VerifySignatureResponse is the body of GET /v1/records/{id}/signature.
type VerifySignatureResponse struct {
	RecordID uint64 `json:"record_id"`
	Verified bool   `json:"verified"`
}

// errorResponse is the uniform JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// caller extracts the caller identity from the request.
func caller(r *http.Request) string {
	return r.Header.Get(CallerHeader)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps a service error to its HTTP status and writes the
// uniform error body. Corruption and storage errors surface as 500 with a
// generic message; their detail stays in the logs.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *record.ValidationError
		notFoundErr   *record.NotFoundError
		signingErr    *record.SigningError
		corruptionErr *record.CorruptionError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.As(err, &signingErr):
		slog.ErrorContext(r.Context(), "signing failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "signature generation failed"})

	case errors.As(err, &corruptionErr):
		slog.ErrorContext(r.Context(), "stored data is corrupt", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "stored data is corrupt"})

	default:
		slog.ErrorContext(r.Context(), "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
