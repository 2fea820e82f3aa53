package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"caduceus-hq/veritas/pkg/classify"
	"caduceus-hq/veritas/pkg/config"
	"caduceus-hq/veritas/pkg/record"
	"caduceus-hq/veritas/pkg/record/storage"
	"caduceus-hq/veritas/pkg/server/handlers"
	"caduceus-hq/veritas/pkg/signing"
)

// newTestHandler builds the full route tree over memory stores, the
// reference classifier, and an ephemeral local oracle.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	oracle, err := signing.NewLocalOracle()
	if err != nil {
		t.Fatalf("NewLocalOracle() failed: %v", err)
	}

	service, err := record.NewService(context.Background(),
		storage.NewMemoryRecordStore(),
		storage.NewMemoryAuditStore(),
		classify.NewChestXRay(),
		signing.NewClient(oracle, nil),
		signing.CanonicalMessage,
		nil,
	)
	if err != nil {
		t.Fatalf("NewService() failed: %v", err)
	}

	cfg := config.Default()
	srv := NewServer(&cfg.Server, &cfg.Telemetry.Metrics, service, nil)
	return srv.Handler()
}

// createBody builds a valid creation request body.
func createBody(t *testing.T, imageSize int) *bytes.Buffer {
	t.Helper()

	req := handlers.CreateRecordRequest{
		ImageData: make([]byte, imageSize),
		Patient: record.PatientMetadata{
			AnonymizedID:    "P001",
			AgeRange:        "40-50",
			StudyType:       "chest-xray",
			AcquisitionDate: "2024-01-01",
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		t.Fatalf("Failed to encode request: %v", err)
	}
	return &buf
}

// createRecord posts one valid record and returns the decoded response.
func createRecord(t *testing.T, handler http.Handler) *record.Record {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/records", createBody(t, 2048))
	req.Header.Set("X-Caller-ID", "dr-house")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("POST /v1/records = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	var rec record.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return &rec
}

// TestServer_CreateRecord tests the creation endpoint end to end.
func TestServer_CreateRecord(t *testing.T) {
	handler := newTestHandler(t)

	rec := createRecord(t, handler)
	if rec.ID != 1 {
		t.Errorf("ID = %d, want 1", rec.ID)
	}
	if rec.Diagnosis == "" {
		t.Error("Diagnosis is empty")
	}
	if len(rec.Signature) == 0 || len(rec.PublicKey) == 0 {
		t.Error("Record returned without signature or public key")
	}
	if !rec.FDACompliant || !rec.HIPAACompliant {
		t.Error("Record should be FDA and HIPAA compliant")
	}
	if rec.Patient.AnonymizedID != "P001" {
		t.Errorf("Patient.AnonymizedID = %q", rec.Patient.AnonymizedID)
	}
}

// TestServer_CreateRecord_Rejections tests undersized images and malformed
// bodies.
func TestServer_CreateRecord_Rejections(t *testing.T) {
	handler := newTestHandler(t)

	// Undersized image.
	req := httptest.NewRequest(http.MethodPost, "/v1/records", createBody(t, 10))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Undersized image = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "too small") {
		t.Errorf("Unexpected error body: %s", rr.Body.String())
	}

	// Malformed JSON.
	req = httptest.NewRequest(http.MethodPost, "/v1/records", strings.NewReader("{not json"))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Malformed body = %d, want 400", rr.Code)
	}
}

// TestServer_GetRecord tests record retrieval, bad IDs, and 404s.
func TestServer_GetRecord(t *testing.T) {
	handler := newTestHandler(t)
	created := createRecord(t, handler)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/records/%d", created.ID), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET record = %d, want 200", rr.Code)
	}

	var got record.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.ID != created.ID || got.Diagnosis != created.Diagnosis {
		t.Errorf("Got %+v, want %+v", got, created)
	}

	// Missing record.
	req = httptest.NewRequest(http.MethodGet, "/v1/records/999", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Missing record = %d, want 404", rr.Code)
	}

	// Non-numeric ID.
	req = httptest.NewRequest(http.MethodGet, "/v1/records/abc", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Bad ID = %d, want 400", rr.Code)
	}
}

// TestServer_ListRecords tests the list endpoint ordering.
func TestServer_ListRecords(t *testing.T) {
	handler := newTestHandler(t)
	createRecord(t, handler)
	createRecord(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/v1/records", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /v1/records = %d, want 200", rr.Code)
	}

	var records []*record.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &records); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].ID != 1 || records[1].ID != 2 {
		t.Errorf("Record order = %d, %d, want 1, 2", records[0].ID, records[1].ID)
	}
}

// TestServer_AuditEndpoints tests the global and per-record audit trails.
func TestServer_AuditEndpoints(t *testing.T) {
	handler := newTestHandler(t)
	created := createRecord(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/v1/audit", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /v1/audit = %d, want 200", rr.Code)
	}

	var entries []*record.AuditEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].Action != record.ActionRecordCreated {
		t.Errorf("Action = %q", entries[0].Action)
	}
	if entries[0].Caller != "dr-house" {
		t.Errorf("Caller = %q, want dr-house", entries[0].Caller)
	}

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/records/%d/audit", created.ID), nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET record audit = %d, want 200", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(entries) != 1 || entries[0].RecordID != created.ID {
		t.Errorf("Per-record trail = %+v", entries)
	}
}

// TestServer_ComplianceReport tests the report endpoint and its audit side
// effect.
func TestServer_ComplianceReport(t *testing.T) {
	handler := newTestHandler(t)
	created := createRecord(t, handler)

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/v1/records/%d/compliance-report", created.ID), nil)
	req.Header.Set("X-Caller-ID", "auditor-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET compliance report = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var report record.ComplianceReport
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if report.RecordID != created.ID {
		t.Errorf("RecordID = %d, want %d", report.RecordID, created.ID)
	}
	if report.FDAStatus != record.FDAStatusCompliant {
		t.Errorf("FDAStatus = %q", report.FDAStatus)
	}
	if report.CertificationLevel != record.CertificationLevel {
		t.Errorf("CertificationLevel = %q", report.CertificationLevel)
	}

	// The generation is itself audited.
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/records/%d/audit", created.ID), nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var entries []*record.AuditEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(entries) != 2 || entries[1].Action != record.ActionComplianceReportGenerated {
		t.Errorf("Audit trail after report = %+v", entries)
	}

	// Missing record yields 404.
	req = httptest.NewRequest(http.MethodGet, "/v1/records/999/compliance-report", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Report for missing record = %d, want 404", rr.Code)
	}
}

// TestServer_VerifySignature tests the signature endpoint.
func TestServer_VerifySignature(t *testing.T) {
	handler := newTestHandler(t)
	created := createRecord(t, handler)

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/v1/records/%d/signature", created.ID), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET signature = %d, want 200", rr.Code)
	}

	var resp handlers.VerifySignatureResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.RecordID != created.ID || !resp.Verified {
		t.Errorf("Response = %+v", resp)
	}
}

// TestServer_HealthEndpoints tests liveness, readiness, and the summary.
func TestServer_HealthEndpoints(t *testing.T) {
	handler := newTestHandler(t)
	createRecord(t, handler)

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /v1/health = %d, want 200", rr.Code)
	}

	var summary struct {
		Status      string `json:"status"`
		RecordCount uint64 `json:"record_count"`
		AuditCount  uint64 `json:"audit_count"`
		Summary     string `json:"summary"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if summary.Status != "HEALTHY" || summary.RecordCount != 1 || summary.AuditCount != 1 {
		t.Errorf("Summary = %+v", summary)
	}
	if !strings.Contains(summary.Summary, "Medical AI System Status: HEALTHY") {
		t.Errorf("Summary string = %q", summary.Summary)
	}
}

// TestServer_UnknownRoute tests that unmatched paths 404.
func TestServer_UnknownRoute(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nope", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Unknown route = %d, want 404", rr.Code)
	}
}
