package record

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Compliance report fixed strings. The statuses name the regulation the
// flag attests to; the notes and certification level are constant for
// every report this service produces.
const (
	FDAStatusCompliant   = "COMPLIANT - FDA 21 CFR Part 820"
	HIPAAStatusCompliant = "COMPLIANT - HIPAA Privacy Rule"
	StatusNonCompliant   = "NON_COMPLIANT"

	CertificationLevel = "Class II Medical Device Software"
)

// RegulatoryNotes is the fixed set of notes attached to every compliance
// report.
var RegulatoryNotes = []string{
	"Medical AI system meets FDA software as medical device requirements",
	"Patient data anonymized per HIPAA standards",
	"Cryptographic signatures ensure data integrity",
}

// Classifier is the classification capability consumed by the service.
// It mirrors classify.Classifier without importing it, so alternative
// classifier packages can plug in.
type Classifier interface {
	Classify(ctx context.Context, imageData []byte) (diagnosis string, confidence float64, findings []Finding, err error)
}

// Signer runs the signing protocol over a canonical message and returns
// (signature, publicKey).
type Signer interface {
	SignMessage(ctx context.Context, message string) (signature, publicKey []byte, err error)
}

// CanonicalMessageFunc builds the canonical message that is signed for a
// result. Its exact composition is a compatibility contract with signature
// consumers.
type CanonicalMessageFunc func(diagnosis string, confidence float64, createdAt time.Time, anonymizedID string) string

// Metrics receives service-level events. All methods must be safe for
// concurrent use; a nil Metrics disables instrumentation.
type Metrics interface {
	RecordCreated(duration time.Duration)
	RecordCreationFailed(stage string)
	AuditEntryAppended(action string)
	ComplianceReportGenerated()
}

// Service owns the record lifecycle: validation, classification dispatch,
// the signing protocol, ID allocation, and both persistent stores. It is
// constructed once at startup and injected into every handler; there is no
// package-level mutable state.
type Service struct {
	records    RecordStore
	audit      AuditStore
	allocator  *IDAllocator
	classifier Classifier
	signer     Signer
	message    CanonicalMessageFunc
	metrics    Metrics
	logger     *slog.Logger

	// commit serializes "allocate ID, build, insert, append audit" so two
	// racing creations cannot commit out of allocation order, and audit
	// entry order always matches causal order.
	commit chan struct{}
}

// NewService wires a service from its collaborators. The allocator counters
// are seeded from the stores so a restart never reuses an ID.
func NewService(ctx context.Context, records RecordStore, audit AuditStore, classifier Classifier, signer Signer, message CanonicalMessageFunc, metrics Metrics) (*Service, error) {
	maxRecordID, err := records.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read max record ID: %w", err)
	}
	maxAuditID, err := audit.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read max audit ID: %w", err)
	}

	allocator := NewIDAllocator()
	allocator.Seed(maxRecordID, maxAuditID)

	s := &Service{
		records:    records,
		audit:      audit,
		allocator:  allocator,
		classifier: classifier,
		signer:     signer,
		message:    message,
		metrics:    metrics,
		logger:     slog.Default().With("component", "record.service"),
		commit:     make(chan struct{}, 1),
	}

	s.logger.Info("record service initialized",
		"next_record_id", maxRecordID+1,
		"next_audit_id", maxAuditID+1,
		"model_version", ModelVersion,
	)

	return s, nil
}

// CreateRecord runs the full creation pipeline:
//
//	Validating -> Classifying -> Signing -> Committed
//
// Any failure before commit aborts with no partial writes; the record is
// observable through the query surface only after the signed record and its
// RECORD_CREATED audit entry are both stored.
func (s *Service) CreateRecord(ctx context.Context, imageData []byte, patient PatientMetadata, caller string) (*Record, error) {
	start := time.Now().UTC()

	// Validating.
	if _, err := ValidateImage(imageData); err != nil {
		s.failCreation("validation")
		return nil, err
	}

	// Classifying.
	diagnosis, confidence, findings, err := s.classifier.Classify(ctx, imageData)
	if err != nil {
		s.failCreation("classification")
		return nil, NewClassificationError(ModelVersion, err)
	}

	// Signing. Both oracle round trips must succeed before any state
	// changes; a failure here leaves the stores untouched.
	message := s.message(diagnosis, confidence, start, patient.AnonymizedID)
	signature, publicKey, err := s.signer.SignMessage(ctx, message)
	if err != nil {
		s.failCreation("signing")
		return nil, err
	}

	// Committed. The commit section is serialized so insert order matches
	// ID allocation order across racing creations.
	select {
	case s.commit <- struct{}{}:
	case <-ctx.Done():
		s.failCreation("commit")
		return nil, ctx.Err()
	}
	defer func() { <-s.commit }()

	rec := &Record{
		ID:             s.allocator.NextRecordID(),
		Diagnosis:      diagnosis,
		Confidence:     confidence,
		Findings:       findings,
		CreatedAt:      start,
		Signature:      signature,
		PublicKey:      publicKey,
		FDACompliant:   true,
		HIPAACompliant: true,
		ModelVersion:   ModelVersion,
		Patient:        patient,
	}

	if err := s.records.Insert(ctx, rec); err != nil {
		s.failCreation("commit")
		return nil, err
	}

	if err := s.appendAudit(ctx, rec.ID, ActionRecordCreated, caller,
		fmt.Sprintf("Medical image analyzed: %s", diagnosis)); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCreated(time.Since(start))
	}

	s.logger.Info("record committed",
		"record_id", rec.ID,
		"diagnosis", diagnosis,
		"confidence", confidence,
		"caller", caller,
	)

	return rec, nil
}

// GetRecord retrieves one record by ID.
func (s *Service) GetRecord(ctx context.Context, id uint64) (*Record, error) {
	return s.records.Get(ctx, id)
}

// ListRecords returns all committed records ordered by ascending ID.
func (s *Service) ListRecords(ctx context.Context) ([]*Record, error) {
	return s.records.List(ctx)
}

// AuditTrail returns every audit entry ordered by ascending ID.
func (s *Service) AuditTrail(ctx context.Context) ([]*AuditEntry, error) {
	return s.audit.List(ctx)
}

// AuditTrailForRecord returns the audit entries referencing the record,
// ordered by ascending entry ID. An unknown record ID yields an empty
// slice, not an error: the audit subsystem does not require its foreign
// keys to resolve.
func (s *Service) AuditTrailForRecord(ctx context.Context, recordID uint64) ([]*AuditEntry, error) {
	return s.audit.ListByRecord(ctx, recordID)
}

// VerifySignature reports whether the stored record carries a signature.
// This is placeholder verification: it checks that the signature bytes are
// non-empty rather than re-verifying against the public key.
//
// TODO: re-verify the ASN.1 signature against the stored PKIX public key
// once downstream consumers agree on the canonical timestamp encoding.
func (s *Service) VerifySignature(ctx context.Context, id uint64) (bool, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return len(rec.Signature) > 0, nil
}

// ComplianceReport assembles a derived report for the record and, as a side
// effect, appends one COMPLIANCE_REPORT_GENERATED audit entry. Reports are
// regenerable: repeated calls yield structurally identical reports apart
// from the generation timestamp, each with its own audit entry.
func (s *Service) ComplianceReport(ctx context.Context, id uint64, caller string) (*ComplianceReport, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, id, ActionComplianceReportGenerated, caller,
		"FDA compliance report requested"); err != nil {
		return nil, err
	}

	fdaStatus := StatusNonCompliant
	if rec.FDACompliant {
		fdaStatus = FDAStatusCompliant
	}
	hipaaStatus := StatusNonCompliant
	if rec.HIPAACompliant {
		hipaaStatus = HIPAAStatusCompliant
	}

	notes := make([]string, len(RegulatoryNotes))
	copy(notes, RegulatoryNotes)

	if s.metrics != nil {
		s.metrics.ComplianceReportGenerated()
	}

	return &ComplianceReport{
		RecordID:           id,
		FDAStatus:          fdaStatus,
		HIPAAStatus:        hipaaStatus,
		AuditTrailComplete: true,
		SignatureVerified:  true,
		RegulatoryNotes:    notes,
		CertificationLevel: CertificationLevel,
		GeneratedAt:        time.Now().UTC(),
	}, nil
}

// HealthSummary describes the service's current state.
type HealthSummary struct {
	Status       string `json:"status"`
	RecordCount  uint64 `json:"record_count"`
	AuditCount   uint64 `json:"audit_count"`
	ModelVersion string `json:"model_version"`
}

// Health reports current store counts and the model version.
func (s *Service) Health(ctx context.Context) (*HealthSummary, error) {
	recordCount, err := s.records.Count(ctx)
	if err != nil {
		return nil, err
	}
	auditCount, err := s.audit.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &HealthSummary{
		Status:       "HEALTHY",
		RecordCount:  recordCount,
		AuditCount:   auditCount,
		ModelVersion: ModelVersion,
	}, nil
}

// String formats the summary in the fixed reference layout.
func (h *HealthSummary) String() string {
	return fmt.Sprintf(
		"Medical AI System Status: %s | Diagnoses: %d | Audit Entries: %d | Model: %s",
		h.Status, h.RecordCount, h.AuditCount, h.ModelVersion,
	)
}

// appendAudit allocates an audit entry ID and appends the entry. IDs come
// from the allocator's atomic counter and both stores iterate in ID order,
// so readers always see entries in allocation order.
func (s *Service) appendAudit(ctx context.Context, recordID uint64, action, caller, details string) error {
	if caller == "" {
		caller = "anonymous"
	}

	tags := make([]string, len(ComplianceTags))
	copy(tags, ComplianceTags)

	entry := &AuditEntry{
		ID:             s.allocator.NextAuditID(),
		RecordID:       recordID,
		Action:         action,
		Timestamp:      time.Now().UTC(),
		Caller:         caller,
		Details:        details,
		ComplianceTags: tags,
	}

	if err := s.audit.Append(ctx, entry); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.AuditEntryAppended(action)
	}

	return nil
}

func (s *Service) failCreation(stage string) {
	if s.metrics != nil {
		s.metrics.RecordCreationFailed(stage)
	}
}
