package record

import (
	"context"
	"time"
)

// ModelVersion identifies the classification model embedded in every record
// and reported by the health summary.
const ModelVersion = "MedicalAI-v2.1.0"

// Audit action labels. Exactly two actions produce audit entries in this
// service: record creation and compliance-report generation.
const (
	ActionRecordCreated             = "RECORD_CREATED"
	ActionComplianceReportGenerated = "COMPLIANCE_REPORT_GENERATED"
)

// ComplianceTags is the fixed set of compliance flags attached to every
// audit entry.
var ComplianceTags = []string{"FDA_AUDIT", "HIPAA_LOG"}

// PatientMetadata carries the anonymized patient context embedded in a
// record. It is immutable once a record has been committed.
type PatientMetadata struct {
	// AnonymizedID is the de-identified subject identifier (e.g. "P001").
	AnonymizedID string `json:"anonymized_id"`

	// AgeRange is a coarse age bucket (e.g. "40-50").
	AgeRange string `json:"age_range"`

	// StudyType names the imaging study (e.g. "chest-xray").
	StudyType string `json:"study_type"`

	// AcquisitionDate is the date the study was acquired, as provided by
	// the caller. The service does not parse or normalize it.
	AcquisitionDate string `json:"acquisition_date"`
}

// Finding is a single observation produced by the classifier. Findings are
// owned by exactly one record and keep the classifier's output order.
type Finding struct {
	// Label describes the observation (e.g. "Consolidation").
	Label string `json:"finding"`

	// Location is the anatomical location (e.g. "Right lower lobe").
	Location string `json:"location"`

	// Severity is the severity tier ("Normal", "Mild", "Moderate", "Severe").
	Severity string `json:"severity"`

	// Confidence is the per-finding confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Record is a finalized, signed classification result. A record is created
// exactly once by the classification pipeline and is read-only thereafter.
//
// Invariant: a record is never visible in the store unless Signature is
// non-empty. Signing completes before persistence.
type Record struct {
	// ID is the unique record identifier. IDs are allocated monotonically
	// starting at 1 and are never reused.
	ID uint64 `json:"id"`

	// Diagnosis is the human-readable classification label.
	Diagnosis string `json:"diagnosis"`

	// Confidence is the aggregate classification confidence in [0, 1].
	Confidence float64 `json:"confidence_score"`

	// Findings is the ordered list of observations backing the diagnosis.
	Findings []Finding `json:"medical_findings"`

	// CreatedAt is the record creation timestamp. It is part of the signed
	// canonical message.
	CreatedAt time.Time `json:"timestamp"`

	// Signature is the ASN.1 DER encoded signature over the SHA-256 digest
	// of the canonical message.
	Signature []byte `json:"signature"`

	// PublicKey is the signing oracle's public key in PKIX DER form.
	PublicKey []byte `json:"public_key"`

	// FDACompliant and HIPAACompliant record the compliance posture at
	// creation time.
	FDACompliant   bool `json:"fda_compliant"`
	HIPAACompliant bool `json:"hipaa_compliant"`

	// ModelVersion is the classifier model version that produced this record.
	ModelVersion string `json:"model_version"`

	// Patient is the embedded patient metadata, owned by value.
	Patient PatientMetadata `json:"patient_metadata"`
}

// AuditEntry is an immutable log line capturing an action taken against a
// record. Entries are append-only: never mutated or deleted after insertion.
type AuditEntry struct {
	// ID is the audit entry identifier. Audit IDs are allocated from their
	// own counter, independent of record IDs.
	ID uint64 `json:"id"`

	// RecordID references the record the action was taken against.
	RecordID uint64 `json:"record_id"`

	// Action is the action label (ActionRecordCreated, ...).
	Action string `json:"action"`

	// Timestamp is when the action occurred.
	Timestamp time.Time `json:"timestamp"`

	// Caller identifies who triggered the action.
	Caller string `json:"caller"`

	// Details is free-text context for the action.
	Details string `json:"details"`

	// ComplianceTags is the fixed set of compliance flags.
	ComplianceTags []string `json:"compliance_flags"`
}

// ComplianceReport is a derived, regenerable summary of a record's
// regulatory status. Reports are never persisted; each generation appends
// one audit entry as a side effect.
type ComplianceReport struct {
	RecordID           uint64    `json:"record_id"`
	FDAStatus          string    `json:"fda_status"`
	HIPAAStatus        string    `json:"hipaa_status"`
	AuditTrailComplete bool      `json:"audit_trail_complete"`
	SignatureVerified  bool      `json:"signature_verified"`
	RegulatoryNotes    []string  `json:"regulatory_notes"`
	CertificationLevel string    `json:"certification_level"`
	GeneratedAt        time.Time `json:"generated_timestamp"`
}

// ImageAnalysisMetrics is the validator's output. It is an intermediate
// artifact only and is discarded once validation succeeds.
type ImageAnalysisMetrics struct {
	ImageSizeKB          uint32  `json:"image_size_kb"`
	ProcessingTimeMS     uint64  `json:"processing_time_ms"`
	ModelInferenceTimeMS uint64  `json:"model_inference_time_ms"`
	PreprocessingTimeMS  uint64  `json:"preprocessing_time_ms"`
	QualityScore         float64 `json:"quality_score"`
}

// RecordStore is the durable mapping from record ID to committed record.
// Implementations must be safe for concurrent use and must iterate in
// ascending ID order.
type RecordStore interface {
	// Insert persists a record under its ID.
	Insert(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns a NotFoundError if absent.
	Get(ctx context.Context, id uint64) (*Record, error)

	// List returns all records ordered by ascending ID.
	List(ctx context.Context) ([]*Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (uint64, error)

	// MaxID returns the highest stored record ID, or 0 if the store is empty.
	// Used to seed the ID allocator at startup.
	MaxID(ctx context.Context) (uint64, error)
}

// AuditStore is the durable, append-only mapping from audit entry ID to
// audit entries. Implementations must be safe for concurrent use and must
// iterate in ascending ID order.
type AuditStore interface {
	// Append persists an audit entry under its ID. There is no update or
	// delete operation.
	Append(ctx context.Context, entry *AuditEntry) error

	// Get retrieves an audit entry by ID. Returns a NotFoundError if absent.
	Get(ctx context.Context, id uint64) (*AuditEntry, error)

	// List returns all audit entries ordered by ascending ID.
	List(ctx context.Context) ([]*AuditEntry, error)

	// ListByRecord returns the audit entries referencing recordID, ordered
	// by ascending entry ID.
	ListByRecord(ctx context.Context, recordID uint64) ([]*AuditEntry, error)

	// Count returns the number of stored audit entries.
	Count(ctx context.Context) (uint64, error)

	// MaxID returns the highest stored audit entry ID, or 0 if empty.
	MaxID(ctx context.Context) (uint64, error)
}
