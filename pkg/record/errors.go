package record

import "fmt"

// ValidationError reports rejected input (size bounds). Validation failures
// abort record creation with no state change.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ClassificationError reports a classifier failure. The reference classifier
// never fails; this type is an extension point for pluggable classifiers.
type ClassificationError struct {
	Model string // Classifier model that failed
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification error [model=%s]: %v", e.Model, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ClassificationError) Unwrap() error {
	return e.Cause
}

// NewClassificationError creates a new ClassificationError.
func NewClassificationError(model string, cause error) *ClassificationError {
	return &ClassificationError{Model: model, Cause: cause}
}

// SigningError reports a failure in either step of the signing protocol
// (public key retrieval or signature creation). A signing failure aborts
// record creation with nothing persisted.
type SigningError struct {
	Step  string // Protocol step that failed ("public_key", "sign")
	Cause error  // Underlying oracle error
}

// Error implements the error interface.
func (e *SigningError) Error() string {
	return fmt.Sprintf("signing error [step=%s]: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *SigningError) Unwrap() error {
	return e.Cause
}

// NewSigningError creates a new SigningError.
func NewSigningError(step string, cause error) *SigningError {
	return &SigningError{Step: step, Cause: cause}
}

// NotFoundError reports a lookup for an ID that is not in the store.
// Not-found is a local result, never process-fatal.
type NotFoundError struct {
	Kind string // Entity kind ("record", "audit entry")
	ID   uint64 // Requested ID
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(kind string, id uint64) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// StorageError reports a failure in the storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "memory")
	Operation string // Operation that failed ("insert", "get", "list", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// CorruptionError reports an encoding failure on persisted data. Decode
// failures indicate storage corruption, not user error, and are treated as
// unrecoverable.
type CorruptionError struct {
	Kind  string // Entity kind ("record", "audit entry")
	ID    uint64 // Key of the corrupt value
	Cause error  // Underlying decode error
}

// Error implements the error interface.
func (e *CorruptionError) Error() string {
	return fmt.Sprintf("data corruption [kind=%s, id=%d]: %v", e.Kind, e.ID, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *CorruptionError) Unwrap() error {
	return e.Cause
}

// NewCorruptionError creates a new CorruptionError.
func NewCorruptionError(kind string, id uint64, cause error) *CorruptionError {
	return &CorruptionError{Kind: kind, ID: id, Cause: cause}
}
