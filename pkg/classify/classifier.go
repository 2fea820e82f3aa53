package classify

import (
	"context"

	"caduceus-hq/veritas/pkg/record"
)

// Classifier maps content bytes to a classification result. Implementations
// must be deterministic: the same input always yields the same result.
//
// The classifier is a capability, not a concrete algorithm; the creation
// pipeline accepts any implementation. The method set matches
// record.Classifier, so any Classifier plugs into the record service
// directly.
type Classifier interface {
	// Classify analyzes the content and returns the diagnosis label, the
	// aggregate confidence in [0, 1], and the ordered findings. An error is
	// surfaced as a ClassificationError by the pipeline.
	Classify(ctx context.Context, imageData []byte) (diagnosis string, confidence float64, findings []record.Finding, err error)
}
