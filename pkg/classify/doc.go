// Package classify provides the pluggable classification capability used by
// the record creation pipeline.
//
// The Classifier interface is deliberately small: content bytes in, a
// diagnosis with ordered findings out. The reference implementation,
// ChestXRay, is a deterministic stub that buckets the SHA-256 digest of the
// content into a fixed table of diagnosis profiles. It stands in for a real
// inference backend, which can be substituted without touching the pipeline.
package classify
