// Package handlers implements the HTTP handlers for the record service's
// external interface: record creation, the read-only query surface, the
// audit trail, compliance reports, and health endpoints.
//
// Handlers translate between HTTP and the record service; all domain rules
// live in the service. Error mapping is uniform: ValidationError -> 400,
// NotFoundError -> 404, SigningError -> 502, everything else -> 500 with a
// generic message.
package handlers
