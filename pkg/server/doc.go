// Package server owns the HTTP server lifecycle for the record service:
// route registration, the middleware chain, graceful shutdown on signal or
// context cancellation, and the optional metrics endpoint.
package server
