// Package middleware provides the HTTP middleware chain for the record
// service: request ID propagation, request logging, panic recovery, and
// request metrics.
package middleware
