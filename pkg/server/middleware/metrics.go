package middleware

import (
	"net/http"
	"time"

	"caduceus-hq/veritas/pkg/telemetry/metrics"
)

// Metrics observes each request on the HTTP metrics. The route label uses
// the registered route pattern from the mux, not the raw URL path, to keep
// label cardinality bounded.
func Metrics(hm *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			hm.ObserveRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
