package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-user-auth/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// withMetrics records request count and latency labelled by the chi route
// pattern, so path values never become label values.
func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(mw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		metrics.RecordHTTPRequest(r.Method, route, mw.Status(), time.Since(start))
	})
}
