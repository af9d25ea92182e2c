package http

import (
	"net/http"

	"github.com/MKhiriev/go-user-auth/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// withTraceID attaches a child logger carrying trace_id to the request
// context. The id is taken from the X-Trace-ID header when the client sent
// one and echoed back in the response.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(utils.TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(utils.TraceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
