package utils

import (
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// TraceIDHeader carries the request trace id between the client and the
// server logs.
const TraceIDHeader = "X-Trace-ID"

// HTTPClient is a wrapper around resty.Client. Every request gets a fresh
// trace id and is logged at debug level once the response arrives.
//
// The cookie jar is disabled: session cookies are attached explicitly by the
// caller, so a client never carries a session it was not given.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an independent client with its own connection pool.
func NewHTTPClient(log *logger.Logger) *HTTPClient {
	client := resty.New().SetCookieJar(nil)

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if req.Header.Get(TraceIDHeader) == "" {
			req.SetHeader(TraceIDHeader, uuid.NewString())
		}
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		log.Debug().
			Str("trace_id", resp.Request.Header.Get(TraceIDHeader)).
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("duration", resp.Time()).
			Msg("http response")
		return nil
	})

	return &HTTPClient{Client: client}
}
