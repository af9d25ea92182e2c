// Package http implements the HTTP surface of the auth service.
//
// It exposes route wiring, form handlers and middleware. Request tracing,
// access logging, metrics, panic recovery, timeouts and response compression
// are handled here; everything else is delegated to service.AuthService.
// Sessions travel in the "session_id" cookie.
package http
