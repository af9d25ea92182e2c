// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors and context-aware helpers used throughout the
// go-user-auth application.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
// Application code should pass *Logger by pointer and obtain request-scoped
// loggers via FromContext or FromRequest.
//
// Every logger built by this package writes through a redact.Writer, so
// sensitive fields never reach a sink in clear text.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/MKhiriev/go-user-auth/internal/redact"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// Options tunes a Logger built by New. The zero value is a JSON logger at
// debug level writing to os.Stdout and masking redact.DefaultFields.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Empty means debug.
	Level string

	// Pretty switches from JSON to zerolog's human readable console output.
	Pretty bool

	// Output is the final sink. Nil means os.Stdout.
	Output io.Writer

	// RedactFields lists the sensitive field names. Nil means
	// redact.DefaultFields.
	RedactFields []string

	// Redaction replaces sensitive values. Empty means redact.DefaultRedaction.
	Redaction string

	// Separator delimits name=value pairs inside messages. Empty means
	// redact.DefaultSeparator.
	Separator string
}

// NewLogger constructs a *Logger for the given role label (e.g. "server")
// with default Options.
//
// The logger is configured with:
//   - global log level set to Debug (all levels are emitted);
//   - a "role" field set to role;
//   - a timestamp field added to every log entry;
//   - a "func" caller field that records the fully-qualified function name.
func NewLogger(role string) *Logger {
	return New(role, Options{})
}

// New constructs a *Logger for role configured by opts.
func New(role string, opts Options) *Logger {
	zerolog.SetGlobalLevel(ParseLevel(opts.Level))
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name() // return function name
	}
	zerolog.CallerFieldName = "func"

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(redact.NewWriter(out, opts.redactor())).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// NewClientLogger builds the logger of the CLI client. Output goes to a
// "logs" file next to the executable so it does not interleave with the
// command output; stdout is the fallback.
func NewClientLogger(role string) *Logger {
	execPath, _ := os.Executable()
	logPath := filepath.Join(filepath.Dir(execPath), "logs")

	var out io.Writer = os.Stdout
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		out = logFile
	}

	return New(role, Options{Output: out})
}

// ParseLevel maps a textual level to zerolog. Unknown or empty input means
// debug.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}

func (o Options) redactor() *redact.Redactor {
	fields := o.RedactFields
	if fields == nil {
		fields = redact.DefaultFields
	}
	redaction := o.Redaction
	if redaction == "" {
		redaction = redact.DefaultRedaction
	}
	separator := o.Separator
	if separator == "" {
		separator = redact.DefaultSeparator
	}
	return redact.New(fields, redaction, separator)
}

// Nop returns a *Logger that discards all log output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromRequest returns the request-scoped logger attached by the HTTP
// middleware.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's log.Ctx
// helper and returns it as a *Logger.
//
// If no logger has been attached to ctx, zerolog returns its default logger,
// so this function never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
