// Package redact masks personally identifying fields in log records before
// they reach any sink.
//
// Records are either delimited text ("name=bob;password=secret;") or JSON
// objects as produced by zerolog. Both shapes are handled: [Redactor.Filter]
// works on delimited text, [Writer] works on whole records.
package redact

import (
	"strings"
)

// DefaultFields are the field names treated as sensitive when nothing else is
// configured.
var DefaultFields = []string{"email", "ssn", "password", "credit_card", "phone_number"}

const (
	// DefaultRedaction replaces the value of every sensitive field.
	DefaultRedaction = "***"

	// DefaultSeparator delimits name=value pairs in a text record.
	DefaultSeparator = ";"
)

// Redactor masks the values of a fixed set of sensitive fields.
// It is immutable and safe for concurrent use.
type Redactor struct {
	fields    map[string]struct{}
	redaction string
	separator string
}

// New builds a Redactor. Field names are matched exactly.
func New(fields []string, redaction, separator string) *Redactor {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		set[f] = struct{}{}
	}

	return &Redactor{
		fields:    set,
		redaction: redaction,
		separator: separator,
	}
}

// NewDefault builds a Redactor over [DefaultFields] with the default
// redaction token and separator.
func NewDefault() *Redactor {
	return New(DefaultFields, DefaultRedaction, DefaultSeparator)
}

// Filter obfuscates the fields of message. It is the functional form of
// [Redactor.Filter].
func Filter(fields []string, redaction, message, separator string) string {
	return New(fields, redaction, separator).Filter(message)
}

// Filter replaces the value of every "name=value" segment whose name is
// sensitive with the redaction token. Everything else, separators included,
// is passed through unchanged. With an empty separator the whole message is
// a single segment.
func (r *Redactor) Filter(message string) string {
	if len(r.fields) == 0 || message == "" {
		return message
	}

	if r.separator == "" {
		return r.filterSegment(message)
	}

	segments := strings.Split(message, r.separator)
	for i, seg := range segments {
		segments[i] = r.filterSegment(seg)
	}

	return strings.Join(segments, r.separator)
}

// IsSensitive reports whether name is one of the configured fields.
func (r *Redactor) IsSensitive(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Redaction returns the replacement token.
func (r *Redactor) Redaction() string {
	return r.redaction
}

// filterSegment masks the value of the first pair in seg. The name is the
// word right before "="; text in front of it is kept.
func (r *Redactor) filterSegment(seg string) string {
	eq := strings.IndexByte(seg, '=')
	if eq < 0 {
		return seg
	}

	start := strings.LastIndexAny(seg[:eq], " \t") + 1
	if !r.IsSensitive(seg[start:eq]) {
		return seg
	}

	return seg[:eq+1] + r.redaction
}
