package redact

import (
	"bytes"
	"encoding/json"
	"io"
)

// Writer is an io.Writer that redacts every record written to it before
// forwarding it to the wrapped sink. Each call to Write is one record, which
// is how zerolog writes.
//
// JSON object records have the values of sensitive keys replaced at any depth
// and every other string value passed through [Redactor.Filter]. Anything that
// is not a JSON object is filtered as delimited text.
type Writer struct {
	out      io.Writer
	redactor *Redactor
}

// NewWriter wraps out. A nil redactor means [NewDefault].
func NewWriter(out io.Writer, redactor *Redactor) *Writer {
	if redactor == nil {
		redactor = NewDefault()
	}
	return &Writer{out: out, redactor: redactor}
}

// Write implements io.Writer. On success it reports len(p) bytes written even
// when the redacted record differs in length.
func (w *Writer) Write(p []byte) (int, error) {
	redacted := w.redactRecord(p)
	if _, err := w.out.Write(redacted); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *Writer) redactRecord(p []byte) []byte {
	body := bytes.TrimRight(p, "\r\n")
	trailer := p[len(body):]

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if out, ok := w.redactJSON(trimmed); ok {
			return append(out, trailer...)
		}
	}

	filtered := w.redactor.Filter(string(body))
	return append([]byte(filtered), trailer...)
}

// redactJSON returns the redacted object and true, or false when p is not a
// valid JSON object. Records without anything to redact are returned as is so
// field order is kept.
func (w *Writer) redactJSON(p []byte) ([]byte, bool) {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()

	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return nil, false
	}

	if !w.redactValue(record) {
		return p, true
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return nil, false
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), true
}

// redactValue rewrites v in place and reports whether anything changed.
func (w *Writer) redactValue(v any) bool {
	changed := false

	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			if w.redactor.IsSensitive(k) {
				if s, ok := inner.(string); !ok || s != w.redactor.Redaction() {
					val[k] = w.redactor.Redaction()
					changed = true
				}
				continue
			}
			if s, ok := inner.(string); ok {
				if filtered := w.redactor.Filter(s); filtered != s {
					val[k] = filtered
					changed = true
				}
				continue
			}
			if w.redactValue(inner) {
				changed = true
			}
		}
	case []any:
		for i, inner := range val {
			if s, ok := inner.(string); ok {
				if filtered := w.redactor.Filter(s); filtered != s {
					val[i] = filtered
					changed = true
				}
				continue
			}
			if w.redactValue(inner) {
				changed = true
			}
		}
	}

	return changed
}
