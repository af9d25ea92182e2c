package redact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FormatterTimeLayout renders timestamps as "2019-11-19 18:24:25,105".
const FormatterTimeLayout = "2006-01-02 15:04:05,000"

// Formatter renders log records as single text lines
//
//	[<app>] <name> <LEVEL> <time>: <message>
//
// with the message filtered by its Redactor.
type Formatter struct {
	App      string
	Name     string
	Redactor *Redactor
}

// NewFormatter returns a Formatter masking fields with the default redaction
// token and separator.
func NewFormatter(app, name string, fields []string) *Formatter {
	return &Formatter{
		App:      app,
		Name:     name,
		Redactor: New(fields, DefaultRedaction, DefaultSeparator),
	}
}

// Format renders a single record.
func (f *Formatter) Format(level zerolog.Level, ts time.Time, message string) string {
	return fmt.Sprintf("[%s] %s %s %s: %s",
		f.App,
		f.Name,
		strings.ToUpper(level.String()),
		ts.Format(FormatterTimeLayout),
		f.Redactor.Filter(message),
	)
}

// Writer returns an io.Writer that accepts zerolog JSON records, renders each
// through Format and writes the line to out. Records that are not valid JSON
// are filtered and written verbatim.
func (f *Formatter) Writer(out io.Writer) io.Writer {
	return &formatWriter{formatter: f, out: out}
}

type formatWriter struct {
	formatter *Formatter
	out       io.Writer
}

func (w *formatWriter) Write(p []byte) (int, error) {
	var record map[string]any
	if err := json.Unmarshal(p, &record); err != nil {
		line := w.formatter.Redactor.Filter(strings.TrimRight(string(p), "\n"))
		if _, err := io.WriteString(w.out, line+"\n"); err != nil {
			return 0, err
		}
		return len(p), nil
	}

	level := zerolog.InfoLevel
	if s, ok := record[zerolog.LevelFieldName].(string); ok {
		if parsed, err := zerolog.ParseLevel(s); err == nil {
			level = parsed
		}
	}

	ts := time.Now()
	if s, ok := record[zerolog.TimestampFieldName].(string); ok {
		if parsed, err := time.Parse(zerolog.TimeFieldFormat, s); err == nil {
			ts = parsed
		}
	}

	message, _ := record[zerolog.MessageFieldName].(string)

	var buf bytes.Buffer
	buf.WriteString(w.formatter.Format(level, ts, message))
	buf.WriteByte('\n')
	if _, err := w.out.Write(buf.Bytes()); err != nil {
		return 0, err
	}

	return len(p), nil
}
