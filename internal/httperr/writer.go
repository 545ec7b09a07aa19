package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Envelope is the uniform shape of every error response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Message    any    `json:"message"`
}

// Writer finalizes error responses. It is the only component that formats
// failures into HTTP responses; everything else raises and propagates.
type Writer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewWriter creates a Writer logging through the given logger.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{
		logger: logger.With("name", "httperr.Writer"),
		now:    time.Now,
	}
}

// Write converts err into exactly one Envelope response. Unrecognized
// error values become a generic 500. Every failure is logged; for
// validation failures the structured detail and the offending request body
// are logged as well. Bodies are never logged for any other status, so
// credentials in auth payloads cannot leak into logs.
func (wr *Writer) Write(w http.ResponseWriter, r *http.Request, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal(err)
	}

	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", e.Status,
		"kind", e.Kind.String(),
		"error", err.Error(),
	}
	if e.Kind == KindValidation {
		attrs = append(attrs, "detail", e.Message)
		if len(e.body) > 0 {
			attrs = append(attrs, "body", string(e.body))
		}
	}
	wr.logger.Error("request failed", attrs...)

	env := Envelope{
		StatusCode: e.Status,
		Timestamp:  wr.now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
		Method:     r.Method,
		Message:    e.Message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		wr.logger.Error("encode error envelope", "error", err)
	}
}
