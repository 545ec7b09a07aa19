// Package api implements the backend's route handlers.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/regi-gouale/badddy/internal/email"
	"github.com/regi-gouale/badddy/internal/guard"
	"github.com/regi-gouale/badddy/internal/httperr"
)

// maxBodyBytes caps request bodies read by the handlers.
const maxBodyBytes = 1 << 20 // 1 MiB

// Handler bundles the backend's route handlers.
type Handler struct {
	email    *email.Service
	validate *validator.Validate
	writer   *httperr.Writer
	logger   *slog.Logger
}

// New creates a Handler.
func New(emailSvc *email.Service, writer *httperr.Writer, logger *slog.Logger) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the JSON field names callers actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		email:    emailSvc,
		validate: v,
		writer:   writer,
		logger:   logger.With("name", "api.Handler"),
	}
}

// Hello is the public health check.
func (h *Handler) Hello(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello World!"))
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := guard.PrincipalFrom(r.Context())
	if !ok {
		// The guard must have run; reaching this point unauthenticated is
		// a wiring bug, not a client error.
		h.writer.Write(w, r, httperr.Internal(
			errors.New("no principal in request context"),
		))
		return
	}
	h.respond(w, r, map[string]any{
		"message": "Authenticated user profile",
		"user":    principal,
	})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode response",
			"method", r.Method, "path", r.URL.Path, "error", err,
		)
	}
}

// decode reads, unmarshals, and validates the request body into dst.
// Failures come back as validation errors carrying the offending body.
func (h *Handler) decode(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return httperr.Validation(map[string]string{
			"body": "unable to read request body",
		})
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return httperr.Validation(map[string]string{
			"body": "malformed JSON",
		}).WithBody(body)
	}
	if err := h.validate.Struct(dst); err != nil {
		return httperr.Validation(fieldErrors(err)).WithBody(body)
	}
	return nil
}

// fieldErrors flattens validator failures into per-field messages.
func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = "invalid request body"
		return fields
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "email":
			fields[fe.Field()] = "must be a valid email address"
		case "url":
			fields[fe.Field()] = "must be a valid URL"
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return fields
}
