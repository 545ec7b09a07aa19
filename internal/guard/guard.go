// Package guard gates access to protected routes. It checks the
// registration-time visibility marker, verifies bearer tokens, and
// attaches the resulting principal to the request context.
package guard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/regi-gouale/badddy/internal/httperr"
	"github.com/regi-gouale/badddy/internal/token"
)

type contextKey struct{}

// principalKey stores the authenticated principal in the request context.
var principalKey contextKey

// PrincipalFrom returns the principal attached by the guard, if any.
func PrincipalFrom(ctx context.Context) (*token.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*token.Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the given principal. Exposed
// for handler tests.
func WithPrincipal(ctx context.Context, p *token.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Verifier validates a raw bearer token into a principal.
type Verifier interface {
	Verify(ctx context.Context, raw []byte) (*token.Principal, error)
}

// Guard is the per-request authorization gate.
type Guard struct {
	verifier Verifier
	marker   *Marker
	writer   *httperr.Writer
	logger   *slog.Logger
}

// New creates a Guard.
func New(verifier Verifier, marker *Marker, writer *httperr.Writer, logger *slog.Logger) *Guard {
	return &Guard{
		verifier: verifier,
		marker:   marker,
		writer:   writer,
		logger:   logger.With("name", "guard.Guard"),
	}
}

// Middleware enforces the gate on every request. Public routes pass
// through untouched; the verifier is never consulted for them. Protected
// routes require a well-formed Bearer credential that verifies against
// the identity provider's keys, and the principal is attached to the
// request context before the handler runs.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.marker.Public(r) {
			next.ServeHTTP(w, r)
			return
		}

		raw := token.Bearer(r.Header.Get("Authorization"))
		if raw == "" {
			g.writer.Write(w, r, httperr.Unauthorized(
				"Missing or invalid authorization header",
			))
			return
		}

		principal, err := g.verifier.Verify(r.Context(), []byte(raw))
		if err != nil {
			g.writer.Write(w, r, g.classify(err))
			return
		}

		ctx := WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// classify maps verifier failures onto the error taxonomy. An unreachable
// identity provider is an upstream failure, not the caller's fault.
func (g *Guard) classify(err error) error {
	if errors.Is(err, token.ErrKeySetUnavailable) {
		g.logger.Error("key set unavailable", "error", err)
		return httperr.Upstream(err, "Authentication service unavailable")
	}
	return httperr.Unauthorizedf("Invalid or expired token: %v", err)
}
