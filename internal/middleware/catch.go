package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/regi-gouale/badddy/internal/httperr"
)

// Catch converts panics from downstream handlers into a uniform 500
// envelope. The panic value and stack trace are logged, never exposed.
func Catch(logger *slog.Logger, writer *httperr.Writer) Pipe {
	logger = logger.With("name", "middleware.Catch")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("unhandled panic",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", v,
						"stack", string(debug.Stack()),
					)
					writer.Write(w, r, httperr.Internal(fmt.Errorf("panic: %v", v)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
