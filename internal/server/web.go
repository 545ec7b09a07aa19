package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/regi-gouale/badddy/internal/config"
	"github.com/regi-gouale/badddy/internal/httperr"
	"github.com/regi-gouale/badddy/internal/middleware"
	"github.com/regi-gouale/badddy/internal/proxy"
	"github.com/regi-gouale/badddy/internal/session"
)

// NewWeb wires the web edge: identity routes pass straight through to the
// identity service, everything else under /api is forwarded to the backend
// with a freshly minted token.
func NewWeb(cfg *config.Web, logger *slog.Logger) *Server {
	writer := httperr.NewWriter(logger)
	sessions := session.NewClient(cfg.AuthURL)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.Catch(logger, writer))

	r.Handle("/api/auth/*", proxy.Passthrough(cfg.AuthURL, logger))
	r.Handle("/api/*", proxy.New(cfg.BackendURL, sessions, logger))

	return &Server{
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
		logger: logger.With("name", "server.Web"),
	}
}
