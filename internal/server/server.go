// Package server assembles and runs the backend HTTP service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/regi-gouale/badddy/internal/api"
	"github.com/regi-gouale/badddy/internal/config"
	"github.com/regi-gouale/badddy/internal/email"
	"github.com/regi-gouale/badddy/internal/guard"
	"github.com/regi-gouale/badddy/internal/httperr"
	"github.com/regi-gouale/badddy/internal/key"
	"github.com/regi-gouale/badddy/internal/token"
)

const (
	readTimeout       = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 90 * time.Second
	maxHeaderBytes    = 1 << 16 // 64 KiB
)

// Server runs the backend HTTP service.
type Server struct {
	http   *http.Server
	logger *slog.Logger
}

// New wires the backend from its configuration. ctx scopes the lifetime of
// background work (the key cache's refresh loop) and should live as long as
// the process.
func New(ctx context.Context, cfg *config.API, logger *slog.Logger) *Server {
	writer := httperr.NewWriter(logger)

	var clientOpts []email.ClientOption
	if cfg.EmailAPIURL != "" {
		clientOpts = append(clientOpts, email.WithAPIURL(cfg.EmailAPIURL))
	}
	mail := email.NewService(
		email.NewClient(cfg.EmailAPIKey, clientOpts...),
		logger,
	)

	provider := key.NewRemoteProvider(ctx, cfg.JWKSURL())
	verifier := token.NewVerifier(provider, token.WithIssuer(cfg.Issuer()))

	marker := guard.NewMarker()
	router := NewRouter(
		cfg,
		api.New(mail, writer, logger),
		guard.New(verifier, marker, writer, logger),
		marker,
		writer,
		logger,
	)

	return &Server{
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           router,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
		logger: logger.With("name", "server.Server"),
	}
}

// Start listens and serves until Shutdown is called. A regular shutdown is
// not an error.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
