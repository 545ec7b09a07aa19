package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/regi-gouale/badddy/internal/api"
	"github.com/regi-gouale/badddy/internal/config"
	"github.com/regi-gouale/badddy/internal/guard"
	"github.com/regi-gouale/badddy/internal/httperr"
	"github.com/regi-gouale/badddy/internal/middleware"
)

const (
	// rateLimit is the per-client request budget within rateWindow.
	rateLimit  = 10
	rateWindow = time.Minute

	defaultOrigin = "http://localhost:3000"
)

// NewRouter wires the backend's middleware chain and routes. Route
// visibility is declared on the marker at registration time, next to the
// routes themselves, so adding a route without thinking about visibility
// leaves it protected.
func NewRouter(
	cfg *config.API,
	h *api.Handler,
	g *guard.Guard,
	marker *guard.Marker,
	writer *httperr.Writer,
	logger *slog.Logger,
) http.Handler {
	origin := cfg.FrontendURL
	if origin == "" {
		origin = defaultOrigin
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.Catch(logger, writer))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.Limit(rateLimit, rateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
			writer.Write(w, req, httperr.RateLimited())
		}),
	))
	r.Use(g.Middleware)

	marker.Mark(http.MethodGet, "/api/v1", true)
	marker.Mark(http.MethodGet, "/api/v1/", true)
	marker.Mark(http.MethodPost, "/api/v1/email/verification", true)
	marker.Mark(http.MethodPost, "/api/v1/email/reset-password", true)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", h.Hello)
		r.Get("/users/me", h.Me)
		r.Route("/email", func(r chi.Router) {
			r.Post("/send", h.SendEmail)
			r.Post("/verification", h.SendVerification)
			r.Post("/reset-password", h.SendResetPassword)
			r.Post("/welcome", h.SendWelcome)
		})
	})

	notFound := func(w http.ResponseWriter, req *http.Request) {
		writer.Write(w, req, httperr.NotFound(req.Method, req.URL.Path))
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}
