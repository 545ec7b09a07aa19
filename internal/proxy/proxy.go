// Package proxy forwards browser API calls to the backend. Every forwarded
// request carries a fresh access token minted from the caller's session, so
// the browser never holds or sends a token of its own.
package proxy

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/regi-gouale/badddy/internal/session"
)

// DefaultLoginPath is where anonymous callers are redirected.
const DefaultLoginPath = "/login"

// responseHeaderTimeout bounds how long the backend may take to start
// responding before the proxy gives up.
const responseHeaderTimeout = 30 * time.Second

// Proxy is the token-injecting reverse proxy in front of the backend.
type Proxy struct {
	sessions  *session.Client
	loginPath string
	rp        *httputil.ReverseProxy
	logger    *slog.Logger
}

// Option configures a Proxy.
type Option func(*Proxy)

// WithLoginPath overrides the redirect target for anonymous callers.
// Empty values are ignored.
func WithLoginPath(path string) Option {
	return func(p *Proxy) {
		if path != "" {
			p.loginPath = path
		}
	}
}

// New creates a Proxy forwarding to target.
func New(target *url.URL, sessions *session.Client, logger *slog.Logger, opts ...Option) *Proxy {
	p := &Proxy{
		sessions:  sessions,
		loginPath: DefaultLoginPath,
		logger:    logger.With("name", "proxy.Proxy"),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.rp = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			// The backend must see its own host, not the edge's.
			pr.Out.Host = target.Host
			// Force an identity-encoded upstream response so the
			// encoding headers can be stripped safely below.
			pr.Out.Header.Del("Accept-Encoding")
		},
		Transport: &http.Transport{
			DisableCompression:    true,
			ResponseHeaderTimeout: responseHeaderTimeout,
		},
		// Flush as data arrives so streamed backend responses are not
		// buffered at the edge.
		FlushInterval: -1,
		ModifyResponse: func(res *http.Response) error {
			res.Header.Del("Content-Encoding")
			res.Header.Del("Content-Length")
			res.Header.Del("Transfer-Encoding")
			res.ContentLength = -1
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			p.logger.Error("proxy request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			writeProxyError(w)
		},
	}
	return p
}

// ServeHTTP implements the http.Handler interface. Anonymous callers are
// redirected to the login page; everyone else is forwarded with a freshly
// minted token replacing whatever Authorization value the browser sent.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, err := p.sessions.Session(r.Context(), r.Header); err != nil {
		p.reject(w, r, err)
		return
	}

	tok, err := p.sessions.Token(r.Context(), r.Header)
	if err != nil {
		p.reject(w, r, err)
		return
	}

	out := r.Clone(r.Context())
	out.Header.Set("Authorization", "Bearer "+tok)
	p.rp.ServeHTTP(w, out)
}

func (p *Proxy) reject(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrNoSession) {
		http.Redirect(w, r, p.loginPath, http.StatusTemporaryRedirect)
		return
	}
	p.logger.Error("session lookup failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeProxyError(w)
}

func writeProxyError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"Failed to proxy request"}`))
}

// Passthrough returns a plain reverse proxy to target. Used for the
// identity service's own routes, which manage their cookies directly and
// need no token injection.
func Passthrough(target *url.URL, logger *slog.Logger) http.Handler {
	logger = logger.With("name", "proxy.Passthrough")
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("proxy request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			writeProxyError(w)
		},
	}
}
