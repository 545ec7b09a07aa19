// Package config loads the environment-driven configuration for both
// services. Validation happens at load time: a service refuses to start on
// an invalid or incomplete environment rather than running degraded.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultAPIPort is the port the backend listens on unless PORT is set.
	DefaultAPIPort = 8080
	// DefaultWebPort is the port the web edge listens on unless PORT is set.
	DefaultWebPort = 3000

	defaultAuthURL    = "http://localhost:3000"
	defaultBackendURL = "http://localhost:4000"
)

// API holds the backend service configuration.
type API struct {
	// Port is the TCP port to listen on.
	Port int
	// AuthURL is the base URL of the identity service. It doubles as the
	// expected token issuer; the JWKS endpoint is derived from it.
	AuthURL *url.URL
	// FrontendURL is the allowed CORS origin. Required in production.
	FrontendURL string
	// EmailAPIKey authenticates against the transactional email API.
	// The service refuses to start without it.
	EmailAPIKey string
	// EmailAPIURL overrides the transactional email API base URL.
	// Empty means the client default.
	EmailAPIURL string
	// Production reports whether the service runs in production mode.
	Production bool
	// LogLevel selects the slog level (see logger.New).
	LogLevel string
}

// JWKSURL returns the JWKS endpoint published by the identity service.
func (c *API) JWKSURL() string {
	return strings.TrimSuffix(c.AuthURL.String(), "/") + "/api/auth/jwks"
}

// Issuer returns the issuer expected in access tokens.
func (c *API) Issuer() string {
	return c.AuthURL.String()
}

// Web holds the web edge service configuration.
type Web struct {
	// Port is the TCP port to listen on.
	Port int
	// AuthURL is the base URL of the identity service, used to resolve
	// sessions and mint tokens.
	AuthURL *url.URL
	// BackendURL is the internal base URL of the backend service that
	// proxied API calls are forwarded to.
	BackendURL *url.URL
	// LogLevel selects the slog level (see logger.New).
	LogLevel string
}

// LoadAPI reads the backend configuration from the environment.
func LoadAPI() (*API, error) {
	port, err := lookupPort(DefaultAPIPort)
	if err != nil {
		return nil, err
	}
	authURL, err := lookupURL("BETTER_AUTH_URL", defaultAuthURL)
	if err != nil {
		return nil, err
	}

	production := isProduction()
	frontend := os.Getenv("FRONTEND_URL")
	if production && frontend == "" {
		return nil, errors.New("FRONTEND_URL must be set in production")
	}

	apiKey := os.Getenv("USESEND_APIKEY")
	if apiKey == "" {
		return nil, errors.New("USESEND_APIKEY is required")
	}

	return &API{
		Port:        port,
		AuthURL:     authURL,
		FrontendURL: frontend,
		EmailAPIKey: apiKey,
		EmailAPIURL: os.Getenv("USESEND_API_URL"),
		Production:  production,
		LogLevel:    os.Getenv("BADDDY_LOG"),
	}, nil
}

// LoadWeb reads the web edge configuration from the environment.
func LoadWeb() (*Web, error) {
	port, err := lookupPort(DefaultWebPort)
	if err != nil {
		return nil, err
	}
	authURL, err := lookupURL("BETTER_AUTH_URL", defaultAuthURL)
	if err != nil {
		return nil, err
	}
	backendURL, err := lookupURL("BACKEND_INTERNAL_URL", defaultBackendURL)
	if err != nil {
		return nil, err
	}

	return &Web{
		Port:       port,
		AuthURL:    authURL,
		BackendURL: backendURL,
		LogLevel:   os.Getenv("BADDDY_LOG"),
	}, nil
}

func isProduction() bool {
	env := os.Getenv("BADDDY_ENV")
	if env == "" {
		env = os.Getenv("NODE_ENV")
	}
	return strings.EqualFold(strings.TrimSpace(env), "production")
}

func lookupPort(fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv("PORT"))
	if v == "" {
		return fallback, nil
	}
	port, err := strconv.Atoi(v)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid PORT %q", v)
	}
	return port, nil
}

func lookupURL(name, fallback string) (*url.URL, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		v = fallback
	}
	u, err := url.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, v)
	}
	return u, nil
}
