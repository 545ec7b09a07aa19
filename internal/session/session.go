// Package session resolves browser sessions against the identity service.
// The web edge forwards the caller's cookies and receives the session state
// and short-lived access tokens in return.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single identity service call.
const DefaultTimeout = 5 * time.Second

// ErrNoSession reports that the request carries no active session.
var ErrNoSession = errors.New("no active session")

// User is the session owner as reported by the identity service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is an active browser session.
type Session struct {
	User User `json:"user"`
}

// Client calls the identity service's session endpoints.
type Client struct {
	base   *url.URL
	client *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewClient creates a Client for the identity service at base.
func NewClient(base *url.URL, opts ...Option) *Client {
	c := &Client{
		base:   base,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session resolves the active session for the cookies in header. Returns
// ErrNoSession when the identity service reports none.
func (c *Client) Session(ctx context.Context, header http.Header) (*Session, error) {
	body, err := c.get(ctx, "/api/auth/get-session", header)
	if err != nil {
		return nil, err
	}

	// The identity service answers "null" for anonymous callers.
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, ErrNoSession
	}

	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Token mints a fresh access token for the session identified by the
// cookies in header.
func (c *Client) Token(ctx context.Context, header http.Header) (string, error) {
	body, err := c.get(ctx, "/api/auth/token", header)
	if err != nil {
		return "", err
	}

	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if res.Token == "" {
		return "", ErrNoSession
	}
	return res.Token, nil
}

// get performs a cookie-forwarding GET against the identity service.
func (c *Client) get(ctx context.Context, path string, header http.Header) ([]byte, error) {
	u := strings.TrimSuffix(c.base.String(), "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if cookie := header.Get("Cookie"); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call identity service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return nil, ErrNoSession
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service returned %d", res.StatusCode)
	}
	return io.ReadAll(io.LimitReader(res.Body, 1<<20))
}
