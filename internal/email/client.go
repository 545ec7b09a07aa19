// Package email sends transactional mail through the UseSend API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultAPIURL is the hosted UseSend endpoint.
	DefaultAPIURL = "https://app.usesend.com"
	// DefaultTimeout bounds a single delivery call.
	DefaultTimeout = 10 * time.Second
)

// Message is one outbound email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Client is a minimal UseSend API client.
type Client struct {
	base   string
	apiKey string
	client *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIURL overrides the API base URL. Empty values are ignored.
func WithAPIURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.base = u
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewClient creates a Client authenticating with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		base:   DefaultAPIURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send delivers one message. Non-2xx responses are reported as errors;
// the provider's response body is included for server-side logs only.
func (c *Client) Send(ctx context.Context, msg Message) error {
	buf, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.base+"/api/v1/emails",
		bytes.NewReader(buf),
	)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("email api returned %d: %s", res.StatusCode, detail)
	}
	return nil
}
