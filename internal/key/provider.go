// Package key supplies the JSON Web Key Sets used to verify access token
// signatures.
package key

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

const (
	// DefaultFetchTimeout bounds a single JWKS fetch so an unresponsive
	// identity provider fails fast instead of hanging caller requests.
	DefaultFetchTimeout = 5 * time.Second
	// DefaultMinInterval is the minimum interval between background
	// refreshes of the remote key set.
	DefaultMinInterval = 5 * time.Minute
)

// Provider supplies the current JWK set. Implementations may fetch or
// refresh keys as needed.
type Provider interface {
	// Keys returns the current JWK set.
	Keys(ctx context.Context) (jwk.Set, error)
}

// Refresher is implemented by providers that can force a re-fetch of their
// key set, tolerating provider-side key rotation.
type Refresher interface {
	// Refresh fetches the key set anew, bypassing the cached copy.
	Refresh(ctx context.Context) (jwk.Set, error)
}

// ProviderFunc is a small adapter for functional implementations of
// Provider.
type ProviderFunc func(ctx context.Context) (jwk.Set, error)

// Keys implements the Provider interface.
func (f ProviderFunc) Keys(ctx context.Context) (jwk.Set, error) { return f(ctx) }

// RemoteProvider retrieves keys from a remote JWKS endpoint via jwk.Cache,
// which handles background refreshes and rate limiting.
//
// Registration against the endpoint happens lazily on first use and is
// single-flight: concurrent first callers converge on one underlying
// fetch, and all of them receive the same handle. A failed registration
// leaves the provider unregistered so the next request re-attempts it.
type RemoteProvider struct {
	endpoint    string
	timeout     time.Duration
	minInterval time.Duration
	ctx         context.Context

	sem   chan struct{} // 1-slot semaphore guarding registration
	cache *jwk.Cache    // nil until registered
}

// Option configures a RemoteProvider.
type Option func(*RemoteProvider)

// WithFetchTimeout bounds each JWKS fetch. Non-positive values are
// ignored.
func WithFetchTimeout(d time.Duration) Option {
	return func(p *RemoteProvider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMinInterval sets the minimum background refresh interval.
// Non-positive values are ignored.
func WithMinInterval(d time.Duration) Option {
	return func(p *RemoteProvider) {
		if d > 0 {
			p.minInterval = d
		}
	}
}

// NewRemoteProvider creates a RemoteProvider for the given JWKS endpoint.
// ctx scopes the lifetime of the background cache; it should live as long
// as the process.
func NewRemoteProvider(ctx context.Context, endpoint string, opts ...Option) *RemoteProvider {
	p := &RemoteProvider{
		endpoint:    endpoint,
		timeout:     DefaultFetchTimeout,
		minInterval: DefaultMinInterval,
		ctx:         ctx,
		sem:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Keys looks up (and possibly refreshes) the JWK set for the configured
// endpoint. The first call performs exactly one network fetch regardless
// of concurrent callers.
func (p *RemoteProvider) Keys(ctx context.Context) (jwk.Set, error) {
	cache, err := p.register(ctx)
	if err != nil {
		return nil, err
	}
	return cache.Lookup(ctx, p.endpoint)
}

// Refresh implements Refresher by forcing a fetch of the key set.
func (p *RemoteProvider) Refresh(ctx context.Context) (jwk.Set, error) {
	cache, err := p.register(ctx)
	if err != nil {
		return nil, err
	}
	return cache.Refresh(ctx, p.endpoint)
}

// register performs the one-time cache setup and initial fetch. The
// semaphore collapses concurrent initializations into a single attempt;
// waiters either observe the populated cache or retry registration if the
// first attempt failed.
func (p *RemoteProvider) register(ctx context.Context) (*jwk.Cache, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.sem }()

	if p.cache != nil {
		return p.cache, nil
	}

	client := httprc.NewClient(httprc.WithHTTPClient(&http.Client{
		Timeout: p.timeout,
	}))
	cache, err := jwk.NewCache(p.ctx, client)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	wt, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := cache.Register(
		wt,
		p.endpoint,
		jwk.WithMinInterval(p.minInterval),
	); err != nil {
		return nil, fmt.Errorf("register url: %w", err)
	}

	p.cache = cache
	return cache, nil
}

// Ensure RemoteProvider satisfies both contracts.
var (
	_ Provider  = (*RemoteProvider)(nil)
	_ Refresher = (*RemoteProvider)(nil)
)
