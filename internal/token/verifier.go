package token

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/regi-gouale/badddy/internal/key"
)

// refreshThrottle limits how often a verification failure may force a key
// set re-fetch. Without it, a stream of garbage tokens would hammer the
// identity provider.
const refreshThrottle = time.Minute

// Verifier validates compact JWTs against the key provider's current set
// and extracts the Principal.
type Verifier struct {
	provider key.Provider
	issuer   string
	leeway   time.Duration
	clock    jwt.Clock

	mu          sync.Mutex
	lastRefresh time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithIssuer requires the token's iss claim to equal iss. Empty values
// are ignored.
func WithIssuer(iss string) VerifierOption {
	return func(v *Verifier) {
		if iss != "" {
			v.issuer = iss
		}
	}
}

// WithLeeway accepts the given clock skew during temporal validation.
// Non-positive values are ignored.
func WithLeeway(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		if d > 0 {
			v.leeway = d
		}
	}
}

// WithClock overrides the time source used for temporal validation.
// Intended for tests.
func WithClock(c jwt.Clock) VerifierOption {
	return func(v *Verifier) {
		if c != nil {
			v.clock = c
		}
	}
}

// NewVerifier creates a Verifier backed by the given key provider.
func NewVerifier(provider key.Provider, opts ...VerifierOption) *Verifier {
	v := &Verifier{provider: provider}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify validates raw's signature, issuer, and temporal claims, then
// extracts the Principal. If validation fails against the cached key set
// and the provider supports it, the key set is re-fetched once and the
// token re-checked, tolerating provider-side key rotation without
// downtime. Returned errors wrap ErrInvalidToken or ErrKeySetUnavailable
// and never echo the token.
func (v *Verifier) Verify(ctx context.Context, raw []byte) (*Principal, error) {
	set, err := v.provider.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}

	tok, err := v.parse(ctx, raw, set)
	if err != nil {
		if fresh, ok := v.tryRefresh(ctx); ok {
			tok, err = v.parse(ctx, raw, fresh)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return principalOf(tok)
}

// parse runs the signature and claim validation against the given set.
func (v *Verifier) parse(ctx context.Context, raw []byte, set jwk.Set) (jwt.Token, error) {
	opts := []jwt.ParseOption{
		jwt.WithContext(ctx),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.leeway > 0 {
		opts = append(opts, jwt.WithAcceptableSkew(v.leeway))
	}
	if v.clock != nil {
		opts = append(opts, jwt.WithClock(v.clock))
	}
	return jwt.Parse(raw, opts...)
}

// tryRefresh forces one key set re-fetch, at most once per
// refreshThrottle, and only when the provider supports it.
func (v *Verifier) tryRefresh(ctx context.Context) (jwk.Set, bool) {
	r, ok := v.provider.(key.Refresher)
	if !ok {
		return nil, false
	}

	v.mu.Lock()
	if time.Since(v.lastRefresh) < refreshThrottle {
		v.mu.Unlock()
		return nil, false
	}
	v.lastRefresh = time.Now()
	v.mu.Unlock()

	set, err := r.Refresh(ctx)
	if err != nil {
		return nil, false
	}
	return set, true
}

// principalOf extracts the allow-listed claims from a validated token.
// sub and email are required non-empty strings; name defaults to "".
func principalOf(tok jwt.Token) (*Principal, error) {
	var id string
	if err := tok.Get(jwt.SubjectKey, &id); err != nil || id == "" {
		return nil, fmt.Errorf("%w: missing or malformed sub claim", ErrInvalidToken)
	}
	var email string
	if err := tok.Get("email", &email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: missing or malformed email claim", ErrInvalidToken)
	}
	var name string
	// Optional claim; absent or non-string values leave the default.
	_ = tok.Get("name", &name)

	return &Principal{
		ID:    id,
		Email: email,
		Name:  name,
	}, nil
}
