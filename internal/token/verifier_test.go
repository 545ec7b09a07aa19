package token_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regi-gouale/badddy/internal/key"
	"github.com/regi-gouale/badddy/internal/testkeys"
	"github.com/regi-gouale/badddy/internal/token"
)

const issuer = "http://localhost:3000"

func staticProvider(a *testkeys.Authority) key.Provider {
	return key.ProviderFunc(func(context.Context) (jwk.Set, error) {
		return a.Set(), nil
	})
}

func baseClaims() map[string]any {
	now := time.Now()
	return map[string]any{
		"iss":   issuer,
		"sub":   "u1",
		"email": "a@b.com",
		"iat":   now,
		"exp":   now.Add(time.Hour),
	}
}

func TestVerifyValidToken(t *testing.T) {
	a := testkeys.New(t)
	v := token.NewVerifier(staticProvider(a), token.WithIssuer(issuer))

	raw := a.Sign(t, baseClaims())
	p, err := v.Verify(t.Context(), raw)
	require.NoError(t, err)

	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "a@b.com", p.Email)
	assert.Equal(t, "", p.Name, "absent name claim defaults to empty")
}

func TestVerifyCopiesName(t *testing.T) {
	a := testkeys.New(t)
	v := token.NewVerifier(staticProvider(a), token.WithIssuer(issuer))

	claims := baseClaims()
	claims["name"] = "Jane Doe"
	p, err := v.Verify(t.Context(), a.Sign(t, claims))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.Name)
}

func TestVerifyRejections(t *testing.T) {
	a := testkeys.New(t)
	stranger := testkeys.New(t)
	v := token.NewVerifier(staticProvider(a), token.WithIssuer(issuer))

	tests := []struct {
		name string
		raw  func(t *testing.T) []byte
	}{
		{
			name: "bad signature",
			raw: func(t *testing.T) []byte {
				return stranger.Sign(t, baseClaims())
			},
		},
		{
			name: "wrong issuer",
			raw: func(t *testing.T) []byte {
				claims := baseClaims()
				claims["iss"] = "http://evil.example.com"
				return a.Sign(t, claims)
			},
		},
		{
			name: "expired",
			raw: func(t *testing.T) []byte {
				claims := baseClaims()
				claims["iat"] = time.Now().Add(-2 * time.Hour)
				claims["exp"] = time.Now().Add(-time.Hour)
				return a.Sign(t, claims)
			},
		},
		{
			name: "missing sub",
			raw: func(t *testing.T) []byte {
				claims := baseClaims()
				delete(claims, "sub")
				return a.Sign(t, claims)
			},
		},
		{
			name: "missing email",
			raw: func(t *testing.T) []byte {
				claims := baseClaims()
				delete(claims, "email")
				return a.Sign(t, claims)
			},
		},
		{
			name: "non-string email",
			raw: func(t *testing.T) []byte {
				claims := baseClaims()
				claims["email"] = 42
				return a.Sign(t, claims)
			},
		},
		{
			name: "malformed token",
			raw: func(t *testing.T) []byte {
				return []byte("not.a.jwt")
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := v.Verify(t.Context(), tc.raw(t))
			require.ErrorIs(t, err, token.ErrInvalidToken)
			assert.Nil(t, p, "no principal may be constructed on failure")
			assert.NotContains(t, err.Error(), string(tc.raw(t)))
		})
	}
}

func TestVerifyKeySetUnavailable(t *testing.T) {
	p := key.ProviderFunc(func(context.Context) (jwk.Set, error) {
		return nil, assert.AnError
	})
	v := token.NewVerifier(p, token.WithIssuer(issuer))

	_, err := v.Verify(t.Context(), []byte("irrelevant"))
	require.ErrorIs(t, err, token.ErrKeySetUnavailable)
}

func TestVerifySurvivesKeyRotation(t *testing.T) {
	old := testkeys.New(t)
	next := testkeys.New(t)

	var doc atomic.Value
	doc.Store(old.SetJSON(t))
	srv := httptest.NewServer(http.HandlerFunc(
		func(res http.ResponseWriter, _ *http.Request) {
			res.Header().Set("Content-Type", "application/json")
			_, _ = res.Write(doc.Load().([]byte))
		},
	))
	defer srv.Close()

	provider := key.NewRemoteProvider(t.Context(), srv.URL)
	v := token.NewVerifier(provider, token.WithIssuer(issuer))

	// Prime the cache with the old key set.
	p, err := v.Verify(t.Context(), old.Sign(t, baseClaims()))
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)

	// The provider rotates its signing key; the cached set is stale.
	doc.Store(next.SetJSON(t))

	p, err = v.Verify(t.Context(), next.Sign(t, baseClaims()))
	require.NoError(t, err, "one forced refresh should pick up the rotated key")
	assert.Equal(t, "u1", p.ID)
}

func TestVerifyIdempotent(t *testing.T) {
	a := testkeys.New(t)
	v := token.NewVerifier(staticProvider(a), token.WithIssuer(issuer))

	raw := a.Sign(t, baseClaims())
	first, err := v.Verify(t.Context(), raw)
	require.NoError(t, err)
	second, err := v.Verify(t.Context(), raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
