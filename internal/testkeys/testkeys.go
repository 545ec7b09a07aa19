// Package testkeys provides a miniature token authority for tests: it
// generates a signing key, mints signed tokens, and serves the matching
// JWKS document.
package testkeys

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/require"
)

var serial atomic.Int64

// Authority holds an RSA signing key and its public JWK set.
type Authority struct {
	key jwk.Key
	set jwk.Set
}

// New generates a fresh authority with a unique key ID.
func New(t *testing.T) *Authority {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	k, err := jwk.Import(raw)
	require.NoError(t, err)
	require.NoError(t, k.Set(jwk.KeyIDKey, fmt.Sprintf("test-key-%d", serial.Add(1))))
	require.NoError(t, k.Set(jwk.AlgorithmKey, jwa.RS256()))

	pub, err := jwk.PublicKeyOf(k)
	require.NoError(t, err)
	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))

	return &Authority{key: k, set: set}
}

// Set returns the public JWK set.
func (a *Authority) Set() jwk.Set {
	return a.set
}

// SetJSON returns the public JWK set as a JWKS document.
func (a *Authority) SetJSON(t *testing.T) []byte {
	t.Helper()
	buf, err := json.Marshal(a.set)
	require.NoError(t, err)
	return buf
}

// Serve starts a test server publishing the JWKS document. The server is
// closed when the test finishes.
func (a *Authority) Serve(t *testing.T) *httptest.Server {
	t.Helper()
	doc := a.SetJSON(t)
	srv := httptest.NewServer(http.HandlerFunc(
		func(res http.ResponseWriter, _ *http.Request) {
			res.Header().Set("Content-Type", "application/json")
			_, _ = res.Write(doc)
		},
	))
	t.Cleanup(srv.Close)
	return srv
}

// Sign builds and signs a token carrying the given claims. Registered
// claim names (iss, sub, exp, ...) are accepted alongside private ones.
func (a *Authority) Sign(t *testing.T, claims map[string]any) []byte {
	t.Helper()

	b := jwt.NewBuilder()
	for name, value := range claims {
		b = b.Claim(name, value)
	}
	tok, err := b.Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256(), a.key))
	require.NoError(t, err)
	return signed
}
