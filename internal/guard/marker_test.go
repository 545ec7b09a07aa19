package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/regi-gouale/badddy/internal/guard"
)

func request(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func TestMarkerDefaultsProtected(t *testing.T) {
	m := guard.NewMarker()
	assert.False(t, m.Public(request(http.MethodGet, "/api/v1/users/me")))
}

func TestMarkerExactRoute(t *testing.T) {
	m := guard.NewMarker()
	m.Mark(http.MethodGet, "/api/v1/", true)

	assert.True(t, m.Public(request(http.MethodGet, "/api/v1/")))
	assert.False(t, m.Public(request(http.MethodPost, "/api/v1/")), "visibility is per method")
	assert.False(t, m.Public(request(http.MethodGet, "/api/v1/users/me")))
}

func TestMarkerExactOverridesPrefix(t *testing.T) {
	m := guard.NewMarker()
	m.MarkPrefix("/api/v1/email/", false)
	m.Mark(http.MethodPost, "/api/v1/email/verification", true)
	m.Mark(http.MethodPost, "/api/v1/email/reset-password", true)

	assert.True(t, m.Public(request(http.MethodPost, "/api/v1/email/verification")))
	assert.True(t, m.Public(request(http.MethodPost, "/api/v1/email/reset-password")))
	assert.False(t, m.Public(request(http.MethodPost, "/api/v1/email/send")))
	assert.False(t, m.Public(request(http.MethodPost, "/api/v1/email/welcome")))
}

func TestMarkerLongestPrefixWins(t *testing.T) {
	m := guard.NewMarker()
	m.MarkPrefix("/api/", true)
	m.MarkPrefix("/api/v1/email/", false)

	assert.True(t, m.Public(request(http.MethodGet, "/api/v1/anything")))
	assert.False(t, m.Public(request(http.MethodPost, "/api/v1/email/send")))
}
