// Package token verifies bearer tokens issued by the identity service and
// produces the authenticated Principal attached to requests.
package token

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidToken indicates a token that failed validation: bad
	// signature, wrong issuer, expired, malformed, or missing required
	// claims. The wrapped description never contains the raw token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrKeySetUnavailable indicates the verification keys could not be
	// loaded from the identity service.
	ErrKeySetUnavailable = errors.New("key set unavailable")
)

// Principal is the validated identity attached to a request. It is only
// ever constructed from verified token claims, and only carries the three
// allow-listed fields; arbitrary token payload is never forwarded.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Bearer extracts the credentials from an Authorization header value using
// the Bearer scheme. The scheme comparison is case-insensitive and
// surrounding whitespace is ignored. It returns "" if the header does not
// carry bearer credentials.
func Bearer(auth string) string {
	auth = strings.TrimSpace(auth)
	const scheme = "Bearer"
	if len(auth) <= len(scheme) {
		return ""
	}
	if !strings.EqualFold(auth[:len(scheme)], scheme) {
		return ""
	}
	rest := auth[len(scheme):]
	if rest[0] != ' ' {
		return ""
	}
	return strings.TrimSpace(rest)
}
