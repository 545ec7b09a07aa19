package httperr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regi-gouale/badddy/internal/httperr"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *httperr.Error
		kind   httperr.Kind
		status int
	}{
		{
			name:   "unauthorized",
			err:    httperr.Unauthorized("missing header"),
			kind:   httperr.KindUnauthorized,
			status: 401,
		},
		{
			name:   "validation",
			err:    httperr.Validation(map[string]string{"to": "must be an email"}),
			kind:   httperr.KindValidation,
			status: 400,
		},
		{
			name:   "rate limited",
			err:    httperr.RateLimited(),
			kind:   httperr.KindRateLimited,
			status: 429,
		},
		{
			name:   "upstream",
			err:    httperr.Upstream(assert.AnError, "Failed to proxy request"),
			kind:   httperr.KindUpstream,
			status: 500,
		},
		{
			name:   "internal",
			err:    httperr.Internal(assert.AnError),
			kind:   httperr.KindInternal,
			status: 500,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.err.Kind)
			assert.Equal(t, tc.status, tc.err.Status)
			assert.True(t, httperr.IsKind(tc.err, tc.kind))
		})
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused at 10.0.0.3")
	err := httperr.Internal(cause)

	assert.Equal(t, "Internal server error", err.Message)
	require.ErrorIs(t, err, cause)
}

func TestUnauthorizedf(t *testing.T) {
	err := httperr.Unauthorizedf("invalid or expired token: %s", "exp not satisfied")
	assert.Equal(t, "invalid or expired token: exp not satisfied", err.Message)
}

func TestIsKindWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), httperr.RateLimited())
	assert.True(t, httperr.IsKind(wrapped, httperr.KindRateLimited))
	assert.False(t, httperr.IsKind(wrapped, httperr.KindValidation))
	assert.False(t, httperr.IsKind(errors.New("plain"), httperr.KindInternal))
}
