package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/regi-gouale/badddy/internal/token"
)

func TestBearer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		auth string
		want string
	}{
		{name: "empty", auth: "", want: ""},
		{name: "spaces", auth: "   ", want: ""},
		{name: "wrong scheme", auth: "Basic abc", want: ""},
		{name: "no token", auth: "Bearer", want: ""},
		{name: "no separator", auth: "Bearertoken", want: ""},
		{name: "only spaces after", auth: "Bearer    ", want: ""},
		{name: "valid", auth: "Bearer token", want: "token"},
		{name: "case-insensitive", auth: "bearer token", want: "token"},
		{
			name: "leading trailing spaces",
			auth: "  Bearer token  ",
			want: "token",
		},
		{name: "multiple spaces", auth: "BEARER    token", want: "token"},
		{name: "token with spaces", auth: "Bearer   tok en   ", want: "tok en"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := token.Bearer(tc.auth)
			assert.Equal(t, tc.want, got)
		})
	}
}
