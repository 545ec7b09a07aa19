package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regi-gouale/badddy/internal/api"
	"github.com/regi-gouale/badddy/internal/email"
	"github.com/regi-gouale/badddy/internal/guard"
	"github.com/regi-gouale/badddy/internal/httperr"
	"github.com/regi-gouale/badddy/internal/logger"
	"github.com/regi-gouale/badddy/internal/token"
)

type recordingSender struct {
	messages []email.Message
	err      error
}

func (s *recordingSender) Send(_ context.Context, msg email.Message) error {
	s.messages = append(s.messages, msg)
	return s.err
}

func newHandler(sender email.Sender) *api.Handler {
	log := logger.Silent()
	return api.New(
		email.NewService(sender, log),
		httperr.NewWriter(log),
		log,
	)
}

func TestHello(t *testing.T) {
	t.Parallel()

	h := newHandler(&recordingSender{})
	rec := httptest.NewRecorder()
	h.Hello(rec, httptest.NewRequest(http.MethodGet, "/api/v1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello World!", rec.Body.String())
}

func TestMe(t *testing.T) {
	t.Parallel()

	h := newHandler(&recordingSender{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req = req.WithContext(guard.WithPrincipal(req.Context(), &token.Principal{
		ID:    "u1",
		Email: "a@b.com",
		Name:  "Jane",
	}))

	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string          `json:"message"`
		User    token.Principal `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Authenticated user profile", body.Message)
	assert.Equal(t, "u1", body.User.ID)
	assert.Equal(t, "a@b.com", body.User.Email)
	assert.Equal(t, "Jane", body.User.Name)
}

func TestMeWithoutPrincipal(t *testing.T) {
	t.Parallel()

	h := newHandler(&recordingSender{})
	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSendVerification(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	h := newHandler(sender)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/email/verification",
		strings.NewReader(`{
			"to": "a@b.com",
			"userName": "Jane",
			"verificationUrl": "https://app.example.com/verify?t=abc"
		}`))
	rec := httptest.NewRecorder()
	h.SendVerification(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "a@b.com", sender.messages[0].To)
	assert.Contains(t, sender.messages[0].HTML, "https://app.example.com/verify?t=abc")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Verification email sent successfully", body["message"])
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "malformed JSON",
			body: `{"to": `,
			want: `"body":"malformed JSON"`,
		},
		{
			name: "missing fields",
			body: `{"to": "a@b.com"}`,
			want: `"userName":"is required"`,
		},
		{
			name: "bad email",
			body: `{"to": "not-an-email", "userName": "Jane", "verificationUrl": "https://x.com/v"}`,
			want: `"to":"must be a valid email address"`,
		},
		{
			name: "bad URL",
			body: `{"to": "a@b.com", "userName": "Jane", "verificationUrl": "nope"}`,
			want: `"verificationUrl":"must be a valid URL"`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sender := &recordingSender{}
			h := newHandler(sender)

			req := httptest.NewRequest(http.MethodPost,
				"/api/v1/email/verification", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.SendVerification(rec, req)

			raw := rec.Body.String()
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, raw, tc.want)
			assert.Empty(t, sender.messages)

			var env httperr.Envelope
			require.NoError(t, json.Unmarshal([]byte(raw), &env))
			assert.Equal(t, http.StatusBadRequest, env.StatusCode)
			assert.Equal(t, http.MethodPost, env.Method)
			assert.Equal(t, "/api/v1/email/verification", env.Path)
		})
	}
}

func TestSendEmailUpstreamFailure(t *testing.T) {
	t.Parallel()

	h := newHandler(&recordingSender{err: assert.AnError})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/email/send",
		strings.NewReader(`{"to": "a@b.com", "subject": "Hi", "html": "<p>Hi</p>"}`))
	rec := httptest.NewRecorder()
	h.SendEmail(rec, req)

	raw := rec.Body.String()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, raw, "Failed to send email")
	assert.NotContains(t, raw, assert.AnError.Error())
}

func TestSendResetPassword(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	h := newHandler(sender)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/email/reset-password",
		strings.NewReader(`{
			"to": "a@b.com",
			"userName": "Jane",
			"resetUrl": "https://app.example.com/reset"
		}`))
	rec := httptest.NewRecorder()
	h.SendResetPassword(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Reset your Badddy password", sender.messages[0].Subject)
}

func TestSendWelcome(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	h := newHandler(sender)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/email/welcome",
		strings.NewReader(`{"to": "a@b.com", "userName": "Jane"}`))
	rec := httptest.NewRecorder()
	h.SendWelcome(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Welcome to Badddy!", sender.messages[0].Subject)
}
