package api

import (
	"net/http"

	"github.com/regi-gouale/badddy/internal/httperr"
)

type sendEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	HTML    string `json:"html" validate:"required"`
	Text    string `json:"text"`
}

type sendVerificationRequest struct {
	To              string `json:"to" validate:"required,email"`
	UserName        string `json:"userName" validate:"required"`
	VerificationURL string `json:"verificationUrl" validate:"required,url"`
}

type sendResetPasswordRequest struct {
	To       string `json:"to" validate:"required,email"`
	UserName string `json:"userName" validate:"required"`
	ResetURL string `json:"resetUrl" validate:"required,url"`
}

type sendWelcomeRequest struct {
	To       string `json:"to" validate:"required,email"`
	UserName string `json:"userName" validate:"required"`
}

// SendEmail delivers a custom email on behalf of an authenticated caller.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := h.decode(r, &req); err != nil {
		h.writer.Write(w, r, err)
		return
	}
	if err := h.email.Send(r.Context(), req.To, req.Subject, req.HTML, req.Text); err != nil {
		h.writer.Write(w, r, httperr.Upstream(err, "Failed to send email"))
		return
	}
	h.respond(w, r, map[string]string{"message": "Email sent successfully"})
}

// SendVerification delivers the account verification email. Public: the
// requester is not authenticated yet at signup time.
func (h *Handler) SendVerification(w http.ResponseWriter, r *http.Request) {
	var req sendVerificationRequest
	if err := h.decode(r, &req); err != nil {
		h.writer.Write(w, r, err)
		return
	}
	err := h.email.SendVerification(r.Context(), req.To, req.UserName, req.VerificationURL)
	if err != nil {
		h.writer.Write(w, r, httperr.Upstream(err, "Failed to send email"))
		return
	}
	h.respond(w, r, map[string]string{"message": "Verification email sent successfully"})
}

// SendResetPassword delivers the password reset email. Public: the
// requester has forgotten their password.
func (h *Handler) SendResetPassword(w http.ResponseWriter, r *http.Request) {
	var req sendResetPasswordRequest
	if err := h.decode(r, &req); err != nil {
		h.writer.Write(w, r, err)
		return
	}
	err := h.email.SendResetPassword(r.Context(), req.To, req.UserName, req.ResetURL)
	if err != nil {
		h.writer.Write(w, r, httperr.Upstream(err, "Failed to send email"))
		return
	}
	h.respond(w, r, map[string]string{"message": "Reset password email sent successfully"})
}

// SendWelcome delivers the welcome email to a verified user.
func (h *Handler) SendWelcome(w http.ResponseWriter, r *http.Request) {
	var req sendWelcomeRequest
	if err := h.decode(r, &req); err != nil {
		h.writer.Write(w, r, err)
		return
	}
	if err := h.email.SendWelcome(r.Context(), req.To, req.UserName); err != nil {
		h.writer.Write(w, r, httperr.Upstream(err, "Failed to send email"))
		return
	}
	h.respond(w, r, map[string]string{"message": "Welcome email sent successfully"})
}
