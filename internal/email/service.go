package email

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// DefaultFrom is the sender address used unless overridden.
const DefaultFrom = "No Reply Badddy <noreply@cotizoo.com>"

// Sender delivers a single message. Satisfied by *Client.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Ensure Client satisfies the Sender contract.
var _ Sender = (*Client)(nil)

// Service composes and sends the application's transactional emails.
type Service struct {
	sender Sender
	from   string
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithFrom overrides the sender address. Empty values are ignored.
func WithFrom(from string) ServiceOption {
	return func(s *Service) {
		if from != "" {
			s.from = from
		}
	}
}

// NewService creates a Service delivering through the given sender.
func NewService(sender Sender, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		sender: sender,
		from:   DefaultFrom,
		logger: logger.With("name", "email.Service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers a custom email. An empty text alternative is derived from
// the HTML body.
func (s *Service) Send(ctx context.Context, to, subject, html, text string) error {
	if text == "" {
		text = stripHTML(html)
	}
	s.logger.Info("sending email", "to", to, "subject", subject)
	if err := s.sender.Send(ctx, Message{
		From:    s.from,
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
	}); err != nil {
		s.logger.Error("email delivery failed", "to", to, "error", err)
		return err
	}
	return nil
}

// SendVerification sends the account verification email.
func (s *Service) SendVerification(ctx context.Context, to, userName, verificationURL string) error {
	html, err := verificationHTML(userName, verificationURL)
	if err != nil {
		return fmt.Errorf("verification email: %w", err)
	}
	return s.Send(ctx, to, "Verify your Badddy account", html, "")
}

// SendResetPassword sends the password reset email.
func (s *Service) SendResetPassword(ctx context.Context, to, userName, resetURL string) error {
	html, err := resetPasswordHTML(userName, resetURL)
	if err != nil {
		return fmt.Errorf("reset password email: %w", err)
	}
	return s.Send(ctx, to, "Reset your Badddy password", html, "")
}

// SendWelcome sends the welcome email after verification.
func (s *Service) SendWelcome(ctx context.Context, to, userName string) error {
	html, err := welcomeHTML(userName)
	if err != nil {
		return fmt.Errorf("welcome email: %w", err)
	}
	return s.Send(ctx, to, "Welcome to Badddy!", html, "")
}

// SendNotification sends a generic notification email.
func (s *Service) SendNotification(ctx context.Context, to, userName, title, message string) error {
	html, err := notificationHTML(userName, title, message)
	if err != nil {
		return fmt.Errorf("notification email: %w", err)
	}
	return s.Send(ctx, to, title, html, "")
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)
var spacePattern = regexp.MustCompile(`\s+`)

// stripHTML derives a plain-text alternative from an HTML body.
func stripHTML(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}
