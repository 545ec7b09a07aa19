package email

import (
	"fmt"
	"html/template"
	"strings"
)

// emailHTML is the shared layout for all transactional mail. Sections
// render conditionally: the action button only when an ActionURL is set,
// the warning box only when a Warning is set.
const emailHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f4f4f4; }
    .container { background-color: #ffffff; border-radius: 8px; padding: 40px; }
    .logo h1 { color: #4F46E5; text-align: center; font-size: 32px; }
    .button { display: inline-block; padding: 14px 28px; background-color: #4F46E5; color: #ffffff !important; text-decoration: none; border-radius: 6px; font-weight: 600; }
    .warning { background-color: #FEF3C7; border-left: 4px solid #F59E0B; padding: 12px; margin-top: 20px; border-radius: 4px; font-size: 14px; }
    .footer { text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb; font-size: 14px; color: #6b7280; }
  </style>
</head>
<body>
  <div class="container">
    <div class="logo"><h1>Badddy</h1></div>
    <div class="content">
      <h2>Hello {{.UserName}}!</h2>
      <p>{{.Intro}}</p>
      {{- if .ActionURL}}
      <div style="text-align: center;">
        <a href="{{.ActionURL}}" class="button">{{.ButtonLabel}}</a>
      </div>
      <p>Or copy and paste this link into your browser:</p>
      <p style="word-break: break-all; color: #4F46E5;">{{.ActionURL}}</p>
      {{- end}}
      {{- if .Warning}}
      <div class="warning"><strong>Important:</strong> {{.Warning}}</div>
      {{- end}}
    </div>
    <div class="footer">
      <p>This email was sent by Badddy. If you were not expecting it, you can safely ignore it.</p>
    </div>
  </div>
</body>
</html>`

var emailTemplate = template.Must(template.New("email").Parse(emailHTML))

type templateData struct {
	Title       string
	UserName    string
	Intro       string
	ActionURL   string
	ButtonLabel string
	Warning     string
}

func render(data templateData) (string, error) {
	var sb strings.Builder
	if err := emailTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return sb.String(), nil
}

func verificationHTML(userName, verificationURL string) (string, error) {
	return render(templateData{
		Title:       "Verify your account",
		UserName:    userName,
		Intro:       "Thanks for signing up for Badddy. To activate your account, click the button below:",
		ActionURL:   verificationURL,
		ButtonLabel: "Verify my account",
		Warning:     "This link expires in 24 hours. If you did not request this verification, ignore this email.",
	})
}

func resetPasswordHTML(userName, resetURL string) (string, error) {
	return render(templateData{
		Title:       "Reset your password",
		UserName:    userName,
		Intro:       "We received a request to reset your password. Click the button below to choose a new one:",
		ActionURL:   resetURL,
		ButtonLabel: "Reset my password",
		Warning:     "This link expires in 1 hour. If you did not request a reset, your password is still safe.",
	})
}

func welcomeHTML(userName string) (string, error) {
	return render(templateData{
		Title:    "Welcome to Badddy!",
		UserName: userName,
		Intro:    "Your account is verified and ready to go. We are glad to have you on board.",
	})
}

func notificationHTML(userName, title, message string) (string, error) {
	return render(templateData{
		Title:    title,
		UserName: userName,
		Intro:    message,
	})
}
