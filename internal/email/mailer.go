// Package email renders and dispatches transactional email.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"dashstack/internal/middleware"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends a rendered HTML message to a single recipient.
// Implementations must treat failures as soft: the caller decides whether
// a send failure aborts the surrounding flow (it never does during sign-up).
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SendGridMailer dispatches email through the SendGrid API.
type SendGridMailer struct {
	apiKey   string
	from     string
	fromName string
}

// NewSendGridMailer creates a SendGrid-backed mailer.
func NewSendGridMailer(apiKey, from, fromName string) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, from: from, fromName: fromName}
}

// Send dispatches one HTML message. Non-2xx API responses are returned as
// errors so callers can log them; the message body is never logged.
func (m *SendGridMailer) Send(ctx context.Context, to, subject, html string) error {
	from := mail.NewEmail(m.fromName, m.from)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", html)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status %d", response.StatusCode)
	}

	middleware.Logger.Info("email sent",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("status", response.StatusCode),
	)
	return nil
}

// LogMailer logs messages instead of sending them. Used in development and
// whenever no email API key is configured.
type LogMailer struct{}

// NewLogMailer creates a log-only mailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send records the message metadata and drops the body.
func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	middleware.Logger.Info("email suppressed (no API key configured)",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// NewMailer returns the SendGrid mailer when an API key is configured,
// otherwise the log-only fallback.
func NewMailer(apiKey, from, fromName string) Mailer {
	if apiKey == "" {
		return NewLogMailer()
	}
	return NewSendGridMailer(apiKey, from, fromName)
}
