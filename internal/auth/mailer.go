package auth

import (
	"context"
	"log/slog"
)

// Mailer delivers account e-mails.
type Mailer interface {
	SendConfirmation(ctx context.Context, email, link string) error
}

// LogMailer writes confirmation links to the log instead of sending mail.
type LogMailer struct {
	Logger *slog.Logger
}

// SendConfirmation logs the confirmation link.
func (m LogMailer) SendConfirmation(_ context.Context, email, link string) error {
	if m.Logger != nil {
		m.Logger.Info("confirmation email", "email", email, "link", link)
	}
	return nil
}
