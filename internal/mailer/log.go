package mailer

import (
	"context"
	"log/slog"
)

// LogMailer writes notifications to the log instead of sending them.
// Used in development when no SMTP credentials are set.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer logs through logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Notify logs the composed email.
func (m *LogMailer) Notify(ctx context.Context, n Notification) error {
	email, err := Compose(n)
	if err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "notification (log driver)",
		"subject", email.Subject,
		"reply_to", email.ReplyTo,
		"body", email.Text,
	)
	return nil
}
