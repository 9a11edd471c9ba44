package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"time"
)

// SMTPConfig configures the SMTP transport.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	// To is the notification recipient; defaults to User.
	To string
}

// SMTPMailer sends notifications through an SMTP relay with STARTTLS when offered.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewSMTPMailer creates a mailer for cfg.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	return &SMTPMailer{cfg: cfg, logger: logger, now: time.Now}
}

// Notify composes n and delivers it to the configured recipient.
func (m *SMTPMailer) Notify(ctx context.Context, n Notification) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return ErrNotConfigured
	}

	email, err := Compose(n)
	if err != nil {
		return err
	}
	msg, err := m.buildMessage(email)
	if err != nil {
		return fmt.Errorf("mailer.Notify: %w", err)
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("mailer.Notify: %w", err)
	}

	m.logger.Info("notification sent", "to", m.cfg.To, "reply_to", email.ReplyTo)
	return nil
}

// buildMessage writes a multipart/alternative message with text and HTML parts.
func (m *SMTPMailer) buildMessage(email *Email) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", email.Text},
		{"text/html; charset=utf-8", email.HTML},
	}
	for _, p := range parts {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(p.content)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	headers := []struct{ k, v string }{
		{"From", fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", "Portfolio Contact Form"), m.cfg.User)},
		{"To", m.cfg.To},
		{"Reply-To", email.ReplyTo},
		{"Subject", mime.QEncoding.Encode("utf-8", email.Subject)},
		{"Date", m.now().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/alternative; boundary=" + mw.Boundary()},
	}
	for _, h := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", h.k, h.v)
	}
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func (m *SMTPMailer) send(ctx context.Context, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, fmt.Sprint(m.cfg.Port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(m.cfg.User); err != nil {
		return err
	}
	if err := c.Rcpt(m.cfg.To); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
