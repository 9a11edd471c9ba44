// Package mailer composes and delivers contact notifications.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

// ErrNotConfigured is returned when a transport has no credentials.
var ErrNotConfigured = errors.New("mailer: SMTP credentials not configured")

// Notification is what the site owner is told about a contact submission.
type Notification struct {
	Name        string
	Email       string
	Message     string
	SubmittedAt time.Time
}

// Notifier delivers a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Email is a composed notification ready for a transport.
type Email struct {
	Subject string
	ReplyTo string
	Text    string
	HTML    string
}

var textTmpl = texttemplate.Must(texttemplate.New("text").Parse(
	`You have received a new contact submission.

Name: {{.Name}}
Email: {{.Email}}

Message:
{{.Message}}

---
Sent from your portfolio contact form
`))

var htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(
	`<h3>New Portfolio Contact</h3>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
<p><strong>Message:</strong></p>
<p>{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
`))

// Compose renders the plain text and HTML bodies of n. Submitted values are
// escaped in the HTML part.
func Compose(n Notification) (*Email, error) {
	view := struct {
		Notification
		Lines []string
	}{
		Notification: n,
		Lines:        strings.Split(strings.ReplaceAll(n.Message, "\r\n", "\n"), "\n"),
	}

	var text, html bytes.Buffer
	if err := textTmpl.Execute(&text, view); err != nil {
		return nil, fmt.Errorf("mailer.Compose: %w", err)
	}
	if err := htmlTmpl.Execute(&html, view); err != nil {
		return nil, fmt.Errorf("mailer.Compose: %w", err)
	}

	return &Email{
		Subject: "New Message from " + headerSafe(n.Name),
		ReplyTo: headerSafe(n.Email),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// headerSafe folds a value onto one line so it cannot inject headers.
func headerSafe(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
