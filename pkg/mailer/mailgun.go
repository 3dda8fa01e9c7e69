package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// ErrMailerNotConfigured is returned when domain or API key is missing.
var ErrMailerNotConfigured = errors.New("mailgun is not configured")

const sendTimeout = 10 * time.Second

// Mailgun sends through one shared Mailgun client.
type Mailgun struct {
	from   string
	client *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, from string) *Mailgun {
	m := &Mailgun{from: from}
	if domain != "" && apiKey != "" {
		m.client = mg.NewMailgun(domain, apiKey)
	}
	return m
}

// Send delivers text, with html as the alternative body when present.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if m.client == nil {
		return ErrMailerNotConfigured
	}
	msg := m.client.NewMessage(m.from, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
