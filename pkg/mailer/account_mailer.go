package mailer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shop-admin/pkg/mailer/templates"
)

// AccountMailer sends verification and reset emails synchronously.
type AccountMailer struct {
	Sender  Sender
	Brand   templates.Brand
	Enabled bool
	Logger  *logrus.Logger
}

func NewAccountMailer(s Sender, brand templates.Brand, enabled bool, logger *logrus.Logger) *AccountMailer {
	return &AccountMailer{Sender: s, Brand: brand, Enabled: enabled, Logger: logger}
}

func (m *AccountMailer) SendVerificationCode(ctx context.Context, to, name, code string, expiresAt time.Time) error {
	return m.send(ctx, templates.VerifyEmail, to, templates.NewVerifyEmailData(m.Brand, name, to, code, expiresAt))
}

func (m *AccountMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string, expiresAt time.Time) error {
	return m.send(ctx, templates.ForgotPassword, to, templates.NewForgotPasswordData(m.Brand, name, to, resetURL, expiresAt))
}

func (m *AccountMailer) send(ctx context.Context, tpl, to string, data templates.EmailData) error {
	subject, text, html, err := templates.Render(tpl, data)
	if err != nil {
		return err
	}
	if !m.Enabled {
		m.Logger.WithFields(logrus.Fields{"to": to, "template": tpl}).Info("mail sending disabled; email skipped")
		return nil
	}
	return m.Sender.Send(ctx, to, subject, text, html)
}
