package templates

import (
	"time"
)

// Brand carries the sender-side fields every email shows.
type Brand struct {
	CompanyName string
	AppName     string
	SupportURL  string
	FrontendURL string
}

// Option pattern
type Option func(*EmailData)

func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }
func WithCode(code string) Option    { return func(d *EmailData) { d.Code = code } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithOrder(id, status, total string) Option {
	return func(d *EmailData) {
		d.OrderID = id
		d.OrderStatus = status
		d.OrderTotal = total
	}
}

func NewBaseEmailData(b Brand, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:        name,
		Email:       email,
		Type:        typ,
		CompanyName: b.CompanyName,
		AppName:     b.AppName,
		SupportURL:  b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewVerifyEmailData(b Brand, name, email, code string, expiresAt time.Time) EmailData {
	return NewBaseEmailData(b, VerifyEmail, name, email, WithCode(code), WithExpiresAt(expiresAt))
}

func NewForgotPasswordData(b Brand, name, email, resetURL string, expiresAt time.Time) EmailData {
	return NewBaseEmailData(b, ForgotPassword, name, email, WithResetURL(resetURL), WithExpiresAt(expiresAt))
}

func NewOrderStatusData(b Brand, name, email, orderID, status, total string) map[string]any {
	d := NewBaseEmailData(b, OrderStatus, name, email, WithOrder(orderID, status, total))
	if b.FrontendURL != "" {
		d.OrderURL = b.FrontendURL + "/orders/" + orderID
	}
	return ToMap(d)
}
