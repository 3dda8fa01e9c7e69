package mailer

import (
	"context"
	"errors"

	"github.com/oksasatya/shop-admin/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or Subject/Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "order_status"
	Data     map[string]any `json:"data,omitempty"`
}

// ErrBadJob marks a job that can never be sent; consumers drop it instead of requeueing.
var ErrBadJob = errors.New("bad email job")

// Dispatch renders job if it names a template, then sends it.
func Dispatch(ctx context.Context, s Sender, job EmailJob) error {
	if job.To == "" {
		return errors.Join(ErrBadJob, errors.New("missing recipient"))
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = templates.Render(job.Template, job.Data)
		if err != nil {
			return errors.Join(ErrBadJob, err)
		}
	}
	if subject == "" {
		return errors.Join(ErrBadJob, errors.New("missing subject"))
	}
	return s.Send(ctx, job.To, subject, text, html)
}
