package mailer

import (
	"context"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/pkg/mailer/templates"
)

// JobPublisher puts a JSON message on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier turns order status changes into queued email jobs for the worker.
type QueueNotifier struct {
	Publisher JobPublisher
	Brand     templates.Brand
}

func NewQueueNotifier(p JobPublisher, brand templates.Brand) *QueueNotifier {
	return &QueueNotifier{Publisher: p, Brand: brand}
}

func (n *QueueNotifier) OrderStatusChanged(ctx context.Context, o *entity.Order, to entity.OrderUser) error {
	job := EmailJob{
		To:       to.Email,
		Template: templates.OrderStatus,
		Data:     templates.NewOrderStatusData(n.Brand, to.Name, to.Email, o.ID, string(o.Status), o.TotalPrice.StringFixed(2)),
	}
	return n.Publisher.PublishJSON(ctx, job)
}
