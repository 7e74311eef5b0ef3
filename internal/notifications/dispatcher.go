package notifications

import (
	"context"

	"github.com/herbalstore/storefront-backend/pkg/db/models"
	"github.com/herbalstore/storefront-backend/pkg/logger"
)

type failureRecorder interface {
	IncNotificationFailure(channel string)
}

// Dispatcher fans a message out to every notifier once. Failures are logged
// and counted; they never reach the caller.
type Dispatcher struct {
	notifiers []Notifier
	logg      *logger.Logger
	metrics   failureRecorder
}

func NewDispatcher(logg *logger.Logger, metrics failureRecorder, notifiers ...Notifier) *Dispatcher {
	active := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &Dispatcher{notifiers: active, logg: logg, metrics: metrics}
}

// OrderPlaced alerts staff about a committed order.
func (d *Dispatcher) OrderPlaced(ctx context.Context, order *models.Order) {
	if d == nil || order == nil {
		return
	}
	d.Send(ctx, OrderPlacedMessage(order))
}

func (d *Dispatcher) Send(ctx context.Context, msg Message) {
	if d == nil {
		return
	}
	for _, n := range d.notifiers {
		if err := n.Notify(ctx, msg); err != nil {
			if d.metrics != nil {
				d.metrics.IncNotificationFailure(n.Channel())
			}
			if d.logg != nil {
				logCtx := d.logg.WithFields(ctx, map[string]any{
					"channel":  n.Channel(),
					"order_id": msg.OrderID,
				})
				d.logg.Error(logCtx, "notification delivery failed", err)
			}
		}
	}
}
