// Package notifications publishes order lifecycle events. Dispatch is
// fire-and-forget: a lost event is an acceptable cost, a lost order is not,
// so nothing here ever propagates an error back into checkout.
package notifications

import (
	"context"
	"encoding/json"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haroldnikoue/storefront-backend/pkg/logger"
)

const eventTypeOrderCreated = "order.created"

// OrderCreatedEvent is the wire payload published after a successful order
// materialization.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerEmail string          `json:"customer_email"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

type publisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// Dispatcher publishes order events to Pub/Sub.
type Dispatcher struct {
	pub     publisher
	timeout time.Duration
	logg    *logger.Logger
}

// NewDispatcher wires the dispatcher. A nil publisher yields a dispatcher
// that only logs, which keeps local development working without GCP.
func NewDispatcher(pub *pubsub.Publisher, timeout time.Duration, logg *logger.Logger) *Dispatcher {
	d := &Dispatcher{timeout: timeout, logg: logg}
	if pub != nil {
		d.pub = pub
	}
	return d
}

// OrderCreated publishes the event and waits up to the configured timeout
// for broker acknowledgement. Every failure path logs and returns.
func (d *Dispatcher) OrderCreated(ctx context.Context, event OrderCreatedEvent) {
	if d == nil {
		return
	}
	scoped := ctx
	if d.logg != nil {
		scoped = d.logg.WithFields(ctx, map[string]any{
			"order_id":     event.OrderID.String(),
			"order_number": event.OrderNumber,
		})
	}
	if d.pub == nil {
		if d.logg != nil {
			d.logg.Warn(scoped, "order event publisher not configured, event dropped")
		}
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		if d.logg != nil {
			d.logg.Error(scoped, "failed to encode order created event", err)
		}
		return
	}

	timeout := d.timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	result := d.pub.Publish(publishCtx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type": eventTypeOrderCreated,
		},
	})
	if _, err := result.Get(publishCtx); err != nil {
		if d.logg != nil {
			d.logg.Error(scoped, "failed to publish order created event", err)
		}
		return
	}
	if d.logg != nil {
		d.logg.Info(scoped, "order created event published")
	}
}
