package service

import (
	"context"
	"encoding/json"
	"errors"

	"food-delivery/internal/common/logger"
	"food-delivery/internal/connections/rabbitmq"
	"food-delivery/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Consumer interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error)
}

type NotificatorService struct {
	consumer Consumer
	log      *logger.Logger
	prefetch int
}

func NewNotificatorService(c Consumer, lg *logger.Logger, prefetch int) *NotificatorService {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &NotificatorService{consumer: c, log: lg, prefetch: prefetch}
}

var ErrDeliveriesClosed = errors.New("rabbitmq delivery channel closed")

// Notify consumes order events until ctx is done. A delivery channel closed
// by the broker side ends it with ErrDeliveriesClosed.
func (ns *NotificatorService) Notify(ctx context.Context) error {
	msgs, err := ns.consumer.Consume(rabbitmq.NotificationQueue, "notificator", ns.prefetch)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrDeliveriesClosed
			}
			ns.Handle(d)
		}
	}
}

// Handle logs one event. Undecodable messages are rejected to the dead
// letter queue.
func (ns *NotificatorService) Handle(d amqp.Delivery) {
	var ev domain.OrderEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		ns.log.Error("notification_decode_failed", err, map[string]any{
			"message_id":  d.MessageId,
			"routing_key": d.RoutingKey,
		})
		_ = d.Nack(false, false)
		return
	}

	fields := map[string]any{
		"type":     ev.Type,
		"order_id": ev.OrderID,
		"status":   ev.Status,
	}
	if ev.PreviousStatus != "" {
		fields["previous_status"] = ev.PreviousStatus
	}
	if src, ok := d.Headers["x-source"].(string); ok {
		fields["source"] = src
	}
	ns.log.Info("notification_received", fields)
	_ = d.Ack(false)
}
