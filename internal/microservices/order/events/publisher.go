package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"food-delivery/internal/connections/rabbitmq"
	"food-delivery/internal/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, ev domain.OrderEvent) error
}

// Sender is the part of *rabbitmq.Client the publisher needs.
type Sender interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

type AMQPPublisher struct {
	sender Sender
	source string
}

func NewAMQPPublisher(s Sender, source string) *AMQPPublisher {
	return &AMQPPublisher{sender: s, source: source}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev domain.OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	msg := amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		Body:          body,
		MessageId:     uuid.NewString(),
		CorrelationId: strconv.Itoa(ev.OrderID),
		Timestamp:     ev.OccurredAt,
		Type:          ev.Type,
		Headers: amqp.Table{
			"x-source": p.source,
		},
	}
	if err := p.sender.Publish(ctx, rabbitmq.OrdersExchange, ev.Type, msg); err != nil {
		return fmt.Errorf("failed to publish %s for order %d: %w", ev.Type, ev.OrderID, err)
	}
	return nil
}

// Nop drops every event. Used when RabbitMQ is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, domain.OrderEvent) error { return nil }
