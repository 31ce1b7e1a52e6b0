package rabbitmq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrdersExchange    = "orders_topic"
	NotificationQueue = "notifications.q"
	DeadLetterEx      = "dlx"
	DeadLetterQueue   = "dlq"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string // default "/"
	UseTLS   bool
}

func (c Config) URL() string {
	vhost := c.VHost
	if vhost == "" {
		vhost = "/"
	}
	scheme := "amqp"
	if c.UseTLS {
		scheme = "amqps"
	}
	if vhost == "/" {
		vhost = ""
	}
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s", scheme, c.User, c.Password, c.Host, c.Port, vhost)
}

// confirmation is the broker's answer to one publish.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishFunc func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	publish publishFunc
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Dial connects and switches the channel to publisher-confirm mode.
func Dial(cfg Config) (*Client, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	if cfg.UseTLS {
		conn, err = amqp.DialTLS(cfg.URL(), &tls.Config{MinVersion: tls.VersionTLS12})
	} else {
		conn, err = amqp.Dial(cfg.URL())
	}
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch, publish: deferredPublish(ch)}, nil
}

// deferredPublish ties every confirm to the delivery tag of its own publish,
// so a confirm that arrives after its caller gave up is never read by the
// next one.
func deferredPublish(ch *amqp.Channel) publishFunc {
	return func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
		dc, err := ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
		if err != nil {
			return nil, err
		}
		if dc == nil {
			return nil, errors.New("rabbitmq channel is not in confirm mode")
		}
		return dc, nil
	}
}

func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareTopology declares the order events exchange and the notification
// queue with its dead-letter route.
func (c *Client) DeclareTopology() error {
	if err := c.ch.ExchangeDeclare(OrdersExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", OrdersExchange, err)
	}
	if err := c.ch.ExchangeDeclare(DeadLetterEx, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", DeadLetterEx, err)
	}
	if _, err := c.ch.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", DeadLetterQueue, err)
	}
	if err := c.ch.QueueBind(DeadLetterQueue, DeadLetterQueue, DeadLetterEx, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", DeadLetterQueue, err)
	}
	if _, err := c.ch.QueueDeclare(NotificationQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    DeadLetterEx,
		"x-dead-letter-routing-key": DeadLetterQueue,
	}); err != nil {
		return fmt.Errorf("declare %s: %w", NotificationQueue, err)
	}
	if err := c.ch.QueueBind(NotificationQueue, "order.#", OrdersExchange, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", NotificationQueue, err)
	}
	return nil
}

// Publish sends one message and waits for the broker's ack or nack of that
// message. A timed out wait leaves no state behind for later publishes.
func (c *Client) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	conf, err := c.publish(ctx, exchange, key, msg)
	if err != nil {
		return err
	}
	ack, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !ack {
		return errors.New("publish NACK from broker")
	}
	return nil
}

// Consume starts a manual-ack consumer limited to prefetch unacked messages.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}
