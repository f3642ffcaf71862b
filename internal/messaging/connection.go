package messaging

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"foodcourt/internal/config"
	"foodcourt/internal/logger"
)

// Exchange and queue names shared by publishers and consumers
const (
	OrdersExchange        = "orders_topic"
	NotificationsExchange = "notifications_fanout"
	KitchenQueue          = "kitchen_queue"
	NotificationsQueue    = "notifications_queue"
)

// redialTimeout caps a publish-path reconnect attempt
const redialTimeout = 3 * time.Second

// ErrNotConnected is returned when the broker cannot be reached right now
var ErrNotConnected = errors.New("rabbitmq connection is not available")

// Connection wraps RabbitMQ connection with reconnection logic
type Connection struct {
	mu         sync.Mutex
	redialing  atomic.Bool
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	logger     *logger.Logger
	url        string
	maxRetries int
}

// New creates a new RabbitMQ connection
func New(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	conn := &Connection{
		logger:     log,
		url:        cfg.RabbitMQURL(),
		maxRetries: 5,
	}

	if err := conn.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}

	return conn, nil
}

// connect establishes connection to RabbitMQ with retry logic
func (c *Connection) connect() error {
	var err error

	for i := 0; i < c.maxRetries; i++ {
		c.conn, err = amqp091.Dial(c.url)
		if err == nil {
			c.channel, err = c.conn.Channel()
			if err == nil {
				if setupErr := setupTopology(c.channel); setupErr != nil {
					c.logger.Error("rabbitmq_setup_failed", "Failed to set up topology", "startup", setupErr, nil)
					c.close()
					err = setupErr
				} else {
					return nil
				}
			} else {
				c.conn.Close()
			}
		}

		if i < c.maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)
			time.Sleep(waitTime)
		}
	}

	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", c.maxRetries, err)
}

// setupTopology declares the exchanges and queues the services rely on.
// Kitchen tickets are routed by shop: kitchen.<shop_id>.
func setupTopology(ch *amqp091.Channel) error {
	if err := ch.ExchangeDeclare(OrdersExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", OrdersExchange, err)
	}

	if err := ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", NotificationsExchange, err)
	}

	_, err := ch.QueueDeclare(
		KitchenQueue,
		true,
		false,
		false,
		false,
		amqp091.Table{
			"x-message-ttl": int32(3600000), // an hour; unread tickets are stale
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", KitchenQueue, err)
	}

	if err := ch.QueueBind(KitchenQueue, "kitchen.#", OrdersExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", KitchenQueue, err)
	}

	if _, err := ch.QueueDeclare(NotificationsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare notifications queue: %w", err)
	}

	if err := ch.QueueBind(NotificationsQueue, "", NotificationsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind notifications queue: %w", err)
	}

	return nil
}

// Channel returns the current channel
func (c *Connection) Channel() *amqp091.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

// Close closes the connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}

// IsClosed checks if the connection is closed
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == nil || c.conn.IsClosed()
}

// Redial makes one connection attempt bounded by ctx and redialTimeout. The
// dial runs without holding c.mu, and callers arriving while another attempt
// is in flight get ErrNotConnected immediately.
func (c *Connection) Redial(ctx context.Context) error {
	if !c.redialing.CompareAndSwap(false, true) {
		return ErrNotConnected
	}
	defer c.redialing.Store(false)

	ctx, cancel := context.WithTimeout(ctx, redialTimeout)
	defer cancel()

	conn, ch, err := dialContext(ctx, c.url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	c.mu.Lock()
	c.close()
	c.conn, c.channel = conn, ch
	c.mu.Unlock()
	return nil
}

func dialContext(ctx context.Context, url string) (*amqp091.Connection, *amqp091.Channel, error) {
	conn, err := amqp091.DialConfig(url, amqp091.Config{
		Locale: "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			var d net.Dialer
			nc, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// cleared by the client once the AMQP handshake completes
			if deadline, ok := ctx.Deadline(); ok {
				if err := nc.SetDeadline(deadline); err != nil {
					nc.Close()
					return nil, err
				}
			}
			return nc, nil
		},
	})
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if err := setupTopology(ch); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// Reconnect attempts to reconnect to RabbitMQ, retrying with backoff. It is
// meant for startup and long-lived consumers, not request paths.
func (c *Connection) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
	return c.connect()
}
