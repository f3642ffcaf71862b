package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"foodcourt/internal/logger"
	"foodcourt/internal/models"
)

// Publisher handles message publishing to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishKitchenTicket routes a new order's ticket to its shop's kitchen
func (p *Publisher) PublishKitchenTicket(ctx context.Context, ticket *models.KitchenTicketMessage) error {
	return p.publishMessage(ctx, OrdersExchange, models.GenerateRoutingKey(ticket.ShopID), models.MessageKitchenTicket, ticket, true)
}

// PublishStatusUpdate publishes a status change to the notifications fanout exchange
func (p *Publisher) PublishStatusUpdate(ctx context.Context, msg *models.StatusUpdateMessage) error {
	return p.publishMessage(ctx, NotificationsExchange, "", models.MessageStatusUpdate, msg, false)
}

// PublishReorderAlert publishes a low-stock alert to the notifications fanout exchange
func (p *Publisher) PublishReorderAlert(ctx context.Context, msg *models.ReorderAlertMessage) error {
	return p.publishMessage(ctx, NotificationsExchange, "", models.MessageReorderAlert, msg, true)
}

func (p *Publisher) publishMessage(ctx context.Context, exchange, routingKey, msgType string, message interface{}, persistent bool) error {
	if p.conn.IsClosed() {
		if err := p.conn.Redial(ctx); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	publishing := buildPublishing(msgType, body, persistent)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(ctx, exchange, routingKey, false, false, publishing)
	if err != nil {
		p.logger.Error("message_publish_failed",
			fmt.Sprintf("Failed to publish message to exchange %s", exchange),
			"", err, map[string]interface{}{
				"exchange":    exchange,
				"routing_key": routingKey,
				"type":        msgType,
			})
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("message_published",
		fmt.Sprintf("Published message to exchange %s", exchange),
		"", map[string]interface{}{
			"exchange":     exchange,
			"routing_key":  routingKey,
			"type":         msgType,
			"message_size": len(body),
		})

	return nil
}

func buildPublishing(msgType string, body []byte, persistent bool) amqp091.Publishing {
	deliveryMode := amqp091.Transient
	if persistent {
		deliveryMode = amqp091.Persistent
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		Type:         msgType,
		Body:         body,
		DeliveryMode: deliveryMode,
		Timestamp:    time.Now().UTC(),
	}
}
