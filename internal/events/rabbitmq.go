// Package events publishes order lifecycle events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "menuwal.orders"
	ExchangeType    = "topic"

	dialAttempts = 5
	dialBackoff  = 2 * time.Second
)

// Channel is the subset of *amqp.Channel the publisher needs
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// SetupConn dials RabbitMQ with a few retries and declares the topic exchange
func SetupConn(url, exchange string, logger *slog.Logger) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.Warn("failed to connect to RabbitMQ", "attempt", i+1, "error", err)
		time.Sleep(dialBackoff)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return conn, ch, nil
}

// OrderPlaced is the body of an order.placed event
type OrderPlaced struct {
	Type  string        `json:"type"`
	Order *models.Order `json:"order"`
}

// RoutingKey is order.<event>.<restaurantId>
func RoutingKey(event, restaurantID string) string {
	return fmt.Sprintf("order.%s.%s", event, restaurantID)
}

// RabbitPublisher sends order events to a topic exchange
type RabbitPublisher struct {
	mu       sync.Mutex
	ch       Channel
	exchange string
}

func NewRabbitPublisher(ch Channel, exchange string) *RabbitPublisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &RabbitPublisher{ch: ch, exchange: exchange}
}

// PublishOrderPlaced emits order.placed.<restaurantId> with the order as JSON
func (p *RabbitPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	body, err := json.Marshal(OrderPlaced{Type: "order.placed", Order: order})
	if err != nil {
		return fmt.Errorf("could not marshal order: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		p.exchange,                               // exchange
		RoutingKey("placed", order.RestaurantID), // routing key
		false,                                    // mandatory
		false,                                    // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    order.ID,
			Timestamp:    order.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("could not publish order %s: %w", order.ID, err)
	}
	return nil
}
