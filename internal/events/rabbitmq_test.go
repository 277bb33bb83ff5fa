package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	calls []published
	err   error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.calls = append(f.calls, published{exchange: exchange, key: key, msg: msg})
	return f.err
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:           "order-1",
		RestaurantID: "rest-1",
		Items:        []models.LineItem{{Name: "Pizza", Quantity: 2, Price: decimal.NewFromInt(250)}},
		Total:        decimal.NewFromInt(500),
		CreatedAt:    time.Date(2024, 3, 10, 19, 30, 0, 0, time.UTC),
		Status:       models.OrderStatusPending,
	}
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "order.placed.rest-1", RoutingKey("placed", "rest-1"))
}

func TestRabbitPublisher_PublishOrderPlaced(t *testing.T) {
	ch := &fakeChannel{}
	pub := NewRabbitPublisher(ch, "")

	require.NoError(t, pub.PublishOrderPlaced(context.Background(), sampleOrder()))
	require.Len(t, ch.calls, 1)

	call := ch.calls[0]
	assert.Equal(t, DefaultExchange, call.exchange)
	assert.Equal(t, "order.placed.rest-1", call.key)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, "order-1", call.msg.MessageId)
	assert.Equal(t, uint8(amqp.Persistent), call.msg.DeliveryMode)

	var event struct {
		Type  string `json:"type"`
		Order struct {
			ID    string `json:"id"`
			Total string `json:"total"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(call.msg.Body, &event))
	assert.Equal(t, "order.placed", event.Type)
	assert.Equal(t, "order-1", event.Order.ID)
	assert.Equal(t, "500", event.Order.Total)
}

func TestRabbitPublisher_Error(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	pub := NewRabbitPublisher(ch, "custom")

	err := pub.PublishOrderPlaced(context.Background(), sampleOrder())
	assert.ErrorContains(t, err, "channel closed")
	assert.Equal(t, "custom", ch.calls[0].exchange)
}

func TestRabbitPublisher_Integration(t *testing.T) {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		t.Skip("AMQP_URL not set, skipping RabbitMQ integration test")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	conn, ch, err := SetupConn(url, DefaultExchange, logger)
	if err != nil {
		t.Skip("RabbitMQ not available, skipping integration test")
	}
	defer conn.Close()
	defer ch.Close()

	pub := NewRabbitPublisher(ch, DefaultExchange)
	require.NoError(t, pub.PublishOrderPlaced(context.Background(), sampleOrder()))
}
