// Package events publishes domain events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/infra/observability"
	"github.com/devsamp/devsamp-bfa-go/internal/port"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange every event is published to.
const ExchangeName = "events"

// Routing keys.
const (
	EngagementCreated = "engagement.created"
	EngagementUpdated = "engagement.updated"
	EngagementDeleted = "engagement.deleted"
	LeadCreated       = "lead.created"
)

// Envelope wraps every payload with an id and timestamp.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// Publisher publishes JSON envelopes on one channel.
type Publisher struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: ch}, nil
}

// Publish sends payload under routingKey. Channels are not safe for
// concurrent publishing, hence the mutex.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(newEnvelope(routingKey, payload))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

// Ping reports whether the connection is still open.
func (p *Publisher) Ping(context.Context) error {
	if p.conn == nil || p.conn.IsClosed() {
		return amqp091.ErrClosed
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func newEnvelope(routingKey string, payload any) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       routingKey,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	}
}

// Nop discards events. Used when MQ_URL is empty.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

func (Nop) Close() error { return nil }

// Instrumented counts publish outcomes by routing key.
type Instrumented struct {
	next    port.EventPublisher
	metrics *observability.Metrics
}

// WithMetrics wraps p so every publish is counted.
func WithMetrics(p port.EventPublisher, m *observability.Metrics) *Instrumented {
	return &Instrumented{next: p, metrics: m}
}

func (i *Instrumented) Publish(ctx context.Context, routingKey string, payload any) error {
	err := i.next.Publish(ctx, routingKey, payload)
	i.metrics.IncrEvent(routingKey, err)
	return err
}

func (i *Instrumented) Close() error { return i.next.Close() }
