// Package event publishes document lifecycle events.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"docflow/internal/domain"
	"docflow/internal/logger"
	"docflow/internal/port"
)

// Channel is the subset of *amqp.Channel used by the publisher.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher writes events as persistent JSON messages to a durable queue.
type RabbitMQPublisher struct {
	conn      *amqp.Connection
	ch        Channel
	queue     string
	published atomic.Int64
	failed    atomic.Int64
	log       zerolog.Logger
}

// DialRabbitMQ connects to the broker and declares the queue.
func DialRabbitMQ(url, queue string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening rabbitmq channel: %w", err)
	}
	p, err := NewRabbitMQPublisher(ch, queue)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewRabbitMQPublisher declares queue on ch and returns a publisher using it.
func NewRabbitMQPublisher(ch Channel, queue string) (*RabbitMQPublisher, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declaring queue %s: %w", queue, err)
	}
	return &RabbitMQPublisher{ch: ch, queue: queue, log: logger.WithComponent("eventPublisher")}, nil
}

var _ port.EventPublisher = (*RabbitMQPublisher)(nil)

func (p *RabbitMQPublisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		p.failed.Add(1)
		return fmt.Errorf("marshaling event %s: %w", event.Type, err)
	}
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.ID.String(),
		Type:         string(event.Type),
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		p.failed.Add(1)
		return fmt.Errorf("publishing event %s: %w", event.Type, err)
	}
	p.published.Add(1)
	p.log.Debug().Str("type", string(event.Type)).Str("document_id", event.DocumentID.String()).Msg("event published")
	return nil
}

// Stats returns the number of published and failed messages.
func (p *RabbitMQPublisher) Stats() (published, failed int64) {
	return p.published.Load(), p.failed.Load()
}

// Healthy reports whether the broker connection is open. Publishers built
// around a bare channel are always considered healthy.
func (p *RabbitMQPublisher) Healthy() bool {
	return p.conn == nil || !p.conn.IsClosed()
}

// Check is a readiness probe: it fails once the broker connection has closed.
func (p *RabbitMQPublisher) Check(_ context.Context) error {
	if p.Healthy() {
		return nil
	}
	published, failed := p.Stats()
	return fmt.Errorf("rabbitmq connection closed (published %d, failed %d)", published, failed)
}

// Close closes the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.log.Error().Err(err).Msg("failed to close rabbitmq channel")
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
