package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/domain"
)

type fakeChannel struct {
	declared   []string
	declareErr error
	publishErr error
	keys       []string
	messages   []amqp.Publishing
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if f.declareErr != nil {
		return amqp.Queue{}, f.declareErr
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewRabbitMQPublisher(ch, "docflow.events")
	require.NoError(t, err)
	assert.Equal(t, []string{"docflow.events"}, ch.declared)

	event := domain.Event{
		ID:         uuid.New(),
		Type:       domain.EventPaymentRecorded,
		TenantID:   uuid.New(),
		DocumentID: uuid.New(),
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Data:       map[string]interface{}{"amount": "50.00"},
	}
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, ch.messages, 1)
	msg := ch.messages[0]
	assert.Equal(t, "docflow.events", ch.keys[0])
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "payment.recorded", msg.Type)
	assert.Equal(t, event.ID.String(), msg.MessageId)

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, event.DocumentID, decoded.DocumentID)
	assert.Equal(t, "50.00", decoded.Data["amount"])

	published, failed := p.Stats()
	assert.Equal(t, int64(1), published)
	assert.Equal(t, int64(0), failed)
	assert.True(t, p.Healthy())
	assert.NoError(t, p.Check(context.Background()))
}

func TestRabbitMQPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := NewRabbitMQPublisher(ch, "docflow.events")
	require.NoError(t, err)

	err = p.Publish(context.Background(), domain.Event{Type: domain.EventDocumentCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document.created")

	_, failed := p.Stats()
	assert.Equal(t, int64(1), failed)
}

func TestNewRabbitMQPublisher_DeclareError(t *testing.T) {
	_, err := NewRabbitMQPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "q")
	require.Error(t, err)
}

func TestRabbitMQPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewRabbitMQPublisher(ch, "q")
	require.NoError(t, err)
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NewNoopPublisher().Publish(context.Background(), domain.Event{Type: domain.EventDocumentCreated}))
}
