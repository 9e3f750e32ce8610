package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/example/storefront/pkg/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishOrderPaid(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaProducer(w, zap.NewNop())
	fixed := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	order := &models.Order{
		ID:             "ord-1",
		GatewayOrderID: "order_G1",
		PaymentID:      "pay_1",
		Status:         models.OrderStatusPaid,
		TotalAmount:    2600,
		ItemCount:      2,
	}
	require.NoError(t, p.PublishOrderPaid(context.Background(), order))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "ord-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TypeOrderPaid, string(msg.Headers[0].Value))

	var event OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, TypeOrderPaid, event.Type)
	assert.Equal(t, "pay_1", event.PaymentID)
	assert.Equal(t, "paid", event.Status)
	assert.Equal(t, int64(2600), event.TotalAmount)
	assert.True(t, fixed.Equal(event.Timestamp))
}

func TestPublishOrderCreatedWrapsWriterError(t *testing.T) {
	boom := errors.New("broker unreachable")
	p := newKafkaProducer(&recordingWriter{err: boom}, zap.NewNop())

	err := p.PublishOrderCreated(context.Background(), &models.Order{ID: "ord-1", Status: models.OrderStatusPending})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestCloseClosesWriter(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, newKafkaProducer(w, zap.NewNop()).Close())
	assert.True(t, w.closed)
}
