package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducer struct {
	writer messageWriter
	logger *zap.Logger
	now    func() time.Time
}

func NewKafkaProducer(cfg *config.KafkaConfig, logger *zap.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaProducer(writer, logger)
}

func newKafkaProducer(w messageWriter, logger *zap.Logger) *KafkaProducer {
	return &KafkaProducer{writer: w, logger: logger, now: time.Now}
}

func (p *KafkaProducer) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, TypeOrderCreated, order)
}

func (p *KafkaProducer) PublishOrderPaid(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, TypeOrderPaid, order)
}

// publish keys every message by order id so one order's events stay on one
// partition.
func (p *KafkaProducer) publish(ctx context.Context, eventType string, order *models.Order) error {
	event := OrderEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		OrderID:        order.ID,
		GatewayOrderID: order.GatewayOrderID,
		PaymentID:      order.PaymentID,
		Status:         string(order.Status),
		TotalAmount:    order.TotalAmount,
		ItemCount:      order.ItemCount,
		Timestamp:      p.now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.logger.Info("Order event published",
		zap.String("event_id", event.EventID),
		zap.String("type", eventType),
		zap.String("order_id", order.ID))
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
