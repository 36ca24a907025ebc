package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// DefaultOrderTopic is the topic order confirmations are published to. A
// downstream consumer turns these events into customer emails.
const DefaultOrderTopic = "order-confirmed"

// messageWriter is the slice of *kafka.Writer the dispatcher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// confirmationEvent is the wire format published per committed order.
type confirmationEvent struct {
	Email   string       `json:"email"`
	Order   OrderSummary `json:"order"`
	SentAt  time.Time    `json:"sentAt"`
	Version int          `json:"version"`
}

// kafkaDispatcher publishes order confirmations to a Kafka topic.
type kafkaDispatcher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaDispatcher creates a dispatcher publishing to the given brokers
// and topic. Messages are keyed by order id so retries for one order land on
// one partition.
func NewKafkaDispatcher(brokers []string, topic string, logger zerolog.Logger) Dispatcher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &kafkaDispatcher{
		writer: writer,
		logger: logger.With().Str("component", "kafka-dispatcher").Logger(),
	}
}

// SendOrderConfirmation publishes one confirmation event.
func (d *kafkaDispatcher) SendOrderConfirmation(ctx context.Context, email string, summary OrderSummary) error {
	event := confirmationEvent{
		Email:   email,
		Order:   summary,
		SentAt:  time.Now(),
		Version: 1,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(summary.OrderID),
		Value: value,
		Time:  time.Now(),
	}

	if err := d.writer.WriteMessages(ctx, message); err != nil {
		d.logger.Error().
			Err(err).
			Str("order_id", summary.OrderID).
			Msg("failed to publish order confirmation")
		return fmt.Errorf("failed to publish order confirmation: %w", err)
	}

	d.logger.Debug().
		Str("order_id", summary.OrderID).
		Msg("order confirmation published")

	return nil
}
