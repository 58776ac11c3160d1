package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"ledgerpay/internal/notification"
	"ledgerpay/pkg/correlation"
)

// Publisher implements notification.Publisher on Kafka.
type Publisher struct {
	writer *kafka.Writer
	dlq    *DLQPublisher
}

type PublisherOption func(*Publisher)

// WithDeadLetter parks envelopes that could not be written to the
// notifications topic on a dead letter topic instead of losing them.
func WithDeadLetter(dlq *DLQPublisher) PublisherOption {
	return func(p *Publisher) { p.dlq = dlq }
}

func NewPublisher(brokers []string, topic string, opts ...PublisherOption) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	p := &Publisher{writer: writer}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends an envelope keyed by its subject so notifications about
// the same subject land on one partition.
func (p *Publisher) Publish(ctx context.Context, env notification.Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(env.Key),
		Value: value,
	}

	if corrID := correlation.FromContext(ctx); corrID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{
			Key:   correlation.KafkaHeaderName,
			Value: []byte(corrID),
		})
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to publish notification",
			"topic", p.writer.Topic,
			"key", env.Key,
			slog.Any("error", err))
		if p.dlq != nil {
			_ = p.dlq.PublishToDLQ(ctx, []byte(env.Key), value, err)
		}
		return err
	}

	slog.DebugContext(ctx, "notification published",
		"topic", p.writer.Topic,
		"key", env.Key,
		"event_id", env.EventID,
		"type", env.Type)
	return nil
}

func (p *Publisher) Close() error {
	err := p.writer.Close()
	if p.dlq != nil {
		if dlqErr := p.dlq.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
