package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// DLQPublisher parks webhook events whose handlers failed on a dead letter
// topic, with the failure recorded in headers.
type DLQPublisher struct {
	writer *kafka.Writer
}

func NewDLQPublisher(brokers []string, dlqTopic string) *DLQPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        dlqTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &DLQPublisher{writer: writer}
}

// PublishToDLQ sends a failed message with error information in headers.
func (p *DLQPublisher) PublishToDLQ(ctx context.Context, key, value []byte, cause error) error {
	msg := kafka.Message{
		Key:   key,
		Value: value,
		Headers: []kafka.Header{
			{Key: "error", Value: []byte(cause.Error())},
			{Key: "failed_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}

	if writeErr := p.writer.WriteMessages(ctx, msg); writeErr != nil {
		slog.ErrorContext(ctx, "failed to publish to DLQ",
			"topic", p.writer.Topic,
			"key", string(key),
			slog.Any("error", writeErr),
			slog.Any("original_error", cause))
		return writeErr
	}

	slog.WarnContext(ctx, "message sent to DLQ",
		"topic", p.writer.Topic,
		"key", string(key),
		slog.Any("error", cause))
	return nil
}

func (p *DLQPublisher) Close() error {
	return p.writer.Close()
}
