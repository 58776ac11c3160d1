package health

import (
	"context"
	"strings"

	"github.com/segmentio/kafka-go"
)

// KafkaChecker verifies that the notification topics this service
// publishes to are reachable through at least one broker.
type KafkaChecker struct {
	brokers []string
	topics  []string
}

// NewKafkaChecker creates a Kafka health checker for the given topics.
// With no topics it degrades to a broker connectivity check.
func NewKafkaChecker(brokers []string, topics ...string) *KafkaChecker {
	return &KafkaChecker{brokers: brokers, topics: topics}
}

// Name returns "kafka".
func (c *KafkaChecker) Name() string {
	return "kafka"
}

// Check dials brokers until one answers and confirms partition metadata
// exists for every topic.
func (c *KafkaChecker) Check(ctx context.Context) Result {
	var lastErr error
	for _, broker := range c.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}

		partitions, err := conn.ReadPartitions(c.topics...)
		_ = conn.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if missing := missingTopics(c.topics, partitions); len(missing) > 0 {
			return Result{Status: StatusDown, Message: "topics missing: " + strings.Join(missing, ", ")}
		}
		return Result{Status: StatusUp}
	}

	msg := "all brokers unreachable"
	if lastErr != nil {
		msg = lastErr.Error()
	}
	return Result{Status: StatusDown, Message: msg}
}

func missingTopics(topics []string, partitions []kafka.Partition) []string {
	seen := make(map[string]bool, len(partitions))
	for _, p := range partitions {
		seen[p.Topic] = true
	}

	var missing []string
	for _, topic := range topics {
		if !seen[topic] {
			missing = append(missing, topic)
		}
	}
	return missing
}
