package health

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestKafkaCheckerName(t *testing.T) {
	c := NewKafkaChecker([]string{"localhost:9092"}, "payments.notifications")
	assert.Equal(t, "kafka", c.Name())
}

func TestKafkaCheckerUnreachableBroker(t *testing.T) {
	c := NewKafkaChecker([]string{"127.0.0.1:1"}, "payments.notifications")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result := c.Check(ctx)
	assert.Equal(t, StatusDown, result.Status)
	assert.NotEmpty(t, result.Message)
}

func TestMissingTopics(t *testing.T) {
	partitions := []kafka.Partition{
		{Topic: "payments.notifications", ID: 0},
		{Topic: "payments.notifications", ID: 1},
	}

	t.Run("all present", func(t *testing.T) {
		missing := missingTopics([]string{"payments.notifications"}, partitions)
		assert.Empty(t, missing)
	})

	t.Run("reports absent topics", func(t *testing.T) {
		missing := missingTopics([]string{"payments.notifications", "payments.webhooks.dlq"}, partitions)
		assert.Equal(t, []string{"payments.webhooks.dlq"}, missing)
	})

	t.Run("no topics requested", func(t *testing.T) {
		assert.Empty(t, missingTopics(nil, partitions))
	})
}
