package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Gateway selection
	DefaultGateway string `env:"DEFAULT_GATEWAY" envDefault:"stripe"`

	// Stripe credentials
	StripeAPIKey               string `env:"STRIPE_API_KEY"`
	StripeWebhookSecret        string `env:"STRIPE_WEBHOOK_SECRET"`
	StripeConnectWebhookSecret string `env:"STRIPE_CONNECT_WEBHOOK_SECRET"`
	StripeWebhookTolerance     int64  `env:"STRIPE_WEBHOOK_TOLERANCE_SECONDS" envDefault:"300"`

	// Async dispatch
	DispatchWorkers   int `env:"DISPATCH_WORKERS" envDefault:"8"`
	DispatchQueueSize int `env:"DISPATCH_QUEUE_SIZE" envDefault:"256"`

	// Kafka notification topics
	KafkaBrokers                 []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaNotificationsTopic      string   `env:"KAFKA_NOTIFICATIONS_TOPIC" envDefault:"payments.notifications"`
	KafkaNotificationsDLQTopic   string   `env:"KAFKA_NOTIFICATIONS_DLQ_TOPIC" envDefault:"payments.notifications.dlq"`
	KafkaWebhookFailuresDLQTopic string   `env:"KAFKA_WEBHOOK_FAILURES_DLQ_TOPIC" envDefault:"payments.webhooks.dlq"`

	// Processed-event ledger (optional dedup before dispatch)
	LedgerEnabled bool   `env:"LEDGER_ENABLED" envDefault:"false"`
	PgURL         string `env:"PG_URL"`
	PgPoolMax     int    `env:"PG_POOL_MAX" envDefault:"10"`

	// Webhook audit sink (optional)
	OpensearchUrls       []string `env:"OPENSEARCH_URLS" envSeparator:","`
	OpensearchIndexAudit string   `env:"OPENSEARCH_INDEX_WEBHOOK_AUDIT" envDefault:"webhook-audit"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
