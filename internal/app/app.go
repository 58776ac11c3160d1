package app

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ledgerpay/config"
	"ledgerpay/internal/controller/rest"
	"ledgerpay/internal/external/kafka"
	"ledgerpay/internal/external/opensearch"
	"ledgerpay/internal/gateway"
	stripegw "ledgerpay/internal/gateway/stripe"
	"ledgerpay/internal/ledger"
	"ledgerpay/internal/notification"
	"ledgerpay/internal/webhook"
	"ledgerpay/internal/webhook/handlers"
	"ledgerpay/pkg/health"
	"ledgerpay/pkg/logger"
	"ledgerpay/pkg/metrics"
	"ledgerpay/pkg/postgres"
)

//go:embed migrations/*.sql
var MIGRATION_FS embed.FS

func Run(cfg config.Config) error {
	logger.Setup(logger.Options{
		Level:   cfg.LogLevel,
		Console: cfg.LogFormat == "console",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	factory := gateway.NewFactory(cfg.DefaultGateway, stripegw.New(stripegw.Config{
		APIKey:               cfg.StripeAPIKey,
		WebhookSecret:        cfg.StripeWebhookSecret,
		ConnectWebhookSecret: cfg.StripeConnectWebhookSecret,
		WebhookTolerance:     time.Duration(cfg.StripeWebhookTolerance) * time.Second,
	}))

	healthRegistry := health.NewRegistry()

	var publisher notification.Publisher
	var dispatchOpts []webhook.Option
	if len(cfg.KafkaBrokers) > 0 {
		notificationDLQ := kafka.NewDLQPublisher(cfg.KafkaBrokers, cfg.KafkaNotificationsDLQTopic)
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaNotificationsTopic,
			kafka.WithDeadLetter(notificationDLQ))
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		dlq := kafka.NewDLQPublisher(cfg.KafkaBrokers, cfg.KafkaWebhookFailuresDLQTopic)
		defer dlq.Close()
		dispatchOpts = append(dispatchOpts, webhook.WithDeadLetter(dlq))

		healthRegistry.Register(health.NewKafkaChecker(cfg.KafkaBrokers, cfg.KafkaNotificationsTopic))
	} else {
		slog.Warn("no Kafka brokers configured, notifications are logged and dropped")
		publisher = logPublisher{}
	}

	var auditSink webhook.AuditSink
	if len(cfg.OpensearchUrls) > 0 {
		sink, err := opensearch.NewAuditSink(ctx, cfg.OpensearchUrls, cfg.OpensearchIndexAudit)
		if err != nil {
			return fmt.Errorf("app - Run - opensearch.NewAuditSink: %w", err)
		}
		auditSink = sink
		dispatchOpts = append(dispatchOpts, webhook.WithAudit(sink))
	}

	var eventLedger ledger.Ledger
	if cfg.LedgerEnabled {
		pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
		if err != nil {
			return fmt.Errorf("app - Run - postgres.New: %w", err)
		}
		defer pool.Close()

		if err := ApplyMigrations(cfg.PgURL, MIGRATION_FS); err != nil {
			return fmt.Errorf("app - Run - ApplyMigrations: %w", err)
		}

		eventLedger = ledger.NewPgLedger(pool.Pool, pool.Builder)
		healthRegistry.Register(health.NewPostgresChecker(pool.Pool))
	}

	dispatcher := webhook.NewDispatcher([]webhook.Handler{
		handlers.NewCheckoutHandler(publisher),
		handlers.NewSubscriptionHandler(publisher),
		handlers.NewInvoiceHandler(publisher),
		handlers.NewPaymentFailureHandler(publisher),
		handlers.NewPayoutHandler(publisher),
	}, dispatchOpts...)

	processor := webhook.NewProcessor(dispatcher, cfg.DispatchWorkers, cfg.DispatchQueueSize)
	processorDone := make(chan struct{})
	go func() {
		defer close(processorDone)
		if err := processor.Start(ctx); err != nil {
			slog.Error("webhook processor stopped", slog.Any("error", err))
		}
	}()

	engine := NewGinEngine()
	router := rest.NewRouter(
		rest.NewWebhookHandler(factory, processor, eventLedger),
		rest.NewGatewaysHandler(factory, auditSink),
		healthRegistry,
	)
	router.SetUp(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}
	go func() {
		slog.Info("starting HTTP server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown", slog.Any("error", err))
	}

	// Let in-flight dispatches drain.
	select {
	case <-processorDone:
	case <-shutdownCtx.Done():
		slog.Warn("webhook processor did not drain in time")
	}
	return nil
}

func NewGinEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(
		metrics.GinMiddleware(),
		logger.CorrelationMiddleware(),
		logger.GinRequestLogger(),
		gin.Recovery(),
	)
	return engine
}

// logPublisher stands in when no broker is configured (local development).
type logPublisher struct{}

func (logPublisher) Publish(ctx context.Context, env notification.Envelope) error {
	slog.InfoContext(ctx, "notification dropped (no broker configured)",
		"type", env.Type, "key", env.Key, "event_id", env.EventID)
	return nil
}

func (logPublisher) Close() error { return nil }
