package rest

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerpay/internal/gateway"
	"ledgerpay/internal/ledger"
	"ledgerpay/internal/webhook"
	"ledgerpay/pkg/correlation"
)

// maxWebhookBody caps provider payloads; Stripe events stay well under this.
const maxWebhookBody = 1 << 20

// WebhookHandler ingests provider webhooks: verify, normalize, acknowledge,
// then dispatch asynchronously. Handler failures never surface to the
// provider; only an invalid signature or an unknown gateway is rejected.
type WebhookHandler struct {
	factory   *gateway.Factory
	processor *webhook.Processor
	ledger    ledger.Ledger
}

func NewWebhookHandler(factory *gateway.Factory, processor *webhook.Processor, eventLedger ledger.Ledger) *WebhookHandler {
	return &WebhookHandler{
		factory:   factory,
		processor: processor,
		ledger:    eventLedger,
	}
}

// Handle processes POST /webhooks/:gateway.
func (h *WebhookHandler) Handle(c *gin.Context) {
	h.handle(c, c.Param("gateway"))
}

// HandleStripeConnect processes POST /webhooks/stripe/connect. Connect
// events carry their own endpoint secret but flow through the same path.
func (h *WebhookHandler) HandleStripeConnect(c *gin.Context) {
	h.handle(c, "stripe")
}

func (h *WebhookHandler) handle(c *gin.Context, gatewayID string) {
	gw, err := h.factory.Gateway(gatewayID)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "webhook for unusable gateway",
			"gateway", gatewayID, slog.Any("error", err))
		c.JSON(http.StatusNotImplemented, gin.H{"message": "Unsupported gateway: " + gatewayID})
		return
	}

	ctx := correlation.WithGateway(c.Request.Context(), gw.ID())

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		slog.ErrorContext(ctx, "failed to read webhook body", slog.Any("error", err))
		c.JSON(http.StatusOK, gin.H{"message": "Error logged for investigation"})
		return
	}

	event, err := gw.ParseWebhookEvent(body, c.GetHeader(gw.WebhookSignatureHeader()))
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSignature) {
			slog.WarnContext(ctx, "webhook signature verification failed",
				slog.Any("error", err))
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid signature"})
			return
		}
		slog.ErrorContext(ctx, "failed to parse webhook", slog.Any("error", err))
		c.JSON(http.StatusOK, gin.H{"message": "Error logged for investigation"})
		return
	}

	if h.ledger != nil {
		switch err := h.ledger.Record(ctx, event.GatewayID, event.EventID, string(event.NormalizedType)); {
		case errors.Is(err, ledger.ErrEventAlreadyProcessed):
			slog.InfoContext(ctx, "duplicate webhook delivery acknowledged",
				"event_id", event.EventID)
			c.JSON(http.StatusOK, gin.H{"message": "Event processed successfully"})
			return
		case err != nil:
			// Availability wins over dedup; dispatch anyway.
			slog.ErrorContext(ctx, "failed to record webhook event",
				"event_id", event.EventID, slog.Any("error", err))
		}
	}

	h.processor.Enqueue(ctx, event)
	c.JSON(http.StatusOK, gin.H{"message": "Event processed successfully"})
}
