package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ledgerpay/internal/gateway"
	"ledgerpay/internal/webhook"
)

// GatewaysHandler exposes registry status and the webhook audit trail.
type GatewaysHandler struct {
	factory *gateway.Factory
	audit   webhook.AuditSink
}

func NewGatewaysHandler(factory *gateway.Factory, audit webhook.AuditSink) *GatewaysHandler {
	return &GatewaysHandler{factory: factory, audit: audit}
}

// List handles GET /gateways.
func (h *GatewaysHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"gateways": h.factory.Statuses()})
}

// Default handles GET /gateways/default.
func (h *GatewaysHandler) Default(c *gin.Context) {
	gw, err := h.factory.Default()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "No gateway available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": gw.ID(), "name": gw.Name()})
}

// Events handles GET /gateways/:gateway/events.
func (h *GatewaysHandler) Events(c *gin.Context) {
	if h.audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Audit sink not configured"})
		return
	}
	gatewayID := c.Param("gateway")
	if _, ok := h.factory.Find(gatewayID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Unknown gateway: " + gatewayID})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.audit.RecentEvents(c.Request.Context(), gatewayID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": entries})
}
