package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledgerpay/pkg/health"
	"ledgerpay/pkg/metrics"
)

type Router struct {
	webhooks       *WebhookHandler
	gateways       *GatewaysHandler
	healthRegistry *health.Registry
}

func NewRouter(webhooks *WebhookHandler, gateways *GatewaysHandler, healthRegistry *health.Registry) *Router {
	return &Router{
		webhooks:       webhooks,
		gateways:       gateways,
		healthRegistry: healthRegistry,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Static route wins over :gateway for Connect deliveries.
	engine.POST("/webhooks/stripe/connect", r.webhooks.HandleStripeConnect)
	engine.POST("/webhooks/:gateway", r.webhooks.Handle)

	engine.GET("/gateways", r.gateways.List)
	engine.GET("/gateways/default", r.gateways.Default)
	engine.GET("/gateways/:gateway/events", r.gateways.Events)
}
