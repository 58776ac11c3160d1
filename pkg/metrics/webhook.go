package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paygw",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Total number of webhook events received, by outcome",
		},
		[]string{"gateway", "normalized_type", "outcome"},
	)

	WebhookHandlerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paygw",
			Subsystem: "webhook",
			Name:      "handler_failures_total",
			Help:      "Total number of webhook handler failures",
		},
		[]string{"handler"},
	)

	WebhookDispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paygw",
			Subsystem: "webhook",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent dispatching one event to all capable handlers",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"gateway"},
	)
)

func init() {
	Registry.MustRegister(WebhookEventsTotal, WebhookHandlerFailures, WebhookDispatchDuration)
}
