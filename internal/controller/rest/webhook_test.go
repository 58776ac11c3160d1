package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ledgerpay/internal/gateway"
	"ledgerpay/internal/ledger"
	"ledgerpay/internal/webhook"
	"ledgerpay/pkg/health"
)

const testSignature = "t=1,v1=valid"

// testGateway verifies against a fixed signature and normalizes every
// payload to a fixed event, standing in for a real provider adapter.
type testGateway struct {
	gateway.PaymentGateway
	event *gateway.WebhookEvent
}

func (g *testGateway) ID() string                     { return "testpay" }
func (g *testGateway) Name() string                   { return "TestPay" }
func (g *testGateway) Available() bool                { return true }
func (g *testGateway) WebhookSignatureHeader() string { return "Testpay-Signature" }

func (g *testGateway) VerifyWebhookSignature(_ []byte, sigHeader string) error {
	if sigHeader != testSignature {
		return gateway.ErrInvalidSignature
	}
	return nil
}

func (g *testGateway) ParseWebhookEvent(payload []byte, sigHeader string) (*gateway.WebhookEvent, error) {
	if err := g.VerifyWebhookSignature(payload, sigHeader); err != nil {
		return nil, err
	}
	ev := *g.event
	ev.RawObject = payload
	return &ev, nil
}

type countingHandler struct {
	name     string
	priority int
	fail     bool

	mu    sync.Mutex
	calls int
}

func (h *countingHandler) Name() string                               { return h.name }
func (h *countingHandler) Priority() int                              { return h.priority }
func (h *countingHandler) CanHandle(event *gateway.WebhookEvent) bool { return true }

func (h *countingHandler) Handle(context.Context, *gateway.WebhookEvent) error {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	if h.fail {
		return errors.New("handler failure")
	}
	return nil
}

func (h *countingHandler) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

type memoryLedger struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (l *memoryLedger) Record(_ context.Context, gatewayID, eventID, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := gatewayID + ":" + eventID
	if l.seen[key] {
		return ledger.ErrEventAlreadyProcessed
	}
	l.seen[key] = true
	return nil
}

type fixture struct {
	engine *gin.Engine
}

func newFixture(t *testing.T, handlers []webhook.Handler, eventLedger ledger.Ledger) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gw := &testGateway{event: &gateway.WebhookEvent{
		GatewayID:      "testpay",
		EventID:        "evt_fixed",
		RawType:        "payment_intent.succeeded",
		NormalizedType: gateway.EventPaymentSucceeded,
		Verified:       true,
	}}
	factory := gateway.NewFactory("testpay", gw)

	processor := webhook.NewProcessor(webhook.NewDispatcher(handlers), 2, 16)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = processor.Start(ctx) }()
	t.Cleanup(cancel)

	engine := gin.New()
	router := NewRouter(
		NewWebhookHandler(factory, processor, eventLedger),
		NewGatewaysHandler(factory, nil),
		health.NewRegistry(),
	)
	router.SetUp(engine)

	return &fixture{engine: engine}
}

func (f *fixture) post(path, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if signature != "" {
		req.Header.Set("Testpay-Signature", signature)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestWebhookAccepted(t *testing.T) {
	h := &countingHandler{name: "counting"}
	f := newFixture(t, []webhook.Handler{h}, nil)

	w := f.post("/webhooks/testpay", `{"id":"pi_1"}`, testSignature)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Event processed successfully")
	assert.Eventually(t, func() bool { return h.callCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebhookInvalidSignature(t *testing.T) {
	h := &countingHandler{name: "counting"}
	f := newFixture(t, []webhook.Handler{h}, nil)

	t.Run("wrong signature", func(t *testing.T) {
		w := f.post("/webhooks/testpay", `{"id":"pi_1"}`, "t=1,v1=bogus")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid signature")
	})

	t.Run("missing signature header", func(t *testing.T) {
		w := f.post("/webhooks/testpay", `{"id":"pi_1"}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	// Nothing may reach the handlers on a rejected request.
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, h.callCount())
}

func TestWebhookUnsupportedGateway(t *testing.T) {
	f := newFixture(t, nil, nil)

	w := f.post("/webhooks/braintree", `{}`, testSignature)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported gateway: braintree")
}

func TestWebhookHandlerFailureStaysInternal(t *testing.T) {
	failing := &countingHandler{name: "failing", priority: 0, fail: true}
	next := &countingHandler{name: "next", priority: 10}
	f := newFixture(t, []webhook.Handler{failing, next}, nil)

	w := f.post("/webhooks/testpay", `{"id":"pi_1"}`, testSignature)

	// The provider always gets an acknowledgement; failures stay internal.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Eventually(t, func() bool {
		return failing.callCount() == 1 && next.callCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebhookDuplicateDelivery(t *testing.T) {
	h := &countingHandler{name: "counting"}
	f := newFixture(t, []webhook.Handler{h}, &memoryLedger{seen: make(map[string]bool)})

	first := f.post("/webhooks/testpay", `{"id":"pi_1"}`, testSignature)
	second := f.post("/webhooks/testpay", `{"id":"pi_1"}`, testSignature)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)

	assert.Eventually(t, func() bool { return h.callCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, h.callCount(), "redelivery must not dispatch twice")
}

func TestGatewayEndpoints(t *testing.T) {
	f := newFixture(t, nil, nil)

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/gateways", nil)
		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"testpay"`)
		assert.Contains(t, w.Body.String(), `"is_default":true`)
	})

	t.Run("default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/gateways/default", nil)
		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"testpay"`)
	})

	t.Run("events without audit sink", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/gateways/testpay/events", nil)
		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("liveness", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestWebhookInternalErrorAcknowledged(t *testing.T) {
	f := newFixture(t, nil, failingLedger{})

	w := f.post("/webhooks/testpay", `{"id":"pi_1"}`, testSignature)

	// Ledger outage must not bounce the webhook back to the provider.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Event processed successfully")
}

type failingLedger struct{}

func (failingLedger) Record(context.Context, string, string, string) error {
	return errors.New("connection refused")
}
