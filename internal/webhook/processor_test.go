package webhook

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ledgerpay/internal/gateway"
)

func TestProcessorDispatchesAsync(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]int)
	h := &stubHandler{
		name: "counter",
		handle: func(_ context.Context, event *gateway.WebhookEvent) error {
			mu.Lock()
			seen[event.EventID]++
			mu.Unlock()
			return nil
		},
	}
	p := NewProcessor(NewDispatcher([]Handler{h}), 4, 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Start(ctx)
	}()

	events := []string{"evt_1", "evt_2", "evt_3", "evt_4", "evt_5"}
	for _, id := range events {
		ev := paymentEvent(gateway.EventPaymentSucceeded)
		ev.EventID = id
		p.Enqueue(context.Background(), ev)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == len(events)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	for _, id := range events {
		assert.Equal(t, 1, seen[id], id)
	}
}

func TestProcessorFullQueueDispatchesInline(t *testing.T) {
	h := &stubHandler{name: "counter"}
	// One worker that never starts, so the queue stays full.
	p := NewProcessor(NewDispatcher([]Handler{h}), 1, 1)

	p.Enqueue(context.Background(), paymentEvent(gateway.EventPaymentSucceeded)) // fills the queue
	p.Enqueue(context.Background(), paymentEvent(gateway.EventPaymentSucceeded)) // dispatched inline

	assert.Equal(t, 1, h.callCount())
}

func TestProcessorSurvivesRequestCancellation(t *testing.T) {
	handled := make(chan struct{})
	h := &stubHandler{
		name: "observer",
		handle: func(ctx context.Context, _ *gateway.WebhookEvent) error {
			assert.NoError(t, ctx.Err(), "dispatch context must outlive the request")
			close(handled)
			return nil
		},
	}
	p := NewProcessor(NewDispatcher([]Handler{h}), 1, 4)

	poolCtx, cancelPool := context.WithCancel(context.Background())
	defer cancelPool()
	go func() { _ = p.Start(poolCtx) }()

	reqCtx, cancelReq := context.WithCancel(context.Background())
	p.Enqueue(reqCtx, paymentEvent(gateway.EventPaymentSucceeded))
	cancelReq()

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not dispatched")
	}
}
