package webhook

import (
	"context"
	"log/slog"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"ledgerpay/internal/gateway"
)

type task struct {
	ctx   context.Context
	event *gateway.WebhookEvent
}

// Processor dispatches events asynchronously on a bounded worker pool so
// webhook responses return before business handlers run.
type Processor struct {
	dispatcher *Dispatcher
	queue      chan task
	workers    int
}

func NewProcessor(dispatcher *Dispatcher, workers, queueSize int) *Processor {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}
	return &Processor{
		dispatcher: dispatcher,
		queue:      make(chan task, queueSize),
		workers:    workers,
	}
}

// Start runs the worker pool until ctx is cancelled, then drains the queue.
func (p *Processor) Start(ctx context.Context) error {
	g := new(errgroup.Group)

	for i := 0; i < p.workers; i++ {
		i := i
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("webhook worker panic recovered",
						"worker_idx", i,
						slog.Any("panic", rec),
						"stack", string(debug.Stack()))
				}
			}()
			p.run(ctx)
			return nil
		})
	}

	return g.Wait()
}

func (p *Processor) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Drain whatever was accepted before shutdown.
			for {
				select {
				case t := <-p.queue:
					p.dispatcher.Broadcast(t.ctx, t.event)
				default:
					return
				}
			}
		case t := <-p.queue:
			p.dispatcher.Broadcast(t.ctx, t.event)
		}
	}
}

// Enqueue hands an event to the pool. The dispatch context is detached
// from the request so handlers survive the HTTP response, but keeps its
// correlation values. A full queue falls back to inline dispatch rather
// than dropping the event.
func (p *Processor) Enqueue(ctx context.Context, event *gateway.WebhookEvent) {
	detached := context.WithoutCancel(ctx)
	select {
	case p.queue <- task{ctx: detached, event: event}:
	default:
		slog.WarnContext(ctx, "webhook queue full, dispatching inline",
			"event_id", event.EventID)
		p.dispatcher.Broadcast(detached, event)
	}
}
