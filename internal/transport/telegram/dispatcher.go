package telegram

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"smsbot/internal/domain"
	"smsbot/internal/observability"
)

type Handler interface {
	Handle(ctx context.Context, ev domain.Event) error
}

type queuedEvent struct {
	ctx context.Context
	ev  domain.Event
}

// Dispatcher runs one goroutine per user with pending events. A user's events
// are handled strictly in arrival order; a slow gateway call for one user
// never holds up another. Workers exit as soon as their queue is empty.
type Dispatcher struct {
	handler Handler

	mu      sync.Mutex
	pending map[int64][]queuedEvent
	wg      sync.WaitGroup
}

func NewDispatcher(h Handler) *Dispatcher {
	return &Dispatcher{handler: h, pending: make(map[int64][]queuedEvent)}
}

// DispatchUpdate converts a raw update and queues it. Unsupported updates are
// dropped.
func (d *Dispatcher) DispatchUpdate(ctx context.Context, u tgbotapi.Update) bool {
	ev, ok := EventFromUpdate(u)
	if !ok {
		observability.Updates.WithLabelValues("unsupported").Inc()
		return false
	}
	d.Dispatch(ctx, ev)
	return true
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, running := d.pending[ev.UserID]
	d.pending[ev.UserID] = append(q, queuedEvent{ctx: ctx, ev: ev})
	if running {
		return
	}
	d.wg.Add(1)
	go d.work(ev.UserID)
}

// Wait blocks until every queued event has been handled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) work(userID int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		q := d.pending[userID]
		if len(q) == 0 {
			delete(d.pending, userID)
			d.mu.Unlock()
			return
		}
		next := q[0]
		d.pending[userID] = q[1:]
		d.mu.Unlock()

		if err := d.handler.Handle(next.ctx, next.ev); err != nil {
			slog.Warn("handle event failed", "err", err, "user_id", userID, "kind", next.ev.Kind)
		}
	}
}
