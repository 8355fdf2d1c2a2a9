// Package publisher decouples domain code from the audit store. Emit is
// synchronous by default; an async buffer absorbs bursts during large sync
// batches so auditing never slows reconciliation down.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit"
)

// Publisher writes audit events to a store, optionally through a buffered
// channel drained by a background goroutine.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	ch   chan audit.Event
	wg   sync.WaitGroup
	once sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches Emit to a non-blocking buffered mode. When the
// buffer is full, events fall back to a synchronous write rather than being
// dropped.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.ch = make(chan audit.Event, size)
	}
}

// WithLogger sets the logger for background write failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher builds a Publisher over the given store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.ch != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records one event, stamping the time if unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.ch != nil {
		select {
		case p.ch <- event:
			return nil
		default:
			// Buffer full; write inline so nothing is lost.
		}
	}
	return p.store.Append(ctx, event)
}

// List returns the events recorded for a user.
func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// Close flushes the async buffer. Safe to call more than once.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.ch != nil {
			close(p.ch)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.ch {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Error("audit append failed", "action", event.Action, "error", err)
		}
	}
}
