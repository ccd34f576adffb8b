package activity

import (
	"context"
	"time"

	id "strive/pkg/domain"
)

// Store persists activity events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actor id.UserID) ([]Event, error)
}

// Publisher captures structured activity events. It is append-only and uses
// the storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
	sinks []Sink
}

// Sink receives a copy of every event, typically for export off-process.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

func NewPublisher(store Store, sinks ...Sink) *Publisher {
	return &Publisher{store: store, sinks: sinks}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	for _, sink := range p.sinks {
		// Sink failures must not fail the request that produced the event.
		_ = sink.Publish(ctx, event)
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, actor id.UserID) ([]Event, error) {
	return p.store.ListByActor(ctx, actor)
}
