package activity

import (
	"context"
	"time"
)

// ChannelEmitter hands events to the worker goroutine so domain services
// never block on persistence or export. A full inbox drops the event;
// activity is best-effort telemetry, not a ledger.
type ChannelEmitter struct {
	inbox chan<- Event
}

func NewChannelEmitter(inbox chan<- Event) *ChannelEmitter {
	return &ChannelEmitter{inbox: inbox}
}

func (e *ChannelEmitter) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case e.inbox <- event:
	default:
	}
	return nil
}
