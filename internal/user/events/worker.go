package events

import (
	"context"
	"log/slog"

	dErrors "roster/pkg/domain-errors"
)

// ChannelPublisher buffers events for a background worker so request
// handling never blocks on the broker. Publish drops the event with an
// error when the inbox is full; lifecycle events are best-effort.
type ChannelPublisher struct {
	inbox chan Event
}

// NewChannelPublisher creates a buffered publisher with the given capacity.
func NewChannelPublisher(size int) *ChannelPublisher {
	return &ChannelPublisher{inbox: make(chan Event, size)}
}

// Publish enqueues the event without blocking.
func (p *ChannelPublisher) Publish(_ context.Context, event Event) error {
	select {
	case p.inbox <- event:
		return nil
	default:
		return dErrors.New(dErrors.CodeUnavailable, "event inbox full")
	}
}

// Inbox exposes the channel for the draining worker.
func (p *ChannelPublisher) Inbox() <-chan Event {
	return p.inbox
}

// Close stops accepting events and lets the worker drain and exit.
func (p *ChannelPublisher) Close() {
	close(p.inbox)
}

// Worker drains an inbox and forwards events to a sink. Sink failures are
// logged and skipped; a broken broker must not stop the drain loop.
type Worker struct {
	sink   Publisher
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker constructs a worker over the inbox and sink.
func NewWorker(sink Publisher, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run forwards events until the context is cancelled or the inbox closes.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.sink.Publish(ctx, event); err != nil && w.logger != nil {
				w.logger.WarnContext(ctx, "event delivery failed",
					"event_type", event.Type,
					"user_id", event.UserID,
					"error", err,
				)
			}
		}
	}
}
