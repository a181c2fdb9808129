package events

import (
	"context"
	"log/slog"
	"sync"
)

// SyncDispatcher is a Dispatcher that stores registered observers in memory
// and delivers events to them synchronously and sequentially.
type SyncDispatcher struct {
	observers []Observer
	mu        sync.RWMutex
	logger    *slog.Logger
}

// NewSyncDispatcher creates a new SyncDispatcher.
func NewSyncDispatcher(logger *slog.Logger) *SyncDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncDispatcher{
		observers: make([]Observer, 0),
		logger:    logger.With(slog.String("component", "event_dispatcher")),
	}
}

// Ensure SyncDispatcher implements the Dispatcher interface
var _ Dispatcher = (*SyncDispatcher)(nil)

// Register adds a new observer. Observers are notified in registration order.
func (d *SyncDispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, observer)
	d.logger.Debug("registered event observer",
		slog.Int("observer_count", len(d.observers)))
}

// Dispatch implements Dispatcher.Dispatch. A failing or panicking observer
// is logged and skipped; the remaining observers still run and the caller's
// success path is never affected.
func (d *SyncDispatcher) Dispatch(ctx context.Context, event *TaskEvent) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	d.logger.Debug("dispatching event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.Type)),
		slog.Int("observer_count", len(observers)))

	for i, observer := range observers {
		d.notify(ctx, observer, i, event)
	}
}

// notify delivers the event to one observer, containing errors and panics.
func (d *SyncDispatcher) notify(ctx context.Context, observer Observer, index int, event *TaskEvent) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("observer panicked while handling event",
				slog.Any("panic", p),
				slog.Int("observer_index", index),
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", string(event.Type)))
		}
	}()

	if err := observer.HandleTaskEvent(ctx, event); err != nil {
		d.logger.Error("observer failed to handle event",
			slog.String("error", err.Error()),
			slog.Int("observer_index", index),
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", string(event.Type)))
	}
}
