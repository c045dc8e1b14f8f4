package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

type subscription struct {
	ch    chan Event
	types []string // empty means every type
}

func (s subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// Bus journals published events and fans them out to subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	log    *EventLog // nil disables the journal
	logger *slog.Logger
	closed bool
}

// NewBus creates a bus writing to log.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{log: log, logger: logger.With("component", "bus")}
}

// Publish journals e, then offers it to every interested subscriber without
// blocking: a subscriber whose buffer is full misses the event. The error
// only reports a journal failure; delivery happens regardless.
func (b *Bus) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	var err error
	if b.log != nil {
		if _, err = b.log.Append(e); err != nil {
			b.logger.Error("journal append failed", "type", e.EventType(), "error", err)
		}
	}

	for _, s := range b.subs {
		if !s.wants(e.EventType()) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			b.logger.Warn("subscriber full, event dropped", "type", e.EventType(), "entity_id", e.EntityID())
		}
	}
	return err
}

// Subscribe returns a channel of the given event types, or of every event
// when types is empty. The channel is closed by Unsubscribe or Close.
func (b *Bus) Subscribe(buffer int, types ...string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, subscription{ch: ch, types: types})
	return ch
}

// Unsubscribe detaches and closes ch. Unknown channels are ignored.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.subs, func(s subscription) bool { return s.ch == ch })
	if i < 0 {
		return
	}
	close(b.subs[i].ch)
	b.subs = slices.Delete(b.subs, i, i+1)
}

// Close closes every subscription. Later publishes are ignored.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		for _, s := range b.subs {
			close(s.ch)
		}
		b.subs = nil
	}
	return nil
}
