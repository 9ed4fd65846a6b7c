// Package events carries in-process notifications between services. The
// review and progress services publish fire-and-forget events here; failures
// to handle an event never fail the operation that produced it.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// EventType identifies the kind of event.
type EventType string

// Event types published by the engine.
const (
	// TypeXpAwarded is published after an XP award has been committed.
	TypeXpAwarded EventType = "xp_awarded"

	// TypeLevelUp is published when an XP award pushed the learner over a
	// level threshold.
	TypeLevelUp EventType = "level_up"

	// TypeBadgeAwarded is published when a learner earns a new badge.
	TypeBadgeAwarded EventType = "badge_awarded"
)

// Event is the payload delivered to handlers. Fields not relevant to a given
// type are zero.
type Event struct {
	Type      EventType
	LearnerID uuid.UUID
	Amount    int
	Reason    string
	TotalXp   int
	Level     int
	BadgeType string
}

// Handler processes one event. Handlers must not block; the emitter invokes
// them synchronously on the publishing goroutine.
type Handler interface {
	HandleEvent(ctx context.Context, event Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event)

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event Event) {
	f(ctx, event)
}

// Emitter publishes events to registered handlers.
type Emitter interface {
	// Emit delivers the event to all handlers. Emit never returns an error;
	// event delivery is best-effort by contract.
	Emit(ctx context.Context, event Event)
}

// InMemoryEmitter is a synchronous in-process Emitter. Handler panics are
// recovered and logged so a broken subscriber cannot take down the
// publishing request.
type InMemoryEmitter struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

var _ Emitter = (*InMemoryEmitter)(nil)

// NewInMemoryEmitter creates an emitter with no handlers registered.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		logger: logger.With(slog.String("component", "event_emitter")),
	}
}

// Subscribe registers a handler for all subsequent events.
func (e *InMemoryEmitter) Subscribe(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
}

// Emit delivers the event to every registered handler in registration order.
func (e *InMemoryEmitter) Emit(ctx context.Context, event Event) {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if p := recover(); p != nil {
					e.logger.ErrorContext(ctx, "event handler panicked",
						slog.String("event_type", string(event.Type)),
						slog.Any("panic", p))
				}
			}()
			h.HandleEvent(ctx, event)
		}()
	}
}

// NopEmitter discards all events. Useful in tests and in deployments that
// register no subscribers.
type NopEmitter struct{}

// Emit discards the event.
func (NopEmitter) Emit(context.Context, Event) {}
