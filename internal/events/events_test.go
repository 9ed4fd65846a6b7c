package events_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/events"
	"github.com/stretchr/testify/assert"
)

func TestEmitDeliversInRegistrationOrder(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var order []string
	emitter.Subscribe(events.HandlerFunc(func(_ context.Context, _ events.Event) {
		order = append(order, "first")
	}))
	emitter.Subscribe(events.HandlerFunc(func(_ context.Context, _ events.Event) {
		order = append(order, "second")
	}))

	emitter.Emit(context.Background(), events.Event{Type: events.TypeXpAwarded})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEmitPassesPayload(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	learnerID := uuid.New()

	var got events.Event
	emitter.Subscribe(events.HandlerFunc(func(_ context.Context, e events.Event) {
		got = e
	}))

	emitter.Emit(context.Background(), events.Event{
		Type:      events.TypeLevelUp,
		LearnerID: learnerID,
		TotalXp:   150,
		Level:     2,
	})

	assert.Equal(t, events.TypeLevelUp, got.Type)
	assert.Equal(t, learnerID, got.LearnerID)
	assert.Equal(t, 2, got.Level)
}

func TestEmitRecoversHandlerPanic(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	delivered := false
	emitter.Subscribe(events.HandlerFunc(func(_ context.Context, _ events.Event) {
		panic("bad subscriber")
	}))
	emitter.Subscribe(events.HandlerFunc(func(_ context.Context, _ events.Event) {
		delivered = true
	}))

	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), events.Event{Type: events.TypeBadgeAwarded})
	})
	assert.True(t, delivered, "a panicking handler must not block later handlers")
}

func TestEmitWithNoHandlers(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(nil)
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), events.Event{Type: events.TypeXpAwarded})
	})
}
