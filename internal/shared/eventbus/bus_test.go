package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewEventBus(nil)

	var got []string
	bus.Subscribe("project.updated", func(ctx context.Context, event Event) error {
		got = append(got, event.Data().(string))
		return nil
	})
	bus.Subscribe("project.updated", func(ctx context.Context, event Event) error {
		got = append(got, event.Data().(string))
		return nil
	})

	err := bus.Publish(context.Background(), NewEvent("project.updated", "proj-1", "test"))
	require.NoError(t, err)
	assert.Equal(t, []string{"proj-1", "proj-1"}, got)
}

func TestPublishNoSubscribers(t *testing.T) {
	bus := NewEventBus(nil)
	err := bus.Publish(context.Background(), NewEvent("project.deleted", nil, "test"))
	assert.NoError(t, err)
}

func TestPublishReturnsHandlerError(t *testing.T) {
	bus := NewEventBus(nil)
	boom := errors.New("cache unavailable")
	bus.Subscribe("project.updated", func(ctx context.Context, event Event) error {
		return boom
	})

	err := bus.Publish(context.Background(), NewEvent("project.updated", nil, "test"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestPublishAndForgetSwallowsErrors(t *testing.T) {
	bus := NewEventBus(nil)
	called := false
	bus.Subscribe("project.updated", func(ctx context.Context, event Event) error {
		called = true
		return errors.New("ignored")
	})

	bus.PublishAndForget(context.Background(), NewEvent("project.updated", nil, "test"))
	assert.True(t, called)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus(nil)
	bus.Subscribe("project.updated", func(ctx context.Context, event Event) error { return nil })
	require.Equal(t, 1, bus.GetSubscriberCount("project.updated"))

	bus.Unsubscribe("project.updated")
	assert.Equal(t, 0, bus.GetSubscriberCount("project.updated"))
}

func TestEventMetadata(t *testing.T) {
	ev := NewEvent("appointment.created", map[string]string{"id": "a1"}, "appointments")
	assert.Equal(t, "appointment.created", ev.Type())
	assert.Equal(t, "appointments", ev.Source())
	assert.False(t, ev.Timestamp().IsZero())
}
