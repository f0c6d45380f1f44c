package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_LocalDelivery(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	var received []Event
	require.NoError(t, bus.Subscribe(TOWER_CHANNEL, func(event Event) error {
		received = append(received, event)
		return nil
	}))

	require.NoError(t, bus.Publish(TOWER_CHANNEL, TowerChanged(TOWER_UPDATED, 7)))

	require.Len(t, received, 1)
	assert.Equal(t, TOWER_UPDATED, received[0].Type)
	assert.Equal(t, TOWER_CHANNEL, received[0].Channel)
	assert.Equal(t, bus.Origin(), received[0].Origin)
	assert.Equal(t, 7, received[0].Data["towerId"])
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestEventBus_KeepsCallerEnvelope(t *testing.T) {
	bus := New(nil)

	var got Event
	require.NoError(t, bus.Subscribe(IMPORT_CHANNEL, func(event Event) error {
		got = event
		return nil
	}))

	require.NoError(t, bus.Publish(IMPORT_CHANNEL, Event{ID: "run-1", Origin: "reload-cli", Type: IMPORT_COMPLETE}))
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, "reload-cli", got.Origin)
}

func TestEventBus_FailingHandlersDoNotStopOthers(t *testing.T) {
	bus := New(nil)

	calls := 0
	require.NoError(t, bus.Subscribe(CACHE_CHANNEL, func(Event) error {
		calls++
		return errors.New("boom")
	}))
	require.NoError(t, bus.Subscribe(CACHE_CHANNEL, func(Event) error {
		calls++
		panic("handler bug")
	}))
	require.NoError(t, bus.Subscribe(CACHE_CHANNEL, func(event Event) error {
		calls++
		assert.Equal(t, "all", event.Data["resourceId"])
		return nil
	}))

	assert.NoError(t, bus.PublishCacheInvalidation("tower", "all"))
	assert.Equal(t, 3, calls)
}

func TestEventBus_OtherChannelsNotNotified(t *testing.T) {
	bus := New(nil)

	called := false
	require.NoError(t, bus.Subscribe(IMPORT_CHANNEL, func(Event) error {
		called = true
		return nil
	}))

	assert.NoError(t, bus.Publish(TOWER_CHANNEL, TowerChanged(TOWER_DELETED, 1)))
	assert.False(t, called)
}

func TestEventBus_RejectsNilHandler(t *testing.T) {
	assert.Error(t, New(nil).Subscribe(TOWER_CHANNEL, nil))
}

func TestChannel_WireName(t *testing.T) {
	assert.Equal(t, "towerdb:cache.invalidation", CACHE_CHANNEL.wire())
	assert.Equal(t, "tower", TOWER_CHANNEL.String())
}
