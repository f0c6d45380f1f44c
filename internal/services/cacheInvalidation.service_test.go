package services

import (
	"testing"

	"towerdb/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheInvalidationService_Handle(t *testing.T) {
	repo := newFakeTowerRepository()
	service := NewCacheInvalidationService(repo)
	bus := events.New(nil)
	require.NoError(t, service.Register(bus))

	require.NoError(t, bus.PublishCacheInvalidation("tower", "12"))
	require.NoError(t, bus.PublishCacheInvalidation("tower", ALL_RESOURCES))
	require.NoError(t, bus.PublishCacheInvalidation("contact", "3"))

	require.Len(t, repo.cleared, 2)
	require.NotNil(t, repo.cleared[0])
	assert.Equal(t, 12, *repo.cleared[0])
	assert.Nil(t, repo.cleared[1])

	assert.Error(t, service.Handle(events.Event{
		Type: events.CACHE_INVALIDATION,
		Data: map[string]any{"resourceType": "tower", "resourceId": "twelve"},
	}))
	assert.NoError(t, service.Handle(events.Event{Type: events.TOWER_CREATED}))
}
