package services

import (
	"context"
	"strconv"

	"towerdb/internal/events"
	"towerdb/internal/repositories"
	"towerdb/pkg/logger"
)

const ALL_RESOURCES = "all"

// CacheInvalidationService clears cached towers when a cache.invalidation
// event arrives, whichever instance published it.
type CacheInvalidationService struct {
	towers repositories.TowerRepository
	log    logger.Logger
}

func NewCacheInvalidationService(towers repositories.TowerRepository) *CacheInvalidationService {
	return &CacheInvalidationService{
		towers: towers,
		log:    logger.New("CacheInvalidationService"),
	}
}

func (s *CacheInvalidationService) Register(eventBus *events.EventBus) error {
	return eventBus.Subscribe(events.CACHE_CHANNEL, s.Handle)
}

func (s *CacheInvalidationService) Handle(event events.Event) error {
	log := s.log.Function("Handle")

	if event.Type != events.CACHE_INVALIDATION {
		return nil
	}

	resourceType, _ := event.Data["resourceType"].(string)
	if resourceType != "tower" {
		log.Debug("Ignoring invalidation for unknown resource", "resourceType", resourceType)
		return nil
	}

	resourceID, _ := event.Data["resourceId"].(string)
	if resourceID == "" || resourceID == ALL_RESOURCES {
		log.Info("Clearing all cached towers")
		return s.towers.ClearCache(context.Background(), nil)
	}

	id, err := strconv.Atoi(resourceID)
	if err != nil {
		return log.Err("invalid tower id in invalidation event", err, "resourceId", resourceID)
	}
	return s.towers.ClearCache(context.Background(), &id)
}
