package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"towerdb/config"
	"towerdb/pkg/logger"

	"github.com/valkey-io/valkey-go"
)

// ErrCacheUnavailable is returned by cache calls when no valkey client is
// configured; callers treat it as a cache miss.
var ErrCacheUnavailable = errors.New("cache unavailable")

// Valkey database indexes, one per cache category.
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous caching
	GENERAL_CACHE_INDEX = iota

	// TOWER_CACHE_INDEX (DB 1) - tower detail and tower list results
	TOWER_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 2) - pub/sub for change notifications
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		log.Warn("cache address or port is empty, running without cache")
		return nil
	}

	var cacheDB Cache
	clients := []struct {
		target *CacheClient
		index  int
		name   string
	}{
		{&cacheDB.General, GENERAL_CACHE_INDEX, "general"},
		{&cacheDB.Tower, TOWER_CACHE_INDEX, "tower"},
		{&cacheDB.Events, EVENTS_CACHE_INDEX, "events"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    c.index,
		})
		if err != nil {
			return log.Err("failed to create valkey client", err, "cache", c.name)
		}
		*c.target = client
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func (c Cache) byIndex(index int) (CacheClient, string) {
	switch index {
	case GENERAL_CACHE_INDEX:
		return c.General, "General"
	case TOWER_CACHE_INDEX:
		return c.Tower, "Tower"
	case EVENTS_CACHE_INDEX:
		return c.Events, "Events"
	}
	return nil, ""
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, dbName := cacheDB.byIndex(index)
	if client == nil {
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
