package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"towerdb/internal/database"
	. "towerdb/internal/models"
	"towerdb/internal/utils"
	"towerdb/pkg/logger"

	"gorm.io/gorm"
)

const (
	TOWER_CACHE_PREFIX      = "tower"
	TOWER_LIST_CACHE_PREFIX = "towers:list"
	TOWER_LIST_KEYS         = "towers:lists"
	TOWER_CACHE_EXPIRY      = 24 * time.Hour
)

var (
	ErrTowerNotFound  = errors.New("tower not found")
	ErrDuplicateTower = errors.New("a tower with this place and dedication already exists")
)

// TowerFilter narrows the tower list. Zero values do not filter.
type TowerFilter struct {
	District District      `query:"district"`
	Bells    *int          `query:"bells"`
	Ringing  RingingStatus `query:"ringing"`
	RingType RingType      `query:"ring_type"`
	Day      Day           `query:"day"`
	Report   *bool         `query:"report"`
	Query    string        `query:"q"`
}

func (f TowerFilter) cacheKey() string {
	return utils.HashFields(map[string]any{
		"district": string(f.District),
		"bells":    f.Bells,
		"ringing":  string(f.Ringing),
		"ringType": string(f.RingType),
		"day":      string(f.Day),
		"report":   f.Report,
		"q":        strings.ToLower(strings.TrimSpace(f.Query)),
	})
}

type TowerRepository interface {
	List(ctx context.Context, tx *gorm.DB, filter TowerFilter) ([]*Tower, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Tower, error)
	Create(ctx context.Context, tx *gorm.DB, tower *Tower) error
	Update(ctx context.Context, tx *gorm.DB, tower *Tower) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
	ClearCache(ctx context.Context, id *int) error
}

type towerRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewTowerRepository(cache database.CacheClient) TowerRepository {
	return &towerRepository{
		cache: cache,
		log:   logger.New("towerRepository"),
	}
}

func (r *towerRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter TowerFilter,
) ([]*Tower, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	key := filter.cacheKey()
	var cached []*Tower
	found, err := database.NewCacheBuilder(r.cache, key).
		WithContext(ctx).
		WithHash(TOWER_LIST_CACHE_PREFIX).
		Get(&cached)
	if err != nil && !errors.Is(err, database.ErrCacheUnavailable) {
		log.Warn("failed to get tower list from cache", "error", err)
	}
	if found {
		return cached, nil
	}

	var towers []*Tower
	if err := applyTowerFilter(tx.WithContext(ctx).Model(&Tower{}), filter).
		Order("place ASC, dedication ASC").
		Find(&towers).Error; err != nil {
		return nil, log.Err("failed to list towers", err)
	}

	if err := database.NewCacheBuilder(r.cache, key).
		WithContext(ctx).
		WithHash(TOWER_LIST_CACHE_PREFIX).
		WithStruct(towers).
		WithTTL(TOWER_CACHE_EXPIRY).
		TrackIn(TOWER_LIST_KEYS).
		Set(); err != nil && !errors.Is(err, database.ErrCacheUnavailable) {
		log.Warn("failed to cache tower list", "error", err)
	}

	return towers, nil
}

func applyTowerFilter(query *gorm.DB, filter TowerFilter) *gorm.DB {
	if filter.District != "" {
		query = query.Where("district = ?", filter.District)
	}
	if filter.Bells != nil {
		query = query.Where("bells = ?", *filter.Bells)
	}
	if filter.Ringing != "" {
		query = query.Where("ringing = ?", filter.Ringing)
	}
	if filter.RingType != "" {
		query = query.Where("ring_type = ?", filter.RingType)
	}
	if filter.Day != "" {
		query = query.Where("day = ?", filter.Day)
	}
	if filter.Report != nil {
		query = query.Where("report = ?", *filter.Report)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("place ILIKE ? OR dedication ILIKE ?", pattern, pattern)
	}
	return query
}

func (r *towerRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Tower, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var tower Tower
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(TOWER_CACHE_PREFIX).
		Get(&tower)
	if err != nil && !errors.Is(err, database.ErrCacheUnavailable) {
		log.Warn("failed to get tower from cache", "towerID", id, "error", err)
	}
	if found {
		return &tower, nil
	}

	err = tx.WithContext(ctx).
		Preload("PrimaryContact.Methods").
		Preload("OtherContacts", func(db *gorm.DB) *gorm.DB {
			return db.Order("role ASC")
		}).
		Preload("OtherContacts.Contact.Methods").
		First(&tower, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTowerNotFound
		}
		return nil, log.Err("failed to get tower", err, "towerID", id)
	}

	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(TOWER_CACHE_PREFIX).
		WithStruct(tower).
		WithTTL(TOWER_CACHE_EXPIRY).
		Set(); err != nil && !errors.Is(err, database.ErrCacheUnavailable) {
		log.Warn("failed to cache tower", "towerID", id, "error", err)
	}

	return &tower, nil
}

func (r *towerRepository) Create(ctx context.Context, tx *gorm.DB, tower *Tower) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Omit("OtherContacts").Create(tower).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTower
		}
		return log.Err("failed to create tower", err, "tower", tower.String())
	}

	r.clearListCache(ctx)
	return nil
}

func (r *towerRepository) Update(ctx context.Context, tx *gorm.DB, tower *Tower) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	result := tx.WithContext(ctx).
		Model(tower).
		Select("*").
		Omit("ID", "CreatedAt", "PrimaryContact", "OtherContacts").
		Updates(tower)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTower
		}
		return log.Err("failed to update tower", result.Error, "towerID", tower.ID)
	}
	if result.RowsAffected == 0 {
		return ErrTowerNotFound
	}

	id := tower.ID
	return r.ClearCache(ctx, &id)
}

func (r *towerRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	result := tx.WithContext(ctx).Delete(&Tower{}, id)
	if result.Error != nil {
		return log.Err("failed to delete tower", result.Error, "towerID", id)
	}
	if result.RowsAffected == 0 {
		return ErrTowerNotFound
	}

	return r.ClearCache(ctx, &id)
}

// DeleteAll removes every tower; contact maps go with them by cascade.
func (r *towerRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("DeleteAll")

	result := tx.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Tower{})
	if result.Error != nil {
		return 0, log.Err("failed to delete towers", result.Error)
	}

	return result.RowsAffected, nil
}

// ClearCache drops the cached lists and, when id is set, that tower's detail.
// A nil id drops every cached tower detail as well.
func (r *towerRepository) ClearCache(ctx context.Context, id *int) error {
	log := r.log.TraceFromContext(ctx).Function("ClearCache")

	if r.cache == nil {
		return nil
	}

	if id != nil {
		if err := database.NewCacheBuilder(r.cache, *id).
			WithContext(ctx).
			WithHash(TOWER_CACHE_PREFIX).
			Delete(); err != nil {
			return log.Err("failed to clear tower cache", err, "towerID", *id)
		}
	} else {
		if err := r.cache.Do(ctx, r.cache.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("failed to flush tower cache", err)
		}
		return nil
	}

	r.clearListCache(ctx)
	return nil
}

func (r *towerRepository) clearListCache(ctx context.Context) {
	log := r.log.TraceFromContext(ctx).Function("clearListCache")

	if r.cache == nil {
		return
	}

	dropped, err := database.NewCacheBuilder(r.cache, TOWER_LIST_KEYS).
		WithContext(ctx).
		DeleteTracked()
	if err != nil {
		log.Warn("failed to clear tower list cache", "error", err)
		return
	}
	log.Debug("Cleared cached tower lists", "count", dropped)
}
