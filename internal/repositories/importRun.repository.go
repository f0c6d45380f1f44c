package repositories

import (
	"context"
	"errors"

	. "towerdb/internal/models"
	"towerdb/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrImportRunNotFound = errors.New("import run not found")

type ImportRunRepository interface {
	Create(ctx context.Context, tx *gorm.DB, run *ImportRun) error
	Update(ctx context.Context, tx *gorm.DB, run *ImportRun) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ImportRun, error)
	GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*ImportRun, error)
}

type importRunRepository struct {
	log logger.Logger
}

func NewImportRunRepository() ImportRunRepository {
	return &importRunRepository{
		log: logger.New("importRunRepository"),
	}
}

func (r *importRunRepository) Create(ctx context.Context, tx *gorm.DB, run *ImportRun) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Create(run).Error; err != nil {
		return log.Err("failed to create import run", err, "source", run.Source)
	}

	return nil
}

func (r *importRunRepository) Update(ctx context.Context, tx *gorm.DB, run *ImportRun) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).Save(run).Error; err != nil {
		return log.Err("failed to update import run", err, "importRunID", run.ID)
	}

	return nil
}

func (r *importRunRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*ImportRun, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var run ImportRun
	if err := tx.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImportRunNotFound
		}
		return nil, log.Err("failed to get import run", err, "importRunID", id)
	}

	return &run, nil
}

func (r *importRunRepository) GetRecent(
	ctx context.Context,
	tx *gorm.DB,
	limit int,
) ([]*ImportRun, error) {
	log := r.log.TraceFromContext(ctx).Function("GetRecent")

	if limit <= 0 {
		limit = 10
	}

	var runs []*ImportRun
	if err := tx.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, log.Err("failed to get recent import runs", err)
	}

	return runs, nil
}
