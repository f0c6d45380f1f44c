package services

import (
	"context"
	"errors"
	"fmt"

	"towerdb/internal/database"
	"towerdb/internal/events"
	. "towerdb/internal/models"
	"towerdb/internal/repositories"
	"towerdb/internal/validation"
	"towerdb/pkg/logger"
)

// ErrInvalidTower wraps the validation.Errors that blocked a write; recover
// the list with errors.As.
var ErrInvalidTower = errors.New("tower record is invalid")

func invalidTower(errs validation.Errors) error {
	return fmt.Errorf("%w: %w", ErrInvalidTower, errs)
}

type TowerService struct {
	db     database.DB
	towers repositories.TowerRepository
	events events.Publisher
	log    logger.Logger
}

func NewTowerService(
	db database.DB,
	towers repositories.TowerRepository,
	publisher events.Publisher,
) *TowerService {
	return &TowerService{
		db:     db,
		towers: towers,
		events: publisher,
		log:    logger.New("towerService"),
	}
}

func (s *TowerService) List(
	ctx context.Context,
	filter repositories.TowerFilter,
) ([]*Tower, error) {
	return s.towers.List(ctx, s.db.SQL, filter)
}

func (s *TowerService) Get(ctx context.Context, id int) (*Tower, error) {
	return s.towers.GetByID(ctx, s.db.SQL, id)
}

// Check validates a record without storing it. Missing structural fields
// are returned as the error; format and consistency problems as the list.
func (s *TowerService) Check(ctx context.Context, tower *Tower) (validation.Errors, error) {
	if err := validation.CheckRequired(tower); err != nil {
		return nil, err
	}

	errs := validation.Validate(tower)
	if len(errs) > 0 {
		s.log.TraceFromContext(ctx).Function("Check").
			Info("Tower failed validation", "tower", tower.String(), "errorCount", len(errs))
	}
	return errs, nil
}

func (s *TowerService) Create(ctx context.Context, tower *Tower) error {
	log := s.log.TraceFromContext(ctx).Function("Create")

	if err := s.validate(ctx, tower); err != nil {
		return err
	}

	if err := s.towers.Create(ctx, s.db.SQL, tower); err != nil {
		return err
	}

	log.Info("Tower created", "towerID", tower.ID, "tower", tower.String())
	s.publish(ctx, events.TOWER_CREATED, tower.ID)
	return nil
}

// Update replaces every editable field of tower id with the given record.
func (s *TowerService) Update(ctx context.Context, id int, tower *Tower) error {
	log := s.log.TraceFromContext(ctx).Function("Update")

	tower.ID = id
	if err := s.validate(ctx, tower); err != nil {
		return err
	}

	if err := s.towers.Update(ctx, s.db.SQL, tower); err != nil {
		return err
	}

	log.Info("Tower updated", "towerID", id)
	s.publish(ctx, events.TOWER_UPDATED, id)
	return nil
}

func (s *TowerService) Delete(ctx context.Context, id int) error {
	log := s.log.TraceFromContext(ctx).Function("Delete")

	if err := s.towers.Delete(ctx, s.db.SQL, id); err != nil {
		return err
	}

	log.Info("Tower deleted", "towerID", id)
	s.publish(ctx, events.TOWER_DELETED, id)
	return nil
}

func (s *TowerService) validate(ctx context.Context, tower *Tower) error {
	errs, err := s.Check(ctx, tower)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return invalidTower(errs)
	}
	return nil
}

func (s *TowerService) publish(ctx context.Context, messageType events.MessageType, id int) {
	if s.events == nil {
		return
	}

	if err := s.events.Publish(events.TOWER_CHANNEL, events.TowerChanged(messageType, id)); err != nil {
		s.log.TraceFromContext(ctx).Function("publish").
			Warn("failed to publish tower event", "towerID", id, "error", err)
	}
}
