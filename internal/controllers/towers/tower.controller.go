package towers

import (
	"context"
	"errors"

	"towerdb/internal/models"
	"towerdb/internal/repositories"
	"towerdb/internal/services"
	"towerdb/internal/types"
	"towerdb/internal/validation"
	"towerdb/pkg/logger"
)

type TowerControllerInterface interface {
	List(ctx context.Context, filter repositories.TowerFilter) ([]types.TowerSummary, error)
	Get(ctx context.Context, id int) (*models.Tower, error)
	Create(ctx context.Context, req types.TowerRequest) (*models.Tower, error)
	Update(ctx context.Context, id int, req types.TowerRequest) (*models.Tower, error)
	Delete(ctx context.Context, id int) error
	Check(ctx context.Context, req types.TowerRequest) (*types.CheckResponse, error)
}

// TowerService is the part of the tower service the controller calls.
type TowerService interface {
	List(ctx context.Context, filter repositories.TowerFilter) ([]*models.Tower, error)
	Get(ctx context.Context, id int) (*models.Tower, error)
	Create(ctx context.Context, tower *models.Tower) error
	Update(ctx context.Context, id int, tower *models.Tower) error
	Delete(ctx context.Context, id int) error
	Check(ctx context.Context, tower *models.Tower) (validation.Errors, error)
}

var _ TowerService = (*services.TowerService)(nil)

type TowerController struct {
	towers TowerService
	log    logger.Logger
}

func New(towers TowerService) TowerControllerInterface {
	return &TowerController{
		towers: towers,
		log:    logger.New("towerController"),
	}
}

func (c *TowerController) List(
	ctx context.Context,
	filter repositories.TowerFilter,
) ([]types.TowerSummary, error) {
	towers, err := c.towers.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]types.TowerSummary, 0, len(towers))
	for _, tower := range towers {
		summaries = append(summaries, types.NewTowerSummary(tower))
	}
	return summaries, nil
}

func (c *TowerController) Get(ctx context.Context, id int) (*models.Tower, error) {
	return c.towers.Get(ctx, id)
}

func (c *TowerController) Create(ctx context.Context, req types.TowerRequest) (*models.Tower, error) {
	if err := types.ValidateRequest(req); err != nil {
		return nil, err
	}

	tower := req.ToModel()
	if err := c.towers.Create(ctx, tower); err != nil {
		return nil, err
	}
	return tower, nil
}

func (c *TowerController) Update(
	ctx context.Context,
	id int,
	req types.TowerRequest,
) (*models.Tower, error) {
	if err := types.ValidateRequest(req); err != nil {
		return nil, err
	}

	tower := req.ToModel()
	if err := c.towers.Update(ctx, id, tower); err != nil {
		return nil, err
	}
	return tower, nil
}

func (c *TowerController) Delete(ctx context.Context, id int) error {
	return c.towers.Delete(ctx, id)
}

// Check runs validation only. A record missing its structural fields is a
// request error; anything else comes back in the response.
func (c *TowerController) Check(ctx context.Context, req types.TowerRequest) (*types.CheckResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("Check")

	if err := types.ValidateRequest(req); err != nil {
		return nil, err
	}

	errs, err := c.towers.Check(ctx, req.ToModel())
	if err != nil {
		if errors.Is(err, validation.ErrMissingField) {
			return nil, errors.Join(types.ErrInvalidRequest, err)
		}
		return nil, log.Err("failed to check tower", err)
	}

	return NewCheckResponse(errs), nil
}

func NewCheckResponse(errs validation.Errors) *types.CheckResponse {
	response := &types.CheckResponse{
		Valid:             len(errs) == 0,
		Errors:            errs.Messages(),
		FieldErrors:       []any{},
		ConsistencyErrors: []any{},
	}
	for _, fieldErr := range errs.FieldErrors() {
		response.FieldErrors = append(response.FieldErrors, fieldErr)
	}
	for _, consistencyErr := range errs.ConsistencyErrors() {
		response.ConsistencyErrors = append(response.ConsistencyErrors, consistencyErr)
	}
	return response
}
