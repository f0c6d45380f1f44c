package towers

import (
	"context"
	"testing"

	"towerdb/internal/models"
	"towerdb/internal/repositories"
	"towerdb/internal/types"
	"towerdb/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTowerService struct {
	towers  []*models.Tower
	created *models.Tower
}

func (s *stubTowerService) List(ctx context.Context, filter repositories.TowerFilter) ([]*models.Tower, error) {
	return s.towers, nil
}

func (s *stubTowerService) Get(ctx context.Context, id int) (*models.Tower, error) {
	return nil, repositories.ErrTowerNotFound
}

func (s *stubTowerService) Create(ctx context.Context, tower *models.Tower) error {
	tower.ID = 1
	s.created = tower
	return nil
}

func (s *stubTowerService) Update(ctx context.Context, id int, tower *models.Tower) error {
	tower.ID = id
	return nil
}

func (s *stubTowerService) Delete(ctx context.Context, id int) error { return nil }

func (s *stubTowerService) Check(ctx context.Context, tower *models.Tower) (validation.Errors, error) {
	return validation.Validate(tower), nil
}

func elyRequest() types.TowerRequest {
	return types.TowerRequest{
		Place:      "Ely",
		Dedication: "Cathedral",
		District:   models.DistrictEly,
		Ringing:    models.RingingRegular,
	}
}

func TestTowerController_List(t *testing.T) {
	bells := 12
	controller := New(&stubTowerService{towers: []*models.Tower{
		{BaseModel: models.BaseModel{ID: 4}, Place: "Ely", Dedication: "Cathedral", District: models.DistrictEly, Bells: &bells},
	}})

	summaries, err := controller.List(context.Background(), repositories.TowerFilter{})
	require.NoError(t, err)
	assert.Equal(t, []types.TowerSummary{
		{ID: 4, Place: "Ely", Dedication: "Cathedral", District: "Ely", Bells: &bells},
	}, summaries)
}

func TestTowerController_Create(t *testing.T) {
	service := &stubTowerService{}
	controller := New(service)

	tower, err := controller.Create(context.Background(), elyRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, tower.ID)
	assert.Same(t, tower, service.created)

	_, err = controller.Create(context.Background(), types.TowerRequest{})
	assert.ErrorIs(t, err, types.ErrInvalidRequest)
}

func TestTowerController_Check(t *testing.T) {
	controller := New(&stubTowerService{})

	response, err := controller.Check(context.Background(), elyRequest())
	require.NoError(t, err)
	assert.True(t, response.Valid)
	assert.Empty(t, response.Errors)

	req := elyRequest()
	req.Note = "Cb"
	req.Ringing = models.RingingNone
	req.Service = "Sunday 10:00"

	response, err = controller.Check(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, response.Valid)
	assert.Len(t, response.Errors, 2)
	assert.Len(t, response.FieldErrors, 1)
	assert.Len(t, response.ConsistencyErrors, 1)
}
