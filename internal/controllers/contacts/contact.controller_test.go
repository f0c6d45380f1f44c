package contacts

import (
	"context"
	"testing"

	"towerdb/internal/models"
	"towerdb/internal/repositories"
	"towerdb/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubContactService struct {
	created *models.Contact
	methods []*models.ContactMethod
	maps    []*models.ContactMap
}

func (s *stubContactService) List(ctx context.Context) ([]*models.Contact, error) {
	return nil, nil
}

func (s *stubContactService) Get(ctx context.Context, id int) (*models.Contact, error) {
	return nil, repositories.ErrContactNotFound
}

func (s *stubContactService) Create(ctx context.Context, contact *models.Contact) error {
	contact.ID = 7
	s.created = contact
	return nil
}

func (s *stubContactService) Delete(ctx context.Context, id int) error { return nil }

func (s *stubContactService) AddMethod(ctx context.Context, method *models.ContactMethod) error {
	s.methods = append(s.methods, method)
	return nil
}

func (s *stubContactService) AddTowerContact(ctx context.Context, contactMap *models.ContactMap) error {
	s.maps = append(s.maps, contactMap)
	return nil
}

func TestContactController_Create(t *testing.T) {
	service := &stubContactService{}
	controller := New(service)

	contact, err := controller.Create(context.Background(), types.ContactRequest{
		Name: " A. Ringer ",
		Methods: []types.ContactMethodRequest{
			{ContactType: models.ContactTypeEmail, ContactValue: "ringer@example.org"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, contact.ID)
	assert.Equal(t, "A. Ringer", contact.Name)
	assert.True(t, contact.Publish)
	assert.Len(t, contact.Methods, 1)

	_, err = controller.Create(context.Background(), types.ContactRequest{
		Methods: []types.ContactMethodRequest{{ContactType: "Fax", ContactValue: "01353"}},
	})
	assert.ErrorIs(t, err, types.ErrInvalidRequest)
}

func TestContactController_AddMethod(t *testing.T) {
	service := &stubContactService{}
	controller := New(service)

	method, err := controller.AddMethod(context.Background(), 3, types.ContactMethodRequest{
		ContactType:  models.ContactTypePhone,
		ContactValue: " 01353 000000 ",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, method.ContactID)
	assert.Equal(t, "01353 000000", method.ContactValue)
	assert.Len(t, service.methods, 1)
}

func TestContactController_AddToTower(t *testing.T) {
	service := &stubContactService{}
	controller := New(service)

	contactMap, err := controller.AddToTower(context.Background(), 4, types.TowerContactRequest{
		ContactID: 7,
		Role:      models.RoleTowerCaptain,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, contactMap.TowerID)
	assert.Equal(t, 7, contactMap.ContactID)

	_, err = controller.AddToTower(context.Background(), 4, types.TowerContactRequest{Role: "Verger"})
	assert.ErrorIs(t, err, types.ErrInvalidRequest)
	assert.Len(t, service.maps, 1)
}
