package contacts

import (
	"context"

	"towerdb/internal/models"
	"towerdb/internal/services"
	"towerdb/internal/types"
	"towerdb/pkg/logger"
)

type ContactControllerInterface interface {
	List(ctx context.Context) ([]*models.Contact, error)
	Get(ctx context.Context, id int) (*models.Contact, error)
	Create(ctx context.Context, req types.ContactRequest) (*models.Contact, error)
	Delete(ctx context.Context, id int) error
	AddMethod(ctx context.Context, contactID int, req types.ContactMethodRequest) (*models.ContactMethod, error)
	AddToTower(ctx context.Context, towerID int, req types.TowerContactRequest) (*models.ContactMap, error)
}

type ContactService interface {
	List(ctx context.Context) ([]*models.Contact, error)
	Get(ctx context.Context, id int) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id int) error
	AddMethod(ctx context.Context, method *models.ContactMethod) error
	AddTowerContact(ctx context.Context, contactMap *models.ContactMap) error
}

var _ ContactService = (*services.ContactService)(nil)

type ContactController struct {
	contacts ContactService
	log      logger.Logger
}

func New(contacts ContactService) ContactControllerInterface {
	return &ContactController{
		contacts: contacts,
		log:      logger.New("contactController"),
	}
}

func (c *ContactController) List(ctx context.Context) ([]*models.Contact, error) {
	return c.contacts.List(ctx)
}

func (c *ContactController) Get(ctx context.Context, id int) (*models.Contact, error) {
	return c.contacts.Get(ctx, id)
}

func (c *ContactController) Create(ctx context.Context, req types.ContactRequest) (*models.Contact, error) {
	if err := types.ValidateRequest(req); err != nil {
		return nil, err
	}

	contact := req.ToModel()
	if err := c.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (c *ContactController) Delete(ctx context.Context, id int) error {
	return c.contacts.Delete(ctx, id)
}

func (c *ContactController) AddMethod(
	ctx context.Context,
	contactID int,
	req types.ContactMethodRequest,
) (*models.ContactMethod, error) {
	if err := types.ValidateRequest(req); err != nil {
		return nil, err
	}

	method := req.ToModel(contactID)
	if err := c.contacts.AddMethod(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}

func (c *ContactController) AddToTower(
	ctx context.Context,
	towerID int,
	req types.TowerContactRequest,
) (*models.ContactMap, error) {
	log := c.log.TraceFromContext(ctx).Function("AddToTower")

	if err := types.ValidateRequest(req); err != nil {
		return nil, err
	}

	contactMap := &models.ContactMap{
		TowerID:   towerID,
		ContactID: req.ContactID,
		Role:      req.Role,
	}
	if err := c.contacts.AddTowerContact(ctx, contactMap); err != nil {
		return nil, err
	}

	log.Debug("Tower contact added", "towerID", towerID, "contactID", req.ContactID)
	return contactMap, nil
}
