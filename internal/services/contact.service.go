package services

import (
	"context"
	"errors"
	"fmt"

	"towerdb/internal/database"
	. "towerdb/internal/models"
	"towerdb/internal/repositories"
	"towerdb/pkg/logger"

	"gorm.io/gorm"
)

var ErrInvalidContact = errors.New("contact record is invalid")

type ContactService struct {
	db          database.DB
	contacts    repositories.ContactRepository
	towers      repositories.TowerRepository
	transaction *TransactionService
	log         logger.Logger
}

func NewContactService(
	db database.DB,
	contacts repositories.ContactRepository,
	towers repositories.TowerRepository,
	transaction *TransactionService,
) *ContactService {
	return &ContactService{
		db:          db,
		contacts:    contacts,
		towers:      towers,
		transaction: transaction,
		log:         logger.New("contactService"),
	}
}

func (s *ContactService) List(ctx context.Context) ([]*Contact, error) {
	return s.contacts.List(ctx, s.db.SQL)
}

func (s *ContactService) Get(ctx context.Context, id int) (*Contact, error) {
	return s.contacts.GetByID(ctx, s.db.SQL, id)
}

func (s *ContactService) Create(ctx context.Context, contact *Contact) error {
	log := s.log.TraceFromContext(ctx).Function("Create")

	for i := range contact.Methods {
		if err := checkContactMethod(&contact.Methods[i]); err != nil {
			return err
		}
	}

	if err := s.contacts.Create(ctx, s.db.SQL, contact); err != nil {
		return err
	}

	log.Info("Contact created", "contactID", contact.ID, "methods", len(contact.Methods))
	return nil
}

func (s *ContactService) Delete(ctx context.Context, id int) error {
	if err := s.contacts.Delete(ctx, s.db.SQL, id); err != nil {
		return err
	}

	// the contact may be shown on any tower
	return s.towers.ClearCache(ctx, nil)
}

func (s *ContactService) AddMethod(ctx context.Context, method *ContactMethod) error {
	if err := checkContactMethod(method); err != nil {
		return err
	}

	if err := s.contacts.AddMethod(ctx, s.db.SQL, method); err != nil {
		return err
	}

	return s.towers.ClearCache(ctx, nil)
}

// AddTowerContact links an existing contact to an existing tower with a role.
func (s *ContactService) AddTowerContact(ctx context.Context, contactMap *ContactMap) error {
	log := s.log.TraceFromContext(ctx).Function("AddTowerContact")

	if !contactMap.Role.IsValid() {
		return fmt.Errorf("%w: role %q is not a valid choice", ErrInvalidContact, contactMap.Role)
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := s.towers.GetByID(ctx, tx, contactMap.TowerID); err != nil {
			return err
		}
		if _, err := s.contacts.GetByID(ctx, tx, contactMap.ContactID); err != nil {
			return err
		}
		return s.contacts.AddTowerContact(ctx, tx, contactMap)
	})
	if err != nil {
		return err
	}

	log.Info(
		"Contact linked to tower",
		"towerID", contactMap.TowerID,
		"contactID", contactMap.ContactID,
		"role", contactMap.Role,
	)

	id := contactMap.TowerID
	return s.towers.ClearCache(ctx, &id)
}

func checkContactMethod(method *ContactMethod) error {
	if !method.ContactType.IsValid() {
		return fmt.Errorf("%w: contact type %q is not a valid choice", ErrInvalidContact, method.ContactType)
	}
	if method.ContactValue == "" {
		return fmt.Errorf("%w: contact value is required", ErrInvalidContact)
	}
	return nil
}
