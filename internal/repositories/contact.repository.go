package repositories

import (
	"context"
	"errors"

	. "towerdb/internal/models"
	"towerdb/pkg/logger"

	"gorm.io/gorm"
)

var (
	ErrContactNotFound        = errors.New("contact not found")
	ErrDuplicateContactMethod = errors.New("contact already has this contact method")
)

type ContactRepository interface {
	List(ctx context.Context, tx *gorm.DB) ([]*Contact, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Contact, error)
	Create(ctx context.Context, tx *gorm.DB, contact *Contact) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
	AddMethod(ctx context.Context, tx *gorm.DB, method *ContactMethod) error
	AddTowerContact(ctx context.Context, tx *gorm.DB, contactMap *ContactMap) error
}

type contactRepository struct {
	log logger.Logger
}

func NewContactRepository() ContactRepository {
	return &contactRepository{
		log: logger.New("contactRepository"),
	}
}

func (r *contactRepository) List(ctx context.Context, tx *gorm.DB) ([]*Contact, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	var contacts []*Contact
	if err := tx.WithContext(ctx).
		Preload("Methods").
		Order("name ASC").
		Find(&contacts).Error; err != nil {
		return nil, log.Err("failed to list contacts", err)
	}

	return contacts, nil
}

func (r *contactRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Contact, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var contact Contact
	if err := tx.WithContext(ctx).Preload("Methods").First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, log.Err("failed to get contact", err, "contactID", id)
	}

	return &contact, nil
}

// Create stores the contact together with any methods it carries.
func (r *contactRepository) Create(ctx context.Context, tx *gorm.DB, contact *Contact) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Create(contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateContactMethod
		}
		return log.Err("failed to create contact", err, "contact", contact.String())
	}

	return nil
}

func (r *contactRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	result := tx.WithContext(ctx).Delete(&Contact{}, id)
	if result.Error != nil {
		return log.Err("failed to delete contact", result.Error, "contactID", id)
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}

	return nil
}

func (r *contactRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("DeleteAll")

	result := tx.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Contact{})
	if result.Error != nil {
		return 0, log.Err("failed to delete contacts", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *contactRepository) AddMethod(ctx context.Context, tx *gorm.DB, method *ContactMethod) error {
	log := r.log.TraceFromContext(ctx).Function("AddMethod")

	if err := tx.WithContext(ctx).Create(method).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return ErrDuplicateContactMethod
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return ErrContactNotFound
		}
		return log.Err("failed to add contact method", err, "contactID", method.ContactID)
	}

	return nil
}

func (r *contactRepository) AddTowerContact(
	ctx context.Context,
	tx *gorm.DB,
	contactMap *ContactMap,
) error {
	log := r.log.TraceFromContext(ctx).Function("AddTowerContact")

	if err := tx.WithContext(ctx).Omit("Tower", "Contact").Create(contactMap).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrContactNotFound
		}
		return log.Err(
			"failed to add tower contact",
			err,
			"towerID",
			contactMap.TowerID,
			"contactID",
			contactMap.ContactID,
		)
	}

	return nil
}
