package models

import (
	"strings"

	"gorm.io/gorm"
)

type Contact struct {
	BaseModel
	Name    string          `gorm:"type:varchar(100);index"                         json:"name"`
	Publish bool            `gorm:"type:bool;default:true;not null"                 json:"publish"`
	Methods []ContactMethod `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"methods,omitempty"`
}

// String is the contact's name, or its contact methods when it has no name.
func (c *Contact) String() string {
	if c.Name != "" {
		return c.Name
	}

	methods := make([]string, 0, len(c.Methods))
	for _, m := range c.Methods {
		methods = append(methods, m.String())
	}
	return "-no name- (" + strings.Join(methods, " / ") + ")"
}

// ContactMap links a tower to one of its other contacts.
type ContactMap struct {
	BaseModel
	Role      ContactRole `gorm:"type:varchar(30);not null"                         json:"role"`
	TowerID   int         `gorm:"not null;index"                                    json:"towerId"`
	Tower     *Tower      `gorm:"foreignKey:TowerID"                                json:"-"`
	ContactID int         `gorm:"not null;index"                                    json:"contactId"`
	Contact   *Contact    `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"  json:"contact,omitempty"`
}

func (m *ContactMap) String() string {
	tower, contact := "", ""
	if m.Tower != nil {
		tower = m.Tower.String()
	}
	if m.Contact != nil {
		contact = m.Contact.String()
	}
	return string(m.Role) + " - " + tower + " " + contact
}

func (m *ContactMap) BeforeSave(tx *gorm.DB) (err error) {
	if !m.Role.IsValid() {
		return gorm.ErrInvalidValue
	}
	if m.TowerID == 0 || m.ContactID == 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}

type ContactMethod struct {
	BaseModel
	ContactType  ContactType `gorm:"type:varchar(5);not null;uniqueIndex:idx_contact_method_unique,priority:2"   json:"contactType"`
	ContactValue string      `gorm:"type:varchar(200);not null;uniqueIndex:idx_contact_method_unique,priority:3" json:"contactValue"`
	ContactID    int         `gorm:"not null;uniqueIndex:idx_contact_method_unique,priority:1"                   json:"contactId"`
}

func (m *ContactMethod) String() string {
	return string(m.ContactType) + ": " + m.ContactValue
}

func (m *ContactMethod) BeforeSave(tx *gorm.DB) (err error) {
	if !m.ContactType.IsValid() || m.ContactValue == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
