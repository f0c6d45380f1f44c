package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTower_String(t *testing.T) {
	tower := &Tower{Place: "Ely", Dedication: "Cathedral"}
	assert.Equal(t, "Ely  Cathedral", tower.String())
}

func TestTower_BeforeSave(t *testing.T) {
	tower := &Tower{Place: "Ely", Dedication: "Cathedral", District: DistrictEly, Ringing: RingingRegular}
	assert.NoError(t, tower.BeforeSave(nil))
	assert.Equal(t, CountyCambridgeshire, tower.County)
	assert.Equal(t, RestrictionNone, tower.ContactRestrictions)

	missing := &Tower{Place: "Ely"}
	assert.Equal(t, []string{"dedication", "district", "ringing"}, missing.MissingFields())
	assert.ErrorIs(t, missing.BeforeSave(nil), gorm.ErrInvalidValue)
}

func TestContact_String(t *testing.T) {
	tests := []struct {
		name     string
		contact  Contact
		expected string
	}{
		{name: "named", contact: Contact{Name: "A. Ringer"}, expected: "A. Ringer"},
		{
			name: "methods only",
			contact: Contact{Methods: []ContactMethod{
				{ContactType: ContactTypeEmail, ContactValue: "a@example.org"},
				{ContactType: ContactTypePhone, ContactValue: "01353 000000"},
			}},
			expected: "-no name- (Email: a@example.org / Phone: 01353 000000)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.contact.String())
		})
	}
}

func TestContactMap_BeforeSave(t *testing.T) {
	valid := &ContactMap{Role: RoleTowerCaptain, TowerID: 1, ContactID: 2}
	assert.NoError(t, valid.BeforeSave(nil))

	badRole := &ContactMap{Role: "Verger", TowerID: 1, ContactID: 2}
	assert.ErrorIs(t, badRole.BeforeSave(nil), gorm.ErrInvalidValue)
}

func TestChoices(t *testing.T) {
	assert.True(t, DistrictEly.IsValid())
	assert.False(t, District("X").IsValid())
	assert.Equal(t, "Ely", DistrictEly.DisplayName())
	assert.Equal(t, "Tuesday", Tuesday.DisplayName())
}
