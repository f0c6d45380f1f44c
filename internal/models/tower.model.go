package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Tower struct {
	BaseModel
	Place               string             `gorm:"type:varchar(100);not null;uniqueIndex:idx_tower_place_dedication,priority:1" json:"place"`
	County              County             `gorm:"type:varchar(100);not null;default:'C'"                                       json:"county"`
	Dedication          string             `gorm:"type:varchar(100);not null;uniqueIndex:idx_tower_place_dedication,priority:2" json:"dedication"`
	FullDedication      string             `gorm:"type:varchar(100)"                                                            json:"fullDedication"`
	Nickname            string             `gorm:"type:varchar(100)"                                                            json:"nickname"`
	District            District           `gorm:"type:varchar(10);not null;index"                                              json:"district"`
	IncludeDedication   bool               `gorm:"type:bool;default:false;not null"                                             json:"includeDedication"`
	Ringing             RingingStatus      `gorm:"type:varchar(20);not null;index"                                              json:"ringing"`
	Report              bool               `gorm:"type:bool;default:false;not null"                                             json:"report"`
	Service             string             `gorm:"type:varchar(200)"                                                            json:"service"`
	Practice            string             `gorm:"type:varchar(200)"                                                            json:"practice"`
	Day                 Day                `gorm:"type:varchar(9)"                                                              json:"day"`
	Week                string             `gorm:"type:varchar(50)"                                                             json:"week"`
	CheckBeforeTravel   bool               `gorm:"column:check_before_travelling;type:bool;default:false;not null"              json:"checkBeforeTravelling"`
	Bells               *int               `gorm:"type:integer"                                                                 json:"bells,omitempty"`
	RingType            RingType           `gorm:"type:varchar(20)"                                                             json:"ringType"`
	Weight              string             `gorm:"type:varchar(50)"                                                             json:"weight"`
	Note                string             `gorm:"type:varchar(10)"                                                             json:"note"`
	GroundFloor         *bool              `gorm:"column:gf;type:bool"                                                          json:"groundFloor,omitempty"`
	OSGrid              string             `gorm:"column:os_grid;type:varchar(8)"                                               json:"osGrid"`
	Postcode            string             `gorm:"type:varchar(10)"                                                             json:"postcode"`
	Lat                 *decimal.Decimal   `gorm:"type:numeric(5,3)"                                                            json:"lat,omitempty"`
	Lng                 *decimal.Decimal   `gorm:"type:numeric(5,3)"                                                            json:"lng,omitempty"`
	Website             string             `gorm:"type:varchar(200)"                                                            json:"website"`
	PrimaryContactID    *int               `gorm:"index"                                                                        json:"primaryContactId,omitempty"`
	PrimaryContact      *Contact           `gorm:"foreignKey:PrimaryContactID;constraint:OnDelete:SET NULL"                     json:"primaryContact,omitempty"`
	ContactRestrictions ContactRestriction `gorm:"type:varchar(10);not null;default:'None'"                                    json:"contactRestrictions"`
	OtherContacts       []ContactMap       `gorm:"foreignKey:TowerID;constraint:OnDelete:CASCADE"                               json:"otherContacts,omitempty"`
	Peals               *int               `gorm:"type:integer"                                                                 json:"peals,omitempty"`
	DoveTowerID         string             `gorm:"type:varchar(10)"                                                             json:"doveTowerId"`
	DoveRingID          string             `gorm:"type:varchar(10)"                                                             json:"doveRingId"`
	TowerbaseID         string             `gorm:"type:varchar(10)"                                                             json:"towerbaseId"`
	Notes               string             `gorm:"type:varchar(100)"                                                            json:"notes"`
	LongNotes           string             `gorm:"type:text"                                                                    json:"longNotes"`
	MaintainerNotes     string             `gorm:"type:text"                                                                    json:"maintainerNotes"`
}

func (t *Tower) String() string {
	return fmt.Sprintf("%s  %s", t.Place, t.Dedication)
}

// MissingFields lists the structural fields a tower cannot be stored without.
func (t *Tower) MissingFields() []string {
	var missing []string
	if t.Place == "" {
		missing = append(missing, "place")
	}
	if t.Dedication == "" {
		missing = append(missing, "dedication")
	}
	if t.District == "" {
		missing = append(missing, "district")
	}
	if t.Ringing == "" {
		missing = append(missing, "ringing")
	}
	return missing
}

func (t *Tower) BeforeSave(tx *gorm.DB) (err error) {
	if len(t.MissingFields()) > 0 {
		return gorm.ErrInvalidValue
	}
	if t.County == "" {
		t.County = CountyCambridgeshire
	}
	if t.ContactRestrictions == "" {
		t.ContactRestrictions = RestrictionNone
	}
	return nil
}
