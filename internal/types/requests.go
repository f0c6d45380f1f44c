package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"towerdb/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalidRequest is returned when a request body is missing required
// values or breaks a length limit.
var ErrInvalidRequest = errors.New("invalid request")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequest checks the validate tags of a request struct. Every
// failing field is listed in the returned error.
func ValidateRequest(request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages = append(messages, describe(fieldError))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(messages, "; "))
}

func describe(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return fieldError.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fieldError.Field(), fieldError.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fieldError.Field(), fieldError.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fieldError.Field(), fieldError.Param())
	}
	return fmt.Sprintf("%s failed %s", fieldError.Field(), fieldError.Tag())
}

// TowerRequest is the editable part of a tower. Format and consistency
// rules are checked by the validation package, not by tags.
type TowerRequest struct {
	Place               string                    `json:"place"                 validate:"required,max=100"`
	County              models.County             `json:"county"`
	Dedication          string                    `json:"dedication"            validate:"required,max=100"`
	FullDedication      string                    `json:"fullDedication"`
	Nickname            string                    `json:"nickname"`
	District            models.District           `json:"district"              validate:"required"`
	IncludeDedication   bool                      `json:"includeDedication"`
	Ringing             models.RingingStatus      `json:"ringing"               validate:"required"`
	Report              bool                      `json:"report"`
	Service             string                    `json:"service"`
	Practice            string                    `json:"practice"`
	Day                 models.Day                `json:"day"`
	Week                string                    `json:"week"`
	CheckBeforeTravel   bool                      `json:"checkBeforeTravelling"`
	Bells               *int                      `json:"bells"`
	RingType            models.RingType           `json:"ringType"`
	Weight              string                    `json:"weight"`
	Note                string                    `json:"note"`
	GroundFloor         *bool                     `json:"groundFloor"`
	OSGrid              string                    `json:"osGrid"`
	Postcode            string                    `json:"postcode"`
	Lat                 *decimal.Decimal          `json:"lat"`
	Lng                 *decimal.Decimal          `json:"lng"`
	Website             string                    `json:"website"`
	PrimaryContactID    *int                      `json:"primaryContactId"`
	ContactRestrictions models.ContactRestriction `json:"contactRestrictions"`
	Peals               *int                      `json:"peals"`
	DoveTowerID         string                    `json:"doveTowerId"`
	DoveRingID          string                    `json:"doveRingId"`
	TowerbaseID         string                    `json:"towerbaseId"`
	Notes               string                    `json:"notes"`
	LongNotes           string                    `json:"longNotes"`
	MaintainerNotes     string                    `json:"maintainerNotes"`
}

func (r TowerRequest) ToModel() *models.Tower {
	return &models.Tower{
		Place:               strings.TrimSpace(r.Place),
		County:              r.County,
		Dedication:          strings.TrimSpace(r.Dedication),
		FullDedication:      r.FullDedication,
		Nickname:            r.Nickname,
		District:            r.District,
		IncludeDedication:   r.IncludeDedication,
		Ringing:             r.Ringing,
		Report:              r.Report,
		Service:             r.Service,
		Practice:            r.Practice,
		Day:                 r.Day,
		Week:                r.Week,
		CheckBeforeTravel:   r.CheckBeforeTravel,
		Bells:               r.Bells,
		RingType:            r.RingType,
		Weight:              r.Weight,
		Note:                r.Note,
		GroundFloor:         r.GroundFloor,
		OSGrid:              r.OSGrid,
		Postcode:            r.Postcode,
		Lat:                 r.Lat,
		Lng:                 r.Lng,
		Website:             r.Website,
		PrimaryContactID:    r.PrimaryContactID,
		ContactRestrictions: r.ContactRestrictions,
		Peals:               r.Peals,
		DoveTowerID:         r.DoveTowerID,
		DoveRingID:          r.DoveRingID,
		TowerbaseID:         r.TowerbaseID,
		Notes:               r.Notes,
		LongNotes:           r.LongNotes,
		MaintainerNotes:     r.MaintainerNotes,
	}
}

// TowerSummary is one row of the tower list.
type TowerSummary struct {
	ID         int    `json:"id"`
	Place      string `json:"place"`
	Dedication string `json:"dedication"`
	District   string `json:"district"`
	Bells      *int   `json:"bells,omitempty"`
}

func NewTowerSummary(tower *models.Tower) TowerSummary {
	return TowerSummary{
		ID:         tower.ID,
		Place:      tower.Place,
		Dedication: tower.Dedication,
		District:   tower.District.DisplayName(),
		Bells:      tower.Bells,
	}
}

// CheckResponse is the result of validating a tower without saving it.
type CheckResponse struct {
	Valid             bool     `json:"valid"`
	Errors            []string `json:"errors"`
	FieldErrors       []any    `json:"fieldErrors"`
	ConsistencyErrors []any    `json:"consistencyErrors"`
}

type ContactMethodRequest struct {
	ContactType  models.ContactType `json:"contactType"  validate:"required,oneof=Email Phone Other"`
	ContactValue string             `json:"contactValue" validate:"required,max=200"`
}

func (r ContactMethodRequest) ToModel(contactID int) *models.ContactMethod {
	return &models.ContactMethod{
		ContactType:  r.ContactType,
		ContactValue: strings.TrimSpace(r.ContactValue),
		ContactID:    contactID,
	}
}

type ContactRequest struct {
	Name    string                 `json:"name"    validate:"max=100"`
	Publish *bool                  `json:"publish"`
	Methods []ContactMethodRequest `json:"methods" validate:"dive"`
}

// ToModel builds the contact; publish defaults to true.
func (r ContactRequest) ToModel() *models.Contact {
	contact := &models.Contact{Name: strings.TrimSpace(r.Name), Publish: true}
	if r.Publish != nil {
		contact.Publish = *r.Publish
	}
	for _, method := range r.Methods {
		contact.Methods = append(contact.Methods, *method.ToModel(0))
	}
	return contact
}

type TowerContactRequest struct {
	ContactID int                `json:"contactId" validate:"required,gt=0"`
	Role      models.ContactRole `json:"role"      validate:"required,oneof=Contact 'Tower Captain' 'Ringing Master' Steeplekeeper"`
}
