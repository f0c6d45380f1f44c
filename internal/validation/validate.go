// Package validation checks tower records before they are stored.
//
// Validate is pure: it depends only on the record and fixed pattern tables,
// so records can be validated concurrently without coordination.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"towerdb/internal/models"

	"github.com/shopspring/decimal"
)

type fieldRule struct {
	field string
	value func(t *models.Tower) (string, bool)
	check []StringValidator
}

func text(field string, get func(t *models.Tower) string, check ...StringValidator) fieldRule {
	return fieldRule{
		field: field,
		value: func(t *models.Tower) (string, bool) {
			v := get(t)
			return v, v != ""
		},
		check: check,
	}
}

func decimalText(field string, get func(t *models.Tower) *decimal.Decimal, check ...StringValidator) fieldRule {
	return fieldRule{
		field: field,
		value: func(t *models.Tower) (string, bool) {
			if d := get(t); d != nil {
				return d.String(), true
			}
			return "", false
		},
		check: check,
	}
}

func validBells(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return formatError("Enter a whole number")
	}
	return ValidateBells(n)
}

// fieldRules sets the order of field errors. The first block is the
// validated record's own field list, bells through postcode. The second
// holds the remaining stored fields in models.Tower declaration order.
var fieldRules = []fieldRule{
	{
		field: "bells",
		value: func(t *models.Tower) (string, bool) {
			if t.Bells == nil {
				return "", false
			}
			return strconv.Itoa(*t.Bells), true
		},
		check: []StringValidator{validBells},
	},
	text("service", func(t *models.Tower) string { return t.Service }, MaxLength(200), ValidateTime),
	text("practice", func(t *models.Tower) string { return t.Practice }, MaxLength(200), ValidateTime),
	text("day", func(t *models.Tower) string { return string(t.Day) },
		MaxLength(9), Choice(func(v string) bool { return models.Day(v).IsValid() })),
	text("week", func(t *models.Tower) string { return t.Week }, MaxLength(50)),
	text("ringing", func(t *models.Tower) string { return string(t.Ringing) },
		MaxLength(20), Choice(func(v string) bool { return models.RingingStatus(v).IsValid() })),
	text("weight", func(t *models.Tower) string { return t.Weight }, MaxLength(50), ValidateWeight),
	text("note", func(t *models.Tower) string { return t.Note }, MaxLength(10), ValidateNote),
	text("os_grid", func(t *models.Tower) string { return t.OSGrid }, MaxLength(8), ValidateGrid),
	text("postcode", func(t *models.Tower) string { return t.Postcode }, MaxLength(10), ValidatePostcode),

	text("place", func(t *models.Tower) string { return t.Place }, MaxLength(100)),
	text("county", func(t *models.Tower) string { return string(t.County) },
		MaxLength(100), Choice(func(v string) bool { return models.County(v).IsValid() })),
	text("dedication", func(t *models.Tower) string { return t.Dedication }, MaxLength(100)),
	text("full_dedication", func(t *models.Tower) string { return t.FullDedication }, MaxLength(100)),
	text("nickname", func(t *models.Tower) string { return t.Nickname }, MaxLength(100)),
	text("district", func(t *models.Tower) string { return string(t.District) },
		MaxLength(10), Choice(func(v string) bool { return models.District(v).IsValid() })),
	text("ring_type", func(t *models.Tower) string { return string(t.RingType) },
		MaxLength(20), Choice(func(v string) bool { return models.RingType(v).IsValid() })),
	decimalText("lat", func(t *models.Tower) *decimal.Decimal { return t.Lat }, MaxDigits(5, 3)),
	decimalText("lng", func(t *models.Tower) *decimal.Decimal { return t.Lng }, MaxDigits(5, 3)),
	text("website", func(t *models.Tower) string { return t.Website }, MaxLength(200), ValidateURL),
	text("contact_restrictions", func(t *models.Tower) string { return string(t.ContactRestrictions) },
		MaxLength(10), Choice(func(v string) bool { return models.ContactRestriction(v).IsValid() })),
	text("dove_towerid", func(t *models.Tower) string { return t.DoveTowerID }, MaxLength(10)),
	text("dove_ringid", func(t *models.Tower) string { return t.DoveRingID }, MaxLength(10)),
	text("towerbase_id", func(t *models.Tower) string { return t.TowerbaseID }, MaxLength(10)),
	text("notes", func(t *models.Tower) string { return t.Notes }, MaxLength(100)),
}

// ValidateFields runs every per-field check. Blank optional fields are
// always valid.
func ValidateFields(t *models.Tower) Errors {
	var errs Errors
	for _, rule := range fieldRules {
		value, present := rule.value(t)
		if !present {
			continue
		}
		for _, check := range rule.check {
			err := check(value)
			if err == nil {
				continue
			}
			if fieldErr, ok := err.(*FieldFormatError); ok {
				errs = append(errs, &FieldFormatError{
					Field:   rule.field,
					Value:   value,
					Message: fieldErr.Message,
					TooLong: fieldErr.TooLong,
				})
				continue
			}
			errs = append(errs, err)
		}
	}
	return errs
}

// Validate runs the field checks then the consistency rules and returns every
// failure, field errors first. An empty result means the record is valid.
func Validate(t *models.Tower) Errors {
	errs := ValidateFields(t)
	errs = append(errs, CheckConsistency(t)...)
	return errs
}

// CheckRequired reports the structural fields a record was built without.
func CheckRequired(t *models.Tower) error {
	if t == nil {
		return fmt.Errorf("%w: tower is nil", ErrMissingField)
	}
	if missing := t.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}
