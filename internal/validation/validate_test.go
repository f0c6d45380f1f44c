package validation

import (
	"errors"
	"strings"
	"testing"

	"towerdb/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func baseTower() *models.Tower {
	return &models.Tower{
		Place:      "Ely",
		Dedication: "Cathedral",
		District:   models.DistrictEly,
		Ringing:    models.RingingRegular,
	}
}

func rulesOf(errs Errors) []Rule {
	var rules []Rule
	for _, err := range errs.ConsistencyErrors() {
		rules = append(rules, err.Rule)
	}
	return rules
}

func TestValidate_BlankOptionalFieldsAreValid(t *testing.T) {
	errs := Validate(baseTower())

	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

func TestValidate_CompleteValidTower(t *testing.T) {
	tower := baseTower()
	tower.Bells = intPtr(8)
	tower.Service = "Sundays 09:45"
	tower.Practice = "Tuesdays 19:30 (2nd and 4th)"
	tower.Day = models.Tuesday
	tower.Week = "2nd, 4th"
	tower.Weight = "15-3-13"
	tower.Note = "E"
	tower.OSGrid = "TL541802"
	tower.Postcode = "CB7 4DL"
	tower.Website = "https://www.elycathedral.org"

	assert.Empty(t, Validate(tower))
}

func TestValidate_FieldErrorsInDeclarationOrder(t *testing.T) {
	tower := baseTower()
	tower.Bells = intPtr(2)
	tower.Service = "Sundays 9:45"
	tower.Weight = "heavy"
	tower.Note = "Cb"
	tower.OSGrid = "AB123456"
	tower.Postcode = "nowhere"

	errs := ValidateFields(tower)
	require.Len(t, errs, 6)

	fields := make([]string, 0, len(errs))
	for _, err := range errs.FieldErrors() {
		fields = append(fields, err.Field)
	}
	assert.Equal(t, []string{"bells", "service", "weight", "note", "os_grid", "postcode"}, fields)

	assert.Equal(t, "bells: Number of bells must be between 3 and 12", errs[0].Error())
	assert.Equal(t, "Sundays 9:45", errs.FieldErrors()[1].Value)
}

func TestValidate_FieldErrorsBeforeConsistencyErrors(t *testing.T) {
	tower := baseTower()
	tower.Ringing = models.RingingNone
	tower.Practice = "7:30pm Tuesdays"

	errs := Validate(tower)
	require.NotEmpty(t, errs)

	var fieldErr *FieldFormatError
	assert.True(t, errors.As(errs[0], &fieldErr))
	assert.Equal(t, "practice", fieldErr.Field)

	var consistencyErr *ConsistencyError
	assert.True(t, errors.As(errs[len(errs)-1], &consistencyErr))

	assert.Equal(t, []Rule{RuleRingingService, RulePracticeDay}, rulesOf(errs))
	assert.Contains(t, errs.ConsistencyErrors()[0].Message, "inconsistent with Service/Practice")
}

func TestValidate_Idempotent(t *testing.T) {
	tower := baseTower()
	tower.Ringing = models.RingingNone
	tower.Practice = "1st Monday 9:30, check first"
	tower.Week = "3rd, BH"
	tower.Note = "E#"

	first := Validate(tower)
	second := Validate(tower)

	assert.Equal(t, first.Messages(), second.Messages())
	assert.NotEmpty(t, first)
}

func TestValidate_InvalidChoicesAndLength(t *testing.T) {
	tower := baseTower()
	tower.District = "X"
	tower.County = "Z"
	tower.RingType = "Bucket"
	tower.Place = strings.Repeat("a", 101)

	errs := ValidateFields(tower)
	require.Len(t, errs, 4)

	fields := []string{}
	for _, err := range errs.FieldErrors() {
		fields = append(fields, err.Field)
	}
	assert.Equal(t, []string{"place", "county", "district", "ring_type"}, fields)
}

func TestCheckRequired(t *testing.T) {
	assert.NoError(t, CheckRequired(baseTower()))

	err := CheckRequired(&models.Tower{Place: "Ely"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))
	assert.Contains(t, err.Error(), "dedication, district, ringing")

	assert.ErrorIs(t, CheckRequired(nil), ErrMissingField)
}

func TestErrors_Err(t *testing.T) {
	var empty Errors
	assert.NoError(t, empty.Err())

	errs := Errors{formatError("one"), formatError("two")}
	err := errs.Err()
	require.Error(t, err)
	assert.Equal(t, "one; two", err.Error())

	var recovered Errors
	assert.True(t, errors.As(err, &recovered))
	assert.Len(t, recovered, 2)
}

func TestValidate_RecordFieldsBeforeStoredFields(t *testing.T) {
	tower := baseTower()
	tower.Place = strings.Repeat("a", 101)
	tower.Bells = intPtr(13)
	tower.Notes = strings.Repeat("n", 101)
	tower.Postcode = "CB7 4DL (rear gate)"

	fields := []string{}
	for _, err := range ValidateFields(tower).FieldErrors() {
		fields = append(fields, err.Field)
	}
	assert.Equal(t, []string{"bells", "postcode", "postcode", "place", "notes"}, fields)
}

func TestErrors_Unstorable(t *testing.T) {
	tower := baseTower()
	tower.Note = "EEEEEEEEEEEE"
	lat := decimal.RequireFromString("152.1")
	tower.Lat = &lat
	tower.Weight = "heavy"

	errs := Validate(tower)
	require.Len(t, errs.FieldErrors(), 4)

	fields := []string{}
	for _, err := range errs.Unstorable() {
		fields = append(fields, err.Field)
	}
	assert.Equal(t, []string{"note", "lat"}, fields)

	assert.Empty(t, Validate(baseTower()).Unstorable())
}
