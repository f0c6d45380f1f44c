package services

import (
	"fmt"
	"strconv"
	"strings"

	. "towerdb/internal/models"

	"github.com/shopspring/decimal"
)

// columnConverter moves one spreadsheet column onto a tower. Blank cells
// leave the field at its zero value.
type columnConverter struct {
	column string
	apply  func(t *Tower, value string) error
}

func textColumn(column string, set func(t *Tower, value string)) columnConverter {
	return columnConverter{column: column, apply: func(t *Tower, value string) error {
		set(t, value)
		return nil
	}}
}

// flagColumn is true only for the literal "Yes".
func flagColumn(column string, set func(t *Tower, value bool)) columnConverter {
	return columnConverter{column: column, apply: func(t *Tower, value string) error {
		set(t, value == "Yes")
		return nil
	}}
}

func intColumn(column string, set func(t *Tower, value *int)) columnConverter {
	return columnConverter{column: column, apply: func(t *Tower, value string) error {
		if value == "" {
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a whole number", column, value)
		}
		set(t, &n)
		return nil
	}}
}

func decimalColumn(column string, set func(t *Tower, value *decimal.Decimal)) columnConverter {
	return columnConverter{column: column, apply: func(t *Tower, value string) error {
		if value == "" {
			return nil
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", column, value)
		}
		d = d.Round(3)
		set(t, &d)
		return nil
	}}
}

// lookupColumn maps spreadsheet wording to a choice code. A cell already
// holding a valid code is accepted as is.
func lookupColumn[T ~string](
	column string,
	names map[string]T,
	valid func(T) bool,
	set func(t *Tower, value T),
) columnConverter {
	return columnConverter{column: column, apply: func(t *Tower, value string) error {
		if value == "" {
			return nil
		}
		if code, ok := names[value]; ok {
			set(t, code)
			return nil
		}
		if valid(T(value)) {
			set(t, T(value))
			return nil
		}
		return fmt.Errorf("%s: unknown value %q", column, value)
	}}
}

var towerColumns = []columnConverter{
	textColumn("Place", func(t *Tower, v string) { t.Place = v }),
	textColumn("Dedication", func(t *Tower, v string) { t.Dedication = v }),
	textColumn("Full dedication", func(t *Tower, v string) { t.FullDedication = v }),
	textColumn("Nickname", func(t *Tower, v string) { t.Nickname = v }),
	textColumn("Service", func(t *Tower, v string) { t.Service = v }),
	textColumn("Practice", func(t *Tower, v string) { t.Practice = v }),
	textColumn("Week", func(t *Tower, v string) { t.Week = v }),
	textColumn("Weight", func(t *Tower, v string) { t.Weight = v }),
	textColumn("Note", func(t *Tower, v string) { t.Note = v }),
	textColumn("OS grid", func(t *Tower, v string) { t.OSGrid = v }),
	textColumn("Postcode", func(t *Tower, v string) { t.Postcode = v }),
	decimalColumn("Lat", func(t *Tower, v *decimal.Decimal) { t.Lat = v }),
	decimalColumn("Lng", func(t *Tower, v *decimal.Decimal) { t.Lng = v }),
	textColumn("Website", func(t *Tower, v string) { t.Website = v }),
	textColumn("Dove Tower ID", func(t *Tower, v string) { t.DoveTowerID = v }),
	textColumn("Dove Ring ID", func(t *Tower, v string) { t.DoveRingID = v }),
	textColumn("TowerBase ID", func(t *Tower, v string) { t.TowerbaseID = v }),
	textColumn("Notes", func(t *Tower, v string) { t.Notes = v }),
	textColumn("Longer notes", func(t *Tower, v string) { t.LongNotes = v }),
	textColumn("Maintainer notes", func(t *Tower, v string) { t.MaintainerNotes = v }),

	flagColumn("Include dedication", func(t *Tower, v bool) { t.IncludeDedication = v }),
	flagColumn("Report", func(t *Tower, v bool) { t.Report = v }),
	flagColumn("Check", func(t *Tower, v bool) { t.CheckBeforeTravel = v }),
	flagColumn("GF", func(t *Tower, v bool) { t.GroundFloor = &v }),

	lookupColumn("County", map[string]County{
		"Cambridgeshire": CountyCambridgeshire,
		"Norfolk":        CountyNorfolk,
	}, County.IsValid, func(t *Tower, v County) { t.County = v }),
	lookupColumn("District", map[string]District{
		"Cambridge":  DistrictCambridge,
		"Ely":        DistrictEly,
		"Huntingdon": DistrictHuntingdon,
		"Wisbech":    DistrictWisbech,
	}, District.IsValid, func(t *Tower, v District) { t.District = v }),
	lookupColumn("Day", map[string]Day{
		"Monday":    Monday,
		"Tuesday":   Tuesday,
		"Wednesday": Wednesday,
		"Thursday":  Thursday,
		"Friday":    Friday,
		"Saturday":  Saturday,
		"Sunday":    Sunday,
	}, Day.IsValid, func(t *Tower, v Day) { t.Day = v }),
	lookupColumn("Type", map[string]RingType{
		"Chime":         RingTypeChime,
		"Tubular Chime": RingTypeTubularChime,
		"Removed":       "",
		"Hung dead":     "",
	}, RingType.IsValid, func(t *Tower, v RingType) { t.RingType = v }),
	lookupColumn("Ringing", map[string]RingingStatus{
		"Regular ringing":    RingingRegular,
		"Occasional ringing": RingingOccasional,
		"No ringing":         RingingNone,
	}, RingingStatus.IsValid, func(t *Tower, v RingingStatus) { t.Ringing = v }),

	intColumn("Bells", func(t *Tower, v *int) { t.Bells = v }),
	intColumn("Peals", func(t *Tower, v *int) { t.Peals = v }),
}

// TowerFromRow converts one spreadsheet row. The Secretary column becomes a
// published primary contact with its Phone and Email. Conversion problems
// are returned as messages; the tower holds whatever did convert.
func TowerFromRow(row SheetRow) (*Tower, *Contact, []string) {
	tower := &Tower{
		County:              CountyCambridgeshire,
		ContactRestrictions: RestrictionNone,
	}

	var problems []string
	for _, converter := range towerColumns {
		if err := converter.apply(tower, row.Get(converter.column)); err != nil {
			problems = append(problems, err.Error())
		}
	}

	band, bells := row.Get("Band contact") != "", row.Get("Bells contact") != ""
	switch {
	case band && !bells:
		tower.ContactRestrictions = RestrictionBandOnly
	case bells && !band:
		tower.ContactRestrictions = RestrictionBellsOnly
	}

	return tower, contactFromRow(row), problems
}

func contactFromRow(row SheetRow) *Contact {
	name := row.Get("Secretary")
	if name == "" {
		return nil
	}

	contact := &Contact{Name: name, Publish: true}
	if phone := row.Get("Phone"); phone != "" {
		contact.Methods = append(contact.Methods, ContactMethod{ContactType: ContactTypePhone, ContactValue: phone})
	}
	if email := row.Get("Email"); email != "" {
		contact.Methods = append(contact.Methods, ContactMethod{ContactType: ContactTypeEmail, ContactValue: email})
	}
	return contact
}

func rowIsBlank(row SheetRow) bool {
	for _, value := range row.Cells {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
