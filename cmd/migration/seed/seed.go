package seed

import (
	"towerdb/internal/models"
	"towerdb/internal/validation"
	"towerdb/pkg/logger"

	"gorm.io/gorm"
)

func intPtr(n int) *int {
	return &n
}

type towerFixture struct {
	tower   models.Tower
	contact *models.Contact
}

// fixtures are development towers; every one must pass validation.
func fixtures() []towerFixture {
	return []towerFixture{
		{
			tower: models.Tower{
				Place:             "Ely",
				Dedication:        "Cathedral",
				FullDedication:    "Cathedral Church of the Holy and Undivided Trinity",
				County:            models.CountyCambridgeshire,
				District:          models.DistrictEly,
				Ringing:           models.RingingRegular,
				Report:            true,
				Service:           "Sunday 10:15",
				Practice:          "Tuesday 19:30",
				Day:               models.Tuesday,
				Bells:             intPtr(12),
				RingType:          models.RingTypeFullCircle,
				Weight:            "23-2-24",
				Note:              "D",
				OSGrid:            "TL541802",
				Postcode:          "CB7 4DL",
				Website:           "https://www.elycathedral.org",
				IncludeDedication: true,
			},
			contact: &models.Contact{
				Name:    "Tower Secretary",
				Publish: true,
				Methods: []models.ContactMethod{
					{ContactType: models.ContactTypeEmail, ContactValue: "ely.tower@example.org"},
				},
			},
		},
		{
			tower: models.Tower{
				Place:      "Soham",
				Dedication: "St Andrew",
				County:     models.CountyCambridgeshire,
				District:   models.DistrictEly,
				Ringing:    models.RingingRegular,
				Practice:   "Friday 19:30",
				Day:        models.Friday,
				Bells:      intPtr(10),
				RingType:   models.RingTypeFullCircle,
				Weight:     "15 cwt",
			},
		},
		{
			tower: models.Tower{
				Place:      "Cambridge",
				Dedication: "Great St Mary",
				County:     models.CountyCambridgeshire,
				District:   models.DistrictCambridge,
				Ringing:    models.RingingOccasional,
				Bells:      intPtr(12),
				RingType:   models.RingTypeFullCircle,
			},
		},
	}
}

func Seed(db *gorm.DB, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	for _, fixture := range fixtures() {
		tower := fixture.tower
		if errs := validation.Validate(&tower); len(errs) > 0 {
			return log.Err("invalid seed tower", errs, "tower", tower.String())
		}

		var existing models.Tower
		if err := db.First(&existing, "place = ? AND dedication = ?", tower.Place, tower.Dedication).Error; err == nil {
			log.Debug("Tower already exists", "tower", tower.String())
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if fixture.contact != nil {
				contact := *fixture.contact
				if err := tx.Create(&contact).Error; err != nil {
					return err
				}
				tower.PrimaryContactID = &contact.ID
			}
			return tx.Omit("OtherContacts").Create(&tower).Error
		})
		if err != nil {
			return log.Err("failed to create tower", err, "tower", tower.String())
		}
		log.Info("Seeded tower", "tower", tower.String())
	}

	return nil
}
