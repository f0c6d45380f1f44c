package database

import (
	"towerdb/internal/models"
	"towerdb/pkg/logger"
)

// Models lists every table AutoMigrate manages, parents before children.
var Models = []any{
	&models.Contact{},
	&models.ContactMethod{},
	&models.Tower{},
	&models.ContactMap{},
	&models.ImportRun{},
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range Models {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}
