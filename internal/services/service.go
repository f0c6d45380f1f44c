package services

import (
	"towerdb/config"
	"towerdb/internal/database"
	"towerdb/internal/events"
	"towerdb/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Tower       *TowerService
	Contact     *ContactService
	Spreadsheet *SpreadsheetService
	Import      *ImportService
	Cache       *CacheInvalidationService
}

func New(
	db database.DB,
	repos repositories.Repository,
	config config.Config,
	eventBus *events.EventBus,
) Service {
	transactionService := NewTransactionService(db)
	spreadsheetService := NewSpreadsheetService(config)

	return Service{
		Transaction: transactionService,
		Scheduler:   NewSchedulerService(),
		Tower:       NewTowerService(db, repos.Tower, eventBus),
		Contact:     NewContactService(db, repos.Contact, repos.Tower, transactionService),
		Spreadsheet: spreadsheetService,
		Import: NewImportService(
			db,
			repos,
			transactionService,
			spreadsheetService,
			eventBus,
			config,
		),
		Cache: NewCacheInvalidationService(repos.Tower),
	}
}
