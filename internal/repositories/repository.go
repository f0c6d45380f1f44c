package repositories

import (
	"towerdb/internal/database"
)

type Repository struct {
	Tower     TowerRepository
	Contact   ContactRepository
	ImportRun ImportRunRepository
}

func New(db database.DB) Repository {
	return Repository{
		Tower:     NewTowerRepository(db.Cache.Tower),
		Contact:   NewContactRepository(),
		ImportRun: NewImportRunRepository(),
	}
}
