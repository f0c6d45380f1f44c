package controllers

import (
	"towerdb/internal/events"
	"towerdb/internal/services"

	adminController "towerdb/internal/controllers/admin"
	contactController "towerdb/internal/controllers/contacts"
	towerController "towerdb/internal/controllers/towers"
)

type Controllers struct {
	Tower   towerController.TowerControllerInterface
	Contact contactController.ContactControllerInterface
	Admin   adminController.AdminControllerInterface
}

func New(services services.Service, eventBus *events.EventBus) Controllers {
	return Controllers{
		Tower:   towerController.New(services.Tower),
		Contact: contactController.New(services.Contact),
		Admin:   adminController.New(services.Import, services.Scheduler, eventBus),
	}
}
