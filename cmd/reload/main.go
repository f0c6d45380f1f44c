package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"towerdb/config"
	"towerdb/internal/database"
	"towerdb/internal/events"
	"towerdb/internal/repositories"
	"towerdb/internal/services"
	"towerdb/pkg/logger"
)

// reload replaces every tower and contact with the master spreadsheet and
// prints the per-row failures. It exits non-zero when the reload fails.
func main() {
	log := logger.New("reload").Function("main")

	config, err := config.New()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := database.New(config)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}

	eventBus := events.New(db.Cache.Events)
	service := services.New(db, repositories.New(db), config, eventBus)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	run, err := service.Import.Reload(ctx)
	stop()

	if run != nil {
		for _, failure := range run.Failures {
			log.Warn("Row failed validation",
				"row", failure.Row,
				"tower", failure.Place+"  "+failure.Dedication,
				"stored", failure.Stored,
				"errors", failure.Errors,
			)
		}
	}

	if closeErr := eventBus.Close(); closeErr != nil {
		log.Er("failed to close event bus", closeErr)
	}
	if closeErr := db.Close(); closeErr != nil {
		log.Er("failed to close database", closeErr)
	}

	if err != nil {
		log.Er("reload failed", err)
		os.Exit(1)
	}

	log.Info("Reload complete",
		"towersCreated", run.TowersCreated,
		"contactsCreated", run.ContactsCreated,
		"rowsInvalid", run.RowsInvalid,
		"rowsSkipped", run.RowsSkipped,
	)
}
