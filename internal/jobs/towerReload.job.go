package jobs

import (
	"context"

	"towerdb/internal/models"
	"towerdb/internal/services"
	"towerdb/pkg/logger"
)

const TOWER_RELOAD_JOB = "NightlyTowerReload"

// Reloader is the part of the import service the job drives.
type Reloader interface {
	Reload(ctx context.Context) (*models.ImportRun, error)
}

type TowerReloadJob struct {
	reloader Reloader
	log      logger.Logger
	schedule services.Schedule
}

func NewTowerReloadJob(reloader Reloader, schedule services.Schedule) *TowerReloadJob {
	log := logger.New("towerReloadJob")
	log.Info("Creating new tower reload job", "schedule", schedule)

	return &TowerReloadJob{
		reloader: reloader,
		log:      log,
		schedule: schedule,
	}
}

func (j *TowerReloadJob) Name() string {
	return TOWER_RELOAD_JOB
}

func (j *TowerReloadJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	run, err := j.reloader.Reload(ctx)
	if err != nil {
		return log.Err("scheduled reload failed", err)
	}

	log.Info("Scheduled reload completed",
		"importRunID", run.ID,
		"towersCreated", run.TowersCreated,
		"rowsInvalid", run.RowsInvalid,
	)
	return nil
}

func (j *TowerReloadJob) Schedule() services.Schedule {
	return j.schedule
}
