package jobs

import (
	"towerdb/config"
	"towerdb/internal/services"
	"towerdb/pkg/logger"
)

// RegisterAllJobs registers all jobs with the scheduler service
func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	service services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	schedule := services.NIGHTLY
	if config.ReloadSchedule != "" {
		schedule = services.Schedule(config.ReloadSchedule)
	}

	reloadJob := NewTowerReloadJob(service.Import, schedule)
	if err := schedulerService.AddJob(reloadJob); err != nil {
		return log.Err("failed to register tower reload job", err, "schedule", schedule)
	}

	return nil
}
