package app

import (
	"context"

	"towerdb/config"
	"towerdb/internal/controllers"
	"towerdb/internal/database"
	"towerdb/internal/events"
	"towerdb/internal/handlers/middleware"
	"towerdb/internal/jobs"
	"towerdb/internal/repositories"
	"towerdb/internal/services"
	"towerdb/pkg/logger"
)

type App struct {
	Database     database.DB
	Middleware   middleware.Middleware
	EventBus     *events.EventBus
	Config       config.Config
	Repositories repositories.Repository
	Services     services.Service
	Controllers  controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New(db)
	service := services.New(db, repos, config, eventBus)

	if err := service.Cache.Register(eventBus); err != nil {
		return &App{}, log.Err("failed to register cache invalidation", err)
	}

	if err := jobs.RegisterAllJobs(service.Scheduler, config, service); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}
	if config.SchedulerEnabled {
		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:     db,
		Config:       config,
		Middleware:   middleware.New(config),
		EventBus:     eventBus,
		Repositories: repos,
		Services:     service,
		Controllers:  controllers.New(service, eventBus),
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Tower,
		a.Services.Contact,
		a.Services.Import,
		a.Repositories.Tower,
		a.Repositories.Contact,
		a.Repositories.ImportRun,
		a.Controllers.Tower,
		a.Controllers.Contact,
		a.Controllers.Admin,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
