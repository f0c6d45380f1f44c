package admin

import (
	"context"
	"strconv"
	"time"

	"towerdb/internal/jobs"
	"towerdb/internal/models"
	"towerdb/internal/services"
	"towerdb/pkg/logger"
)

const DEFAULT_RUN_LIMIT = 10

type AdminControllerInterface interface {
	Reload(ctx context.Context) (*models.ImportRun, error)
	TriggerReload(ctx context.Context) error
	ImportRuns(ctx context.Context, limit int) ([]*models.ImportRun, error)
	ClearCache(ctx context.Context, towerID *int) error
	Status(ctx context.Context) (*StatusResponse, error)
}

type Importer interface {
	Reload(ctx context.Context) (*models.ImportRun, error)
	LatestRuns(ctx context.Context, limit int) ([]*models.ImportRun, error)
}

type Scheduler interface {
	TriggerJobByName(ctx context.Context, jobName string) error
	IsRunning() bool
	GetJobCount() int
	GetNextRunTime() *time.Time
	JobStates() []services.JobState
}

// CachePublisher announces cache invalidations to every instance.
type CachePublisher interface {
	PublishCacheInvalidation(resourceType string, resourceID string) error
}

var (
	_ Importer  = (*services.ImportService)(nil)
	_ Scheduler = (*services.SchedulerService)(nil)
)

type AdminController struct {
	importer  Importer
	scheduler Scheduler
	publisher CachePublisher
	log       logger.Logger
}

func New(importer Importer, scheduler Scheduler, publisher CachePublisher) AdminControllerInterface {
	return &AdminController{
		importer:  importer,
		scheduler: scheduler,
		publisher: publisher,
		log:       logger.New("adminController"),
	}
}

type StatusResponse struct {
	SchedulerRunning bool                `json:"schedulerRunning"`
	Jobs             int                 `json:"jobs"`
	NextRun          *time.Time          `json:"nextRun,omitempty"`
	JobStates        []services.JobState `json:"jobStates"`
	LastImport       *models.ImportRun   `json:"lastImport,omitempty"`
}

// Reload replaces the tower list from the spreadsheet and waits for the
// result. A failed run is still returned alongside the error.
func (c *AdminController) Reload(ctx context.Context) (*models.ImportRun, error) {
	log := c.log.TraceFromContext(ctx).Function("Reload")

	run, err := c.importer.Reload(ctx)
	if err != nil {
		return run, log.Err("reload failed", err)
	}
	return run, nil
}

func (c *AdminController) TriggerReload(ctx context.Context) error {
	log := c.log.TraceFromContext(ctx).Function("TriggerReload")

	if err := c.scheduler.TriggerJobByName(ctx, jobs.TOWER_RELOAD_JOB); err != nil {
		return log.Err("failed to trigger reload job", err)
	}
	return nil
}

func (c *AdminController) ImportRuns(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	if limit <= 0 {
		limit = DEFAULT_RUN_LIMIT
	}
	return c.importer.LatestRuns(ctx, limit)
}

// ClearCache drops one cached tower, or all of them when towerID is nil.
func (c *AdminController) ClearCache(ctx context.Context, towerID *int) error {
	log := c.log.TraceFromContext(ctx).Function("ClearCache")

	resourceID := services.ALL_RESOURCES
	if towerID != nil {
		resourceID = strconv.Itoa(*towerID)
	}

	if err := c.publisher.PublishCacheInvalidation("tower", resourceID); err != nil {
		return log.Err("failed to publish cache invalidation", err, "resourceId", resourceID)
	}

	log.Info("Cache invalidation published", "resourceId", resourceID)
	return nil
}

func (c *AdminController) Status(ctx context.Context) (*StatusResponse, error) {
	runs, err := c.importer.LatestRuns(ctx, 1)
	if err != nil {
		return nil, err
	}

	status := &StatusResponse{
		SchedulerRunning: c.scheduler.IsRunning(),
		Jobs:             c.scheduler.GetJobCount(),
		NextRun:          c.scheduler.GetNextRunTime(),
		JobStates:        c.scheduler.JobStates(),
	}
	if len(runs) > 0 {
		status.LastImport = runs[0]
	}
	return status, nil
}
