package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"towerdb/pkg/logger"

	"github.com/go-co-op/gocron"
)

var ErrJobNotFound = errors.New("job not found")

// Schedule is a five-field cron expression evaluated in UTC.
type Schedule string

const NIGHTLY Schedule = "0 2 * * *"

func (s Schedule) String() string {
	return string(s)
}

// Job represents a scheduled task that can be executed by the scheduler
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

// JobState is the outcome of the most recent run of a job, scheduled or
// triggered.
type JobState struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	Running   bool       `json:"running"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
	NextRun   *time.Time `json:"nextRun,omitempty"`
}

type registeredJob struct {
	job     Job
	entry   *gocron.Job
	running bool
	lastRun *time.Time
	lastErr error
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	log       logger.Logger

	mu      sync.Mutex
	jobs    map[string]*registeredJob
	order   []string
	started bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewSchedulerService() *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())
	return &SchedulerService{
		scheduler: gocron.NewScheduler(time.UTC),
		log:       logger.New("scheduler"),
		jobs:      make(map[string]*registeredJob),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// AddJob registers a job on its cron schedule. Overlapping scheduled runs of
// the same job are skipped.
func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	if _, exists := s.jobs[job.Name()]; exists {
		return log.Error("job already registered", "job", job.Name())
	}

	entry, err := s.scheduler.Cron(job.Schedule().String()).
		SingletonMode().
		Tag(job.Name()).
		Do(s.runScheduled, job.Name())
	if err != nil {
		return log.Err("failed to register job", err, "job", job.Name(), "schedule", job.Schedule())
	}

	s.jobs[job.Name()] = &registeredJob{job: job, entry: entry}
	s.order = append(s.order, job.Name())
	log.Info("Job registered", "job", job.Name(), "schedule", job.Schedule())
	return nil
}

// runScheduled hands a scheduled run the context of the current start, so a
// scheduler stopped and started again does not pass jobs a cancelled one.
func (s *SchedulerService) runScheduled(name string) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	s.run(ctx, name)
}

// run executes a job and records the result. A job already running is not
// started a second time.
func (s *SchedulerService) run(ctx context.Context, name string) {
	log := s.log.Function("run")

	s.mu.Lock()
	rj, ok := s.jobs[name]
	if !ok || rj.running {
		s.mu.Unlock()
		log.Info("Job skipped", "job", name, "registered", ok)
		return
	}
	rj.running = true
	s.mu.Unlock()

	done := log.Timer("job " + name)
	err := rj.job.Execute(ctx)
	done()

	now := time.Now().UTC()
	s.mu.Lock()
	rj.running = false
	rj.lastRun = &now
	rj.lastErr = err
	s.mu.Unlock()

	if err != nil {
		log.Er("Job failed", err, "job", name)
	}
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	switch {
	case s.started:
		return nil
	case len(s.jobs) == 0:
		log.Info("No jobs registered, scheduler not started")
		return nil
	}

	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}

	s.scheduler.StartAsync()
	s.started = true
	log.Info("Scheduler started", "jobCount", len(s.jobs))
	return nil
}

// Stop cancels the context handed to running jobs and stops the scheduler.
// A later Start runs jobs under a new context.
func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.cancel()
	s.scheduler.Stop()
	s.started = false

	s.log.Function("Stop").Info("Scheduler stopped")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// GetNextRunTime is the earliest upcoming run across all jobs, nil while the
// scheduler is stopped.
func (s *SchedulerService) GetNextRunTime() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	var next *time.Time
	for _, rj := range s.jobs {
		t := rj.entry.NextRun()
		if t.IsZero() {
			continue
		}
		if next == nil || t.Before(*next) {
			next = &t
		}
	}
	return next
}

// JobStates lists registered jobs in registration order.
func (s *SchedulerService) JobStates() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]JobState, 0, len(s.order))
	for _, name := range s.order {
		rj := s.jobs[name]
		state := JobState{
			Name:     name,
			Schedule: rj.job.Schedule().String(),
			Running:  rj.running,
			LastRun:  rj.lastRun,
		}
		if rj.lastErr != nil {
			state.LastError = rj.lastErr.Error()
		}
		if s.started {
			if next := rj.entry.NextRun(); !next.IsZero() {
				state.NextRun = &next
			}
		}
		states = append(states, state)
	}
	return states
}

// TriggerJobByName runs a registered job now, in the background. The run
// outlives the request that triggered it.
func (s *SchedulerService) TriggerJobByName(ctx context.Context, jobName string) error {
	s.mu.Lock()
	_, ok := s.jobs[jobName]
	s.mu.Unlock()

	if !ok {
		return s.log.TraceFromContext(ctx).
			Function("TriggerJobByName").
			Err("job not found", ErrJobNotFound, "job", jobName)
	}

	go s.run(context.WithoutCancel(ctx), jobName)
	return nil
}
