package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJob struct {
	name     string
	schedule Schedule
	err      error
	ran      chan struct{}
}

func newTestJob(name string) *testJob {
	return &testJob{name: name, schedule: NIGHTLY, ran: make(chan struct{}, 1)}
}

func (j *testJob) Name() string       { return j.name }
func (j *testJob) Schedule() Schedule { return j.schedule }
func (j *testJob) Execute(ctx context.Context) error {
	j.ran <- struct{}{}
	return j.err
}

func TestSchedulerStartWithoutJobs(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
	assert.Nil(t, scheduler.GetNextRunTime())
	assert.Empty(t, scheduler.JobStates())
}

func TestSchedulerAddStartStop(t *testing.T) {
	scheduler := NewSchedulerService()
	require.NoError(t, scheduler.AddJob(newTestJob("reload")))
	assert.Equal(t, 1, scheduler.GetJobCount())

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	next := scheduler.GetNextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 2, next.UTC().Hour())
	assert.Equal(t, 0, next.UTC().Minute())

	require.NoError(t, scheduler.Stop(context.Background()))
	assert.False(t, scheduler.IsRunning())
	assert.Nil(t, scheduler.GetNextRunTime())
}

func TestSchedulerRejectsDuplicateAndBadSchedule(t *testing.T) {
	scheduler := NewSchedulerService()
	require.NoError(t, scheduler.AddJob(newTestJob("reload")))

	assert.Error(t, scheduler.AddJob(newTestJob("reload")))

	bad := newTestJob("other")
	bad.schedule = "every night"
	assert.Error(t, scheduler.AddJob(bad))
	assert.Equal(t, 1, scheduler.GetJobCount())
}

func TestSchedulerTriggerRecordsOutcome(t *testing.T) {
	scheduler := NewSchedulerService()
	job := newTestJob("reload")
	job.err = errors.New("sheet unavailable")
	require.NoError(t, scheduler.AddJob(job))

	assert.ErrorIs(t, scheduler.TriggerJobByName(context.Background(), "missing"), ErrJobNotFound)

	require.NoError(t, scheduler.TriggerJobByName(context.Background(), "reload"))
	select {
	case <-job.ran:
	case <-time.After(time.Second):
		t.Fatal("job was not executed")
	}

	assert.Eventually(t, func() bool {
		states := scheduler.JobStates()
		return len(states) == 1 && states[0].LastRun != nil && !states[0].Running
	}, time.Second, 10*time.Millisecond)

	state := scheduler.JobStates()[0]
	assert.Equal(t, "reload", state.Name)
	assert.Equal(t, "sheet unavailable", state.LastError)
	assert.Nil(t, state.NextRun)
}

type contextJob struct {
	*testJob
	ctxErr chan error
}

func (j *contextJob) Execute(ctx context.Context) error {
	j.ctxErr <- ctx.Err()
	return nil
}

func TestSchedulerRestartRunsJobsWithLiveContext(t *testing.T) {
	scheduler := NewSchedulerService()
	job := &contextJob{testJob: newTestJob("reload"), ctxErr: make(chan error, 1)}
	require.NoError(t, scheduler.AddJob(job))

	require.NoError(t, scheduler.Start(context.Background()))
	require.NoError(t, scheduler.Stop(context.Background()))
	require.NoError(t, scheduler.Start(context.Background()))
	t.Cleanup(func() { _ = scheduler.Stop(context.Background()) })

	assert.True(t, scheduler.IsRunning())
	assert.NotNil(t, scheduler.GetNextRunTime())

	scheduler.runScheduled("reload")
	assert.NoError(t, <-job.ctxErr)
}

func TestScheduleString(t *testing.T) {
	assert.Equal(t, "0 2 * * *", NIGHTLY.String())
}
