/*
 *     Copyright 2022 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"d7y.io/renderfarm/manager/config"
	"d7y.io/renderfarm/manager/events"
	"d7y.io/renderfarm/manager/jobtypes"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/registry"
	"d7y.io/renderfarm/manager/resource"
	"d7y.io/renderfarm/manager/statemachine"
	"d7y.io/renderfarm/pkg/dfcodes"
	"d7y.io/renderfarm/pkg/dferrors"
)

type fixture struct {
	clock        *clock.Mock
	bus          events.Bus
	registry     registry.Registry
	stateMachine statemachine.StateMachine
	scheduler    Scheduler
}

func newFixture(t *testing.T, cfg *config.SchedulerConfig) *fixture {
	if cfg == nil {
		cfg = config.New().Scheduler
	}

	catalog, err := jobtypes.New("")
	require.NoError(t, err)

	f := &fixture{
		clock: clock.NewMock(),
		bus:   events.New(),
	}
	f.clock.Set(time.Date(2022, 6, 6, 10, 0, 0, 0, time.Local))
	f.registry = registry.New(f.bus, registry.WithClock(f.clock))
	f.stateMachine = statemachine.New(f.registry, f.bus)
	f.scheduler = New(cfg, f.registry, catalog, f.bus, WithClock(f.clock))
	return f
}

func (f *fixture) worker(t *testing.T, worker models.Worker) string {
	if worker.Name == "" {
		worker.Name = "worker"
	}

	registered, _, err := f.registry.Register(context.Background(), worker)
	require.NoError(t, err)
	if worker.ClusterID != "" {
		_, err = f.registry.SetCluster(context.Background(), registered.ID, worker.ClusterID)
		require.NoError(t, err)
	}

	_, err = f.stateMachine.RequestStatusChange(context.Background(), registered.ID, models.WorkerStatusAwake, "")
	require.NoError(t, err)
	return registered.ID
}

func (f *fixture) render(t *testing.T, priority int, frames string, chunkSize int) models.Job {
	job, err := f.scheduler.Submit(context.Background(), Submission{
		Name:     "render " + frames,
		Type:     "render",
		Priority: priority,
		Settings: map[string]any{"frames": frames, "chunk_size": chunkSize},
	})
	require.NoError(t, err)
	return job
}

func (f *fixture) echo(t *testing.T, priority int) models.Job {
	job, err := f.scheduler.Submit(context.Background(), Submission{
		Name:     "echo",
		Type:     "echo-sleep-test",
		Priority: priority,
		Settings: map[string]any{"message": "hey"},
	})
	require.NoError(t, err)
	return job
}

func (f *fixture) assign(t *testing.T, workerID string) *models.Task {
	task, err := f.scheduler.AssignNext(context.Background(), workerID)
	require.NoError(t, err)
	return task
}

func (f *fixture) task(t *testing.T, id string) models.Task {
	task, err := f.scheduler.GetTask(context.Background(), id)
	require.NoError(t, err)
	return task
}

func (f *fixture) job(t *testing.T, id string) models.Job {
	job, err := f.scheduler.GetJob(context.Background(), id)
	require.NoError(t, err)
	return job
}

func TestScheduler_Submit(t *testing.T) {
	tests := []struct {
		name       string
		submission Submission
		expect     func(t *testing.T, f *fixture, job models.Job, err error)
	}{
		{
			name: "render job",
			submission: Submission{
				Name:     "shot 10",
				Type:     "render",
				Priority: 80,
				Settings: map[string]any{"frames": "1-10", "chunk_size": 4},
				Metadata: map[string]string{"project": "sprite"},
			},
			expect: func(t *testing.T, f *fixture, job models.Job, err error) {
				assert := assert.New(t)
				require.NoError(t, err)
				assert.NotEmpty(job.ID)
				assert.Equal(models.JobStatusQueued, job.Status)
				assert.Equal(int32(4), job.Settings["chunk_size"])
				assert.Equal("PNG", job.Settings["format"])
				assert.Equal(models.StringMap{"project": "sprite"}, job.Metadata)

				tasks, err := f.scheduler.ListTasks(context.Background(), job.ID)
				require.NoError(t, err)
				require.Len(t, tasks, 3)
				for i, task := range tasks {
					assert.Equal(i, task.Index)
					assert.Equal(80, task.Priority)
					assert.Equal(models.TaskStatusQueued, task.Status)
					assert.Equal(job.ID, task.JobID)
				}

				queued, err := f.scheduler.QueuedTasks(context.Background())
				require.NoError(t, err)
				assert.Len(queued, 3)
			},
		},
		{
			name: "unknown setting",
			submission: Submission{
				Name:     "shot 10",
				Type:     "render",
				Priority: 50,
				Settings: map[string]any{"frames": "1-10", "samples": 128},
			},
			expect: func(t *testing.T, f *fixture, job models.Job, err error) {
				assert.True(t, dferrors.CheckError(err, dfcodes.ValidationError))
			},
		},
		{
			name: "wrong setting type",
			submission: Submission{
				Name:     "shot 10",
				Type:     "render",
				Priority: 50,
				Settings: map[string]any{"frames": "1-10", "chunk_size": 2.5},
			},
			expect: func(t *testing.T, f *fixture, job models.Job, err error) {
				assert.True(t, dferrors.CheckError(err, dfcodes.ValidationError))
			},
		},
		{
			name: "unknown job type",
			submission: Submission{
				Name:     "shot 10",
				Type:     "cook",
				Priority: 50,
			},
			expect: func(t *testing.T, f *fixture, job models.Job, err error) {
				assert.True(t, dferrors.CheckError(err, dfcodes.ValidationError))
			},
		},
		{
			name: "priority out of range",
			submission: Submission{
				Name:     "shot 10",
				Type:     "render",
				Priority: 101,
				Settings: map[string]any{"frames": "1-10"},
			},
			expect: func(t *testing.T, f *fixture, job models.Job, err error) {
				assert.True(t, dferrors.CheckError(err, dfcodes.ValidationError))
			},
		},
		{
			name: "missing name",
			submission: Submission{
				Type:     "render",
				Settings: map[string]any{"frames": "1-10"},
			},
			expect: func(t *testing.T, f *fixture, job models.Job, err error) {
				assert.True(t, dferrors.CheckError(err, dfcodes.ValidationError))
			},
		},
		{
			name: "unknown cluster",
			submission: Submission{
				Name:      "shot 10",
				Type:      "render",
				Settings:  map[string]any{"frames": "1-10"},
				ClusterID: "foo",
			},
			expect: func(t *testing.T, f *fixture, job models.Job, err error) {
				assert.True(t, dferrors.CheckError(err, dfcodes.ValidationError))
			},
		},
		{
			name: "stale etag",
			submission: Submission{
				Name:     "shot 10",
				Type:     "render",
				TypeEtag: "foo",
				Settings: map[string]any{"frames": "1-10"},
			},
			expect: func(t *testing.T, f *fixture, job models.Job, err error) {
				assert.True(t, dferrors.CheckError(err, dfcodes.ValidationError))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			job, err := f.scheduler.Submit(context.Background(), tc.submission)
			tc.expect(t, f, job, err)

			if err != nil {
				jobs, err := f.scheduler.ListJobs(context.Background(), JobFilter{})
				assert.NoError(t, err)
				assert.Empty(t, jobs)
			}
		})
	}
}

func TestScheduler_HigherPriorityFirst(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	workerID := f.worker(t, models.Worker{})

	low := f.echo(t, 10)
	high := f.render(t, 80, "1-10", 10)

	task := f.assign(t, workerID)
	require.NotNil(t, task)
	assert.Equal(high.ID, task.JobID)
	assert.Equal(models.TaskStatusAssigned, task.Status)
	assert.Equal(workerID, task.WorkerID)
	assert.Equal(models.JobStatusActive, f.job(t, high.ID).Status)
	assert.Equal(models.JobStatusQueued, f.job(t, low.ID).Status)

	_, err := f.scheduler.Complete(context.Background(), task.ID, workerID, "")
	require.NoError(t, err)
	assert.Equal(models.JobStatusCompleted, f.job(t, high.ID).Status)

	task = f.assign(t, workerID)
	require.NotNil(t, task)
	assert.Equal(low.ID, task.JobID)
}

func TestScheduler_FIFOWithinPriority(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	first := f.render(t, 50, "1-2", 1)
	second := f.render(t, 50, "1-2", 1)

	var order []string
	for i := 0; i < 4; i++ {
		workerID := f.worker(t, models.Worker{})
		task := f.assign(t, workerID)
		require.NotNil(t, task)
		order = append(order, task.JobID)
	}

	assert.Equal([]string{first.ID, first.ID, second.ID, second.ID}, order)
	assert.Nil(f.assign(t, f.worker(t, models.Worker{})))
}

func TestScheduler_AssignNext(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, f *fixture)
	}{
		{
			name: "job cluster must match worker cluster",
			run: func(t *testing.T, f *fixture) {
				assert := assert.New(t)
				cluster, err := f.registry.CreateCluster(context.Background(), models.WorkerCluster{Name: "gpu"})
				require.NoError(t, err)

				job, err := f.scheduler.Submit(context.Background(), Submission{
					Name:      "gpu render",
					Type:      "render",
					Priority:  50,
					Settings:  map[string]any{"frames": "1", "chunk_size": 1},
					ClusterID: cluster.ID,
				})
				require.NoError(t, err)

				assert.Nil(f.assign(t, f.worker(t, models.Worker{})))

				task := f.assign(t, f.worker(t, models.Worker{ClusterID: cluster.ID}))
				require.NotNil(t, task)
				assert.Equal(job.ID, task.JobID)
			},
		},
		{
			name: "unclustered job runs on clustered worker",
			run: func(t *testing.T, f *fixture) {
				cluster, err := f.registry.CreateCluster(context.Background(), models.WorkerCluster{Name: "gpu"})
				require.NoError(t, err)

				f.render(t, 50, "1", 1)
				assert.NotNil(t, f.assign(t, f.worker(t, models.Worker{ClusterID: cluster.ID})))
			},
		},
		{
			name: "task type must be supported",
			run: func(t *testing.T, f *fixture) {
				assert := assert.New(t)
				f.render(t, 90, "1", 1)
				echo := f.echo(t, 10)

				task := f.assign(t, f.worker(t, models.Worker{SupportedTaskTypes: models.Array{"misc"}}))
				require.NotNil(t, task)
				assert.Equal(echo.ID, task.JobID)

				assert.Nil(f.assign(t, f.worker(t, models.Worker{SupportedTaskTypes: models.Array{"ffmpeg"}})))

				queued, err := f.scheduler.QueuedTasks(context.Background())
				require.NoError(t, err)
				assert.Len(queued, 1)
			},
		},
		{
			name: "worker that is not awake",
			run: func(t *testing.T, f *fixture) {
				f.render(t, 50, "1", 1)
				registered, _, err := f.registry.Register(context.Background(), models.Worker{Name: "foo"})
				require.NoError(t, err)

				task, err := f.scheduler.AssignNext(context.Background(), registered.ID)
				assert.True(t, dferrors.CheckError(err, dfcodes.Conflict))
				assert.Nil(t, task)
			},
		},
		{
			name: "worker inside its sleep window",
			run: func(t *testing.T, f *fixture) {
				f.render(t, 50, "1", 1)
				workerID := f.worker(t, models.Worker{})
				_, err := f.registry.UpdateSleepSchedule(context.Background(), workerID, &models.SleepSchedule{
					Enabled:   true,
					Intervals: []models.SleepInterval{{DaysOfWeek: []models.Weekday{models.Monday}, Start: "09:00", End: "11:00"}},
				})
				require.NoError(t, err)

				assert.Nil(t, f.assign(t, workerID))

				f.clock.Add(2 * time.Hour)
				assert.NotNil(t, f.assign(t, workerID))
			},
		},
		{
			name: "unknown worker",
			run: func(t *testing.T, f *fixture) {
				_, err := f.scheduler.AssignNext(context.Background(), "foo")
				assert.True(t, dferrors.CheckError(err, dfcodes.NotFound))
			},
		},
		{
			name: "worker asking again gets the task it holds",
			run: func(t *testing.T, f *fixture) {
				f.render(t, 50, "1-2", 1)
				workerID := f.worker(t, models.Worker{})

				first := f.assign(t, workerID)
				require.NotNil(t, first)
				again := f.assign(t, workerID)
				require.NotNil(t, again)
				assert.Equal(t, first.ID, again.ID)
				assert.Len(t, again.History, 1)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, newFixture(t, nil))
		})
	}
}

// flakyRegistry changes the worker right after the scheduler claimed a task.
type flakyRegistry struct {
	registry.Registry
	calls  int
	change func(id string)
}

func (r *flakyRegistry) Get(ctx context.Context, id string) (models.Worker, error) {
	r.calls++
	if r.calls == 2 {
		r.change(id)
	}
	return r.Registry.Get(ctx, id)
}

func TestScheduler_ClaimIsVerified(t *testing.T) {
	assert := assert.New(t)
	bus := events.New()
	reg := registry.New(bus)
	catalog, err := jobtypes.New("")
	require.NoError(t, err)

	flaky := &flakyRegistry{Registry: reg}
	flaky.change = func(id string) {
		_, err := reg.Update(context.Background(), id, func(ctx context.Context, w *resource.Worker) (bool, error) {
			w.FSM.SetState(string(models.WorkerStatusAsleep))
			return true, nil
		})
		require.NoError(t, err)
	}
	s := New(config.New().Scheduler, flaky, catalog, bus)

	worker, _, err := reg.Register(context.Background(), models.Worker{Name: "foo"})
	require.NoError(t, err)
	_, err = statemachine.New(reg, bus).RequestStatusChange(context.Background(), worker.ID, models.WorkerStatusAwake, "")
	require.NoError(t, err)

	job, err := s.Submit(context.Background(), Submission{Name: "foo", Type: "render", Priority: 50, Settings: map[string]any{"frames": "1"}})
	require.NoError(t, err)

	task, err := s.AssignNext(context.Background(), worker.ID)
	assert.NoError(err)
	assert.Nil(task)

	tasks, err := s.ListTasks(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(models.TaskStatusQueued, tasks[0].Status)
	assert.Empty(tasks[0].WorkerID)
	assert.Empty(tasks[0].History)
	assert.Equal(0, tasks[0].Retries)

	got, err := s.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(models.JobStatusQueued, got.Status)
}

func TestScheduler_ReleasedBeforeDelivery(t *testing.T) {
	tests := []struct {
		name   string
		change func(t *testing.T, s Scheduler, sm statemachine.StateMachine, id string)
		status models.WorkerStatus
	}{
		{
			name: "worker lost",
			change: func(t *testing.T, s Scheduler, sm statemachine.StateMachine, id string) {
				_, err := sm.RequestStatusChange(context.Background(), id, models.WorkerStatusOffline, "")
				require.NoError(t, err)
			},
			status: models.WorkerStatusOffline,
		},
		{
			name: "tasks released",
			change: func(t *testing.T, s Scheduler, sm statemachine.StateMachine, id string) {
				n, err := s.Requeue(context.Background(), id, "worker restarted")
				require.NoError(t, err)
				require.Equal(t, 1, n)
			},
			status: models.WorkerStatusAwake,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			bus := events.New()
			reg := registry.New(bus)
			sm := statemachine.New(reg, bus)
			catalog, err := jobtypes.New("")
			require.NoError(t, err)

			var s Scheduler
			flaky := &flakyRegistry{Registry: reg}
			flaky.change = func(id string) {
				tc.change(t, s, sm, id)
			}
			s = New(config.New().Scheduler, flaky, catalog, bus)

			worker, _, err := reg.Register(context.Background(), models.Worker{Name: "foo"})
			require.NoError(t, err)
			_, err = sm.RequestStatusChange(context.Background(), worker.ID, models.WorkerStatusAwake, "")
			require.NoError(t, err)

			job, err := s.Submit(context.Background(), Submission{Name: "foo", Type: "render", Priority: 50, Settings: map[string]any{"frames": "1"}})
			require.NoError(t, err)

			task, err := s.AssignNext(context.Background(), worker.ID)
			assert.NoError(err)
			assert.Nil(task)

			tasks, err := s.ListTasks(context.Background(), job.ID)
			require.NoError(t, err)
			assert.Equal(models.TaskStatusQueued, tasks[0].Status)
			assert.Empty(tasks[0].WorkerID)
			assert.Equal(0, tasks[0].Retries)
			assert.Equal(0, tasks[0].History.Active())

			got, err := reg.Get(context.Background(), worker.ID)
			require.NoError(t, err)
			assert.Equal(tc.status, got.Status)
		})
	}
}

func TestScheduler_WorkerOfflineRequeues(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	workerID := f.worker(t, models.Worker{})
	f.render(t, 80, "1-10", 10)

	task := f.assign(t, workerID)
	require.NotNil(t, task)

	_, err := f.stateMachine.RequestStatusChange(context.Background(), workerID, models.WorkerStatusOffline, "")
	require.NoError(t, err)

	got := f.task(t, task.ID)
	assert.Equal(models.TaskStatusQueued, got.Status)
	assert.Equal(80, got.Priority)
	assert.Equal(1, got.Retries)
	assert.Empty(got.WorkerID)
	require.Len(t, got.History, 1)
	assert.NotNil(got.History[0].ReleasedAt)
	assert.Equal(statemachine.ReasonStatusChange, got.History[0].Reason)
	assert.Equal(0, got.History.Active())

	other := f.worker(t, models.Worker{})
	again := f.assign(t, other)
	require.NotNil(t, again)
	assert.Equal(task.ID, again.ID)
	assert.Len(again.History, 2)
}

func TestScheduler_DeleteRequeuesOnce(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	workerID := f.worker(t, models.Worker{})
	f.render(t, 50, "1", 1)

	task := f.assign(t, workerID)
	require.NotNil(t, task)
	assert.Equal(1, task.History.Active())

	// Offline without a status change event, the task is still held.
	_, err := f.registry.Update(context.Background(), workerID, func(ctx context.Context, w *resource.Worker) (bool, error) {
		w.FSM.SetState(string(models.WorkerStatusOffline))
		return true, nil
	})
	require.NoError(t, err)

	requeued := 0
	f.bus.Subscribe(func(ctx context.Context, e events.Event) error {
		if e.(events.TaskUpdated).Task.Status == models.TaskStatusQueued {
			requeued++
		}
		return nil
	}, events.KindTaskUpdated)

	require.NoError(t, f.registry.Delete(context.Background(), workerID))

	got := f.task(t, task.ID)
	assert.Equal(models.TaskStatusQueued, got.Status)
	assert.Equal(1, got.Retries)
	assert.Equal(0, got.History.Active())
	assert.Equal(1, requeued)

	n, err := f.scheduler.Requeue(context.Background(), workerID, "worker deleted")
	assert.NoError(err)
	assert.Equal(0, n)
	assert.Equal(1, f.task(t, task.ID).Retries)
}

func TestScheduler_RetryLimit(t *testing.T) {
	assert := assert.New(t)
	cfg := config.New().Scheduler
	cfg.RetryLimit = 1
	f := newFixture(t, cfg)
	job := f.render(t, 50, "1", 1)

	for i := 0; i < 2; i++ {
		workerID := f.worker(t, models.Worker{})
		task := f.assign(t, workerID)
		require.NotNil(t, task)
		_, err := f.stateMachine.RequestStatusChange(context.Background(), workerID, models.WorkerStatusError, "")
		require.NoError(t, err)
	}

	tasks, err := f.scheduler.ListTasks(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(models.TaskStatusFailed, tasks[0].Status)
	assert.Equal(2, tasks[0].Retries)
	assert.Equal(models.JobStatusFailed, f.job(t, job.ID).Status)
}

func TestScheduler_RequeuePriorityPenalty(t *testing.T) {
	cfg := config.New().Scheduler
	cfg.KeepPriorityOnRequeue = false
	cfg.RequeuePriorityPenalty = 30
	f := newFixture(t, cfg)
	f.render(t, 40, "1", 1)

	workerID := f.worker(t, models.Worker{})
	task := f.assign(t, workerID)
	require.NotNil(t, task)
	_, err := f.scheduler.Requeue(context.Background(), workerID, "lost")
	require.NoError(t, err)
	assert.Equal(t, 10, f.task(t, task.ID).Priority)

	workerID = f.worker(t, models.Worker{})
	require.NotNil(t, f.assign(t, workerID))
	_, err = f.scheduler.Requeue(context.Background(), workerID, "lost")
	require.NoError(t, err)
	assert.Equal(t, 0, f.task(t, task.ID).Priority)
}

func TestScheduler_Reports(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, f *fixture, job models.Job, workerID string, task *models.Task)
	}{
		{
			name: "start then complete",
			run: func(t *testing.T, f *fixture, job models.Job, workerID string, task *models.Task) {
				assert := assert.New(t)
				got, err := f.scheduler.Start(context.Background(), task.ID, workerID)
				require.NoError(t, err)
				assert.Equal(models.TaskStatusRunning, got.Status)

				got, err = f.scheduler.Start(context.Background(), task.ID, workerID)
				require.NoError(t, err)
				assert.Equal(models.TaskStatusRunning, got.Status)

				got, err = f.scheduler.Complete(context.Background(), task.ID, workerID, "rendered")
				require.NoError(t, err)
				assert.Equal(models.TaskStatusDone, got.Status)
				assert.Equal("rendered", got.Activity)
				assert.NotNil(got.History[0].ReleasedAt)
				assert.Equal(models.JobStatusActive, f.job(t, job.ID).Status)
			},
		},
		{
			name: "report from another worker",
			run: func(t *testing.T, f *fixture, job models.Job, workerID string, task *models.Task) {
				_, err := f.scheduler.Complete(context.Background(), task.ID, "foo", "")
				assert.True(t, dferrors.CheckError(err, dfcodes.Conflict))
				assert.Equal(t, models.TaskStatusAssigned, f.task(t, task.ID).Status)
			},
		},
		{
			name: "report on unknown task",
			run: func(t *testing.T, f *fixture, job models.Job, workerID string, task *models.Task) {
				_, err := f.scheduler.Start(context.Background(), "foo", workerID)
				assert.True(t, dferrors.CheckError(err, dfcodes.NotFound))
			},
		},
		{
			name: "failure with no other worker left",
			run: func(t *testing.T, f *fixture, job models.Job, workerID string, task *models.Task) {
				assert := assert.New(t)
				got, err := f.scheduler.Fail(context.Background(), task.ID, workerID, "out of memory")
				require.NoError(t, err)
				assert.Equal(models.TaskStatusFailed, got.Status)
				assert.Equal("failed: out of memory", got.Activity)
				assert.Equal("out of memory", got.History[0].Reason)

				_, err = f.scheduler.Complete(context.Background(), task.ID, workerID, "")
				assert.True(dferrors.CheckError(err, dfcodes.Conflict))

				next := f.assign(t, workerID)
				require.NotNil(t, next)
				_, err = f.scheduler.Complete(context.Background(), next.ID, workerID, "")
				require.NoError(t, err)
				assert.Equal(models.JobStatusFailed, f.job(t, job.ID).Status)
			},
		},
		{
			name: "all tasks done completes the job",
			run: func(t *testing.T, f *fixture, job models.Job, workerID string, task *models.Task) {
				_, err := f.scheduler.Complete(context.Background(), task.ID, workerID, "")
				require.NoError(t, err)

				next := f.assign(t, workerID)
				require.NotNil(t, next)
				_, err = f.scheduler.Complete(context.Background(), next.ID, workerID, "")
				require.NoError(t, err)

				assert.Equal(t, models.JobStatusCompleted, f.job(t, job.ID).Status)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			job := f.render(t, 50, "1-2", 1)
			workerID := f.worker(t, models.Worker{})
			task := f.assign(t, workerID)
			require.NotNil(t, task)
			tc.run(t, f, job, workerID, task)
		})
	}
}

func TestScheduler_Update(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	f.render(t, 50, "1", 1)
	workerID := f.worker(t, models.Worker{})
	task := f.assign(t, workerID)
	require.NotNil(t, task)

	got, err := f.scheduler.Update(context.Background(), task.ID, workerID, "frame 1 sampling")
	require.NoError(t, err)
	assert.Equal(models.TaskStatusAssigned, got.Status)
	assert.Equal("frame 1 sampling", got.Activity)

	got, err = f.scheduler.Update(context.Background(), task.ID, workerID, "")
	require.NoError(t, err)
	assert.Equal("frame 1 sampling", got.Activity)

	_, err = f.scheduler.Update(context.Background(), task.ID, "foo", "frame 1 sampling")
	assert.True(dferrors.CheckError(err, dfcodes.Conflict))

	_, err = f.scheduler.CancelTask(context.Background(), task.ID)
	require.NoError(t, err)
	_, err = f.scheduler.Update(context.Background(), task.ID, workerID, "frame 1 saving")
	assert.True(dferrors.CheckError(err, dfcodes.Conflict))
	assert.Equal(models.TaskStatusCancelled, f.task(t, task.ID).Status)
}

func TestScheduler_SoftFailure(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		expect  func(t *testing.T, f *fixture, job models.Job, workers []string)
	}{
		{
			name:    "task moves to the next worker",
			workers: 3,
			expect: func(t *testing.T, f *fixture, job models.Job, workers []string) {
				assert := assert.New(t)
				for i, workerID := range workers {
					task := f.assign(t, workerID)
					require.NotNil(t, task, workerID)

					got, err := f.scheduler.Fail(context.Background(), task.ID, workerID, "segfault")
					require.NoError(t, err)
					assert.Len(got.FailedBy, i+1)
					assert.Equal(0, got.Retries)
					if i < len(workers)-1 {
						assert.Equal(models.TaskStatusQueued, got.Status)
						assert.Equal(fmt.Sprintf("soft failed on %d of 3 workers: segfault", i+1), got.Activity)
						assert.Empty(got.WorkerID)
						assert.Nil(f.assign(t, workerID), "worker that failed the task gets it again")
						continue
					}

					assert.Equal(models.TaskStatusFailed, got.Status)
					assert.Equal("failed: segfault", got.Activity)
				}

				assert.Equal(models.JobStatusFailed, f.job(t, job.ID).Status)
			},
		},
		{
			name:    "task fails once no worker is left",
			workers: 2,
			expect: func(t *testing.T, f *fixture, job models.Job, workers []string) {
				assert := assert.New(t)
				task := f.assign(t, workers[0])
				require.NotNil(t, task)
				got, err := f.scheduler.Fail(context.Background(), task.ID, workers[0], "segfault")
				require.NoError(t, err)
				assert.Equal(models.TaskStatusQueued, got.Status)

				task = f.assign(t, workers[1])
				require.NotNil(t, task)
				got, err = f.scheduler.Fail(context.Background(), task.ID, workers[1], "segfault")
				require.NoError(t, err)
				assert.Equal(models.TaskStatusFailed, got.Status)
				assert.Equal(models.Array{workers[0], workers[1]}, got.FailedBy)
			},
		},
		{
			name:    "shut down workers do not count",
			workers: 2,
			expect: func(t *testing.T, f *fixture, job models.Job, workers []string) {
				_, err := f.stateMachine.RequestStatusChange(context.Background(), workers[1], models.WorkerStatusOffline, "")
				require.NoError(t, err)
				_, err = f.stateMachine.RequestStatusChange(context.Background(), workers[1], models.WorkerStatusShutdown, "")
				require.NoError(t, err)

				task := f.assign(t, workers[0])
				require.NotNil(t, task)
				got, err := f.scheduler.Fail(context.Background(), task.ID, workers[0], "segfault")
				require.NoError(t, err)
				assert.Equal(t, models.TaskStatusFailed, got.Status)
			},
		},
		{
			name:    "offline workers still count",
			workers: 2,
			expect: func(t *testing.T, f *fixture, job models.Job, workers []string) {
				_, err := f.stateMachine.RequestStatusChange(context.Background(), workers[1], models.WorkerStatusOffline, "")
				require.NoError(t, err)

				task := f.assign(t, workers[0])
				require.NotNil(t, task)
				got, err := f.scheduler.Fail(context.Background(), task.ID, workers[0], "segfault")
				require.NoError(t, err)
				assert.Equal(t, models.TaskStatusQueued, got.Status)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.New().Scheduler
			cfg.TaskFailAfterSoftFailCount = 3
			cfg.BlocklistThreshold = 0
			f := newFixture(t, cfg)
			job := f.render(t, 50, "1", 1)

			var workers []string
			for i := 0; i < tc.workers; i++ {
				workers = append(workers, f.worker(t, models.Worker{Name: fmt.Sprintf("worker-%d", i)}))
			}
			tc.expect(t, f, job, workers)
		})
	}
}

func TestScheduler_Blocklist(t *testing.T) {
	assert := assert.New(t)
	cfg := config.New().Scheduler
	cfg.TaskFailAfterSoftFailCount = 3
	cfg.BlocklistThreshold = 2
	f := newFixture(t, cfg)
	job := f.render(t, 50, "1-3", 1)
	bad := f.worker(t, models.Worker{Name: "bad"})
	good := f.worker(t, models.Worker{Name: "good"})

	for i := 0; i < 2; i++ {
		task := f.assign(t, bad)
		require.NotNil(t, task)
		_, err := f.scheduler.Fail(context.Background(), task.ID, bad, "missing texture")
		require.NoError(t, err)
	}

	blocklist, err := f.scheduler.JobBlocklist(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(models.Blocklist{{WorkerID: bad, TaskType: "blender"}}, blocklist)
	assert.Nil(f.assign(t, bad))

	got := f.job(t, job.ID)
	assert.Equal(models.JobStatusActive, got.Status)
	assert.Contains(got.Activity, "blocklisted")

	// Other jobs are not affected.
	other := f.render(t, 10, "1", 1)
	task := f.assign(t, bad)
	require.NotNil(t, task)
	assert.Equal(other.ID, task.JobID)

	_, err = f.scheduler.RemoveFromBlocklist(context.Background(), job.ID, []models.BlockEntry{{WorkerID: good, TaskType: "blender"}})
	require.NoError(t, err)
	blocklist, err = f.scheduler.JobBlocklist(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Len(blocklist, 1)

	got, err = f.scheduler.RemoveFromBlocklist(context.Background(), job.ID, []models.BlockEntry{{WorkerID: bad, TaskType: "blender"}})
	require.NoError(t, err)
	assert.Empty(got.Blocklist)

	// The tasks it failed stay away from it.
	_, err = f.scheduler.Complete(context.Background(), task.ID, bad, "")
	require.NoError(t, err)
	task = f.assign(t, bad)
	require.NotNil(t, task)
	assert.Equal(job.ID, task.JobID)
	assert.Equal(2, task.Index)

	_, err = f.scheduler.RemoveFromBlocklist(context.Background(), job.ID, nil)
	assert.True(dferrors.CheckError(err, dfcodes.ValidationError))
	_, err = f.scheduler.RemoveFromBlocklist(context.Background(), "foo", []models.BlockEntry{{WorkerID: bad}})
	assert.True(dferrors.CheckError(err, dfcodes.NotFound))
	_, err = f.scheduler.JobBlocklist(context.Background(), "foo")
	assert.True(dferrors.CheckError(err, dfcodes.NotFound))
}

func TestScheduler_BlocklistLeavesNoWorker(t *testing.T) {
	assert := assert.New(t)
	cfg := config.New().Scheduler
	cfg.BlocklistThreshold = 2
	f := newFixture(t, cfg)
	job := f.render(t, 50, "1-3", 1)
	workerID := f.worker(t, models.Worker{})

	for i := 0; i < 2; i++ {
		task := f.assign(t, workerID)
		require.NotNil(t, task)
		got, err := f.scheduler.Fail(context.Background(), task.ID, workerID, "missing texture")
		require.NoError(t, err)
		assert.Equal(models.TaskStatusFailed, got.Status)
	}

	tasks, err := f.scheduler.ListTasks(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(models.TaskStatusFailed, tasks[2].Status)
	assert.Equal(`no worker left to run "blender" tasks`, tasks[2].Activity)
	assert.Equal(models.JobStatusFailed, f.job(t, job.ID).Status)

	queued, err := f.scheduler.QueuedTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(queued)
}

func TestScheduler_TimeoutTasks(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	job := f.render(t, 50, "1-3", 1)
	silent := f.worker(t, models.Worker{Name: "silent"})
	busy := f.worker(t, models.Worker{Name: "busy"})
	cancelled := f.worker(t, models.Worker{Name: "cancelled"})
	start := f.clock.Now()

	first := f.assign(t, silent)
	require.NotNil(t, first)
	_, err := f.scheduler.Start(context.Background(), first.ID, silent)
	require.NoError(t, err)
	third := f.assign(t, cancelled)
	require.NotNil(t, third)
	_, err = f.scheduler.CancelTask(context.Background(), third.ID)
	require.NoError(t, err)

	f.clock.Add(5 * time.Minute)
	second := f.assign(t, busy)
	require.NotNil(t, second)

	f.clock.Add(6 * time.Minute)
	n, err := f.scheduler.TimeoutTasks(context.Background(), f.clock.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	assert.Equal(2, n)

	got := f.task(t, first.ID)
	assert.Equal(models.TaskStatusQueued, got.Status)
	assert.Equal(models.Array{silent}, got.FailedBy)
	assert.Equal("task timed out, untouched since "+start.Format(time.RFC3339), got.History[0].Reason)
	assert.Equal(models.TaskStatusCancelled, f.task(t, third.ID).Status)
	assert.Equal(models.TaskStatusAssigned, f.task(t, second.ID).Status)

	// Progress reports keep a task alive.
	_, err = f.scheduler.Update(context.Background(), second.ID, busy, "frame 2 sampling")
	require.NoError(t, err)
	f.clock.Add(9 * time.Minute)
	n, err = f.scheduler.TimeoutTasks(context.Background(), f.clock.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	assert.Equal(0, n)
	assert.Equal(models.TaskStatusAssigned, f.task(t, second.ID).Status)
	assert.Equal(models.JobStatusActive, f.job(t, job.ID).Status)
}

func TestScheduler_CancelJob(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	job := f.render(t, 50, "1-3", 1)
	workerID := f.worker(t, models.Worker{})
	held := f.assign(t, workerID)
	require.NotNil(t, held)

	cancelled, err := f.scheduler.CancelJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(models.JobStatusCancelRequested, cancelled.Status)

	tasks, err := f.scheduler.ListTasks(context.Background(), job.ID)
	require.NoError(t, err)
	for _, task := range tasks {
		if task.ID == held.ID {
			assert.Equal(models.TaskStatusAssigned, task.Status)
			assert.True(task.CancelRequested)
			continue
		}
		assert.Equal(models.TaskStatusCancelled, task.Status)
	}
	assert.Nil(f.assign(t, f.worker(t, models.Worker{})))

	_, err = f.scheduler.Complete(context.Background(), held.ID, workerID, "")
	assert.True(dferrors.CheckError(err, dfcodes.Conflict))
	assert.Contains(err.Error(), "task "+held.ID+" cancelled")
	assert.Equal(models.TaskStatusCancelled, f.task(t, held.ID).Status)
	assert.Equal(models.JobStatusCancelled, f.job(t, job.ID).Status)

	again, err := f.scheduler.CancelJob(context.Background(), job.ID)
	assert.NoError(err)
	assert.Equal(models.JobStatusCancelled, again.Status)

	_, err = f.scheduler.CancelJob(context.Background(), "foo")
	assert.True(dferrors.CheckError(err, dfcodes.NotFound))
}

func TestScheduler_CancelQueuedJob(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	job := f.render(t, 50, "1-3", 1)

	cancelled, err := f.scheduler.CancelJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(models.JobStatusCancelled, cancelled.Status)

	queued, err := f.scheduler.QueuedTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(queued)
}

func TestScheduler_CancelFinishedJob(t *testing.T) {
	f := newFixture(t, nil)
	job := f.render(t, 50, "1", 1)
	workerID := f.worker(t, models.Worker{})
	task := f.assign(t, workerID)
	require.NotNil(t, task)
	_, err := f.scheduler.Complete(context.Background(), task.ID, workerID, "")
	require.NoError(t, err)

	_, err = f.scheduler.CancelJob(context.Background(), job.ID)
	assert.True(t, dferrors.CheckError(err, dfcodes.Conflict))
}

func TestScheduler_CancelTask(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	job := f.render(t, 50, "1-2", 1)
	workerID := f.worker(t, models.Worker{})
	held := f.assign(t, workerID)
	require.NotNil(t, held)

	tasks, err := f.scheduler.ListTasks(context.Background(), job.ID)
	require.NoError(t, err)
	var queuedID string
	for _, task := range tasks {
		if task.ID != held.ID {
			queuedID = task.ID
		}
	}

	got, err := f.scheduler.CancelTask(context.Background(), queuedID)
	require.NoError(t, err)
	assert.Equal(models.TaskStatusCancelled, got.Status)

	got, err = f.scheduler.CancelTask(context.Background(), held.ID)
	require.NoError(t, err)
	assert.Equal(models.TaskStatusAssigned, got.Status)
	assert.True(got.CancelRequested)

	// The worker that held the cancelled task is lost, so it is not requeued.
	_, err = f.stateMachine.RequestStatusChange(context.Background(), workerID, models.WorkerStatusOffline, "")
	require.NoError(t, err)
	assert.Equal(models.TaskStatusCancelled, f.task(t, held.ID).Status)
	assert.Equal(models.JobStatusCancelled, f.job(t, job.ID).Status)

	_, err = f.scheduler.CancelTask(context.Background(), held.ID)
	assert.NoError(err)
	_, err = f.scheduler.CancelTask(context.Background(), "foo")
	assert.True(dferrors.CheckError(err, dfcodes.NotFound))
}

func TestScheduler_DetachCluster(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	cluster, err := f.registry.CreateCluster(context.Background(), models.WorkerCluster{Name: "gpu"})
	require.NoError(t, err)

	job, err := f.scheduler.Submit(context.Background(), Submission{
		Name:      "gpu render",
		Type:      "render",
		Priority:  50,
		Settings:  map[string]any{"frames": "1"},
		ClusterID: cluster.ID,
	})
	require.NoError(t, err)

	inUse, err := f.scheduler.ClusterInUse(context.Background(), cluster.ID)
	require.NoError(t, err)
	assert.True(inUse)

	called := false
	err = f.scheduler.DetachCluster(context.Background(), cluster.ID, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.True(dferrors.CheckError(err, dfcodes.Conflict))
	assert.False(called)

	_, err = f.scheduler.CancelJob(context.Background(), job.ID)
	require.NoError(t, err)

	err = f.scheduler.DetachCluster(context.Background(), cluster.ID, func(ctx context.Context) error {
		called = true
		return f.registry.DeleteCluster(ctx, cluster.ID)
	})
	assert.NoError(err)
	assert.True(called)
}

func TestScheduler_Restore(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	assignedAt := time.Date(2022, 6, 6, 9, 0, 0, 0, time.UTC)

	jobs := []models.Job{
		{BaseModel: models.BaseModel{ID: "j1"}, Name: "restored", Type: "render", Priority: 50, Status: models.JobStatusActive, Sequence: 7},
		{BaseModel: models.BaseModel{ID: "j2"}, Name: "finished", Type: "render", Priority: 50, Status: models.JobStatusCompleted, Sequence: 3},
	}
	tasks := []models.Task{
		{BaseModel: models.BaseModel{ID: "t2"}, JobID: "j1", Index: 1, Priority: 50, Status: models.TaskStatusRunning, WorkerID: "w1",
			History: models.Assignments{{WorkerID: "w1", AssignedAt: assignedAt}}},
		{BaseModel: models.BaseModel{ID: "t1"}, JobID: "j1", Index: 0, Priority: 50, Status: models.TaskStatusDone, WorkerID: "w1"},
		{BaseModel: models.BaseModel{ID: "t3"}, JobID: "j2", Index: 0, Priority: 50, Status: models.TaskStatusDone},
		{BaseModel: models.BaseModel{ID: "orphan"}, JobID: "gone", Status: models.TaskStatusQueued},
	}
	require.NoError(t, f.scheduler.Restore(context.Background(), jobs, tasks))

	got := f.task(t, "t2")
	assert.Equal(models.TaskStatusQueued, got.Status)
	assert.Equal(0, got.Retries)
	assert.Empty(got.WorkerID)
	assert.Equal(ReasonRestart, got.History[0].Reason)

	restored, err := f.scheduler.ListTasks(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal("t1", restored[0].ID)
	assert.Equal("t2", restored[1].ID)

	_, err = f.scheduler.GetTask(context.Background(), "orphan")
	assert.True(dferrors.CheckError(err, dfcodes.NotFound))

	later := f.render(t, 50, "1", 1)
	assert.Greater(later.Sequence, uint64(7))

	task := f.assign(t, f.worker(t, models.Worker{}))
	require.NotNil(t, task)
	assert.Equal("t2", task.ID)

	_, err = f.scheduler.Complete(context.Background(), task.ID, task.WorkerID, "")
	require.NoError(t, err)
	assert.Equal(models.JobStatusCompleted, f.job(t, "j1").Status)
}

func TestScheduler_LockTimeout(t *testing.T) {
	f := newFixture(t, nil)
	s := f.scheduler.(*scheduler)
	require.NoError(t, s.acquire(context.Background()))
	defer s.release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.scheduler.ListJobs(ctx, JobFilter{})
	assert.True(t, dferrors.CheckError(err, dfcodes.Timeout))
}

func TestScheduler_ListJobs(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t, nil)
	first := f.render(t, 10, "1", 1)
	second := f.echo(t, 90)
	_, err := f.scheduler.CancelJob(context.Background(), first.ID)
	require.NoError(t, err)

	jobs, err := f.scheduler.ListJobs(context.Background(), JobFilter{})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(first.ID, jobs[0].ID)
	assert.Equal(second.ID, jobs[1].ID)

	jobs, err = f.scheduler.ListJobs(context.Background(), JobFilter{Status: models.JobStatusQueued})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(second.ID, jobs[0].ID)

	_, err = f.scheduler.GetJob(context.Background(), "foo")
	assert.True(dferrors.CheckError(err, dfcodes.NotFound))
	_, err = f.scheduler.ListTasks(context.Background(), "foo")
	assert.True(dferrors.CheckError(err, dfcodes.NotFound))
}

func TestScheduler_NoDoubleAssignment(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("a queued task goes to at most one worker", prop.ForAll(
		func(workerCount, frameCount int) bool {
			f := newFixture(t, nil)
			f.render(t, 50, fmt.Sprintf("1-%d", frameCount), 1)

			var workers []string
			for i := 0; i < workerCount; i++ {
				workers = append(workers, f.worker(t, models.Worker{}))
			}

			var (
				mu       sync.Mutex
				assigned = make(map[string]string)
				double   bool
				wg       sync.WaitGroup
			)
			for _, workerID := range workers {
				wg.Add(1)
				go func(workerID string) {
					defer wg.Done()
					task, err := f.scheduler.AssignNext(context.Background(), workerID)
					if err != nil || task == nil {
						return
					}

					mu.Lock()
					defer mu.Unlock()
					if _, ok := assigned[task.ID]; ok {
						double = true
					}
					assigned[task.ID] = workerID
				}(workerID)
			}
			wg.Wait()

			expected := workerCount
			if frameCount < expected {
				expected = frameCount
			}
			return !double && len(assigned) == expected
		},
		gen.IntRange(1, 24),
		gen.IntRange(1, 24),
	))

	properties.TestingRun(t)
}

func TestScheduler_CancelWhileAssigning(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("every task ends cancelled", prop.ForAll(
		func(workerCount, frameCount int) bool {
			f := newFixture(t, nil)
			job := f.render(t, 50, fmt.Sprintf("1-%d", frameCount), 1)
			tasks, err := f.scheduler.ListTasks(context.Background(), job.ID)
			require.NoError(t, err)

			var workers []string
			for i := 0; i < workerCount; i++ {
				workers = append(workers, f.worker(t, models.Worker{}))
			}

			var (
				mu       sync.Mutex
				assigned = make(map[string]string)
				wg       sync.WaitGroup
			)
			for _, task := range tasks {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					if _, err := f.scheduler.CancelTask(context.Background(), id); err != nil {
						t.Errorf("cancel task %s: %v", id, err)
					}
				}(task.ID)
			}
			for _, workerID := range workers {
				wg.Add(1)
				go func(workerID string) {
					defer wg.Done()
					task, err := f.scheduler.AssignNext(context.Background(), workerID)
					if err != nil || task == nil {
						return
					}

					mu.Lock()
					defer mu.Unlock()
					assigned[task.ID] = workerID
				}(workerID)
			}
			wg.Wait()

			// Held tasks are cancelled at the next report of their worker.
			for taskID, workerID := range assigned {
				if _, err := f.scheduler.Start(context.Background(), taskID, workerID); !dferrors.CheckError(err, dfcodes.Conflict) {
					return false
				}
			}

			tasks, err = f.scheduler.ListTasks(context.Background(), job.ID)
			require.NoError(t, err)
			for _, task := range tasks {
				if task.Status != models.TaskStatusCancelled || task.History.Active() != 0 {
					return false
				}
			}

			queued, err := f.scheduler.QueuedTasks(context.Background())
			require.NoError(t, err)
			return len(queued) == 0 && f.job(t, job.ID).Status == models.JobStatusCancelled
		},
		gen.IntRange(1, 8),
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}

func TestScheduler_ReportWhileWorkerLost(t *testing.T) {
	tests := []struct {
		name     string
		report   func(s Scheduler, taskID, workerID string) error
		reported models.TaskStatus
	}{
		{
			name: "complete",
			report: func(s Scheduler, taskID, workerID string) error {
				_, err := s.Complete(context.Background(), taskID, workerID, "rendered")
				return err
			},
			reported: models.TaskStatusDone,
		},
		{
			name: "fail",
			report: func(s Scheduler, taskID, workerID string) error {
				_, err := s.Fail(context.Background(), taskID, workerID, "segfault")
				return err
			},
			reported: models.TaskStatusFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				assert := assert.New(t)
				f := newFixture(t, nil)
				f.render(t, 50, "1", 1)
				workerID := f.worker(t, models.Worker{})
				task := f.assign(t, workerID)
				require.NotNil(t, task)
				_, err := f.scheduler.Start(context.Background(), task.ID, workerID)
				require.NoError(t, err)

				var (
					wg        sync.WaitGroup
					reportErr error
				)
				wg.Add(2)
				go func() {
					defer wg.Done()
					reportErr = tc.report(f.scheduler, task.ID, workerID)
				}()
				go func() {
					defer wg.Done()
					_, err := f.stateMachine.RequestStatusChange(context.Background(), workerID, models.WorkerStatusOffline, "")
					assert.NoError(err)
				}()
				wg.Wait()

				got := f.task(t, task.ID)
				assert.Equal(0, got.History.Active())
				if reportErr == nil {
					assert.Equal(tc.reported, got.Status)
					assert.Equal(0, got.Retries)
					continue
				}

				assert.True(dferrors.CheckError(reportErr, dfcodes.Conflict), reportErr)
				assert.Equal(models.TaskStatusQueued, got.Status)
				assert.Equal(1, got.Retries)
				assert.Empty(got.WorkerID)
				assert.Empty(got.FailedBy)
			}
		})
	}
}

func TestScheduler_DeleteWhileSigningOn(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert := assert.New(t)
		f := newFixture(t, nil)
		f.render(t, 50, "1", 1)
		workerID := f.worker(t, models.Worker{Name: "foo"})
		task := f.assign(t, workerID)
		require.NotNil(t, task)
		_, err := f.stateMachine.RequestStatusChange(context.Background(), workerID, models.WorkerStatusOffline, "")
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			deleteErr error
			signOnErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			deleteErr = f.registry.Delete(context.Background(), workerID)
		}()
		go func() {
			defer wg.Done()
			_, existing, err := f.registry.Register(context.Background(), models.Worker{BaseModel: models.BaseModel{ID: workerID}, Name: "foo"})
			if err == nil && existing {
				_, err = f.stateMachine.SignOn(context.Background(), workerID)
			}
			signOnErr = err
		}()
		wg.Wait()

		got, err := f.registry.Get(context.Background(), workerID)
		switch {
		case signOnErr == nil:
			require.NoError(t, err)
			assert.Equal(models.WorkerStatusStarting, got.Status)
		default:
			assert.True(dferrors.CheckError(signOnErr, dfcodes.NotFound), signOnErr)
			assert.NoError(deleteErr)
			assert.True(dferrors.CheckError(err, dfcodes.NotFound))
		}
		if deleteErr != nil {
			assert.True(dferrors.CheckError(deleteErr, dfcodes.Conflict), deleteErr)
			assert.NoError(signOnErr)
		}

		// The task was released once, whoever won.
		requeued := f.task(t, task.ID)
		assert.Equal(models.TaskStatusQueued, requeued.Status)
		assert.Equal(1, requeued.Retries)
		assert.Equal(0, requeued.History.Active())
	}
}
