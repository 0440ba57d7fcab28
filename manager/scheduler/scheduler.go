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
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/config"
	"d7y.io/renderfarm/manager/events"
	"d7y.io/renderfarm/manager/jobtypes"
	"d7y.io/renderfarm/manager/metrics"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/registry"
	"d7y.io/renderfarm/manager/resource"
	"d7y.io/renderfarm/pkg/dfcodes"
	"d7y.io/renderfarm/pkg/dferrors"
)

const (
	// MinPriority is the lowest job priority.
	MinPriority = 0

	// MaxPriority is the highest job priority.
	MaxPriority = 100
)

// Submission is a job as submitted by a client.
type Submission struct {
	Name      string
	Type      string
	TypeEtag  string
	Priority  int
	Settings  map[string]any
	Metadata  map[string]string
	ClusterID string
}

// JobFilter selects jobs in ListJobs, empty fields match everything.
type JobFilter struct {
	Status models.JobStatus
}

// Scheduler queues tasks and hands them to workers.
type Scheduler interface {
	// Submit validates the job settings, compiles the job into tasks and queues them.
	Submit(ctx context.Context, submission Submission) (models.Job, error)

	// AssignNext hands the best queued task to the worker, nil when none is eligible.
	AssignNext(ctx context.Context, workerID string) (*models.Task, error)

	// Start records that the worker started running the task.
	Start(ctx context.Context, taskID, workerID string) (models.Task, error)

	// Update records progress the worker reports on a held task.
	Update(ctx context.Context, taskID, workerID, activity string) (models.Task, error)

	// Complete records that the worker finished the task.
	Complete(ctx context.Context, taskID, workerID, result string) (models.Task, error)

	// Fail records that the task failed on the worker. The task is handed to
	// another worker until it failed on TaskFailAfterSoftFailCount workers or
	// no worker is left to run it.
	Fail(ctx context.Context, taskID, workerID, reason string) (models.Task, error)

	// TimeoutTasks fails the held tasks no worker reported on since cutoff.
	TimeoutTasks(ctx context.Context, cutoff time.Time) (int, error)

	// Requeue releases every task held by the worker.
	Requeue(ctx context.Context, workerID, reason string) (int, error)

	// CancelJob cancels queued tasks now and held tasks at their next report.
	CancelJob(ctx context.Context, jobID string) (models.Job, error)

	// CancelTask cancels a queued task now or a held task at its next report.
	CancelTask(ctx context.Context, taskID string) (models.Task, error)

	// JobBlocklist returns the workers kept away from the job.
	JobBlocklist(ctx context.Context, jobID string) (models.Blocklist, error)

	// RemoveFromBlocklist lets the workers run tasks of the job again.
	RemoveFromBlocklist(ctx context.Context, jobID string, entries []models.BlockEntry) (models.Job, error)

	// GetJob returns the job.
	GetJob(ctx context.Context, id string) (models.Job, error)

	// ListJobs returns jobs in submission order.
	ListJobs(ctx context.Context, filter JobFilter) ([]models.Job, error)

	// GetTask returns the task.
	GetTask(ctx context.Context, id string) (models.Task, error)

	// ListTasks returns the tasks of the job in index order.
	ListTasks(ctx context.Context, jobID string) ([]models.Task, error)

	// QueuedTasks returns the queued tasks in the order they will be handed out.
	QueuedTasks(ctx context.Context) ([]models.Task, error)

	// ClusterInUse reports whether an unfinished job is constrained to the cluster.
	ClusterInUse(ctx context.Context, clusterID string) (bool, error)

	// DetachCluster runs fn while no unfinished job can start using the
	// cluster, and refuses when one already does.
	DetachCluster(ctx context.Context, clusterID string, fn func(context.Context) error) error

	// Restore replaces the scheduler content. Tasks held by workers are requeued.
	Restore(ctx context.Context, jobs []models.Job, tasks []models.Task) error
}

type scheduler struct {
	config   *config.SchedulerConfig
	registry registry.Registry
	catalog  jobtypes.Catalog
	bus      events.Bus
	clock    clock.Clock

	// Guards everything below.
	lock     *semaphore.Weighted
	jobs     map[string]*resource.Job
	tasks    map[string]*resource.Task
	queue    *resource.TaskQueue
	sequence uint64
}

// Option is a functional option for configuring the scheduler.
type Option func(s *scheduler)

// WithClock sets the clock used for task and job times.
func WithClock(c clock.Clock) Option {
	return func(s *scheduler) {
		s.clock = c
	}
}

// New returns a new Scheduler. It requeues the tasks of lost workers.
func New(cfg *config.SchedulerConfig, registry registry.Registry, catalog jobtypes.Catalog, bus events.Bus, options ...Option) Scheduler {
	s := &scheduler{
		config:   cfg,
		registry: registry,
		catalog:  catalog,
		bus:      bus,
		clock:    clock.New(),
		lock:     semaphore.NewWeighted(1),
		jobs:     make(map[string]*resource.Job),
		tasks:    make(map[string]*resource.Task),
		queue:    resource.NewTaskQueue(),
	}

	for _, opt := range options {
		opt(s)
	}

	bus.Subscribe(func(ctx context.Context, e events.Event) error {
		lost := e.(events.WorkerLost)
		_, err := s.Requeue(ctx, lost.WorkerID, lost.Reason)
		return err
	}, events.KindWorkerLost)

	return s
}

func (s *scheduler) acquire(ctx context.Context) error {
	if ctx.Err() != nil {
		return dferrors.FromContext(ctx, "lock scheduler")
	}

	if err := s.lock.Acquire(ctx, 1); err != nil {
		return dferrors.FromContext(ctx, "lock scheduler")
	}

	return nil
}

func (s *scheduler) release() {
	metrics.QueuedTaskGauge.Set(float64(s.queue.Len()))
	s.lock.Release(1)
}

// changes collects snapshots under the lock for publishing after it is released.
type changes []events.Event

func (c *changes) task(t *resource.Task) {
	*c = append(*c, events.TaskUpdated{Task: t.Snapshot()})
}

func (c *changes) job(j *resource.Job) {
	*c = append(*c, events.JobUpdated{Job: j.Snapshot()})
}

func (s *scheduler) publish(ctx context.Context, c changes) {
	for _, e := range c {
		if err := s.bus.Publish(ctx, e); err != nil {
			logger.Warnf("publish %s event failed: %v", e.Kind(), err)
		}
	}
}

func (s *scheduler) Submit(ctx context.Context, submission Submission) (models.Job, error) {
	job, tasks, err := s.compile(submission)
	if err != nil {
		metrics.SubmitJobFailureCount.WithLabelValues(submission.Type).Inc()
		return models.Job{}, err
	}

	if err := s.acquire(ctx); err != nil {
		metrics.SubmitJobFailureCount.WithLabelValues(submission.Type).Inc()
		return models.Job{}, err
	}

	if job.ClusterID != "" {
		if _, err := s.registry.GetCluster(ctx, job.ClusterID); err != nil {
			s.release()
			metrics.SubmitJobFailureCount.WithLabelValues(submission.Type).Inc()
			if dferrors.CheckError(err, dfcodes.NotFound) {
				return models.Job{}, dferrors.Validationf("worker cluster %s not found", job.ClusterID)
			}
			return models.Job{}, err
		}
	}

	now := s.clock.Now()
	s.sequence++
	job.Sequence = s.sequence
	job.CreatedAt = now
	job.UpdatedAt = now
	job.Activity = "queued"
	j := resource.NewJob(job)

	var c changes
	for _, task := range tasks {
		task.ID = uuid.New().String()
		task.JobID = j.ID
		task.Priority = j.Priority
		task.CreatedAt = now
		task.UpdatedAt = now
		task.Activity = "queued"

		t := resource.NewTask(task, j.Sequence)
		j.Tasks = append(j.Tasks, t)
		s.tasks[t.ID] = t
		s.queue.Push(t)
	}
	s.jobs[j.ID] = j

	c.job(j)
	for _, t := range j.Tasks {
		c.task(t)
	}
	snapshot := j.Snapshot()
	s.release()

	j.Log.Infof("job %s submitted with %d tasks at priority %d", j.Name, len(j.Tasks), j.Priority)
	metrics.SubmitJobCount.WithLabelValues(j.Type).Inc()
	s.publish(ctx, c)
	return snapshot, nil
}

func (s *scheduler) compile(submission Submission) (models.Job, []models.Task, error) {
	if strings.TrimSpace(submission.Name) == "" {
		return models.Job{}, nil, dferrors.Validationf("job name is required")
	}

	if submission.Priority < MinPriority || submission.Priority > MaxPriority {
		return models.Job{}, nil, dferrors.Validationf("job priority %d is out of range %d-%d", submission.Priority, MinPriority, MaxPriority)
	}

	jobType, err := s.catalog.Get(submission.Type)
	if err != nil {
		if dferrors.CheckError(err, dfcodes.NotFound) {
			return models.Job{}, nil, dferrors.Validationf("unknown job type %q", submission.Type)
		}
		return models.Job{}, nil, err
	}

	if err := jobtypes.CheckEtag(jobType, submission.TypeEtag); err != nil {
		return models.Job{}, nil, err
	}

	settings, err := jobtypes.Validate(jobType, submission.Settings)
	if err != nil {
		return models.Job{}, nil, err
	}

	tasks, err := jobtypes.Compile(jobType, settings)
	if err != nil {
		return models.Job{}, nil, err
	}

	metadata := make(models.StringMap, len(submission.Metadata))
	for k, v := range submission.Metadata {
		metadata[k] = v
	}

	return models.Job{
		BaseModel: models.BaseModel{ID: uuid.New().String()},
		Name:      submission.Name,
		Type:      jobType.Name,
		Priority:  submission.Priority,
		Settings:  settings,
		Metadata:  metadata,
		Status:    models.JobStatusQueued,
		ClusterID: submission.ClusterID,
	}, tasks, nil
}

func (s *scheduler) GetJob(ctx context.Context, id string) (models.Job, error) {
	if err := s.acquire(ctx); err != nil {
		return models.Job{}, err
	}
	defer s.release()

	j, ok := s.jobs[id]
	if !ok {
		return models.Job{}, dferrors.NotFoundf("job %s not found", id)
	}

	return j.Snapshot(), nil
}

func (s *scheduler) ListJobs(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	jobs := make([]models.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if filter.Status != "" && j.Status() != filter.Status {
			continue
		}
		jobs = append(jobs, j.Snapshot())
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Sequence < jobs[j].Sequence })
	return jobs, nil
}

func (s *scheduler) GetTask(ctx context.Context, id string) (models.Task, error) {
	if err := s.acquire(ctx); err != nil {
		return models.Task{}, err
	}
	defer s.release()

	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, dferrors.NotFoundf("task %s not found", id)
	}

	return t.Snapshot(), nil
}

func (s *scheduler) ListTasks(ctx context.Context, jobID string) ([]models.Task, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, dferrors.NotFoundf("job %s not found", jobID)
	}

	tasks := make([]models.Task, len(j.Tasks))
	for i, t := range j.Tasks {
		tasks[i] = t.Snapshot()
	}

	return tasks, nil
}

func (s *scheduler) QueuedTasks(ctx context.Context) ([]models.Task, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	queued := s.queue.Tasks()
	tasks := make([]models.Task, len(queued))
	for i, t := range queued {
		tasks[i] = t.Snapshot()
	}

	return tasks, nil
}

func (s *scheduler) ClusterInUse(ctx context.Context, clusterID string) (bool, error) {
	if err := s.acquire(ctx); err != nil {
		return false, err
	}
	defer s.release()

	return s.clusterUser(clusterID) != nil, nil
}

func (s *scheduler) DetachCluster(ctx context.Context, clusterID string, fn func(context.Context) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if j := s.clusterUser(clusterID); j != nil {
		return dferrors.Conflictf("worker cluster %s is used by %s job %s", clusterID, j.Status(), j.ID)
	}

	return fn(ctx)
}

func (s *scheduler) clusterUser(clusterID string) *resource.Job {
	for _, j := range s.jobs {
		if j.ClusterID == clusterID && !j.Status().IsTerminal() {
			return j
		}
	}

	return nil
}

// finish moves the job to its final status once every task is terminal.
func (s *scheduler) finish(j *resource.Job, c *changes) {
	event := j.Resolve()
	if event == "" || j.FSM.Cannot(event) {
		return
	}

	if err := j.FSM.Event(context.Background(), event); err != nil {
		j.Log.Errorf("job state machine event %s failed: %v", event, err)
		return
	}

	j.Activity = string(j.Status())
	c.job(j)
}
