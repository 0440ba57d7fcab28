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

package resource

import (
	"context"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/atomic"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/models"
)

const (
	// First task of the job is assigned.
	JobEventActivate = "Activate"

	// Every task is done.
	JobEventComplete = "Complete"

	// Job ended with failed tasks.
	JobEventFail = "Fail"

	// Cancel is waiting for tasks held by workers.
	JobEventRequestCancel = "RequestCancel"

	// Job is cancelled.
	JobEventCancel = "Cancel"
)

var (
	jobStateQueued          = string(models.JobStatusQueued)
	jobStateActive          = string(models.JobStatusActive)
	jobStateCompleted       = string(models.JobStatusCompleted)
	jobStateFailed          = string(models.JobStatusFailed)
	jobStateCancelRequested = string(models.JobStatusCancelRequested)
	jobStateCancelled       = string(models.JobStatusCancelled)
)

// Job is the live scheduler entry of a job. It is guarded by the
// scheduler lock.
type Job struct {
	// ID is job id.
	ID string

	// Name is job name.
	Name string

	// Type is the job type name.
	Type string

	// Priority from 0 to 100, higher runs first.
	Priority int

	// Settings validated against the job type.
	Settings models.JSONMap

	// Metadata of the job.
	Metadata models.StringMap

	// ClusterID constrains which workers may run the job.
	ClusterID string

	// Activity is the last thing that happened to the job.
	Activity string

	// Blocklist keeps workers away from task types they failed too often.
	Blocklist models.Blocklist

	// Sequence is the submission order.
	Sequence uint64

	// Tasks in index order.
	Tasks []*Task

	// Job state machine.
	FSM *fsm.FSM

	// CreatedAt is job create time.
	CreatedAt time.Time

	// UpdatedAt is job update time.
	UpdatedAt *atomic.Time

	// Job log.
	Log *logger.SugaredLoggerOnWith
}

// NewJob creates a job entry from its record.
func NewJob(j models.Job) *Job {
	status := j.Status
	if status == "" {
		status = models.JobStatusQueued
	}

	createdAt := j.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	job := &Job{
		ID:        j.ID,
		Name:      j.Name,
		Type:      j.Type,
		Priority:  j.Priority,
		Settings:  j.Settings.Clone(),
		Metadata:  j.Metadata.Clone(),
		ClusterID: j.ClusterID,
		Activity:  j.Activity,
		Blocklist: j.Blocklist.Clone(),
		Sequence:  j.Sequence,
		CreatedAt: createdAt,
		UpdatedAt: atomic.NewTime(time.Now()),
		Log:       logger.WithJob(j.ID, j.Type),
	}

	job.FSM = fsm.NewFSM(
		string(status),
		fsm.Events{
			{Name: JobEventActivate, Src: []string{jobStateQueued}, Dst: jobStateActive},
			{Name: JobEventComplete, Src: []string{jobStateQueued, jobStateActive, jobStateCancelRequested}, Dst: jobStateCompleted},
			{Name: JobEventFail, Src: []string{jobStateQueued, jobStateActive, jobStateCancelRequested}, Dst: jobStateFailed},
			{Name: JobEventRequestCancel, Src: []string{jobStateQueued, jobStateActive}, Dst: jobStateCancelRequested},
			{Name: JobEventCancel, Src: []string{jobStateQueued, jobStateActive, jobStateCancelRequested}, Dst: jobStateCancelled},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				job.UpdatedAt.Store(time.Now())
				job.Log.Infof("job state is %s", e.FSM.Current())
			},
		},
	)

	return job
}

// Status returns the current job status.
func (j *Job) Status() models.JobStatus {
	return models.JobStatus(j.FSM.Current())
}

// Snapshot returns a value copy of the job.
func (j *Job) Snapshot() models.Job {
	return models.Job{
		BaseModel: models.BaseModel{
			ID:        j.ID,
			CreatedAt: j.CreatedAt,
			UpdatedAt: j.UpdatedAt.Load(),
		},
		Name:      j.Name,
		Type:      j.Type,
		Priority:  j.Priority,
		Settings:  j.Settings.Clone(),
		Metadata:  j.Metadata.Clone(),
		Status:    j.Status(),
		ClusterID: j.ClusterID,
		Activity:  j.Activity,
		Blocklist: j.Blocklist.Clone(),
		Sequence:  j.Sequence,
	}
}

// Resolve derives the final status once every task is terminal. It returns
// the event to fire, or "" while tasks are outstanding.
func (j *Job) Resolve() string {
	var done, failed int
	for _, t := range j.Tasks {
		switch t.Status() {
		case models.TaskStatusDone:
			done++
		case models.TaskStatusFailed:
			failed++
		case models.TaskStatusCancelled:
		default:
			return ""
		}
	}

	switch {
	case done == len(j.Tasks):
		return JobEventComplete
	case j.Status() == models.JobStatusCancelRequested:
		return JobEventCancel
	case failed > 0:
		return JobEventFail
	default:
		return JobEventCancel
	}
}
