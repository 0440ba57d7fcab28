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
	// Task is handed to a worker.
	TaskEventAssign = "Assign"

	// Worker started running the task.
	TaskEventStart = "Start"

	// Worker finished the task.
	TaskEventSucceed = "Succeed"

	// Task failed for good.
	TaskEventFail = "Fail"

	// Task goes back to the queue.
	TaskEventRequeue = "Requeue"

	// Task is cancelled.
	TaskEventCancel = "Cancel"
)

var (
	taskStateQueued    = string(models.TaskStatusQueued)
	taskStateAssigned  = string(models.TaskStatusAssigned)
	taskStateRunning   = string(models.TaskStatusRunning)
	taskStateDone      = string(models.TaskStatusDone)
	taskStateFailed    = string(models.TaskStatusFailed)
	taskStateCancelled = string(models.TaskStatusCancelled)
)

// Task is the live scheduler entry of a task. It is guarded by the
// scheduler lock.
type Task struct {
	// ID is task id.
	ID string

	// JobID is the owning job id.
	JobID string

	// Name is task name.
	Name string

	// Type is matched against the worker supported task types.
	Type string

	// Index is the position of the task in its job.
	Index int

	// Priority is inherited from the job, lowered on requeue when configured.
	Priority int

	// Sequence orders tasks of equal priority.
	Sequence uint64

	// WorkerID is the current assignment.
	WorkerID string

	// Retries counts requeues after worker loss.
	Retries int

	// CancelRequested is set when cancel races an assignment.
	CancelRequested bool

	// Delivered is set once the current assignment reached the worker.
	Delivered bool

	// TouchedAt is the last time the holding worker reported on the task.
	TouchedAt time.Time

	// FailedBy lists the workers the task failed on.
	FailedBy models.Array

	// Activity is the last thing that happened to the task.
	Activity string

	// History of assignments.
	History models.Assignments

	// Commands the worker runs.
	Commands models.Commands

	// Task state machine.
	FSM *fsm.FSM

	// CreatedAt is task create time.
	CreatedAt time.Time

	// UpdatedAt is task update time.
	UpdatedAt *atomic.Time

	// Task log.
	Log *logger.SugaredLoggerOnWith

	// Position in the queue heap, -1 when not queued.
	queueIndex int
}

// NewTask creates a task entry from its record.
func NewTask(t models.Task, sequence uint64) *Task {
	status := t.Status
	if status == "" {
		status = models.TaskStatusQueued
	}

	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	task := &Task{
		ID:              t.ID,
		JobID:           t.JobID,
		Name:            t.Name,
		Type:            t.Type,
		Index:           t.Index,
		Priority:        t.Priority,
		Sequence:        sequence,
		WorkerID:        t.WorkerID,
		Retries:         t.Retries,
		CancelRequested: t.CancelRequested,
		FailedBy:        t.FailedBy.Clone(),
		Activity:        t.Activity,
		History:         t.History.Clone(),
		Commands:        t.Commands.Clone(),
		CreatedAt:       createdAt,
		UpdatedAt:       atomic.NewTime(time.Now()),
		Log:             logger.WithTask(t.JobID, t.ID),
		queueIndex:      -1,
	}

	task.FSM = fsm.NewFSM(
		string(status),
		fsm.Events{
			{Name: TaskEventAssign, Src: []string{taskStateQueued}, Dst: taskStateAssigned},
			{Name: TaskEventStart, Src: []string{taskStateAssigned}, Dst: taskStateRunning},
			{Name: TaskEventSucceed, Src: []string{taskStateAssigned, taskStateRunning}, Dst: taskStateDone},
			{Name: TaskEventFail, Src: []string{taskStateQueued, taskStateAssigned, taskStateRunning}, Dst: taskStateFailed},
			{Name: TaskEventRequeue, Src: []string{taskStateAssigned, taskStateRunning}, Dst: taskStateQueued},
			{Name: TaskEventCancel, Src: []string{taskStateQueued, taskStateAssigned, taskStateRunning}, Dst: taskStateCancelled},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				task.UpdatedAt.Store(time.Now())
				task.Log.Infof("task state is %s", e.FSM.Current())
			},
		},
	)

	return task
}

// Status returns the current task status.
func (t *Task) Status() models.TaskStatus {
	return models.TaskStatus(t.FSM.Current())
}

// Queued reports whether the task sits in a queue heap.
func (t *Task) Queued() bool {
	return t.queueIndex >= 0
}

// Snapshot returns a value copy of the task.
func (t *Task) Snapshot() models.Task {
	return models.Task{
		BaseModel: models.BaseModel{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt.Load(),
		},
		JobID:           t.JobID,
		Name:            t.Name,
		Type:            t.Type,
		Index:           t.Index,
		Priority:        t.Priority,
		Status:          t.Status(),
		WorkerID:        t.WorkerID,
		Retries:         t.Retries,
		CancelRequested: t.CancelRequested,
		FailedBy:        t.FailedBy.Clone(),
		Activity:        t.Activity,
		History:         t.History.Clone(),
		Commands:        t.Commands.Clone(),
	}
}
