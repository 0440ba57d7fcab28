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
	"testing"

	"github.com/stretchr/testify/assert"

	"d7y.io/renderfarm/manager/models"
)

func newMockTask(id string, priority int, sequence uint64, index int) *Task {
	return NewTask(models.Task{
		BaseModel: models.BaseModel{ID: id},
		JobID:     "job",
		Name:      id,
		Index:     index,
		Priority:  priority,
	}, sequence)
}

func TestTask_FSM(t *testing.T) {
	tests := []struct {
		name   string
		events []string
		expect models.TaskStatus
		fails  bool
	}{
		{name: "assign start succeed", events: []string{TaskEventAssign, TaskEventStart, TaskEventSucceed}, expect: models.TaskStatusDone},
		{name: "assign requeue", events: []string{TaskEventAssign, TaskEventRequeue}, expect: models.TaskStatusQueued},
		{name: "running requeue", events: []string{TaskEventAssign, TaskEventStart, TaskEventRequeue}, expect: models.TaskStatusQueued},
		{name: "queued cancel", events: []string{TaskEventCancel}, expect: models.TaskStatusCancelled},
		{name: "queued fail", events: []string{TaskEventFail}, expect: models.TaskStatusFailed},
		{name: "start queued task", events: []string{TaskEventStart}, expect: models.TaskStatusQueued, fails: true},
		{name: "requeue done task", events: []string{TaskEventAssign, TaskEventSucceed, TaskEventRequeue}, expect: models.TaskStatusDone, fails: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			task := newMockTask("foo", 50, 1, 0)

			var err error
			for _, event := range tc.events {
				if err = task.FSM.Event(context.Background(), event); err != nil {
					break
				}
			}

			assert.Equal(tc.fails, err != nil)
			assert.Equal(tc.expect, task.Status())
		})
	}
}

func TestTask_Snapshot(t *testing.T) {
	assert := assert.New(t)
	task := newMockTask("foo", 80, 1, 2)
	task.History = models.Assignments{{WorkerID: "bar"}}
	task.FailedBy = models.Array{"bar"}

	snapshot := task.Snapshot()
	assert.Equal("foo", snapshot.ID)
	assert.Equal(80, snapshot.Priority)
	assert.Equal(2, snapshot.Index)
	assert.Equal(models.TaskStatusQueued, snapshot.Status)

	snapshot.History[0].WorkerID = "baz"
	snapshot.FailedBy[0] = "baz"
	assert.Equal("bar", task.History[0].WorkerID)
	assert.Equal(models.Array{"bar"}, task.FailedBy)
}

func TestJob_Resolve(t *testing.T) {
	tests := []struct {
		name            string
		statuses        []string
		cancelRequested bool
		expect          string
	}{
		{name: "outstanding tasks", statuses: []string{TaskEventSucceed, ""}, expect: ""},
		{name: "all done", statuses: []string{TaskEventSucceed, TaskEventSucceed}, expect: JobEventComplete},
		{name: "one failed", statuses: []string{TaskEventSucceed, TaskEventFail}, expect: JobEventFail},
		{name: "cancel requested", statuses: []string{TaskEventFail, TaskEventCancel}, cancelRequested: true, expect: JobEventCancel},
		{name: "all done while cancel requested", statuses: []string{TaskEventSucceed}, cancelRequested: true, expect: JobEventComplete},
		{name: "task cancelled", statuses: []string{TaskEventSucceed, TaskEventCancel}, expect: JobEventCancel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			job := NewJob(models.Job{BaseModel: models.BaseModel{ID: "job"}, Type: "render"})
			if tc.cancelRequested {
				assert.NoError(job.FSM.Event(ctx, JobEventRequestCancel))
			}

			for i, event := range tc.statuses {
				task := newMockTask("task", 50, 1, i)
				switch event {
				case "":
				case TaskEventSucceed:
					assert.NoError(task.FSM.Event(ctx, TaskEventAssign))
					assert.NoError(task.FSM.Event(ctx, TaskEventSucceed))
				default:
					assert.NoError(task.FSM.Event(ctx, event))
				}
				job.Tasks = append(job.Tasks, task)
			}

			assert.Equal(tc.expect, job.Resolve())
		})
	}
}
