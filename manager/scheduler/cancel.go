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

	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/resource"
	"d7y.io/renderfarm/pkg/dferrors"
)

func (s *scheduler) CancelJob(ctx context.Context, jobID string) (models.Job, error) {
	if err := s.acquire(ctx); err != nil {
		return models.Job{}, err
	}

	j, ok := s.jobs[jobID]
	if !ok {
		s.release()
		return models.Job{}, dferrors.NotFoundf("job %s not found", jobID)
	}

	switch j.Status() {
	case models.JobStatusCancelled, models.JobStatusCancelRequested:
		snapshot := j.Snapshot()
		s.release()
		return snapshot, nil
	case models.JobStatusCompleted, models.JobStatusFailed:
		snapshot := j.Snapshot()
		s.release()
		return snapshot, dferrors.Conflictf("job %s is already %s", jobID, snapshot.Status)
	}

	var c changes
	held := 0
	for _, t := range j.Tasks {
		switch {
		case t.Status() == models.TaskStatusQueued:
			s.cancel(t, &c)
		case t.Status().IsActive():
			t.CancelRequested = true
			t.Activity = "cancel requested"
			c.task(t)
			held++
		}
	}

	event := resource.JobEventCancel
	if held > 0 {
		event = resource.JobEventRequestCancel
	}

	if err := j.FSM.Event(ctx, event); err != nil {
		j.Log.Errorf("job state machine event %s failed: %v", event, err)
	}
	j.Activity = string(j.Status())
	c.job(j)

	snapshot := j.Snapshot()
	s.release()

	j.Log.Infof("job cancel requested, %d tasks still held by workers", held)
	s.publish(ctx, c)
	return snapshot, nil
}

func (s *scheduler) CancelTask(ctx context.Context, taskID string) (models.Task, error) {
	if err := s.acquire(ctx); err != nil {
		return models.Task{}, err
	}

	t, ok := s.tasks[taskID]
	if !ok {
		s.release()
		return models.Task{}, dferrors.NotFoundf("task %s not found", taskID)
	}

	var c changes
	switch status := t.Status(); {
	case status == models.TaskStatusCancelled:
	case status.IsTerminal():
		snapshot := t.Snapshot()
		s.release()
		return snapshot, dferrors.Conflictf("task %s is already %s", taskID, status)
	case status == models.TaskStatusQueued:
		s.cancel(t, &c)
		s.finish(s.jobs[t.JobID], &c)
	case !t.CancelRequested:
		t.CancelRequested = true
		t.Activity = "cancel requested"
		c.task(t)
	}

	snapshot := t.Snapshot()
	s.release()

	s.publish(ctx, c)
	return snapshot, nil
}
