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

	"d7y.io/renderfarm/manager/metrics"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/resource"
	"d7y.io/renderfarm/pkg/dferrors"
)

// report runs fn on a task held by the worker. A task whose cancellation was
// requested is cancelled instead, and the worker is told so.
func (s *scheduler) report(ctx context.Context, taskID, workerID string, fn func(t *resource.Task, c *changes) error) (models.Task, error) {
	if err := s.acquire(ctx); err != nil {
		return models.Task{}, err
	}

	t, ok := s.tasks[taskID]
	if !ok {
		s.release()
		return models.Task{}, dferrors.NotFoundf("task %s not found", taskID)
	}

	if t.WorkerID != workerID || !t.Status().IsActive() {
		snapshot := t.Snapshot()
		s.release()
		return snapshot, dferrors.Conflictf("task %s is %s and not held by worker %s", taskID, snapshot.Status, workerID)
	}

	var c changes
	j := s.jobs[t.JobID]
	if t.CancelRequested {
		s.cancel(t, &c)
		s.finish(j, &c)
		snapshot := t.Snapshot()
		s.release()

		s.publish(ctx, c)
		return snapshot, dferrors.Conflictf("task %s cancelled", taskID)
	}

	err := fn(t, &c)
	if err == nil {
		s.finish(j, &c)
	}
	snapshot := t.Snapshot()
	s.release()

	s.publish(ctx, c)
	return snapshot, err
}

func (s *scheduler) Start(ctx context.Context, taskID, workerID string) (models.Task, error) {
	return s.report(ctx, taskID, workerID, func(t *resource.Task, c *changes) error {
		t.Delivered = true
		t.TouchedAt = s.clock.Now()
		if t.Status() == models.TaskStatusRunning {
			return nil
		}

		if err := t.FSM.Event(ctx, resource.TaskEventStart); err != nil {
			return dferrors.Conflictf("start task %s: %v", t.ID, err)
		}

		t.Activity = "running"
		c.task(t)
		return nil
	})
}

func (s *scheduler) Update(ctx context.Context, taskID, workerID, activity string) (models.Task, error) {
	return s.report(ctx, taskID, workerID, func(t *resource.Task, c *changes) error {
		t.Delivered = true
		t.TouchedAt = s.clock.Now()
		if activity == "" || activity == t.Activity {
			return nil
		}

		t.Activity = activity
		c.task(t)
		return nil
	})
}

func (s *scheduler) Complete(ctx context.Context, taskID, workerID, result string) (models.Task, error) {
	return s.report(ctx, taskID, workerID, func(t *resource.Task, c *changes) error {
		if err := t.FSM.Event(ctx, resource.TaskEventSucceed); err != nil {
			return dferrors.Conflictf("complete task %s: %v", t.ID, err)
		}

		if result == "" {
			result = "done"
		}
		s.releaseAssignment(t, "done")
		t.Activity = result
		metrics.FinishTaskCount.WithLabelValues(string(models.TaskStatusDone)).Inc()
		t.Log.Infof("task done on worker %s", workerID)
		c.task(t)
		return nil
	})
}

func (s *scheduler) Fail(ctx context.Context, taskID, workerID, reason string) (models.Task, error) {
	return s.report(ctx, taskID, workerID, func(t *resource.Task, c *changes) error {
		if reason == "" {
			reason = "failed"
		}
		return s.failBy(ctx, t, workerID, reason, c)
	})
}

// releaseAssignment closes the open assignment of the task.
func (s *scheduler) releaseAssignment(t *resource.Task, reason string) {
	n := len(t.History)
	if n == 0 || t.History[n-1].ReleasedAt != nil {
		return
	}

	now := s.clock.Now()
	t.History[n-1].ReleasedAt = &now
	t.History[n-1].Reason = reason
}

// cancel moves a queued or held task to cancelled.
func (s *scheduler) cancel(t *resource.Task, c *changes) {
	s.queue.Remove(t)
	if err := t.FSM.Event(context.Background(), resource.TaskEventCancel); err != nil {
		t.Log.Errorf("cancel task failed: %v", err)
		return
	}

	s.releaseAssignment(t, "cancelled")
	t.WorkerID = ""
	t.Activity = "cancelled"
	metrics.FinishTaskCount.WithLabelValues(string(models.TaskStatusCancelled)).Inc()
	c.task(t)
}
