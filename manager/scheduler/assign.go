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
	"time"

	"d7y.io/renderfarm/manager/metrics"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/resource"
	"d7y.io/renderfarm/pkg/dferrors"
)

// eligible reports whether the worker may be handed tasks at now.
func eligible(worker models.Worker, now time.Time) error {
	if worker.Status != models.WorkerStatusAwake {
		return dferrors.Conflictf("worker %s is %s, only awake workers get tasks", worker.ID, worker.Status)
	}

	if worker.SleepSchedule.Asleep(now) {
		return dferrors.Conflictf("worker %s is inside its sleep schedule", worker.ID)
	}

	return nil
}

func matches(worker models.Worker, clusterID, taskType string) bool {
	if clusterID != "" && clusterID != worker.ClusterID {
		return false
	}

	return worker.Supports(taskType)
}

func (s *scheduler) AssignNext(ctx context.Context, workerID string) (*models.Task, error) {
	worker, err := s.registry.Get(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if err := eligible(worker, s.clock.Now()); err != nil {
		if worker.Status == models.WorkerStatusAwake {
			return nil, nil
		}
		return nil, err
	}

	if err := s.acquire(ctx); err != nil {
		return nil, err
	}

	// A worker asking again gets the task it already holds.
	if held := s.held(workerID); held != nil {
		held.Delivered = true
		snapshot := held.Snapshot()
		s.release()
		return &snapshot, nil
	}

	t := s.queue.Claim(func(t *resource.Task) bool {
		j, ok := s.jobs[t.JobID]
		if !ok || t.CancelRequested || j.Status() == models.JobStatusCancelRequested {
			return false
		}

		if t.FailedBy.Contains(workerID) || j.Blocklist.Blocks(workerID, t.Type) {
			return false
		}

		return matches(worker, j.ClusterID, t.Type)
	})
	if t == nil {
		s.release()
		return nil, nil
	}

	if err := t.FSM.Event(ctx, resource.TaskEventAssign); err != nil {
		s.queue.Push(t)
		s.release()
		return nil, dferrors.Conflictf("assign task %s: %v", t.ID, err)
	}

	var c changes
	attempt := len(t.History)
	t.WorkerID = workerID
	t.Delivered = false
	t.TouchedAt = s.clock.Now()
	t.History = append(t.History, models.Assignment{WorkerID: workerID, AssignedAt: t.TouchedAt})
	t.Activity = fmt.Sprintf("assigned to worker %s", worker.Name)

	j := s.jobs[t.JobID]
	activated := false
	if j.Status() == models.JobStatusQueued {
		if err := j.FSM.Event(ctx, resource.JobEventActivate); err == nil {
			activated = true
			j.Activity = "active"
			c.job(j)
		}
	}
	c.task(t)

	clusterID, taskType := j.ClusterID, t.Type
	snapshot := t.Snapshot()
	s.release()

	// The worker may have changed between the snapshot and the claim.
	worker, err = s.registry.Get(ctx, workerID)
	if err == nil {
		err = eligible(worker, s.clock.Now())
	}
	if err == nil && !matches(worker, clusterID, taskType) {
		err = dferrors.Conflictf("worker %s no longer matches task %s", workerID, t.ID)
	}

	if err != nil {
		t.Log.Infof("assignment to worker %s withdrawn: %v", workerID, err)
		s.unclaim(t, workerID, attempt, activated)
		return nil, nil
	}

	if !s.deliver(t, workerID, attempt) {
		t.Log.Infof("assignment to worker %s released before it was handed out", workerID)
		return nil, nil
	}

	metrics.AssignTaskCount.Inc()
	t.Log.Infof("task assigned to worker %s", workerID)
	s.publish(ctx, c)
	return &snapshot, nil
}

// deliver marks the assignment as handed out, unless something released it
// since the claim.
func (s *scheduler) deliver(t *resource.Task, workerID string, attempt int) bool {
	if err := s.acquire(context.Background()); err != nil {
		return false
	}
	defer s.release()

	if t.Status() != models.TaskStatusAssigned || t.WorkerID != workerID || len(t.History) != attempt+1 {
		return false
	}

	t.Delivered = true
	return true
}

// held returns the task the worker currently holds.
func (s *scheduler) held(workerID string) *resource.Task {
	for _, t := range s.tasks {
		if t.WorkerID == workerID && t.Status().IsActive() {
			return t
		}
	}

	return nil
}

// unclaim withdraws an assignment that was never handed out. It leaves the
// task alone when something else already released it.
func (s *scheduler) unclaim(t *resource.Task, workerID string, attempt int, activated bool) {
	ctx := context.Background()
	if err := s.acquire(ctx); err != nil {
		return
	}

	if t.Status() != models.TaskStatusAssigned || t.WorkerID != workerID || len(t.History) != attempt+1 {
		s.release()
		return
	}

	var c changes
	j := s.jobs[t.JobID]
	t.WorkerID = ""
	t.Delivered = false
	t.History = t.History[:attempt]

	if t.CancelRequested {
		s.cancel(t, &c)
		s.finish(j, &c)
		s.release()
		s.publish(ctx, c)
		return
	}

	if err := t.FSM.Event(ctx, resource.TaskEventRequeue); err != nil {
		t.Log.Errorf("withdraw assignment failed: %v", err)
		s.release()
		return
	}
	t.Activity = "queued"
	s.queue.Push(t)

	if activated && j.Status() == models.JobStatusActive && untouched(j) {
		j.FSM.SetState(string(models.JobStatusQueued))
		j.Activity = "queued"
	}
	s.release()
}

func untouched(j *resource.Job) bool {
	for _, t := range j.Tasks {
		if t.Status() != models.TaskStatusQueued {
			return false
		}
	}
	return true
}
