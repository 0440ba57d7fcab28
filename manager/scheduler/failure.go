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
	"sort"
	"time"

	"d7y.io/renderfarm/manager/metrics"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/registry"
	"d7y.io/renderfarm/manager/resource"
	"d7y.io/renderfarm/pkg/dferrors"
)

// failBy records that the task failed on the worker. The task goes back to
// the queue until it failed on enough workers or no worker is left to run it.
func (s *scheduler) failBy(ctx context.Context, t *resource.Task, workerID, reason string, c *changes) error {
	if t.FSM.Cannot(resource.TaskEventFail) {
		return dferrors.Conflictf("fail task %s: task is %s", t.ID, t.Status())
	}

	j := s.jobs[t.JobID]
	s.releaseAssignment(t, reason)
	if !t.FailedBy.Contains(workerID) {
		t.FailedBy = append(t.FailedBy, workerID)
	}
	s.block(ctx, j, workerID, t.Type, c)

	if len(t.FailedBy) < s.config.TaskFailAfterSoftFailCount && s.runnable(ctx, j, t.Type, t.FailedBy) {
		if err := t.FSM.Event(ctx, resource.TaskEventRequeue); err != nil {
			return dferrors.Conflictf("requeue task %s: %v", t.ID, err)
		}

		t.WorkerID = ""
		t.Delivered = false
		t.Activity = fmt.Sprintf("soft failed on %d of %d workers: %s", len(t.FailedBy), s.config.TaskFailAfterSoftFailCount, reason)
		s.queue.Push(t)
		metrics.SoftFailTaskCount.Inc()
		t.Log.Warnf("task failed on worker %s and is requeued: %s", workerID, reason)
		c.task(t)
		return nil
	}

	if err := t.FSM.Event(ctx, resource.TaskEventFail); err != nil {
		return dferrors.Conflictf("fail task %s: %v", t.ID, err)
	}

	t.Activity = "failed: " + reason
	metrics.FinishTaskCount.WithLabelValues(string(models.TaskStatusFailed)).Inc()
	t.Log.Warnf("task failed on worker %s: %s", workerID, reason)
	c.task(t)
	return nil
}

// block keeps the worker away from taskType tasks of the job once it failed
// BlocklistThreshold of them. Queued tasks no worker is left for fail.
func (s *scheduler) block(ctx context.Context, j *resource.Job, workerID, taskType string, c *changes) {
	if s.config.BlocklistThreshold <= 0 || j.Blocklist.Blocks(workerID, taskType) {
		return
	}

	failed := 0
	for _, t := range j.Tasks {
		if t.Type == taskType && t.FailedBy.Contains(workerID) {
			failed++
		}
	}
	if failed < s.config.BlocklistThreshold {
		return
	}

	j.Blocklist = append(j.Blocklist, models.BlockEntry{WorkerID: workerID, TaskType: taskType})
	j.Activity = fmt.Sprintf("worker %s blocklisted for %q tasks", workerID, taskType)
	metrics.BlocklistWorkerCount.Inc()
	j.Log.Warnf("worker %s failed %d %q tasks and is blocklisted", workerID, failed, taskType)
	c.job(j)

	left, err := s.workersLeft(ctx, j, taskType)
	if err != nil {
		return
	}

	for _, t := range j.Tasks {
		if t.Type != taskType || t.Status() != models.TaskStatusQueued || anyOutside(left, t.FailedBy) {
			continue
		}

		s.queue.Remove(t)
		if err := t.FSM.Event(ctx, resource.TaskEventFail); err != nil {
			t.Log.Errorf("fail task failed: %v", err)
			continue
		}

		t.Activity = fmt.Sprintf("no worker left to run %q tasks", taskType)
		metrics.FinishTaskCount.WithLabelValues(string(models.TaskStatusFailed)).Inc()
		t.Log.Warn(t.Activity)
		c.task(t)
	}
}

// runnable reports whether a worker outside exclude may still run taskType
// tasks of the job. It assumes one is when the workers can not be listed.
func (s *scheduler) runnable(ctx context.Context, j *resource.Job, taskType string, exclude models.Array) bool {
	left, err := s.workersLeft(ctx, j, taskType)
	if err != nil {
		return true
	}

	return anyOutside(left, exclude)
}

// workersLeft returns the workers that may run taskType tasks of the job,
// whatever their current status. Shut down workers never come back.
func (s *scheduler) workersLeft(ctx context.Context, j *resource.Job, taskType string) ([]string, error) {
	workers, err := s.registry.List(ctx, registry.Filter{ClusterID: j.ClusterID})
	if err != nil {
		j.Log.Warnf("list workers failed: %v", err)
		return nil, err
	}

	var left []string
	for _, w := range workers {
		if w.Status == models.WorkerStatusShutdown || !w.Supports(taskType) || j.Blocklist.Blocks(w.ID, taskType) {
			continue
		}
		left = append(left, w.ID)
	}

	return left, nil
}

// anyOutside reports whether an id of workers is not in exclude.
func anyOutside(workers []string, exclude models.Array) bool {
	for _, id := range workers {
		if !exclude.Contains(id) {
			return true
		}
	}

	return false
}

func (s *scheduler) TimeoutTasks(ctx context.Context, cutoff time.Time) (int, error) {
	if err := s.acquire(ctx); err != nil {
		return 0, err
	}

	var stale []*resource.Task
	for _, t := range s.tasks {
		if t.Status().IsActive() && t.TouchedAt.Before(cutoff) {
			stale = append(stale, t)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].ID < stale[j].ID })

	var c changes
	for _, t := range stale {
		j := s.jobs[t.JobID]
		metrics.TimeoutTaskCount.Inc()
		if t.CancelRequested {
			s.cancel(t, &c)
			s.finish(j, &c)
			continue
		}

		reason := fmt.Sprintf("task timed out, untouched since %s", t.TouchedAt.Format(time.RFC3339))
		if err := s.failBy(ctx, t, t.WorkerID, reason, &c); err != nil {
			t.Log.Errorf("time out task failed: %v", err)
			continue
		}
		s.finish(j, &c)
	}
	s.release()

	s.publish(ctx, c)
	return len(stale), nil
}

func (s *scheduler) JobBlocklist(ctx context.Context, jobID string) (models.Blocklist, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, dferrors.NotFoundf("job %s not found", jobID)
	}

	blocklist := j.Blocklist.Clone()
	if blocklist == nil {
		blocklist = models.Blocklist{}
	}

	return blocklist, nil
}

func (s *scheduler) RemoveFromBlocklist(ctx context.Context, jobID string, entries []models.BlockEntry) (models.Job, error) {
	if len(entries) == 0 {
		return models.Job{}, dferrors.Validationf("no blocklist entries given")
	}

	if err := s.acquire(ctx); err != nil {
		return models.Job{}, err
	}

	j, ok := s.jobs[jobID]
	if !ok {
		s.release()
		return models.Job{}, dferrors.NotFoundf("job %s not found", jobID)
	}

	remove := models.Blocklist(entries)
	var kept models.Blocklist
	for _, e := range j.Blocklist {
		if !remove.Blocks(e.WorkerID, e.TaskType) {
			kept = append(kept, e)
		}
	}

	var c changes
	if removed := len(j.Blocklist) - len(kept); removed > 0 {
		j.Blocklist = kept
		j.Activity = fmt.Sprintf("%d workers removed from the blocklist", removed)
		j.Log.Infof("removed %d blocklist entries", removed)
		c.job(j)
	}
	snapshot := j.Snapshot()
	s.release()

	s.publish(ctx, c)
	return snapshot, nil
}
