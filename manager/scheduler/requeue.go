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

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/metrics"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/resource"
)

// ReasonRestart is recorded on assignments released by a manager restart.
const ReasonRestart = "manager restarted"

func (s *scheduler) Requeue(ctx context.Context, workerID, reason string) (int, error) {
	if err := s.acquire(ctx); err != nil {
		return 0, err
	}

	var held []*resource.Task
	for _, t := range s.tasks {
		if t.WorkerID == workerID && t.Status().IsActive() {
			held = append(held, t)
		}
	}
	sort.Slice(held, func(i, j int) bool { return held[i].ID < held[j].ID })

	// An assignment that never reached the worker costs no retry.
	var c changes
	for _, t := range held {
		s.requeue(t, reason, t.Delivered, &c)
	}
	s.release()

	if len(held) > 0 {
		logger.WithWorkerID(workerID).Infof("released %d tasks: %s", len(held), reason)
	}

	s.publish(ctx, c)
	return len(held), nil
}

// requeue puts a held task back in the queue, or ends it when it was
// cancelled or ran out of retries.
func (s *scheduler) requeue(t *resource.Task, reason string, retry bool, c *changes) {
	j := s.jobs[t.JobID]
	s.releaseAssignment(t, reason)

	if t.CancelRequested {
		s.cancel(t, c)
		s.finish(j, c)
		return
	}

	t.WorkerID = ""
	t.Delivered = false
	if retry {
		t.Retries++
	}

	if t.Retries > s.config.RetryLimit {
		if err := t.FSM.Event(context.Background(), resource.TaskEventFail); err != nil {
			t.Log.Errorf("fail task failed: %v", err)
			return
		}

		t.Activity = fmt.Sprintf("retry limit %d exceeded: %s", s.config.RetryLimit, reason)
		metrics.FinishTaskCount.WithLabelValues(string(models.TaskStatusFailed)).Inc()
		t.Log.Warn(t.Activity)
		c.task(t)
		s.finish(j, c)
		return
	}

	if err := t.FSM.Event(context.Background(), resource.TaskEventRequeue); err != nil {
		t.Log.Errorf("requeue task failed: %v", err)
		return
	}

	if retry && !s.config.KeepPriorityOnRequeue {
		t.Priority -= s.config.RequeuePriorityPenalty
		if t.Priority < MinPriority {
			t.Priority = MinPriority
		}
	}

	t.Activity = "requeued: " + reason
	s.queue.Push(t)
	metrics.RequeueTaskCount.Inc()
	c.task(t)
}

func (s *scheduler) Restore(ctx context.Context, jobs []models.Job, tasks []models.Task) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}

	s.jobs = make(map[string]*resource.Job, len(jobs))
	s.tasks = make(map[string]*resource.Task, len(tasks))
	s.queue = resource.NewTaskQueue()
	s.sequence = 0

	for _, job := range jobs {
		s.jobs[job.ID] = resource.NewJob(job)
		if job.Sequence > s.sequence {
			s.sequence = job.Sequence
		}
	}

	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].JobID != sorted[j].JobID {
			return sorted[i].JobID < sorted[j].JobID
		}
		return sorted[i].Index < sorted[j].Index
	})

	var c changes
	for _, task := range sorted {
		j, ok := s.jobs[task.JobID]
		if !ok {
			continue
		}

		t := resource.NewTask(task, j.Sequence)
		j.Tasks = append(j.Tasks, t)
		s.tasks[t.ID] = t

		switch t.Status() {
		case models.TaskStatusQueued:
			s.queue.Push(t)
		case models.TaskStatusAssigned, models.TaskStatusRunning:
			s.requeue(t, ReasonRestart, false, &c)
		}
	}

	for _, j := range s.jobs {
		if !j.Status().IsTerminal() {
			s.finish(j, &c)
		}
	}
	s.release()

	s.publish(ctx, c)
	return nil
}
