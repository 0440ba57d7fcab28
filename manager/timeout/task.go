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

package timeout

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/scheduler"
)

// TaskGCTaskID is the id of the task timeout task in the gc runner.
const TaskGCTaskID = "task-timeout"

// TaskChecker fails held tasks their worker stopped reporting on.
type TaskChecker struct {
	scheduler scheduler.Scheduler
	timeout   time.Duration
	clock     clock.Clock
}

// TaskOption is a functional option for configuring the task checker.
type TaskOption func(c *TaskChecker)

// WithTaskClock sets the clock task report times are compared with.
func WithTaskClock(c clock.Clock) TaskOption {
	return func(checker *TaskChecker) {
		checker.clock = c
	}
}

// NewTaskChecker returns a new TaskChecker.
func NewTaskChecker(scheduler scheduler.Scheduler, timeout time.Duration, options ...TaskOption) *TaskChecker {
	c := &TaskChecker{
		scheduler: scheduler,
		timeout:   timeout,
		clock:     clock.New(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

func (c *TaskChecker) RunGC(ctx context.Context) error {
	n, err := c.scheduler.TimeoutTasks(ctx, c.clock.Now().Add(-c.timeout))
	if err != nil {
		return err
	}

	if n > 0 {
		logger.Warnf("%d tasks timed out after %s", n, c.timeout)
	}

	return nil
}
