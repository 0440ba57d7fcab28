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

package sleepscheduler

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/go-multierror"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/registry"
	"d7y.io/renderfarm/manager/statemachine"
	"d7y.io/renderfarm/pkg/dfcodes"
	"d7y.io/renderfarm/pkg/dferrors"
	"d7y.io/renderfarm/pkg/gc"
)

const (
	// GCTaskID is the id of the sleep schedule task in the gc runner.
	GCTaskID = "sleep-schedule"

	// Reason recorded on status changes made by a sleep schedule.
	Reason = "sleep schedule"
)

// SleepScheduler puts workers to sleep and wakes them up following their
// sleep schedules.
type SleepScheduler interface {
	gc.Runner

	// Apply moves a single worker to the status its schedule asks for.
	Apply(ctx context.Context, workerID string) (models.Worker, error)
}

type sleepScheduler struct {
	registry     registry.Registry
	stateMachine statemachine.StateMachine
	clock        clock.Clock
}

// Option is a functional option for configuring the sleep scheduler.
type Option func(s *sleepScheduler)

// WithClock sets the clock the schedules are checked against.
func WithClock(c clock.Clock) Option {
	return func(s *sleepScheduler) {
		s.clock = c
	}
}

// New returns a new SleepScheduler.
func New(registry registry.Registry, stateMachine statemachine.StateMachine, options ...Option) SleepScheduler {
	s := &sleepScheduler{
		registry:     registry,
		stateMachine: stateMachine,
		clock:        clock.New(),
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Desired returns the status the schedule asks for at now, or "" when the
// schedule leaves the worker alone. Only awake and asleep workers with an
// enabled schedule follow it.
func Desired(worker models.Worker, now time.Time) models.WorkerStatus {
	if worker.SleepSchedule == nil || !worker.SleepSchedule.Enabled {
		return ""
	}

	if worker.Status != models.WorkerStatusAwake && worker.Status != models.WorkerStatusAsleep {
		return ""
	}

	if worker.SleepSchedule.Asleep(now) {
		return models.WorkerStatusAsleep
	}

	return models.WorkerStatusAwake
}

func (s *sleepScheduler) Apply(ctx context.Context, workerID string) (models.Worker, error) {
	worker, err := s.registry.Get(ctx, workerID)
	if err != nil {
		return models.Worker{}, err
	}

	target := Desired(worker, s.clock.Now())
	if target == "" || target == worker.Status {
		return worker, nil
	}

	worker, err = s.stateMachine.RequestStatusChange(ctx, workerID, target, Reason)
	if err != nil {
		return models.Worker{}, err
	}

	logger.WithWorker(worker.ID, worker.Name).Infof("sleep schedule moved worker to %s", target)
	return worker, nil
}

func (s *sleepScheduler) RunGC(ctx context.Context) error {
	workers, err := s.registry.List(ctx, registry.Filter{})
	if err != nil {
		return err
	}

	now := s.clock.Now()
	var result *multierror.Error
	for _, worker := range workers {
		if Desired(worker, now) == "" {
			continue
		}

		if _, err := s.Apply(ctx, worker.ID); err != nil {
			// The worker changed status or went away since it was listed.
			if dferrors.CheckError(err, dfcodes.InvalidTransition) || dferrors.CheckError(err, dfcodes.NotFound) {
				logger.WithWorkerID(worker.ID).Warnf("skip sleep schedule: %v", err)
				continue
			}

			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
