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

//go:generate mockgen -destination mocks/statemachine_mock.go -source statemachine.go -package mocks

package statemachine

import (
	"context"
	"fmt"
	"time"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/events"
	"d7y.io/renderfarm/manager/metrics"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/registry"
	"d7y.io/renderfarm/manager/resource"
	"d7y.io/renderfarm/pkg/dferrors"
)

// Reasons recorded on lost workers.
const (
	ReasonStatusChange = "worker status changed"
	ReasonSignOn       = "worker signed on again"
)

// Each target status is reached by exactly one event.
var targetEvents = map[models.WorkerStatus]string{
	models.WorkerStatusStarting: resource.WorkerEventSignOn,
	models.WorkerStatusAwake:    resource.WorkerEventWake,
	models.WorkerStatusAsleep:   resource.WorkerEventSleep,
	models.WorkerStatusOffline:  resource.WorkerEventSignOff,
	models.WorkerStatusError:    resource.WorkerEventFail,
	models.WorkerStatusShutdown: resource.WorkerEventShutdown,
}

// Lost reports whether entering status releases the tasks of the worker.
func Lost(status models.WorkerStatus) bool {
	return status == models.WorkerStatusOffline || status == models.WorkerStatusError
}

// StateMachine applies worker status changes.
type StateMachine interface {
	// RequestStatusChange moves the worker to target. Requesting the current
	// status succeeds without side effects.
	RequestStatusChange(ctx context.Context, workerID string, target models.WorkerStatus, reason string) (models.Worker, error)

	// SignOn moves a known worker back to starting when it checks in again.
	SignOn(ctx context.Context, workerID string) (models.Worker, error)

	// TimeOut marks the worker offline when it has not been seen since
	// cutoff. It reports whether the worker changed.
	TimeOut(ctx context.Context, workerID string, cutoff time.Time) (models.Worker, bool, error)
}

type stateMachine struct {
	registry registry.Registry
	bus      events.Bus
}

// New returns a new StateMachine.
func New(registry registry.Registry, bus events.Bus) StateMachine {
	return &stateMachine{
		registry: registry,
		bus:      bus,
	}
}

func (s *stateMachine) RequestStatusChange(ctx context.Context, workerID string, target models.WorkerStatus, reason string) (models.Worker, error) {
	event, ok := targetEvents[target]
	if !ok {
		return models.Worker{}, dferrors.Validationf("unknown worker status %q", target)
	}

	var from models.WorkerStatus
	snapshot, err := s.registry.Update(ctx, workerID, func(ctx context.Context, w *resource.Worker) (bool, error) {
		from = w.Status()
		if from == target {
			return false, nil
		}

		if err := fire(ctx, w, event, target); err != nil {
			return false, err
		}

		return true, nil
	})
	if err != nil {
		return snapshot, err
	}

	if from != target && Lost(target) {
		if reason == "" {
			reason = ReasonStatusChange
		}
		s.lost(ctx, workerID, reason)
	}

	return snapshot, nil
}

func (s *stateMachine) SignOn(ctx context.Context, workerID string) (models.Worker, error) {
	var lost bool
	snapshot, err := s.registry.Update(ctx, workerID, func(ctx context.Context, w *resource.Worker) (bool, error) {
		switch w.Status() {
		case models.WorkerStatusStarting:
			return false, nil
		case models.WorkerStatusShutdown:
			return false, dferrors.Conflictf("worker %s is shut down", w.ID)
		case models.WorkerStatusOffline:
		default:
			// The worker restarted without signing off, whatever it held is gone.
			if err := fire(ctx, w, resource.WorkerEventSignOff, models.WorkerStatusOffline); err != nil {
				return false, err
			}
			lost = true
		}

		if err := fire(ctx, w, resource.WorkerEventSignOn, models.WorkerStatusStarting); err != nil {
			return lost, err
		}

		return true, nil
	})
	if lost {
		s.lost(ctx, workerID, ReasonSignOn)
	}

	return snapshot, err
}

func (s *stateMachine) TimeOut(ctx context.Context, workerID string, cutoff time.Time) (models.Worker, bool, error) {
	var reason string
	snapshot, err := s.registry.Update(ctx, workerID, func(ctx context.Context, w *resource.Worker) (bool, error) {
		// A heartbeat may have landed since the worker was found stale.
		lastSeenAt := w.LastSeenAt.Load()
		if !lastSeenAt.Before(cutoff) {
			return false, nil
		}

		switch w.Status() {
		case models.WorkerStatusOffline, models.WorkerStatusShutdown:
			return false, nil
		}

		if err := fire(ctx, w, resource.WorkerEventSignOff, models.WorkerStatusOffline); err != nil {
			return false, err
		}

		reason = fmt.Sprintf("not seen since %s", lastSeenAt.Format(time.RFC3339))
		return true, nil
	})
	if err != nil {
		return snapshot, false, err
	}

	if reason == "" {
		return snapshot, false, nil
	}

	s.lost(ctx, workerID, reason)
	return snapshot, true, nil
}

func (s *stateMachine) lost(ctx context.Context, workerID, reason string) {
	if err := s.bus.Publish(ctx, events.WorkerLost{WorkerID: workerID, Reason: reason}); err != nil {
		logger.WithWorkerID(workerID).Errorf("requeue tasks failed: %v", err)
	}
}

func fire(ctx context.Context, w *resource.Worker, event string, target models.WorkerStatus) error {
	from := w.Status()
	if w.FSM.Cannot(event) {
		metrics.InvalidTransitionCount.Inc()
		return dferrors.InvalidTransitionf("worker %s can not change status from %s to %s", w.ID, from, target)
	}

	if err := w.FSM.Event(ctx, event); err != nil {
		metrics.InvalidTransitionCount.Inc()
		return dferrors.InvalidTransitionf("worker %s can not change status from %s to %s: %v", w.ID, from, target, err)
	}

	metrics.WorkerStatusChangeCount.WithLabelValues(string(from), string(target)).Inc()
	return nil
}
