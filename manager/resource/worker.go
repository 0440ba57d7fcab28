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
	"golang.org/x/sync/semaphore"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/pkg/dferrors"
)

const (
	// Worker checks in again after being offline.
	WorkerEventSignOn = "SignOn"

	// Worker is ready for, or returns to, work.
	WorkerEventWake = "Wake"

	// Worker goes to sleep.
	WorkerEventSleep = "Sleep"

	// Worker signs off or is lost.
	WorkerEventSignOff = "SignOff"

	// Worker reports or is forced into an error.
	WorkerEventFail = "Fail"

	// Worker shuts down for good.
	WorkerEventShutdown = "Shutdown"
)

var (
	workerStateStarting = string(models.WorkerStatusStarting)
	workerStateAwake    = string(models.WorkerStatusAwake)
	workerStateAsleep   = string(models.WorkerStatusAsleep)
	workerStateOffline  = string(models.WorkerStatusOffline)
	workerStateError    = string(models.WorkerStatusError)
	workerStateShutdown = string(models.WorkerStatusShutdown)
)

// WorkerEvents is the worker status graph. Shutdown has no outgoing edge.
var WorkerEvents = fsm.Events{
	{Name: WorkerEventSignOn, Src: []string{workerStateOffline}, Dst: workerStateStarting},
	{Name: WorkerEventWake, Src: []string{workerStateStarting, workerStateAsleep}, Dst: workerStateAwake},
	{Name: WorkerEventSleep, Src: []string{workerStateAwake}, Dst: workerStateAsleep},
	{Name: WorkerEventSignOff, Src: []string{workerStateStarting, workerStateAwake, workerStateAsleep, workerStateError}, Dst: workerStateOffline},
	{Name: WorkerEventFail, Src: []string{workerStateStarting, workerStateAwake, workerStateAsleep, workerStateOffline}, Dst: workerStateError},
	{Name: WorkerEventShutdown, Src: []string{workerStateOffline}, Dst: workerStateShutdown},
}

// Worker is the live registry entry of a render worker. Fields other than
// FSM, LastSeenAt and UpdatedAt are guarded by Lock.
type Worker struct {
	// ID is worker id.
	ID string

	// Name is worker name.
	Name string

	// Platform is the worker operating system.
	Platform string

	// Address is the worker address.
	Address string

	// Software is the worker software version.
	Software string

	// SupportedTaskTypes limits the tasks handed to the worker.
	SupportedTaskTypes models.Array

	// ClusterID is the worker cluster, empty when unclustered.
	ClusterID string

	// SleepSchedule of the worker.
	SleepSchedule *models.SleepSchedule

	// Worker state machine.
	FSM *fsm.FSM

	// LastSeenAt is the last check-in or heartbeat time.
	LastSeenAt *atomic.Time

	// CreatedAt is worker create time.
	CreatedAt time.Time

	// UpdatedAt is worker update time.
	UpdatedAt *atomic.Time

	// Worker log.
	Log *logger.SugaredLoggerOnWith

	lock *semaphore.Weighted
}

// NewWorker creates a worker entry from its record.
func NewWorker(w models.Worker) *Worker {
	status := w.Status
	if !status.IsValid() {
		status = models.WorkerStatusStarting
	}

	lastSeenAt := w.LastSeenAt
	if lastSeenAt.IsZero() {
		lastSeenAt = time.Now()
	}

	createdAt := w.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	worker := &Worker{
		ID:                 w.ID,
		Name:               w.Name,
		Platform:           w.Platform,
		Address:            w.Address,
		Software:           w.Software,
		SupportedTaskTypes: w.SupportedTaskTypes.Clone(),
		ClusterID:          w.ClusterID,
		SleepSchedule:      w.SleepSchedule.Clone(),
		LastSeenAt:         atomic.NewTime(lastSeenAt),
		CreatedAt:          createdAt,
		UpdatedAt:          atomic.NewTime(time.Now()),
		Log:                logger.WithWorker(w.ID, w.Name),
		lock:               semaphore.NewWeighted(1),
	}

	worker.FSM = fsm.NewFSM(
		string(status),
		WorkerEvents,
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				worker.UpdatedAt.Store(time.Now())
				worker.Log.Infof("worker status changed from %s to %s by %s", e.Src, e.Dst, e.Event)
			},
		},
	)

	return worker
}

// Lock acquires the worker lock, giving up when ctx is done.
func (w *Worker) Lock(ctx context.Context) error {
	if ctx.Err() != nil {
		return dferrors.FromContext(ctx, "lock worker "+w.ID)
	}

	if err := w.lock.Acquire(ctx, 1); err != nil {
		return dferrors.FromContext(ctx, "lock worker "+w.ID)
	}

	return nil
}

func (w *Worker) Unlock() {
	w.lock.Release(1)
}

// Status returns the current worker status.
func (w *Worker) Status() models.WorkerStatus {
	return models.WorkerStatus(w.FSM.Current())
}

// Touch refreshes the last seen time.
func (w *Worker) Touch(t time.Time) {
	w.LastSeenAt.Store(t)
}

// Snapshot returns a value copy of the worker, the caller holds the lock.
func (w *Worker) Snapshot() models.Worker {
	return models.Worker{
		BaseModel: models.BaseModel{
			ID:        w.ID,
			CreatedAt: w.CreatedAt,
			UpdatedAt: w.UpdatedAt.Load(),
		},
		Name:               w.Name,
		Platform:           w.Platform,
		Address:            w.Address,
		Software:           w.Software,
		Status:             w.Status(),
		ClusterID:          w.ClusterID,
		LastSeenAt:         w.LastSeenAt.Load(),
		SupportedTaskTypes: w.SupportedTaskTypes.Clone(),
		SleepSchedule:      w.SleepSchedule.Clone(),
	}
}
