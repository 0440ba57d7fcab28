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

package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/events"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/resource"
	"d7y.io/renderfarm/pkg/dfcodes"
	"d7y.io/renderfarm/pkg/dferrors"
)

// Filter selects workers in List, empty fields match everything.
type Filter struct {
	Status    models.WorkerStatus
	ClusterID string
}

// UpdateFunc mutates a locked worker and reports whether anything changed.
type UpdateFunc func(ctx context.Context, w *resource.Worker) (bool, error)

// Registry tracks the known workers and worker clusters.
type Registry interface {
	// Register checks a worker in. Unknown or empty ids create a worker in
	// status starting, known ids refresh the worker metadata. The returned
	// flag reports whether the worker was already known.
	Register(ctx context.Context, worker models.Worker) (models.Worker, bool, error)

	// Get returns a snapshot of the worker.
	Get(ctx context.Context, id string) (models.Worker, error)

	// List returns workers ordered by name then id.
	List(ctx context.Context, filter Filter) ([]models.Worker, error)

	// Delete removes an offline or shut down worker after its tasks are requeued.
	Delete(ctx context.Context, id string) error

	// UpdateSleepSchedule replaces the sleep schedule, nil clears it.
	UpdateSleepSchedule(ctx context.Context, id string, schedule *models.SleepSchedule) (models.Worker, error)

	// Heartbeat refreshes the last seen time of the worker.
	Heartbeat(ctx context.Context, id string) error

	// SetCluster moves the worker into a cluster, empty id removes it from its cluster.
	SetCluster(ctx context.Context, id, clusterID string) (models.Worker, error)

	// Update runs fn with the worker locked and publishes the change.
	Update(ctx context.Context, id string, fn UpdateFunc) (models.Worker, error)

	// Stale returns workers not seen since cutoff that are neither offline nor shut down.
	Stale(ctx context.Context, cutoff time.Time) []models.Worker

	// Restore replaces the registry content.
	Restore(workers []models.Worker, clusters []models.WorkerCluster)

	// CreateCluster adds a worker cluster with a unique name.
	CreateCluster(ctx context.Context, cluster models.WorkerCluster) (models.WorkerCluster, error)

	// GetCluster returns the worker cluster.
	GetCluster(ctx context.Context, id string) (models.WorkerCluster, error)

	// ListClusters returns worker clusters ordered by name.
	ListClusters(ctx context.Context) []models.WorkerCluster

	// UpdateCluster renames or redescribes the worker cluster.
	UpdateCluster(ctx context.Context, id, name, description string) (models.WorkerCluster, error)

	// DeleteCluster removes the worker cluster and detaches its workers.
	DeleteCluster(ctx context.Context, id string) error
}

type registry struct {
	// Guards the workers and clusters tables. Never held while waiting
	// for a worker lock.
	mu       sync.RWMutex
	workers  map[string]*resource.Worker
	clusters map[string]models.WorkerCluster

	bus   events.Bus
	clock clock.Clock
}

// Option is a functional option for configuring the registry.
type Option func(r *registry)

// WithClock sets the clock used for last seen times.
func WithClock(c clock.Clock) Option {
	return func(r *registry) {
		r.clock = c
	}
}

// New returns a new Registry.
func New(bus events.Bus, options ...Option) Registry {
	r := &registry{
		workers:  make(map[string]*resource.Worker),
		clusters: make(map[string]models.WorkerCluster),
		bus:      bus,
		clock:    clock.New(),
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

func (r *registry) load(id string) (*resource.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workers[id]
	if !ok {
		return nil, dferrors.NotFoundf("worker %s not found", id)
	}

	return w, nil
}

// live reports whether w is still the registered worker for its id. A worker
// deleted while the caller waited for its lock is not.
func (r *registry) live(w *resource.Worker) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.workers[w.ID] == w
}

func (r *registry) publish(ctx context.Context, e events.Event) {
	if err := r.bus.Publish(ctx, e); err != nil {
		logger.Warnf("publish %s event failed: %v", e.Kind(), err)
	}
}

func (r *registry) Register(ctx context.Context, worker models.Worker) (models.Worker, bool, error) {
	if worker.Name == "" {
		return models.Worker{}, false, dferrors.Validationf("worker name is required")
	}

	now := r.clock.Now()
	if worker.ID != "" {
		if w, err := r.load(worker.ID); err == nil {
			snapshot, err := r.refresh(ctx, w, worker, now)
			switch {
			case err == nil:
				r.publish(ctx, events.WorkerUpdated{Worker: snapshot})
				return snapshot, true, nil
			case !dferrors.CheckError(err, dfcodes.NotFound):
				return models.Worker{}, true, err
			}
		}
	} else {
		worker.ID = uuid.New().String()
	}

	worker.Status = models.WorkerStatusStarting
	worker.ClusterID = ""
	worker.LastSeenAt = now
	worker.CreatedAt = now
	w := resource.NewWorker(worker)

	r.mu.Lock()
	if existing, ok := r.workers[w.ID]; ok {
		r.mu.Unlock()

		snapshot, err := r.refresh(ctx, existing, worker, now)
		if err != nil {
			return models.Worker{}, true, err
		}

		r.publish(ctx, events.WorkerUpdated{Worker: snapshot})
		return snapshot, true, nil
	}
	r.workers[w.ID] = w
	r.mu.Unlock()

	w.Log.Infof("worker %s registered", w.Name)
	snapshot := w.Snapshot()
	r.publish(ctx, events.WorkerUpdated{Worker: snapshot})
	return snapshot, false, nil
}

func (r *registry) refresh(ctx context.Context, w *resource.Worker, worker models.Worker, now time.Time) (models.Worker, error) {
	if err := w.Lock(ctx); err != nil {
		return models.Worker{}, err
	}
	defer w.Unlock()

	if !r.live(w) {
		return models.Worker{}, dferrors.NotFoundf("worker %s not found", w.ID)
	}

	if w.Status() == models.WorkerStatusShutdown {
		return models.Worker{}, dferrors.Conflictf("worker %s is shut down", w.ID)
	}

	w.Name = worker.Name
	w.Platform = worker.Platform
	w.Address = worker.Address
	w.Software = worker.Software
	w.SupportedTaskTypes = worker.SupportedTaskTypes.Clone()
	w.Touch(now)
	w.UpdatedAt.Store(now)
	w.Log = logger.WithWorker(w.ID, w.Name)

	return w.Snapshot(), nil
}

func (r *registry) Get(ctx context.Context, id string) (models.Worker, error) {
	w, err := r.load(id)
	if err != nil {
		return models.Worker{}, err
	}

	if err := w.Lock(ctx); err != nil {
		return models.Worker{}, err
	}
	defer w.Unlock()

	return w.Snapshot(), nil
}

func (r *registry) List(ctx context.Context, filter Filter) ([]models.Worker, error) {
	r.mu.RLock()
	workers := make([]*resource.Worker, 0, len(r.workers))
	for _, w := range r.workers {
		workers = append(workers, w)
	}
	r.mu.RUnlock()

	snapshots := make([]models.Worker, 0, len(workers))
	for _, w := range workers {
		if err := w.Lock(ctx); err != nil {
			return nil, err
		}
		snapshot := w.Snapshot()
		w.Unlock()

		if filter.Status != "" && snapshot.Status != filter.Status {
			continue
		}

		if filter.ClusterID != "" && snapshot.ClusterID != filter.ClusterID {
			continue
		}

		snapshots = append(snapshots, snapshot)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Name != snapshots[j].Name {
			return snapshots[i].Name < snapshots[j].Name
		}
		return snapshots[i].ID < snapshots[j].ID
	})

	return snapshots, nil
}

func deletable(status models.WorkerStatus) bool {
	return status == models.WorkerStatusOffline || status == models.WorkerStatusShutdown
}

func (r *registry) Delete(ctx context.Context, id string) error {
	w, err := r.load(id)
	if err != nil {
		return err
	}

	if err := w.Lock(ctx); err != nil {
		return err
	}
	status := w.Status()
	w.Unlock()

	if !deletable(status) {
		return dferrors.Conflictf("worker %s is %s, only offline or shutdown workers can be deleted", id, status)
	}

	// Requeue whatever the worker may still hold before it disappears.
	if err := r.bus.Publish(ctx, events.WorkerLost{WorkerID: id, Reason: "worker deleted"}); err != nil {
		return dferrors.Conflictf("requeue tasks of worker %s: %v", id, err)
	}

	if err := w.Lock(ctx); err != nil {
		return err
	}

	if !r.live(w) {
		w.Unlock()
		return dferrors.NotFoundf("worker %s not found", id)
	}

	if status := w.Status(); !deletable(status) {
		w.Unlock()
		return dferrors.Conflictf("worker %s is %s, only offline or shutdown workers can be deleted", id, status)
	}

	r.mu.Lock()
	delete(r.workers, id)
	r.mu.Unlock()
	w.Unlock()

	w.Log.Info("worker deleted")
	r.publish(ctx, events.WorkerDeleted{WorkerID: id})
	return nil
}

func (r *registry) Update(ctx context.Context, id string, fn UpdateFunc) (models.Worker, error) {
	w, err := r.load(id)
	if err != nil {
		return models.Worker{}, err
	}

	if err := w.Lock(ctx); err != nil {
		return models.Worker{}, err
	}

	if !r.live(w) {
		w.Unlock()
		return models.Worker{}, dferrors.NotFoundf("worker %s not found", id)
	}

	changed, err := fn(ctx, w)
	snapshot := w.Snapshot()
	w.Unlock()
	if err != nil {
		return snapshot, err
	}

	if changed {
		r.publish(ctx, events.WorkerUpdated{Worker: snapshot})
	}

	return snapshot, nil
}

func (r *registry) UpdateSleepSchedule(ctx context.Context, id string, schedule *models.SleepSchedule) (models.Worker, error) {
	if err := schedule.Validate(); err != nil {
		return models.Worker{}, err
	}

	return r.Update(ctx, id, func(ctx context.Context, w *resource.Worker) (bool, error) {
		w.SleepSchedule = schedule.Clone()
		w.UpdatedAt.Store(r.clock.Now())
		return true, nil
	})
}

func (r *registry) Heartbeat(ctx context.Context, id string) error {
	w, err := r.load(id)
	if err != nil {
		return err
	}

	w.Touch(r.clock.Now())
	return nil
}

func (r *registry) SetCluster(ctx context.Context, id, clusterID string) (models.Worker, error) {
	return r.Update(ctx, id, func(ctx context.Context, w *resource.Worker) (bool, error) {
		if clusterID != "" {
			r.mu.RLock()
			_, ok := r.clusters[clusterID]
			r.mu.RUnlock()
			if !ok {
				return false, dferrors.NotFoundf("worker cluster %s not found", clusterID)
			}
		}

		if w.ClusterID == clusterID {
			return false, nil
		}

		w.ClusterID = clusterID
		w.UpdatedAt.Store(r.clock.Now())
		return true, nil
	})
}

func (r *registry) Stale(ctx context.Context, cutoff time.Time) []models.Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stale []models.Worker
	for _, w := range r.workers {
		if deletable(w.Status()) || !w.LastSeenAt.Load().Before(cutoff) {
			continue
		}

		stale = append(stale, models.Worker{
			BaseModel:  models.BaseModel{ID: w.ID},
			Status:     w.Status(),
			LastSeenAt: w.LastSeenAt.Load(),
		})
	}

	sort.Slice(stale, func(i, j int) bool { return stale[i].ID < stale[j].ID })
	return stale
}

func (r *registry) Restore(workers []models.Worker, clusters []models.WorkerCluster) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.workers = make(map[string]*resource.Worker, len(workers))
	for _, worker := range workers {
		r.workers[worker.ID] = resource.NewWorker(worker)
	}

	r.clusters = make(map[string]models.WorkerCluster, len(clusters))
	for _, cluster := range clusters {
		r.clusters[cluster.ID] = cluster
	}
}
