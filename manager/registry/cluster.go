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
	"strings"

	"github.com/google/uuid"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/events"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/resource"
	"d7y.io/renderfarm/pkg/dfcodes"
	"d7y.io/renderfarm/pkg/dferrors"
)

// nameTaken reports whether another cluster uses name, the caller holds mu.
func (r *registry) nameTaken(name, exceptID string) bool {
	for id, c := range r.clusters {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *registry) CreateCluster(ctx context.Context, cluster models.WorkerCluster) (models.WorkerCluster, error) {
	cluster.Name = strings.TrimSpace(cluster.Name)
	if cluster.Name == "" {
		return models.WorkerCluster{}, dferrors.Validationf("worker cluster name is required")
	}

	if cluster.ID == "" {
		cluster.ID = uuid.New().String()
	}
	now := r.clock.Now()
	cluster.CreatedAt = now
	cluster.UpdatedAt = now

	r.mu.Lock()
	if _, ok := r.clusters[cluster.ID]; ok {
		r.mu.Unlock()
		return models.WorkerCluster{}, dferrors.Conflictf("worker cluster %s already exists", cluster.ID)
	}

	if r.nameTaken(cluster.Name, "") {
		r.mu.Unlock()
		return models.WorkerCluster{}, dferrors.Conflictf("worker cluster name %q is already used", cluster.Name)
	}
	r.clusters[cluster.ID] = cluster
	r.mu.Unlock()

	logger.WithCluster(cluster.ID).Infof("worker cluster %s created", cluster.Name)
	r.publish(ctx, events.ClusterUpdated{Cluster: cluster})
	return cluster, nil
}

func (r *registry) GetCluster(ctx context.Context, id string) (models.WorkerCluster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cluster, ok := r.clusters[id]
	if !ok {
		return models.WorkerCluster{}, dferrors.NotFoundf("worker cluster %s not found", id)
	}

	return cluster, nil
}

func (r *registry) ListClusters(ctx context.Context) []models.WorkerCluster {
	r.mu.RLock()
	clusters := make([]models.WorkerCluster, 0, len(r.clusters))
	for _, c := range r.clusters {
		clusters = append(clusters, c)
	}
	r.mu.RUnlock()

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Name != clusters[j].Name {
			return clusters[i].Name < clusters[j].Name
		}
		return clusters[i].ID < clusters[j].ID
	})

	return clusters
}

func (r *registry) UpdateCluster(ctx context.Context, id, name, description string) (models.WorkerCluster, error) {
	name = strings.TrimSpace(name)

	r.mu.Lock()
	cluster, ok := r.clusters[id]
	if !ok {
		r.mu.Unlock()
		return models.WorkerCluster{}, dferrors.NotFoundf("worker cluster %s not found", id)
	}

	if name != "" {
		if r.nameTaken(name, id) {
			r.mu.Unlock()
			return models.WorkerCluster{}, dferrors.Conflictf("worker cluster name %q is already used", name)
		}
		cluster.Name = name
	}
	cluster.Description = description
	cluster.UpdatedAt = r.clock.Now()
	r.clusters[id] = cluster
	r.mu.Unlock()

	r.publish(ctx, events.ClusterUpdated{Cluster: cluster})
	return cluster, nil
}

func (r *registry) DeleteCluster(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.clusters[id]; !ok {
		r.mu.Unlock()
		return dferrors.NotFoundf("worker cluster %s not found", id)
	}
	delete(r.clusters, id)

	workers := make([]string, 0, len(r.workers))
	for workerID := range r.workers {
		workers = append(workers, workerID)
	}
	r.mu.Unlock()

	// SetCluster checks the cluster table under the worker lock, so no
	// worker can join the cluster after it left the table.
	for _, workerID := range workers {
		_, err := r.Update(ctx, workerID, func(ctx context.Context, w *resource.Worker) (bool, error) {
			if w.ClusterID != id {
				return false, nil
			}

			w.ClusterID = ""
			w.UpdatedAt.Store(r.clock.Now())
			return true, nil
		})
		if err != nil && !dferrors.CheckError(err, dfcodes.NotFound) {
			return err
		}
	}

	logger.WithCluster(id).Info("worker cluster deleted")
	r.publish(ctx, events.ClusterDeleted{ClusterID: id})
	return nil
}
