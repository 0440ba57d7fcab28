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


//go:generate mockgen -destination mocks/store_mock.go -source store.go -package mocks

package database

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/events"
	"d7y.io/renderfarm/manager/models"
)

// State is everything the manager restores on startup.
type State struct {
	Clusters []models.WorkerCluster
	Workers  []models.Worker
	Jobs     []models.Job
	Tasks    []models.Task
}

// Store keeps the latest snapshot of every entity.
type Store interface {
	// Handle saves the snapshot carried by the event.
	Handle(ctx context.Context, e events.Event) error

	// Load returns the stored state.
	Load(ctx context.Context) (*State, error)
}

type store struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Handle(ctx context.Context, e events.Event) error {
	db := s.db.WithContext(ctx)

	switch e := e.(type) {
	case events.WorkerUpdated:
		// Unscoped brings back a worker that was deleted and registered again.
		return errors.Wrapf(db.Unscoped().Save(&e.Worker).Error, "save worker %s", e.Worker.ID)
	case events.WorkerDeleted:
		return errors.Wrapf(db.Delete(&models.Worker{}, "id = ?", e.WorkerID).Error, "delete worker %s", e.WorkerID)
	case events.ClusterUpdated:
		return errors.Wrapf(db.Save(&e.Cluster).Error, "save worker cluster %s", e.Cluster.ID)
	case events.ClusterDeleted:
		// The unique name is free for a new cluster.
		return errors.Wrapf(db.Unscoped().Delete(&models.WorkerCluster{}, "id = ?", e.ClusterID).Error, "delete worker cluster %s", e.ClusterID)
	case events.JobUpdated:
		return errors.Wrapf(db.Save(&e.Job).Error, "save job %s", e.Job.ID)
	case events.TaskUpdated:
		return errors.Wrapf(db.Save(&e.Task).Error, "save task %s", e.Task.ID)
	}

	return nil
}

func (s *store) Load(ctx context.Context) (*State, error) {
	db := s.db.WithContext(ctx)
	state := &State{}

	if err := db.Order("name, id").Find(&state.Clusters).Error; err != nil {
		return nil, errors.Wrap(err, "load worker clusters")
	}

	if err := db.Order("name, id").Find(&state.Workers).Error; err != nil {
		return nil, errors.Wrap(err, "load workers")
	}

	if err := db.Order("sequence").Find(&state.Jobs).Error; err != nil {
		return nil, errors.Wrap(err, "load jobs")
	}

	if err := db.Order("job_id, task_index").Find(&state.Tasks).Error; err != nil {
		return nil, errors.Wrap(err, "load tasks")
	}

	return state, nil
}

// Subscribe saves every published snapshot. Failed saves are logged and
// never fail the publisher.
func Subscribe(bus events.Bus, s Store) {
	bus.Subscribe(func(ctx context.Context, e events.Event) error {
		if err := s.Handle(ctx, e); err != nil {
			logger.Errorf("store %s event failed: %v", e.Kind(), err)
		}
		return nil
	},
		events.KindWorkerUpdated,
		events.KindWorkerDeleted,
		events.KindClusterUpdated,
		events.KindClusterDeleted,
		events.KindJobUpdated,
		events.KindTaskUpdated,
	)
}
