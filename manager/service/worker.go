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

package service

import (
	"context"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/registry"
	"d7y.io/renderfarm/manager/types"
)

func (s *service) GetWorkers(ctx context.Context, q types.GetWorkersQuery) ([]models.Worker, error) {
	return s.registry.List(ctx, registry.Filter{
		Status:    models.WorkerStatus(q.Status),
		ClusterID: q.ClusterID,
	})
}

func (s *service) GetWorker(ctx context.Context, id string) (*models.Worker, error) {
	worker, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &worker, nil
}

func (s *service) DestroyWorker(ctx context.Context, id string) error {
	return s.registry.Delete(ctx, id)
}

func (s *service) GetWorkerSleepSchedule(ctx context.Context, id string) (*models.SleepSchedule, error) {
	worker, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return worker.SleepSchedule, nil
}

func (s *service) UpdateWorkerSleepSchedule(ctx context.Context, id string, json types.UpdateWorkerSleepScheduleRequest) error {
	if _, err := s.registry.UpdateSleepSchedule(ctx, id, &models.SleepSchedule{
		Enabled:   json.Enabled,
		Intervals: json.Intervals,
	}); err != nil {
		return err
	}

	// The new schedule takes effect right away instead of at the next check.
	if _, err := s.sleepScheduler.Apply(ctx, id); err != nil {
		logger.WithWorkerID(id).Warnf("apply sleep schedule failed: %v", err)
	}

	return nil
}

func (s *service) UpdateWorkerStatus(ctx context.Context, id string, json types.UpdateWorkerStatusRequest) (*models.Worker, error) {
	worker, err := s.stateMachine.RequestStatusChange(ctx, id, models.WorkerStatus(json.Status), json.Reason)
	if err != nil {
		return nil, err
	}

	return &worker, nil
}

func (s *service) SetWorkerCluster(ctx context.Context, id string, json types.SetWorkerClusterRequest) error {
	_, err := s.registry.SetCluster(ctx, id, json.ClusterID)
	return err
}
