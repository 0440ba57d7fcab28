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

	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/types"
)

func (s *service) CreateWorkerCluster(ctx context.Context, json types.CreateWorkerClusterRequest) (*models.WorkerCluster, error) {
	cluster, err := s.registry.CreateCluster(ctx, models.WorkerCluster{
		Name:        json.Name,
		Description: json.Description,
	})
	if err != nil {
		return nil, err
	}

	return &cluster, nil
}

func (s *service) DestroyWorkerCluster(ctx context.Context, id string) error {
	return s.scheduler.DetachCluster(ctx, id, func(ctx context.Context) error {
		return s.registry.DeleteCluster(ctx, id)
	})
}

func (s *service) UpdateWorkerCluster(ctx context.Context, id string, json types.UpdateWorkerClusterRequest) (*models.WorkerCluster, error) {
	cluster, err := s.registry.UpdateCluster(ctx, id, json.Name, json.Description)
	if err != nil {
		return nil, err
	}

	return &cluster, nil
}

func (s *service) GetWorkerCluster(ctx context.Context, id string) (*models.WorkerCluster, error) {
	cluster, err := s.registry.GetCluster(ctx, id)
	if err != nil {
		return nil, err
	}

	return &cluster, nil
}

func (s *service) GetWorkerClusters(ctx context.Context) ([]models.WorkerCluster, error) {
	return s.registry.ListClusters(ctx), nil
}
