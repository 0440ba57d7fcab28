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

// ReasonSignOff is recorded when a worker signs off by itself.
const ReasonSignOff = "worker signed off"

func (s *service) RegisterWorker(ctx context.Context, json types.RegisterWorkerRequest) (*models.Worker, error) {
	worker, existing, err := s.registry.Register(ctx, models.Worker{
		BaseModel:          models.BaseModel{ID: json.ID},
		Name:               json.Name,
		Platform:           json.Platform,
		Address:            json.Address,
		Software:           json.Software,
		SupportedTaskTypes: json.SupportedTaskTypes,
	})
	if err != nil {
		return nil, err
	}

	if existing {
		if worker, err = s.stateMachine.SignOn(ctx, worker.ID); err != nil {
			return nil, err
		}
	}

	return &worker, nil
}

func (s *service) SignOffWorker(ctx context.Context, id string) error {
	_, err := s.stateMachine.RequestStatusChange(ctx, id, models.WorkerStatusOffline, ReasonSignOff)
	return err
}

func (s *service) Heartbeat(ctx context.Context, id string) error {
	return s.registry.Heartbeat(ctx, id)
}

func (s *service) AssignTask(ctx context.Context, id string) (*models.Task, error) {
	if err := s.registry.Heartbeat(ctx, id); err != nil {
		return nil, err
	}

	return s.scheduler.AssignNext(ctx, id)
}

func (s *service) StartTask(ctx context.Context, params types.WorkerTaskParams) error {
	_, err := s.scheduler.Start(ctx, params.TaskID, params.ID)
	return err
}

func (s *service) UpdateTask(ctx context.Context, params types.WorkerTaskParams, json types.UpdateTaskRequest) error {
	_, err := s.scheduler.Update(ctx, params.TaskID, params.ID, json.Activity)
	return err
}

func (s *service) CompleteTask(ctx context.Context, params types.WorkerTaskParams, json types.CompleteTaskRequest) error {
	_, err := s.scheduler.Complete(ctx, params.TaskID, params.ID, json.Result)
	return err
}

func (s *service) FailTask(ctx context.Context, params types.WorkerTaskParams, json types.FailTaskRequest) error {
	_, err := s.scheduler.Fail(ctx, params.TaskID, params.ID, json.Reason)
	return err
}
