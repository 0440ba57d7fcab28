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

package types

import "d7y.io/renderfarm/manager/models"

type WorkerParams struct {
	ID string `uri:"id" binding:"required"`
}

type WorkerTaskParams struct {
	ID     string `uri:"id" binding:"required"`
	TaskID string `uri:"task_id" binding:"required"`
}

type GetWorkersQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=starting awake asleep offline error shutdown"`
	ClusterID string `form:"cluster_id" binding:"omitempty"`
}

type UpdateWorkerStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"omitempty"`
}

type SetWorkerClusterRequest struct {
	ClusterID string `json:"cluster_id" binding:"omitempty"`
}

type UpdateWorkerSleepScheduleRequest struct {
	Enabled   bool                   `json:"enabled"`
	Intervals []models.SleepInterval `json:"intervals" binding:"omitempty,dive"`
}

type RegisterWorkerRequest struct {
	ID                 string   `json:"id" binding:"omitempty"`
	Name               string   `json:"name" binding:"required"`
	Platform           string   `json:"platform" binding:"omitempty"`
	Address            string   `json:"address" binding:"omitempty"`
	Software           string   `json:"software" binding:"omitempty"`
	SupportedTaskTypes []string `json:"supported_task_types" binding:"omitempty"`
}

type CompleteTaskRequest struct {
	Result string `json:"result" binding:"omitempty"`
}

type FailTaskRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UpdateTaskRequest struct {
	Activity string `json:"activity" binding:"omitempty"`
}
