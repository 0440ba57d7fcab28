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

type JobParams struct {
	ID string `uri:"id" binding:"required"`
}

type CreateJobRequest struct {
	Name      string            `json:"name" binding:"required"`
	Type      string            `json:"type" binding:"required"`
	TypeEtag  string            `json:"type_etag" binding:"omitempty"`
	Priority  *int              `json:"priority" binding:"omitempty"`
	Settings  map[string]any    `json:"settings" binding:"omitempty"`
	Metadata  map[string]string `json:"metadata" binding:"omitempty"`
	ClusterID string            `json:"cluster_id" binding:"omitempty"`
}

type CreateJobResponse struct {
	ID string `json:"id"`
}

type GetJobsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=queued active completed failed cancel-requested cancelled"`
}

type RemoveJobBlocklistRequest struct {
	Entries []models.BlockEntry `json:"entries" binding:"required,min=1,dive"`
}
