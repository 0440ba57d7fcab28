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

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"d7y.io/renderfarm/manager/types"
)

// @Summary Get JobTypes
// @Description Get the job types in catalog order
// @Tags JobType
// @Produce json
// @Success 200 {object} map[string][]models.JobType
// @Router /job-types [get]
func (h *Handlers) GetJobTypes(ctx *gin.Context) {
	jobTypes, err := h.service.ListJobTypes(ctx.Request.Context())
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"job_types": jobTypes})
}

// @Summary Get JobType
// @Description Get JobType by name
// @Tags JobType
// @Produce json
// @Param name path string true "name"
// @Success 200 {object} models.JobType
// @Failure 404
// @Router /job-types/{name} [get]
func (h *Handlers) GetJobType(ctx *gin.Context) {
	var params types.JobTypeParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	jobType, err := h.service.GetJobType(ctx.Request.Context(), params.Name)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, jobType)
}

// @Summary Reload JobTypes
// @Description Reload the job type definitions
// @Tags JobType
// @Success 204
// @Failure 400
// @Router /job-types/reload [post]
func (h *Handlers) ReloadJobTypes(ctx *gin.Context) {
	if err := h.service.ReloadJobTypes(ctx.Request.Context()); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}
