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

// @Summary Create Job
// @Description Submit a job, settings are validated against its job type
// @Tags Job
// @Accept json
// @Produce json
// @Param Job body types.CreateJobRequest true "Job"
// @Success 200 {object} types.CreateJobResponse
// @Failure 400
// @Failure 422
// @Router /jobs [post]
func (h *Handlers) CreateJob(ctx *gin.Context) {
	var json types.CreateJobRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	job, err := h.service.CreateJob(ctx.Request.Context(), json)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, types.CreateJobResponse{ID: job.ID})
}

// @Summary Get Job
// @Description Get Job by id
// @Tags Job
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} models.Job
// @Failure 404
// @Router /jobs/{id} [get]
func (h *Handlers) GetJob(ctx *gin.Context) {
	var params types.JobParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	job, err := h.service.GetJob(ctx.Request.Context(), params.ID)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, job)
}

// @Summary Get Jobs
// @Description Get Jobs in submission order
// @Tags Job
// @Produce json
// @Param status query string false "status"
// @Success 200 {object} []models.Job
// @Router /jobs [get]
func (h *Handlers) GetJobs(ctx *gin.Context) {
	var query types.GetJobsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	jobs, err := h.service.GetJobs(ctx.Request.Context(), query)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, jobs)
}

// @Summary Get Job Tasks
// @Description Get the tasks of a job in index order
// @Tags Job
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} []models.Task
// @Failure 404
// @Router /jobs/{id}/tasks [get]
func (h *Handlers) GetJobTasks(ctx *gin.Context) {
	var params types.JobParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	tasks, err := h.service.GetJobTasks(ctx.Request.Context(), params.ID)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

// @Summary Get Job Blocklist
// @Description Get the workers kept away from a job
// @Tags Job
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} []models.BlockEntry
// @Failure 404
// @Router /jobs/{id}/blocklist [get]
func (h *Handlers) GetJobBlocklist(ctx *gin.Context) {
	var params types.JobParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	blocklist, err := h.service.GetJobBlocklist(ctx.Request.Context(), params.ID)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, blocklist)
}

// @Summary Remove Job Blocklist
// @Description Let blocklisted workers run tasks of a job again
// @Tags Job
// @Accept json
// @Param id path string true "id"
// @Param Blocklist body types.RemoveJobBlocklistRequest true "Blocklist"
// @Success 204
// @Failure 400
// @Failure 404
// @Router /jobs/{id}/blocklist [delete]
func (h *Handlers) RemoveJobBlocklist(ctx *gin.Context) {
	var params types.JobParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	var json types.RemoveJobBlocklistRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.RemoveJobBlocklist(ctx.Request.Context(), params.ID, json); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Cancel Job
// @Description Cancel queued tasks now and running tasks at their next report
// @Tags Job
// @Param id path string true "id"
// @Success 204
// @Failure 404
// @Failure 409
// @Router /jobs/{id}/cancel [post]
func (h *Handlers) CancelJob(ctx *gin.Context) {
	var params types.JobParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.CancelJob(ctx.Request.Context(), params.ID); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}
