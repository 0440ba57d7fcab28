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

// @Summary Get Workers
// @Description Get Workers ordered by name
// @Tags Worker
// @Produce json
// @Param status query string false "status"
// @Param cluster_id query string false "cluster id"
// @Success 200 {object} []models.Worker
// @Router /worker-mgt/workers [get]
func (h *Handlers) GetWorkers(ctx *gin.Context) {
	var query types.GetWorkersQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	workers, err := h.service.GetWorkers(ctx.Request.Context(), query)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, workers)
}

// @Summary Get Worker
// @Description Get Worker by id
// @Tags Worker
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} models.Worker
// @Failure 404
// @Router /worker-mgt/workers/{id} [get]
func (h *Handlers) GetWorker(ctx *gin.Context) {
	var params types.WorkerParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	worker, err := h.service.GetWorker(ctx.Request.Context(), params.ID)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, worker)
}

// @Summary Destroy Worker
// @Description Destroy an offline worker, its tasks are requeued
// @Tags Worker
// @Param id path string true "id"
// @Success 204
// @Failure 404
// @Failure 409
// @Router /worker-mgt/workers/{id} [delete]
func (h *Handlers) DestroyWorker(ctx *gin.Context) {
	var params types.WorkerParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.DestroyWorker(ctx.Request.Context(), params.ID); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Get Worker Sleep Schedule
// @Description Get the sleep schedule of a worker
// @Tags Worker
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} models.SleepSchedule
// @Success 204
// @Failure 404
// @Router /worker-mgt/workers/{id}/sleep-schedule [get]
func (h *Handlers) GetWorkerSleepSchedule(ctx *gin.Context) {
	var params types.WorkerParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	schedule, err := h.service.GetWorkerSleepSchedule(ctx.Request.Context(), params.ID)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	if schedule == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	ctx.JSON(http.StatusOK, schedule)
}

// @Summary Update Worker Sleep Schedule
// @Description Replace the sleep schedule of a worker
// @Tags Worker
// @Accept json
// @Param id path string true "id"
// @Param SleepSchedule body types.UpdateWorkerSleepScheduleRequest true "SleepSchedule"
// @Success 204
// @Failure 400
// @Failure 404
// @Router /worker-mgt/workers/{id}/sleep-schedule [post]
func (h *Handlers) UpdateWorkerSleepSchedule(ctx *gin.Context) {
	var params types.WorkerParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	var json types.UpdateWorkerSleepScheduleRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.UpdateWorkerSleepSchedule(ctx.Request.Context(), params.ID, json); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Update Worker Status
// @Description Request a status change of a worker
// @Tags Worker
// @Accept json
// @Produce json
// @Param id path string true "id"
// @Param Status body types.UpdateWorkerStatusRequest true "Status"
// @Success 200 {object} models.Worker
// @Failure 404
// @Failure 409
// @Router /worker-mgt/workers/{id}/setstatus [post]
func (h *Handlers) UpdateWorkerStatus(ctx *gin.Context) {
	var params types.WorkerParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	var json types.UpdateWorkerStatusRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	worker, err := h.service.UpdateWorkerStatus(ctx.Request.Context(), params.ID, json)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, worker)
}

// @Summary Set Worker Cluster
// @Description Move a worker into a cluster, an empty cluster id clears it
// @Tags Worker
// @Accept json
// @Param id path string true "id"
// @Param Cluster body types.SetWorkerClusterRequest true "Cluster"
// @Success 204
// @Failure 404
// @Router /worker-mgt/workers/{id}/setcluster [post]
func (h *Handlers) SetWorkerCluster(ctx *gin.Context) {
	var params types.WorkerParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	var json types.SetWorkerClusterRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.SetWorkerCluster(ctx.Request.Context(), params.ID, json); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}
