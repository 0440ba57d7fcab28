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

// @Summary Register Worker
// @Description Register a worker or sign an existing one back on
// @Tags WorkerAPI
// @Accept json
// @Produce json
// @Param Worker body types.RegisterWorkerRequest true "Worker"
// @Success 200 {object} models.Worker
// @Failure 400
// @Router /worker/register [post]
func (h *Handlers) RegisterWorker(ctx *gin.Context) {
	var json types.RegisterWorkerRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	worker, err := h.service.RegisterWorker(ctx.Request.Context(), json)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, worker)
}

// @Summary Sign Off Worker
// @Description Take a worker offline, its tasks are requeued
// @Tags WorkerAPI
// @Param id path string true "id"
// @Success 204
// @Failure 404
// @Router /worker/{id}/sign-off [post]
func (h *Handlers) SignOffWorker(ctx *gin.Context) {
	var params types.WorkerParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.SignOffWorker(ctx.Request.Context(), params.ID); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Heartbeat
// @Description Refresh the last seen time of a worker
// @Tags WorkerAPI
// @Param id path string true "id"
// @Success 204
// @Failure 404
// @Router /worker/{id}/heartbeat [post]
func (h *Handlers) Heartbeat(ctx *gin.Context) {
	var params types.WorkerParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.Heartbeat(ctx.Request.Context(), params.ID); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Assign Task
// @Description Hand the next eligible task to a worker
// @Tags WorkerAPI
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} models.Task
// @Success 204
// @Failure 404
// @Failure 409
// @Router /worker/{id}/task [post]
func (h *Handlers) AssignTask(ctx *gin.Context) {
	var params types.WorkerParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	task, err := h.service.AssignTask(ctx.Request.Context(), params.ID)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	if task == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// @Summary Start Task
// @Description Report that a worker started an assigned task
// @Tags WorkerAPI
// @Param id path string true "id"
// @Param task_id path string true "task id"
// @Success 204
// @Failure 404
// @Failure 409
// @Router /worker/{id}/tasks/{task_id}/start [post]
func (h *Handlers) StartTask(ctx *gin.Context) {
	var params types.WorkerTaskParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.StartTask(ctx.Request.Context(), params); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Update Task
// @Description Report progress on a task held by a worker
// @Tags WorkerAPI
// @Accept json
// @Param id path string true "id"
// @Param Activity body types.UpdateTaskRequest false "Activity"
// @Param task_id path string true "task id"
// @Success 204
// @Failure 404
// @Failure 409
// @Router /worker/{id}/tasks/{task_id}/update [post]
func (h *Handlers) UpdateTask(ctx *gin.Context) {
	var params types.WorkerTaskParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	var json types.UpdateTaskRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&json); err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
			return
		}
	}

	if err := h.service.UpdateTask(ctx.Request.Context(), params, json); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Complete Task
// @Description Report that a worker completed a task
// @Tags WorkerAPI
// @Accept json
// @Param id path string true "id"
// @Param task_id path string true "task id"
// @Param Result body types.CompleteTaskRequest false "Result"
// @Success 204
// @Failure 404
// @Failure 409
// @Router /worker/{id}/tasks/{task_id}/complete [post]
func (h *Handlers) CompleteTask(ctx *gin.Context) {
	var params types.WorkerTaskParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	var json types.CompleteTaskRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&json); err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
			return
		}
	}

	if err := h.service.CompleteTask(ctx.Request.Context(), params, json); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Fail Task
// @Description Report that a task failed on a worker
// @Tags WorkerAPI
// @Accept json
// @Param id path string true "id"
// @Param task_id path string true "task id"
// @Param Reason body types.FailTaskRequest true "Reason"
// @Success 204
// @Failure 404
// @Failure 409
// @Router /worker/{id}/tasks/{task_id}/fail [post]
func (h *Handlers) FailTask(ctx *gin.Context) {
	var params types.WorkerTaskParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	var json types.FailTaskRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.FailTask(ctx.Request.Context(), params, json); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}
