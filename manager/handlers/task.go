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

// @Summary Get Task
// @Description Get Task by id
// @Tags Task
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} models.Task
// @Failure 404
// @Router /tasks/{id} [get]
func (h *Handlers) GetTask(ctx *gin.Context) {
	var params types.TaskParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	task, err := h.service.GetTask(ctx.Request.Context(), params.ID)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// @Summary Cancel Task
// @Description Cancel a queued task now or a running task at its next report
// @Tags Task
// @Param id path string true "id"
// @Success 204
// @Failure 404
// @Failure 409
// @Router /tasks/{id}/cancel [post]
func (h *Handlers) CancelTask(ctx *gin.Context) {
	var params types.TaskParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.CancelTask(ctx.Request.Context(), params.ID); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}
