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

// @Summary Create WorkerCluster
// @Description create by json config
// @Tags WorkerCluster
// @Accept json
// @Produce json
// @Param WorkerCluster body types.CreateWorkerClusterRequest true "WorkerCluster"
// @Success 200 {object} models.WorkerCluster
// @Failure 400
// @Failure 409
// @Router /worker-mgt/clusters [post]
func (h *Handlers) CreateWorkerCluster(ctx *gin.Context) {
	var json types.CreateWorkerClusterRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	cluster, err := h.service.CreateWorkerCluster(ctx.Request.Context(), json)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, cluster)
}

// @Summary Destroy WorkerCluster
// @Description Destroy by id
// @Tags WorkerCluster
// @Param id path string true "id"
// @Success 204
// @Failure 404
// @Failure 409
// @Router /worker-mgt/clusters/{id} [delete]
func (h *Handlers) DestroyWorkerCluster(ctx *gin.Context) {
	var params types.WorkerClusterParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	if err := h.service.DestroyWorkerCluster(ctx.Request.Context(), params.ID); err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Update WorkerCluster
// @Description Update by json config
// @Tags WorkerCluster
// @Accept json
// @Produce json
// @Param id path string true "id"
// @Param WorkerCluster body types.UpdateWorkerClusterRequest true "WorkerCluster"
// @Success 200 {object} models.WorkerCluster
// @Failure 404
// @Router /worker-mgt/clusters/{id} [put]
func (h *Handlers) UpdateWorkerCluster(ctx *gin.Context) {
	var params types.WorkerClusterParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	var json types.UpdateWorkerClusterRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	cluster, err := h.service.UpdateWorkerCluster(ctx.Request.Context(), params.ID, json)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, cluster)
}

// @Summary Get WorkerCluster
// @Description Get WorkerCluster by id
// @Tags WorkerCluster
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} models.WorkerCluster
// @Failure 404
// @Router /worker-mgt/clusters/{id} [get]
func (h *Handlers) GetWorkerCluster(ctx *gin.Context) {
	var params types.WorkerClusterParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.Error()})
		return
	}

	cluster, err := h.service.GetWorkerCluster(ctx.Request.Context(), params.ID)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, cluster)
}

// @Summary Get WorkerClusters
// @Description Get WorkerClusters ordered by name
// @Tags WorkerCluster
// @Produce json
// @Success 200 {object} []models.WorkerCluster
// @Router /worker-mgt/clusters [get]
func (h *Handlers) GetWorkerClusters(ctx *gin.Context) {
	clusters, err := h.service.GetWorkerClusters(ctx.Request.Context())
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, clusters)
}
