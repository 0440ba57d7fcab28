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

package router

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/config"
	"d7y.io/renderfarm/manager/handlers"
	"d7y.io/renderfarm/manager/metrics"
	"d7y.io/renderfarm/manager/middlewares"
	"d7y.io/renderfarm/manager/service"
)

func Init(cfg *config.Config, service service.Service) (*gin.Engine, error) {
	// Set mode.
	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	// Job settings keep integral literals apart from floats.
	binding.EnableDecoderUseNumber = true

	r := gin.New()
	h := handlers.New(service)

	// CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true

	// Middleware
	r.Use(ginzap.Ginzap(logger.GinLogger.Desugar(), time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger.GinLogger.Desugar(), true))
	r.Use(middlewares.Error())
	r.Use(cors.New(corsConfig))
	r.Use(middlewares.Timeout(cfg.Server.RequestTimeout))

	// Router
	apiv3 := r.Group("/api/v3")

	// Job type
	jt := apiv3.Group("/job-types")
	jt.GET("", h.GetJobTypes)
	jt.POST("reload", h.ReloadJobTypes)
	jt.GET(":name", h.GetJobType)

	// Job
	j := apiv3.Group("/jobs")
	j.POST("", h.CreateJob)
	j.GET("", h.GetJobs)
	j.GET(":id", h.GetJob)
	j.GET(":id/tasks", h.GetJobTasks)
	j.GET(":id/blocklist", h.GetJobBlocklist)
	j.DELETE(":id/blocklist", h.RemoveJobBlocklist)
	j.POST(":id/cancel", h.CancelJob)

	// Task
	t := apiv3.Group("/tasks")
	t.GET(":id", h.GetTask)
	t.POST(":id/cancel", h.CancelTask)

	// Worker management
	wm := apiv3.Group("/worker-mgt")
	wm.GET("workers", h.GetWorkers)
	wm.GET("workers/:id", h.GetWorker)
	wm.DELETE("workers/:id", h.DestroyWorker)
	wm.GET("workers/:id/sleep-schedule", h.GetWorkerSleepSchedule)
	wm.POST("workers/:id/sleep-schedule", h.UpdateWorkerSleepSchedule)
	wm.POST("workers/:id/setstatus", h.UpdateWorkerStatus)
	wm.POST("workers/:id/setcluster", h.SetWorkerCluster)

	// Worker cluster
	wm.POST("clusters", h.CreateWorkerCluster)
	wm.GET("clusters", h.GetWorkerClusters)
	wm.GET("clusters/:id", h.GetWorkerCluster)
	wm.PUT("clusters/:id", h.UpdateWorkerCluster)
	wm.DELETE("clusters/:id", h.DestroyWorkerCluster)

	// Worker API
	wa := apiv3.Group("/worker")
	wa.POST("register", h.RegisterWorker)
	wa.POST(":id/sign-off", h.SignOffWorker)
	wa.POST(":id/heartbeat", h.Heartbeat)
	wa.POST(":id/task", h.AssignTask)
	wa.POST(":id/tasks/:task_id/start", h.StartTask)
	wa.POST(":id/tasks/:task_id/update", h.UpdateTask)
	wa.POST(":id/tasks/:task_id/complete", h.CompleteTask)
	wa.POST(":id/tasks/:task_id/fail", h.FailTask)

	// Prometheus metrics
	if cfg.Metrics.Enable {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Health Check
	r.GET("/healthy", h.GetHealth)

	return r, nil
}
