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

package manager

import (
	"context"
	"net/http"
	"time"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/broadcaster"
	"d7y.io/renderfarm/manager/config"
	"d7y.io/renderfarm/manager/database"
	"d7y.io/renderfarm/manager/events"
	"d7y.io/renderfarm/manager/jobtypes"
	"d7y.io/renderfarm/manager/registry"
	"d7y.io/renderfarm/manager/router"
	"d7y.io/renderfarm/manager/scheduler"
	"d7y.io/renderfarm/manager/service"
	"d7y.io/renderfarm/manager/sleepscheduler"
	"d7y.io/renderfarm/manager/statemachine"
	"d7y.io/renderfarm/manager/timeout"
	"d7y.io/renderfarm/pkg/gc"
)

const (
	gracefulStopTimeout = 10 * time.Second
)

type Server struct {
	// Server configuration
	config *config.Config

	// Database
	db *database.Database

	// GC server
	gc gc.GC

	// REST server
	restServer *http.Server
}

func New(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize job type catalog
	catalog, err := jobtypes.New(cfg.JobTypes.Dir)
	if err != nil {
		return nil, err
	}

	// Initialize event bus, every update is persisted
	bus := events.New()
	store := database.NewStore(db.DB)
	database.Subscribe(bus, store)

	// Broadcast updates when redis is enabled
	if db.RDB != nil {
		broadcaster.New(db.RDB, cfg.Database.Redis.Channel).Subscribe(bus)
	}

	// Initialize core components
	workerRegistry := registry.New(bus)
	stateMachine := statemachine.New(workerRegistry, bus)
	jobScheduler := scheduler.New(cfg.Scheduler, workerRegistry, catalog, bus)
	sleepScheduler := sleepscheduler.New(workerRegistry, stateMachine)

	// Restore the persisted state
	state, err := store.Load(context.Background())
	if err != nil {
		return nil, err
	}
	workerRegistry.Restore(state.Workers, state.Clusters)
	if err := jobScheduler.Restore(context.Background(), state.Jobs, state.Tasks); err != nil {
		return nil, err
	}
	logger.Infof("restored %d workers, %d clusters, %d jobs and %d tasks",
		len(state.Workers), len(state.Clusters), len(state.Jobs), len(state.Tasks))

	// Initialize GC
	g := gc.New(gc.WithLogger(logger.GCLogger))
	if err := g.Add(gc.Task{
		ID:       timeout.GCTaskID,
		Interval: cfg.Worker.CheckInterval,
		Timeout:  cfg.Worker.CheckInterval,
		Runner:   timeout.New(workerRegistry, stateMachine, cfg.Worker.Timeout),
	}); err != nil {
		return nil, err
	}

	if err := g.Add(gc.Task{
		ID:       timeout.TaskGCTaskID,
		Interval: cfg.Scheduler.TaskCheckInterval,
		Timeout:  cfg.Scheduler.TaskCheckInterval,
		Runner:   timeout.NewTaskChecker(jobScheduler, cfg.Scheduler.TaskTimeout),
	}); err != nil {
		return nil, err
	}

	if err := g.Add(gc.Task{
		ID:       sleepscheduler.GCTaskID,
		Interval: cfg.Worker.SleepCheckInterval,
		Timeout:  cfg.Worker.SleepCheckInterval,
		Runner:   sleepScheduler,
	}); err != nil {
		return nil, err
	}

	// Initialize REST server
	restService := service.New(
		service.WithDatabase(db),
		service.WithRegistry(workerRegistry),
		service.WithScheduler(jobScheduler),
		service.WithStateMachine(stateMachine),
		service.WithCatalog(catalog),
		service.WithSleepScheduler(sleepScheduler),
	)
	router, err := router.Init(cfg, restService)
	if err != nil {
		return nil, err
	}
	restServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	return &Server{
		config:     cfg,
		db:         db,
		gc:         g,
		restServer: restServer,
	}, nil
}

func (s *Server) Serve() error {
	// Started GC server
	s.gc.Serve()
	logger.Info("started gc server")

	// Started REST server
	logger.Infof("started rest server at %s", s.restServer.Addr)
	if err := s.restServer.ListenAndServe(); err != nil {
		if err == http.ErrServerClosed {
			return nil
		}
		logger.Errorf("rest server closed unexpect: %+v", err)
		return err
	}

	return nil
}

func (s *Server) Stop() {
	// Stop REST server
	ctx, cancel := context.WithTimeout(context.Background(), gracefulStopTimeout)
	defer cancel()
	if err := s.restServer.Shutdown(ctx); err != nil {
		logger.Errorf("rest server failed to stop: %+v", err)
	}
	logger.Info("rest server closed under request")

	// Stop GC server
	s.gc.Stop()
	logger.Info("gc server closed under request")

	// Close database
	if sqlDB, err := s.db.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Errorf("database failed to close: %+v", err)
		}
	}

	if s.db.RDB != nil {
		if err := s.db.RDB.Close(); err != nil {
			logger.Errorf("redis failed to close: %+v", err)
		}
	}
}
