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


//go:generate mockgen -destination mocks/service_mock.go -source service.go -package mocks

package service

import (
	"context"

	"d7y.io/renderfarm/manager/jobtypes"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/registry"
	"d7y.io/renderfarm/manager/scheduler"
	"d7y.io/renderfarm/manager/sleepscheduler"
	"d7y.io/renderfarm/manager/statemachine"
	"d7y.io/renderfarm/manager/types"
)

// Pinger checks a downstream connection.
type Pinger interface {
	Ping(context.Context) error
}

type Service interface {
	CheckHealth(context.Context) error

	ListJobTypes(context.Context) ([]models.JobType, error)
	GetJobType(context.Context, string) (*models.JobType, error)
	ReloadJobTypes(context.Context) error

	CreateJob(context.Context, types.CreateJobRequest) (*models.Job, error)
	GetJob(context.Context, string) (*models.Job, error)
	GetJobs(context.Context, types.GetJobsQuery) ([]models.Job, error)
	GetJobTasks(context.Context, string) ([]models.Task, error)
	CancelJob(context.Context, string) error
	GetJobBlocklist(context.Context, string) ([]models.BlockEntry, error)
	RemoveJobBlocklist(context.Context, string, types.RemoveJobBlocklistRequest) error
	GetTask(context.Context, string) (*models.Task, error)
	CancelTask(context.Context, string) error

	GetWorkers(context.Context, types.GetWorkersQuery) ([]models.Worker, error)
	GetWorker(context.Context, string) (*models.Worker, error)
	DestroyWorker(context.Context, string) error
	GetWorkerSleepSchedule(context.Context, string) (*models.SleepSchedule, error)
	UpdateWorkerSleepSchedule(context.Context, string, types.UpdateWorkerSleepScheduleRequest) error
	UpdateWorkerStatus(context.Context, string, types.UpdateWorkerStatusRequest) (*models.Worker, error)
	SetWorkerCluster(context.Context, string, types.SetWorkerClusterRequest) error

	CreateWorkerCluster(context.Context, types.CreateWorkerClusterRequest) (*models.WorkerCluster, error)
	DestroyWorkerCluster(context.Context, string) error
	UpdateWorkerCluster(context.Context, string, types.UpdateWorkerClusterRequest) (*models.WorkerCluster, error)
	GetWorkerCluster(context.Context, string) (*models.WorkerCluster, error)
	GetWorkerClusters(context.Context) ([]models.WorkerCluster, error)

	RegisterWorker(context.Context, types.RegisterWorkerRequest) (*models.Worker, error)
	SignOffWorker(context.Context, string) error
	Heartbeat(context.Context, string) error
	AssignTask(context.Context, string) (*models.Task, error)
	StartTask(context.Context, types.WorkerTaskParams) error
	UpdateTask(context.Context, types.WorkerTaskParams, types.UpdateTaskRequest) error
	CompleteTask(context.Context, types.WorkerTaskParams, types.CompleteTaskRequest) error
	FailTask(context.Context, types.WorkerTaskParams, types.FailTaskRequest) error
}

type service struct {
	database       Pinger
	registry       registry.Registry
	scheduler      scheduler.Scheduler
	stateMachine   statemachine.StateMachine
	catalog        jobtypes.Catalog
	sleepScheduler sleepscheduler.SleepScheduler
}

// Option is a functional option for service
type Option func(s *service)

// WithDatabase set the database checked by the health check
func WithDatabase(database Pinger) Option {
	return func(s *service) {
		s.database = database
	}
}

// WithRegistry set the worker registry
func WithRegistry(registry registry.Registry) Option {
	return func(s *service) {
		s.registry = registry
	}
}

// WithScheduler set the job scheduler
func WithScheduler(scheduler scheduler.Scheduler) Option {
	return func(s *service) {
		s.scheduler = scheduler
	}
}

// WithStateMachine set the worker state machine
func WithStateMachine(stateMachine statemachine.StateMachine) Option {
	return func(s *service) {
		s.stateMachine = stateMachine
	}
}

// WithCatalog set the job type catalog
func WithCatalog(catalog jobtypes.Catalog) Option {
	return func(s *service) {
		s.catalog = catalog
	}
}

// WithSleepScheduler set the sleep scheduler
func WithSleepScheduler(sleepScheduler sleepscheduler.SleepScheduler) Option {
	return func(s *service) {
		s.sleepScheduler = sleepScheduler
	}
}

// New returns a new Service instence
func New(options ...Option) Service {
	s := &service{}

	for _, opt := range options {
		opt(s)
	}

	return s
}
