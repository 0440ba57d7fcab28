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

package service

import (
	"context"

	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/scheduler"
	"d7y.io/renderfarm/manager/types"
)

// DefaultJobPriority is used for jobs submitted without a priority.
const DefaultJobPriority = 50

func (s *service) CreateJob(ctx context.Context, json types.CreateJobRequest) (*models.Job, error) {
	priority := DefaultJobPriority
	if json.Priority != nil {
		priority = *json.Priority
	}

	job, err := s.scheduler.Submit(ctx, scheduler.Submission{
		Name:      json.Name,
		Type:      json.Type,
		TypeEtag:  json.TypeEtag,
		Priority:  priority,
		Settings:  json.Settings,
		Metadata:  json.Metadata,
		ClusterID: json.ClusterID,
	})
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (s *service) GetJob(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.scheduler.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (s *service) GetJobs(ctx context.Context, q types.GetJobsQuery) ([]models.Job, error) {
	return s.scheduler.ListJobs(ctx, scheduler.JobFilter{
		Status: models.JobStatus(q.Status),
	})
}

func (s *service) GetJobTasks(ctx context.Context, id string) ([]models.Task, error) {
	return s.scheduler.ListTasks(ctx, id)
}

func (s *service) CancelJob(ctx context.Context, id string) error {
	_, err := s.scheduler.CancelJob(ctx, id)
	return err
}

func (s *service) GetJobBlocklist(ctx context.Context, id string) ([]models.BlockEntry, error) {
	return s.scheduler.JobBlocklist(ctx, id)
}

func (s *service) RemoveJobBlocklist(ctx context.Context, id string, json types.RemoveJobBlocklistRequest) error {
	_, err := s.scheduler.RemoveFromBlocklist(ctx, id, json.Entries)
	return err
}

func (s *service) GetTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.scheduler.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *service) CancelTask(ctx context.Context, id string) error {
	_, err := s.scheduler.CancelTask(ctx, id)
	return err
}
