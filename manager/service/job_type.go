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
)

func (s *service) ListJobTypes(ctx context.Context) ([]models.JobType, error) {
	return s.catalog.List(), nil
}

func (s *service) GetJobType(ctx context.Context, name string) (*models.JobType, error) {
	jobType, err := s.catalog.Get(name)
	if err != nil {
		return nil, err
	}

	return &jobType, nil
}

func (s *service) ReloadJobTypes(ctx context.Context) error {
	return s.catalog.Reload(ctx)
}
