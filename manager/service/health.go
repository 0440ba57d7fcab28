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

	"d7y.io/renderfarm/pkg/dferrors"
)

func (s *service) CheckHealth(ctx context.Context) error {
	if s.database == nil {
		return nil
	}

	if err := s.database.Ping(ctx); err != nil {
		return dferrors.Unreachablef("%v", err)
	}

	return nil
}
