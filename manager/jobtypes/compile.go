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

package jobtypes

import (
	"fmt"
	"strconv"

	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/pkg/dferrors"
)

// FramesParameter is the command parameter carrying the frames of a chunk.
const FramesParameter = "frames"

// Compile splits a job with validated settings into its tasks. Tasks are
// returned in index order without ids, job or priority.
func Compile(jobType models.JobType, settings models.JSONMap) ([]models.Task, error) {
	command := jobType.Tasks.Command
	if command == "" {
		command = jobType.Name
	}

	if jobType.Tasks.ChunkBy == "" {
		return []models.Task{{
			Name:     command,
			Type:     jobType.Tasks.TaskType,
			Index:    0,
			Status:   models.TaskStatusQueued,
			Commands: models.Commands{{Name: command, Parameters: settings.Clone()}},
		}}, nil
	}

	value, ok := settings[jobType.Tasks.ChunkBy].(string)
	if !ok {
		return nil, dferrors.Validationf("%s: frame range is missing", jobType.Tasks.ChunkBy)
	}

	frames, err := ParseFrames(value)
	if err != nil {
		return nil, dferrors.Validationf("%s: %v", jobType.Tasks.ChunkBy, err)
	}

	size, err := chunkSize(jobType, settings)
	if err != nil {
		return nil, err
	}

	chunks := ChunkFrames(frames, size)
	tasks := make([]models.Task, 0, len(chunks))
	for i, chunk := range chunks {
		parameters := settings.Clone()
		if parameters == nil {
			parameters = models.JSONMap{}
		}
		parameters[FramesParameter] = chunk

		tasks = append(tasks, models.Task{
			Name:     fmt.Sprintf("%s-%s", command, chunk),
			Type:     jobType.Tasks.TaskType,
			Index:    i,
			Status:   models.TaskStatusQueued,
			Commands: models.Commands{{Name: command, Parameters: parameters}},
		})
	}

	return tasks, nil
}

func chunkSize(jobType models.JobType, settings models.JSONMap) (int, error) {
	key := jobType.Tasks.ChunkSize
	if key == "" {
		return 1, nil
	}

	if n, err := strconv.Atoi(key); err == nil {
		return n, nil
	}

	var size int
	switch v := settings[key].(type) {
	case int32:
		size = int(v)
	case int:
		size = v
	case float64:
		size = int(v)
	default:
		return 1, nil
	}

	if size <= 0 {
		return 0, dferrors.Validationf("%s: chunk size must be greater than 0", key)
	}

	return size, nil
}
