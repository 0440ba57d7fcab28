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

package models

import "time"

type WorkerStatus string

const (
	WorkerStatusStarting WorkerStatus = "starting"
	WorkerStatusAwake    WorkerStatus = "awake"
	WorkerStatusAsleep   WorkerStatus = "asleep"
	WorkerStatusOffline  WorkerStatus = "offline"
	WorkerStatusError    WorkerStatus = "error"
	WorkerStatusShutdown WorkerStatus = "shutdown"
)

// WorkerStatuses lists every worker status.
var WorkerStatuses = []WorkerStatus{
	WorkerStatusStarting,
	WorkerStatusAwake,
	WorkerStatusAsleep,
	WorkerStatusOffline,
	WorkerStatusError,
	WorkerStatusShutdown,
}

func (s WorkerStatus) IsValid() bool {
	for _, v := range WorkerStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Worker struct {
	BaseModel
	Name               string         `gorm:"column:name;type:varchar(256);not null;comment:name" json:"name"`
	Platform           string         `gorm:"column:platform;type:varchar(64);comment:platform" json:"platform"`
	Address            string         `gorm:"column:address;type:varchar(256);comment:address" json:"address"`
	Software           string         `gorm:"column:software;type:varchar(64);comment:software version" json:"software"`
	Status             WorkerStatus   `gorm:"column:status;type:varchar(32);not null;default:'starting';comment:status" json:"status"`
	ClusterID          string         `gorm:"column:cluster_id;type:varchar(64);index;comment:worker cluster id" json:"cluster_id,omitempty"`
	LastSeenAt         time.Time      `gorm:"column:last_seen_at;comment:last seen at" json:"last_seen_at"`
	SupportedTaskTypes Array          `gorm:"column:supported_task_types;comment:supported task types" json:"supported_task_types"`
	SleepSchedule      *SleepSchedule `gorm:"column:sleep_schedule;comment:sleep schedule" json:"sleep_schedule,omitempty"`
}

// Supports reports whether the worker can run tasks of the given type.
// A worker without a list of supported types runs every type.
func (w *Worker) Supports(taskType string) bool {
	return len(w.SupportedTaskTypes) == 0 || taskType == "" || w.SupportedTaskTypes.Contains(taskType)
}

// Clone returns a copy that shares no slices with w.
func (w Worker) Clone() Worker {
	w.SupportedTaskTypes = w.SupportedTaskTypes.Clone()
	w.SleepSchedule = w.SleepSchedule.Clone()
	return w
}
