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

import (
	"database/sql/driver"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type JobStatus string

const (
	JobStatusQueued          JobStatus = "queued"
	JobStatusActive          JobStatus = "active"
	JobStatusCompleted       JobStatus = "completed"
	JobStatusFailed          JobStatus = "failed"
	JobStatusCancelRequested JobStatus = "cancel-requested"
	JobStatusCancelled       JobStatus = "cancelled"
)

// IsTerminal reports whether no task of the job can change anymore.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// BlockEntry keeps a worker away from the tasks of one type in a job.
type BlockEntry struct {
	WorkerID string `json:"worker_id" binding:"required"`
	TaskType string `json:"task_type"`
}

type Blocklist []BlockEntry

func (b Blocklist) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return jsonValue([]BlockEntry(b))
}

func (b *Blocklist) Scan(val any) error {
	t := []BlockEntry{}
	err := jsonScan(val, &t)
	*b = Blocklist(t)
	return err
}

func (Blocklist) GormDataType() string {
	return "blocklist"
}

func (Blocklist) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return "text"
}

// Blocks reports whether the worker may not run tasks of taskType.
func (b Blocklist) Blocks(workerID, taskType string) bool {
	for _, e := range b {
		if e.WorkerID == workerID && e.TaskType == taskType {
			return true
		}
	}
	return false
}

func (b Blocklist) Clone() Blocklist {
	if b == nil {
		return nil
	}

	c := make(Blocklist, len(b))
	copy(c, b)
	return c
}

type Job struct {
	BaseModel
	Name      string    `gorm:"column:name;type:varchar(256);not null;comment:name" json:"name"`
	Type      string    `gorm:"column:type;type:varchar(256);index;not null;comment:job type" json:"type"`
	Priority  int       `gorm:"column:priority;not null;default:50;comment:priority" json:"priority"`
	Settings  JSONMap   `gorm:"column:settings;comment:validated settings" json:"settings"`
	Metadata  StringMap `gorm:"column:metadata;comment:metadata" json:"metadata"`
	Status    JobStatus `gorm:"column:status;type:varchar(32);not null;default:'queued';comment:status" json:"status"`
	ClusterID string    `gorm:"column:cluster_id;type:varchar(64);index;comment:worker cluster constraint" json:"cluster_id,omitempty"`
	Activity  string    `gorm:"column:activity;type:varchar(1024);comment:last activity" json:"activity,omitempty"`
	Blocklist Blocklist `gorm:"column:blocklist;comment:workers kept away from the job" json:"blocklist,omitempty"`
	Sequence  uint64    `gorm:"column:sequence;index;comment:submission sequence" json:"-"`
}

// Clone returns a copy that shares no maps with j.
func (j Job) Clone() Job {
	j.Settings = j.Settings.Clone()
	j.Metadata = j.Metadata.Clone()
	j.Blocklist = j.Blocklist.Clone()
	return j
}
