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
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type TaskStatus string

const (
	TaskStatusQueued    TaskStatus = "queued"
	TaskStatusAssigned  TaskStatus = "assigned"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusDone      TaskStatus = "done"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusDone || s == TaskStatusFailed || s == TaskStatusCancelled
}

// IsActive reports whether the task is held by a worker.
func (s TaskStatus) IsActive() bool {
	return s == TaskStatusAssigned || s == TaskStatusRunning
}

// Assignment records one hand-out of a task to a worker.
type Assignment struct {
	WorkerID   string     `json:"worker_id"`
	AssignedAt time.Time  `json:"assigned_at"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

type Assignments []Assignment

func (a Assignments) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return jsonValue([]Assignment(a))
}

func (a *Assignments) Scan(val any) error {
	t := []Assignment{}
	err := jsonScan(val, &t)
	*a = Assignments(t)
	return err
}

func (Assignments) GormDataType() string {
	return "assignments"
}

func (Assignments) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return "text"
}

// Active returns the number of assignments not yet released.
func (a Assignments) Active() int {
	n := 0
	for _, v := range a {
		if v.ReleasedAt == nil {
			n++
		}
	}
	return n
}

func (a Assignments) Clone() Assignments {
	if a == nil {
		return nil
	}

	c := make(Assignments, len(a))
	for i, v := range a {
		c[i] = v
		if v.ReleasedAt != nil {
			t := *v.ReleasedAt
			c[i].ReleasedAt = &t
		}
	}
	return c
}

// Command is one step a worker runs for the task.
type Command struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

type Commands []Command

func (c Commands) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return jsonValue([]Command(c))
}

func (c *Commands) Scan(val any) error {
	t := []Command{}
	err := jsonScan(val, &t)
	*c = Commands(t)
	return err
}

func (Commands) GormDataType() string {
	return "commands"
}

func (Commands) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return "text"
}

func (c Commands) Clone() Commands {
	if c == nil {
		return nil
	}

	cmds := make(Commands, len(c))
	for i, v := range c {
		params := make(map[string]any, len(v.Parameters))
		for k, p := range v.Parameters {
			params[k] = p
		}
		cmds[i] = Command{Name: v.Name, Parameters: params}
	}
	return cmds
}

type Task struct {
	BaseModel
	JobID           string      `gorm:"column:job_id;type:varchar(64);index;not null;comment:job id" json:"job_id"`
	Name            string      `gorm:"column:name;type:varchar(256);not null;comment:name" json:"name"`
	Type            string      `gorm:"column:type;type:varchar(256);comment:task type" json:"type"`
	Index           int         `gorm:"column:task_index;not null;comment:index in job" json:"index"`
	Priority        int         `gorm:"column:priority;not null;comment:priority" json:"priority"`
	Status          TaskStatus  `gorm:"column:status;type:varchar(32);not null;default:'queued';comment:status" json:"status"`
	WorkerID        string      `gorm:"column:worker_id;type:varchar(64);index;comment:assigned worker id" json:"worker_id,omitempty"`
	Retries         int         `gorm:"column:retries;not null;default:0;comment:requeue count" json:"retries"`
	CancelRequested bool        `gorm:"column:cancel_requested;not null;default:false;comment:cancel requested" json:"cancel_requested"`
	Activity        string      `gorm:"column:activity;type:varchar(1024);comment:last activity" json:"activity,omitempty"`
	FailedBy        Array       `gorm:"column:failed_by;comment:workers that failed the task" json:"failed_by,omitempty"`
	History         Assignments `gorm:"column:history;comment:assignment history" json:"history"`
	Commands        Commands    `gorm:"column:commands;comment:commands" json:"commands"`
}

func (t Task) Clone() Task {
	t.FailedBy = t.FailedBy.Clone()
	t.History = t.History.Clone()
	t.Commands = t.Commands.Clone()
	return t
}
