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

type SettingType string

const (
	SettingTypeBool   SettingType = "bool"
	SettingTypeString SettingType = "string"
	SettingTypeInt32  SettingType = "int32"
	SettingTypeFloat  SettingType = "float"
)

type SettingSubtype string

const (
	SettingSubtypeFilePath       SettingSubtype = "file_path"
	SettingSubtypeDirPath        SettingSubtype = "dir_path"
	SettingSubtypeHashedFilePath SettingSubtype = "hashed_file_path"
)

// JobSetting describes one typed setting of a job type.
type JobSetting struct {
	Key         string         `yaml:"key" json:"key" validate:"required,max=256"`
	Type        SettingType    `yaml:"type" json:"type" validate:"required"`
	Subtype     SettingSubtype `yaml:"subtype,omitempty" json:"subtype,omitempty"`
	Choices     []string       `yaml:"choices,omitempty" json:"choices,omitempty"`
	Default     any            `yaml:"default,omitempty" json:"default,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty" validate:"max=1024"`
	Required    bool           `yaml:"required,omitempty" json:"required,omitempty"`
	Visible     *bool          `yaml:"visible,omitempty" json:"visible,omitempty"`
	Editable    *bool          `yaml:"editable,omitempty" json:"editable,omitempty"`
}

// TaskCompilation tells how a job of the type is split into tasks.
type TaskCompilation struct {
	// Command run by every task, defaults to the job type name.
	Command string `yaml:"command,omitempty" json:"command,omitempty"`

	// TaskType is matched against the task types a worker supports.
	TaskType string `yaml:"task_type,omitempty" json:"task_type,omitempty"`

	// ChunkBy names a frame-range setting to split into chunks.
	ChunkBy string `yaml:"chunk_by,omitempty" json:"chunk_by,omitempty"`

	// ChunkSize names an int32 setting, or holds a literal chunk size.
	ChunkSize string `yaml:"chunk_size,omitempty" json:"chunk_size,omitempty"`
}

type JobType struct {
	Name     string          `yaml:"name" json:"name" validate:"max=256"`
	Label    string          `yaml:"label" json:"label" validate:"max=256"`
	Settings []JobSetting    `yaml:"settings" json:"settings" validate:"dive"`
	Tasks    TaskCompilation `yaml:"tasks,omitempty" json:"tasks,omitempty"`

	// Etag is the digest of the definition, submissions may pin it.
	Etag string `yaml:"-" json:"etag"`
}

// Setting returns the setting with the given key.
func (jt JobType) Setting(key string) (JobSetting, bool) {
	for _, s := range jt.Settings {
		if s.Key == key {
			return s, true
		}
	}
	return JobSetting{}, false
}
