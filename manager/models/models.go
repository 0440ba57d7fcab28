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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/soft_delete"
)

type BaseModel struct {
	ID        string                `gorm:"primarykey;type:varchar(64);comment:id" json:"id"`
	CreatedAt time.Time             `gorm:"column:created_at;comment:created at" json:"created_at"`
	UpdatedAt time.Time             `gorm:"column:updated_at;comment:updated at" json:"updated_at"`
	IsDel     soft_delete.DeletedAt `gorm:"softDelete:flag;comment:soft delete flag" json:"-"`
}

func jsonValue(v any) (driver.Value, error) {
	ba, err := json.Marshal(v)
	return string(ba), err
}

func jsonScan(val any, dst any) error {
	var ba []byte
	switch v := val.(type) {
	case nil:
		return nil
	case []byte:
		ba = v
	case string:
		ba = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSON value:", val))
	}

	return json.Unmarshal(ba, dst)
}

type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return jsonValue(map[string]any(m))
}

func (m *JSONMap) Scan(val any) error {
	t := map[string]any{}
	err := jsonScan(val, &t)
	*m = JSONMap(t)
	return err
}

func (JSONMap) GormDataType() string {
	return "jsonmap"
}

func (JSONMap) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return "text"
}

// Clone returns a shallow copy, values are scalars after coercion.
func (m JSONMap) Clone() JSONMap {
	if m == nil {
		return nil
	}

	c := make(JSONMap, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return jsonValue(map[string]string(m))
}

func (m *StringMap) Scan(val any) error {
	t := map[string]string{}
	err := jsonScan(val, &t)
	*m = StringMap(t)
	return err
}

func (StringMap) GormDataType() string {
	return "stringmap"
}

func (StringMap) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return "text"
}

func (m StringMap) Clone() StringMap {
	if m == nil {
		return nil
	}

	c := make(StringMap, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

type Array []string

func (a Array) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return jsonValue([]string(a))
}

func (a *Array) Scan(val any) error {
	t := []string{}
	err := jsonScan(val, &t)
	*a = Array(t)
	return err
}

func (Array) GormDataType() string {
	return "array"
}

func (Array) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return "text"
}

func (a Array) Clone() Array {
	if a == nil {
		return nil
	}
	return append(Array{}, a...)
}

// Contains reports whether s is an element of a.
func (a Array) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}
