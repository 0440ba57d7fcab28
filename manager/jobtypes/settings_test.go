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
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/pkg/dfcodes"
	"d7y.io/renderfarm/pkg/dferrors"
)

var mockJobType = models.JobType{
	Name: "render",
	Settings: []models.JobSetting{
		{Key: "frames", Type: models.SettingTypeString, Required: true},
		{Key: "chunk_size", Type: models.SettingTypeInt32, Default: 1},
		{Key: "format", Type: models.SettingTypeString, Choices: []string{"PNG", "JPEG"}, Default: "PNG"},
		{Key: "fps", Type: models.SettingTypeFloat},
		{Key: "has_previews", Type: models.SettingTypeBool},
	},
	Tasks: models.TaskCompilation{Command: "blender-render", TaskType: "blender", ChunkBy: "frames", ChunkSize: "chunk_size"},
}

func decode(t *testing.T, body string) map[string]any {
	decoder := json.NewDecoder(strings.NewReader(body))
	decoder.UseNumber()

	var settings map[string]any
	if err := decoder.Decode(&settings); err != nil {
		t.Fatal(err)
	}
	return settings
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings string
		expect   func(t *testing.T, settings models.JSONMap, err error)
	}{
		{
			name:     "defaults are filled",
			settings: `{"frames": "1-10"}`,
			expect: func(t *testing.T, settings models.JSONMap, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(models.JSONMap{"frames": "1-10", "chunk_size": int32(1), "format": "PNG"}, settings)
			},
		},
		{
			name:     "values are coerced",
			settings: `{"frames": "1-10", "chunk_size": 5, "fps": 24, "has_previews": true, "format": "JPEG"}`,
			expect: func(t *testing.T, settings models.JSONMap, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(int32(5), settings["chunk_size"])
				assert.Equal(float64(24), settings["fps"])
				assert.Equal(true, settings["has_previews"])
				assert.Equal("JPEG", settings["format"])
			},
		},
		{
			name:     "float accepts fractions",
			settings: `{"frames": "1", "fps": 29.97}`,
			expect: func(t *testing.T, settings models.JSONMap, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(29.97, settings["fps"])
			},
		},
		{
			name:     "null is treated as missing",
			settings: `{"frames": "1", "chunk_size": null}`,
			expect: func(t *testing.T, settings models.JSONMap, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(int32(1), settings["chunk_size"])
			},
		},
		{
			name:     "unknown key",
			settings: `{"frames": "1-10", "samples": 128}`,
			expect: func(t *testing.T, settings models.JSONMap, err error) {
				assert := assert.New(t)
				assert.True(dferrors.CheckError(err, dfcodes.ValidationError))
				assert.Contains(err.Error(), "samples: unknown setting")
				assert.Nil(settings)
			},
		},
		{
			name:     "missing required setting",
			settings: `{}`,
			expect: func(t *testing.T, settings models.JSONMap, err error) {
				assert := assert.New(t)
				assert.True(dferrors.CheckError(err, dfcodes.ValidationError))
				assert.Contains(err.Error(), "frames: required setting is missing")
			},
		},
		{
			name:     "every offending key is reported in key order",
			settings: `{"frames": 1, "chunk_size": 3.5, "has_previews": "yes", "format": "TIFF"}`,
			expect: func(t *testing.T, settings models.JSONMap, err error) {
				assert := assert.New(t)
				assert.True(dferrors.CheckError(err, dfcodes.ValidationError))
				assert.Equal("[ValidationError]invalid settings for job type render: "+
					"chunk_size: expected int32, got 3.5; "+
					"format: \"TIFF\" is not one of PNG, JPEG; "+
					"frames: expected string, got number 1; "+
					"has_previews: expected bool, got string \"yes\"", err.Error())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			settings, err := Validate(mockJobType, decode(t, tc.settings))
			tc.expect(t, settings, err)
		})
	}
}

func TestCoerce_Int32(t *testing.T) {
	setting := models.JobSetting{Key: "n", Type: models.SettingTypeInt32}
	tests := []struct {
		name   string
		value  any
		expect int32
		ok     bool
	}{
		{name: "integral literal", value: json.Number("3"), expect: 3, ok: true},
		{name: "negative literal", value: json.Number("-7"), expect: -7, ok: true},
		{name: "go int", value: 12, expect: 12, ok: true},
		{name: "go int64", value: int64(-12), expect: -12, ok: true},
		{name: "max int32", value: json.Number("2147483647"), expect: 2147483647, ok: true},
		{name: "integral float literal", value: json.Number("3.0"), ok: false},
		{name: "fraction", value: json.Number("3.5"), ok: false},
		{name: "exponent", value: json.Number("1e3"), ok: false},
		{name: "overflow", value: json.Number("2147483648"), ok: false},
		{name: "underflow", value: int64(-2147483649), ok: false},
		{name: "go float", value: 3.0, ok: false},
		{name: "string", value: "3", ok: false},
		{name: "bool", value: true, ok: false},
		{name: "uint overflow", value: uint64(1 << 40), ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Coerce(setting, tc.value)
			if !tc.ok {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.expect, v)
		})
	}
}

func TestCoerce(t *testing.T) {
	assert := assert.New(t)

	for _, value := range []any{json.Number("1"), json.Number("1.5"), 2, 2.5, float32(1.5)} {
		_, err := Coerce(models.JobSetting{Type: models.SettingTypeFloat}, value)
		assert.NoError(err, "float %v", value)
	}
	_, err := Coerce(models.JobSetting{Type: models.SettingTypeFloat}, "1.5")
	assert.Error(err)

	_, err = Coerce(models.JobSetting{Type: models.SettingTypeBool}, json.Number("1"))
	assert.Error(err)
	_, err = Coerce(models.JobSetting{Type: models.SettingTypeString}, json.Number("1"))
	assert.Error(err)
	_, err = Coerce(models.JobSetting{Type: models.SettingTypeString}, []any{"a"})
	assert.EqualError(err, "expected string, got array")
	_, err = Coerce(models.JobSetting{Type: "duration"}, "1s")
	assert.EqualError(err, `unknown setting type "duration"`)
}
