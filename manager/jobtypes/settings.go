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
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/pkg/dferrors"
)

// Validate checks settings against the job type and returns them coerced to
// the declared setting types, with defaults filled in. Every offending key
// is reported.
func Validate(jobType models.JobType, settings map[string]any) (models.JSONMap, error) {
	var errs []settingError
	result := make(models.JSONMap, len(jobType.Settings))

	for key := range settings {
		if _, ok := jobType.Setting(key); !ok {
			errs = append(errs, settingError{key, "unknown setting"})
		}
	}

	for _, setting := range jobType.Settings {
		value, ok := settings[setting.Key]
		if !ok || value == nil {
			if setting.Required {
				errs = append(errs, settingError{setting.Key, "required setting is missing"})
				continue
			}

			if setting.Default != nil {
				v, err := Coerce(setting, setting.Default)
				if err != nil {
					errs = append(errs, settingError{setting.Key, "default: " + err.Error()})
					continue
				}
				result[setting.Key] = v
			}
			continue
		}

		v, err := Coerce(setting, value)
		if err != nil {
			errs = append(errs, settingError{setting.Key, err.Error()})
			continue
		}
		result[setting.Key] = v
	}

	if len(errs) > 0 {
		return nil, dferrors.Validationf("invalid settings for job type %s: %v", jobType.Name, combine(errs))
	}

	return result, nil
}

type settingError struct {
	key    string
	reason string
}

func (e settingError) Error() string {
	return fmt.Sprintf("%s: %s", e.key, e.reason)
}

func combine(errs []settingError) error {
	sort.Slice(errs, func(i, j int) bool { return errs[i].key < errs[j].key })

	result := &multierror.Error{
		ErrorFormat: func(es []error) string {
			msgs := make([]string, len(es))
			for i, e := range es {
				msgs[i] = e.Error()
			}
			return strings.Join(msgs, "; ")
		},
	}
	for _, e := range errs {
		result = multierror.Append(result, e)
	}

	return result
}

// Coerce converts a decoded JSON or YAML value to the setting type. Integers
// must be integral literals within range, floats are never truncated.
func Coerce(setting models.JobSetting, value any) (any, error) {
	switch setting.Type {
	case models.SettingTypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %s", describe(value))
		}
		return b, nil
	case models.SettingTypeString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %s", describe(value))
		}

		if len(setting.Choices) > 0 && !contains(setting.Choices, s) {
			return nil, fmt.Errorf("%q is not one of %s", s, strings.Join(setting.Choices, ", "))
		}
		return s, nil
	case models.SettingTypeInt32:
		return toInt32(value)
	case models.SettingTypeFloat:
		return toFloat(value)
	default:
		return nil, fmt.Errorf("unknown setting type %q", setting.Type)
	}
}

func toInt32(value any) (int32, error) {
	var n int64
	switch v := value.(type) {
	case json.Number:
		i, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected int32, got %s", v.String())
		}
		n = i
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		if uint64(v) > math.MaxInt32 {
			return 0, fmt.Errorf("%d is out of int32 range", v)
		}
		n = int64(v)
	case uint8:
		n = int64(v)
	case uint16:
		n = int64(v)
	case uint32:
		n = int64(v)
	case uint64:
		if v > math.MaxInt32 {
			return 0, fmt.Errorf("%d is out of int32 range", v)
		}
		n = int64(v)
	default:
		return 0, fmt.Errorf("expected int32, got %s", describe(value))
	}

	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%d is out of int32 range", n)
	}

	return int32(n), nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected float, got %s", v.String())
		}
		return f, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected float, got %s", describe(value))
	}
}

func describe(value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("string %q", v)
	case json.Number:
		return "number " + v.String()
	case float64, float32:
		return fmt.Sprintf("number %v", v)
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
