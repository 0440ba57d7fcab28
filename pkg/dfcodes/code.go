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

package dfcodes

// Code is the error code shared by manager components.
type Code int32

const (
	// no problem 200-299
	Success Code = 200

	// request processing error 400-499
	NotFound          Code = 404
	ValidationError   Code = 400
	Conflict          Code = 409
	InvalidTransition Code = 410

	// manager processing error 500-599
	Internal    Code = 500
	Unreachable Code = 503
	Timeout     Code = 504
)

var codeNames = map[Code]string{
	Success:           "Success",
	NotFound:          "NotFound",
	ValidationError:   "ValidationError",
	Conflict:          "Conflict",
	InvalidTransition: "InvalidTransition",
	Internal:          "Internal",
	Unreachable:       "Unreachable",
	Timeout:           "Timeout",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return "Unknown"
}
