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

package dferrors

import (
	"context"
	"errors"
	"fmt"

	"d7y.io/renderfarm/pkg/dfcodes"
)

// DfError is a typed error carrying a code that callers and the REST layer
// can switch on.
type DfError struct {
	Code    dfcodes.Code
	Message string
}

func (s *DfError) Error() string {
	return fmt.Sprintf("[%s]%s", s.Code, s.Message)
}

func New(code dfcodes.Code, msg string) *DfError {
	return &DfError{
		Code:    code,
		Message: msg,
	}
}

func Newf(code dfcodes.Code, format string, a ...any) *DfError {
	return &DfError{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	}
}

// CheckError reports whether err, or any error it wraps, is a DfError with code.
func CheckError(err error, code dfcodes.Code) bool {
	if err == nil {
		return false
	}

	var e *DfError
	return errors.As(err, &e) && e.Code == code
}

// CodeOf returns the code of the first DfError in the chain, Internal otherwise.
func CodeOf(err error) dfcodes.Code {
	var e *DfError
	if errors.As(err, &e) {
		return e.Code
	}

	return dfcodes.Internal
}

// FromContext converts a context error into a Timeout error.
func FromContext(ctx context.Context, op string) error {
	return Newf(dfcodes.Timeout, "%s: %v", op, ctx.Err())
}

func NotFoundf(format string, a ...any) *DfError {
	return Newf(dfcodes.NotFound, format, a...)
}

func Validationf(format string, a ...any) *DfError {
	return Newf(dfcodes.ValidationError, format, a...)
}

func Conflictf(format string, a ...any) *DfError {
	return Newf(dfcodes.Conflict, format, a...)
}

func InvalidTransitionf(format string, a ...any) *DfError {
	return Newf(dfcodes.InvalidTransition, format, a...)
}

func Unreachablef(format string, a ...any) *DfError {
	return Newf(dfcodes.Unreachable, format, a...)
}
