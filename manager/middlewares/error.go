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

package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"d7y.io/renderfarm/pkg/dfcodes"
	"d7y.io/renderfarm/pkg/dferrors"
)

type ErrorResponse struct {
	Message     string `json:"message,omitempty"`
	Error       string `json:"errors,omitempty"`
	DocumentURL string `json:"documentation_url,omitempty"`
}

var codeStatus = map[dfcodes.Code]int{
	dfcodes.NotFound:          http.StatusNotFound,
	dfcodes.ValidationError:   http.StatusBadRequest,
	dfcodes.Conflict:          http.StatusConflict,
	dfcodes.InvalidTransition: http.StatusConflict,
	dfcodes.Unreachable:       http.StatusServiceUnavailable,
	dfcodes.Timeout:           http.StatusGatewayTimeout,
}

func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		err := c.Errors.Last()
		if err == nil {
			return
		}

		// Gin error handler
		if err, ok := pkgerrors.Cause(err.Err).(*gin.Error); ok {
			switch err.Type {
			case gin.ErrorTypeBind:
				c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
					Message: http.StatusText(http.StatusUnprocessableEntity),
					Error:   err.Error(),
				})
				return
			default:
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: http.StatusText(http.StatusInternalServerError),
				})
				return
			}
		}

		// Manager error handler
		var dferr *dferrors.DfError
		if errors.As(err.Err, &dferr) {
			status, ok := codeStatus[dferr.Code]
			if !ok {
				status = http.StatusInternalServerError
			}

			c.JSON(status, ErrorResponse{
				Message: http.StatusText(status),
				Error:   dferr.Message,
			})
			return
		}

		// GORM ErrRecordNotFound handler
		if errors.Is(err.Err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Message: http.StatusText(http.StatusNotFound),
			})
			return
		}

		// Unknown error
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: http.StatusText(http.StatusInternalServerError),
		})
	}
}
