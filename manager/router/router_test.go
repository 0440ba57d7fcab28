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

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"d7y.io/renderfarm/manager/config"
	"d7y.io/renderfarm/manager/models"
	"d7y.io/renderfarm/manager/service/mocks"
	"d7y.io/renderfarm/manager/types"
)

func TestRouter_Init(t *testing.T) {
	tests := []struct {
		name   string
		config func(cfg *config.Config)
		req    *http.Request
		mock   func(ms *mocks.MockServiceMockRecorder)
		expect func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:   "healthy",
			config: func(cfg *config.Config) {},
			req:    httptest.NewRequest(http.MethodGet, "/healthy", nil),
			mock: func(ms *mocks.MockServiceMockRecorder) {
				ms.CheckHealth(gomock.Any()).Return(nil).Times(1)
			},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, w.Code)
			},
		},
		{
			name:   "metrics enabled",
			config: func(cfg *config.Config) { cfg.Metrics.Enable = true },
			req:    httptest.NewRequest(http.MethodGet, "/metrics", nil),
			mock:   func(ms *mocks.MockServiceMockRecorder) {},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert := assert.New(t)
				assert.Equal(http.StatusOK, w.Code)
				assert.Contains(w.Body.String(), "renderfarm_manager_version")
			},
		},
		{
			name:   "metrics disabled",
			config: func(cfg *config.Config) { cfg.Metrics.Enable = false },
			req:    httptest.NewRequest(http.MethodGet, "/metrics", nil),
			mock:   func(ms *mocks.MockServiceMockRecorder) {},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusNotFound, w.Code)
			},
		},
		{
			name:   "settings decoded as numbers",
			config: func(cfg *config.Config) {},
			req:    httptest.NewRequest(http.MethodPost, "/api/v3/jobs", strings.NewReader(`{"name": "foo", "type": "echo-sleep-test", "settings": {"duration_seconds": 3}}`)),
			mock: func(ms *mocks.MockServiceMockRecorder) {
				ms.CreateJob(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, req types.CreateJobRequest) (*models.Job, error) {
					assert.Equal(t, json.Number("3"), req.Settings["duration_seconds"])
					return &models.Job{BaseModel: models.BaseModel{ID: "j1"}}, nil
				}).Times(1)
			},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert := assert.New(t)
				assert.Equal(http.StatusOK, w.Code)
				assert.JSONEq(`{"id": "j1"}`, w.Body.String())
			},
		},
		{
			name:   "worker api routed",
			config: func(cfg *config.Config) {},
			req:    httptest.NewRequest(http.MethodPost, "/api/v3/worker/w1/task", nil),
			mock: func(ms *mocks.MockServiceMockRecorder) {
				ms.AssignTask(gomock.Any(), gomock.Eq("w1")).Return(nil, nil).Times(1)
			},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusNoContent, w.Code)
			},
		},
		{
			name:   "cors",
			config: func(cfg *config.Config) {},
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/healthy", nil)
				req.Header.Set("Origin", "http://example.com")
				return req
			}(),
			mock: func(ms *mocks.MockServiceMockRecorder) {},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctl := gomock.NewController(t)
			defer ctl.Finish()
			svc := mocks.NewMockService(ctl)

			cfg := config.New()
			tc.config(cfg)
			r, err := Init(cfg, svc)
			assert.NoError(t, err)

			w := httptest.NewRecorder()
			tc.mock(svc.EXPECT())
			r.ServeHTTP(w, tc.req)
			tc.expect(t, w)
		})
	}
}
