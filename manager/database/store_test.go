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

package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"d7y.io/renderfarm/manager/config"
	"d7y.io/renderfarm/manager/database"
	"d7y.io/renderfarm/manager/database/mocks"
	"d7y.io/renderfarm/manager/events"
	"d7y.io/renderfarm/manager/models"
)

func newStore(t *testing.T) database.Store {
	cfg := config.New()
	cfg.Database.SQLite.Path = ":memory:"

	db, err := database.New(cfg)
	require.NoError(t, err)
	assert.Nil(t, db.RDB)
	return database.NewStore(db.DB)
}

func TestDatabase_New(t *testing.T) {
	cfg := config.New()
	cfg.Database.Type = "foo"

	_, err := database.New(cfg)
	assert.EqualError(t, err, "invalid database type foo")
}

func TestDatabase_Ping(t *testing.T) {
	cfg := config.New()
	cfg.Database.SQLite.Path = ":memory:"

	db, err := database.New(cfg)
	require.NoError(t, err)
	assert.NoError(t, db.Ping(context.Background()))

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestStore_Workers(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := newStore(t)

	worker := models.Worker{
		BaseModel:          models.BaseModel{ID: "w1"},
		Name:               "foo",
		Status:             models.WorkerStatusAwake,
		SupportedTaskTypes: models.Array{"blender"},
		SleepSchedule: &models.SleepSchedule{
			Enabled:   true,
			Intervals: []models.SleepInterval{{DaysOfWeek: []models.Weekday{models.Monday}, Start: "22:00", End: "06:00"}},
		},
	}
	require.NoError(t, s.Handle(ctx, events.WorkerUpdated{Worker: worker}))
	require.NoError(t, s.Handle(ctx, events.WorkerUpdated{Worker: models.Worker{BaseModel: models.BaseModel{ID: "w2"}, Name: "bar", Status: models.WorkerStatusOffline}}))

	worker.Status = models.WorkerStatusAsleep
	require.NoError(t, s.Handle(ctx, events.WorkerUpdated{Worker: worker}))

	state, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Workers, 2)
	assert.Equal("w2", state.Workers[0].ID)
	assert.Equal("w1", state.Workers[1].ID)
	assert.Equal(models.WorkerStatusAsleep, state.Workers[1].Status)
	assert.Equal(models.Array{"blender"}, state.Workers[1].SupportedTaskTypes)
	assert.Equal(worker.SleepSchedule, state.Workers[1].SleepSchedule)
	assert.Nil(state.Workers[0].SleepSchedule)

	require.NoError(t, s.Handle(ctx, events.WorkerDeleted{WorkerID: "w2"}))
	state, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Workers, 1)
	assert.Equal("w1", state.Workers[0].ID)

	require.NoError(t, s.Handle(ctx, events.WorkerUpdated{Worker: models.Worker{BaseModel: models.BaseModel{ID: "w2"}, Name: "bar", Status: models.WorkerStatusStarting}}))
	state, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Workers, 2)
	assert.Equal(models.WorkerStatusStarting, state.Workers[0].Status)
}

func TestStore_Clusters(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Handle(ctx, events.ClusterUpdated{Cluster: models.WorkerCluster{BaseModel: models.BaseModel{ID: "c1"}, Name: "gpu"}}))
	require.NoError(t, s.Handle(ctx, events.ClusterUpdated{Cluster: models.WorkerCluster{BaseModel: models.BaseModel{ID: "c2"}, Name: "cpu"}}))
	require.NoError(t, s.Handle(ctx, events.ClusterDeleted{ClusterID: "c1"}))

	// A new cluster may take the name of a deleted one.
	require.NoError(t, s.Handle(ctx, events.ClusterUpdated{Cluster: models.WorkerCluster{BaseModel: models.BaseModel{ID: "c3"}, Name: "gpu", Description: "new"}}))

	state, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Clusters, 2)
	assert.Equal("c2", state.Clusters[0].ID)
	assert.Equal("c3", state.Clusters[1].ID)
	assert.Equal("new", state.Clusters[1].Description)
}

func TestStore_JobsAndTasks(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := newStore(t)

	job := models.Job{
		BaseModel: models.BaseModel{ID: "j2"},
		Name:      "shot 10",
		Type:      "render",
		Priority:  80,
		Settings:  models.JSONMap{"frames": "1-10", "chunk_size": int32(5)},
		Metadata:  models.StringMap{"project": "sprite"},
		Status:    models.JobStatusQueued,
		Sequence:  2,
	}
	require.NoError(t, s.Handle(ctx, events.JobUpdated{Job: models.Job{BaseModel: models.BaseModel{ID: "j1"}, Name: "first", Type: "echo-sleep-test", Status: models.JobStatusCompleted, Sequence: 1}}))
	require.NoError(t, s.Handle(ctx, events.JobUpdated{Job: job}))
	job.Status = models.JobStatusActive
	require.NoError(t, s.Handle(ctx, events.JobUpdated{Job: job}))

	for _, task := range []models.Task{
		{BaseModel: models.BaseModel{ID: "t2"}, JobID: "j2", Index: 1, Name: "blender-render-6-10", Status: models.TaskStatusQueued},
		{BaseModel: models.BaseModel{ID: "t1"}, JobID: "j2", Index: 0, Name: "blender-render-1-5", Status: models.TaskStatusAssigned, WorkerID: "w1",
			History:  models.Assignments{{WorkerID: "w1"}},
			Commands: models.Commands{{Name: "blender-render", Parameters: map[string]any{"frames": "1-5"}}}},
	} {
		require.NoError(t, s.Handle(ctx, events.TaskUpdated{Task: task}))
	}

	assert.NoError(s.Handle(ctx, events.WorkerLost{WorkerID: "w1"}))

	state, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Jobs, 2)
	assert.Equal("j1", state.Jobs[0].ID)
	assert.Equal("j2", state.Jobs[1].ID)
	assert.Equal(models.JobStatusActive, state.Jobs[1].Status)
	assert.Equal(uint64(2), state.Jobs[1].Sequence)
	assert.Equal(float64(5), state.Jobs[1].Settings["chunk_size"])
	assert.Equal(models.StringMap{"project": "sprite"}, state.Jobs[1].Metadata)

	require.Len(t, state.Tasks, 2)
	assert.Equal("t1", state.Tasks[0].ID)
	assert.Equal("w1", state.Tasks[0].History[0].WorkerID)
	assert.Equal("1-5", state.Tasks[0].Commands[0].Parameters["frames"])
	assert.Equal("t2", state.Tasks[1].ID)
}

func TestSubscribe(t *testing.T) {
	tests := []struct {
		name   string
		event  events.Event
		mock   func(m *mocks.MockStoreMockRecorder)
		expect func(t *testing.T, err error)
	}{
		{
			name:  "snapshot is saved",
			event: events.JobUpdated{Job: models.Job{BaseModel: models.BaseModel{ID: "foo"}}},
			mock: func(m *mocks.MockStoreMockRecorder) {
				m.Handle(gomock.Any(), events.JobUpdated{Job: models.Job{BaseModel: models.BaseModel{ID: "foo"}}}).Return(nil).Times(1)
			},
			expect: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "failed save does not fail the publisher",
			event: events.WorkerDeleted{WorkerID: "foo"},
			mock: func(m *mocks.MockStoreMockRecorder) {
				m.Handle(gomock.Any(), gomock.Any()).Return(errors.New("foo")).Times(1)
			},
			expect: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "worker lost is not stored",
			event: events.WorkerLost{WorkerID: "foo"},
			mock:  func(m *mocks.MockStoreMockRecorder) {},
			expect: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctl := gomock.NewController(t)
			defer ctl.Finish()
			mockStore := mocks.NewMockStore(ctl)
			tc.mock(mockStore.EXPECT())

			bus := events.New()
			database.Subscribe(bus, mockStore)
			tc.expect(t, bus.Publish(context.Background(), tc.event))
		})
	}
}
