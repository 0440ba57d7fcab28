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


//go:generate mockgen -destination mocks/broadcaster_mock.go -source broadcaster.go -package mocks

package broadcaster

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/events"
	pkgredis "d7y.io/renderfarm/pkg/redis"
)

// Publisher is the part of the redis client used for broadcasting.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Message is the update sent to web front-ends.
type Message struct {
	// Type is the kind of the event.
	Type events.Kind `json:"type"`

	// ID of the changed entity.
	ID string `json:"id"`

	// Payload is the new snapshot, empty for deletions.
	Payload any `json:"payload,omitempty"`
}

type Broadcaster struct {
	publisher Publisher
	prefix    string
}

// New returns a Broadcaster publishing to channels under prefix.
func New(publisher Publisher, prefix string) *Broadcaster {
	return &Broadcaster{
		publisher: publisher,
		prefix:    prefix,
	}
}

// Subscribe broadcasts every published snapshot. Failed broadcasts are
// logged and never fail the publisher.
func (b *Broadcaster) Subscribe(bus events.Bus) {
	bus.Subscribe(func(ctx context.Context, e events.Event) error {
		if err := b.Broadcast(ctx, e); err != nil {
			logger.Warnf("broadcast %s event failed: %v", e.Kind(), err)
		}
		return nil
	},
		events.KindWorkerUpdated,
		events.KindWorkerDeleted,
		events.KindClusterUpdated,
		events.KindClusterDeleted,
		events.KindJobUpdated,
		events.KindTaskUpdated,
	)
}

// Broadcast publishes the event on the channel of its entity. Events
// without a channel are skipped.
func (b *Broadcaster) Broadcast(ctx context.Context, e events.Event) error {
	namespace, msg, ok := message(e)
	if !ok {
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrapf(err, "marshal %s message", e.Kind())
	}

	channel := pkgredis.MakeChannelInManager(b.prefix, namespace)
	if err := b.publisher.Publish(ctx, channel, data).Err(); err != nil {
		return errors.Wrapf(err, "publish to %s", channel)
	}

	return nil
}

func message(e events.Event) (string, Message, bool) {
	msg := Message{Type: e.Kind()}

	switch e := e.(type) {
	case events.WorkerUpdated:
		msg.ID, msg.Payload = e.Worker.ID, e.Worker
		return pkgredis.WorkersNamespace, msg, true
	case events.WorkerDeleted:
		msg.ID = e.WorkerID
		return pkgredis.WorkersNamespace, msg, true
	case events.ClusterUpdated:
		msg.ID, msg.Payload = e.Cluster.ID, e.Cluster
		return pkgredis.WorkerClustersNamespace, msg, true
	case events.ClusterDeleted:
		msg.ID = e.ClusterID
		return pkgredis.WorkerClustersNamespace, msg, true
	case events.JobUpdated:
		msg.ID, msg.Payload = e.Job.ID, e.Job
		return pkgredis.JobsNamespace, msg, true
	case events.TaskUpdated:
		msg.ID, msg.Payload = e.Task.ID, e.Task
		return pkgredis.TasksNamespace, msg, true
	}

	return "", msg, false
}
