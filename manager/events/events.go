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

package events

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"

	"d7y.io/renderfarm/manager/models"
)

type Kind string

const (
	// A worker went offline, failed, or is being deleted. Tasks held by
	// it must be requeued.
	KindWorkerLost Kind = "worker-lost"

	KindWorkerUpdated  Kind = "worker-updated"
	KindWorkerDeleted  Kind = "worker-deleted"
	KindClusterUpdated Kind = "cluster-updated"
	KindClusterDeleted Kind = "cluster-deleted"
	KindJobUpdated     Kind = "job-updated"
	KindTaskUpdated    Kind = "task-updated"
)

type Event interface {
	Kind() Kind
}

type WorkerLost struct {
	WorkerID string
	Reason   string
}

func (WorkerLost) Kind() Kind { return KindWorkerLost }

type WorkerUpdated struct {
	Worker models.Worker
}

func (WorkerUpdated) Kind() Kind { return KindWorkerUpdated }

type WorkerDeleted struct {
	WorkerID string
}

func (WorkerDeleted) Kind() Kind { return KindWorkerDeleted }

type ClusterUpdated struct {
	Cluster models.WorkerCluster
}

func (ClusterUpdated) Kind() Kind { return KindClusterUpdated }

type ClusterDeleted struct {
	ClusterID string
}

func (ClusterDeleted) Kind() Kind { return KindClusterDeleted }

type JobUpdated struct {
	Job models.Job
}

func (JobUpdated) Kind() Kind { return KindJobUpdated }

type TaskUpdated struct {
	Task models.Task
}

func (TaskUpdated) Kind() Kind { return KindTaskUpdated }

// Handler consumes an event. Handlers run synchronously on the publishing
// goroutine and must not publish while holding locks taken by publishers.
type Handler func(ctx context.Context, e Event) error

// Bus delivers events to subscribers.
type Bus interface {
	// Subscribe registers a handler for the given kinds, all kinds when none are given.
	Subscribe(handler Handler, kinds ...Kind)

	// Publish runs the handlers in subscription order and returns
	// the combined handler errors.
	Publish(ctx context.Context, e Event) error
}

type subscription struct {
	handler Handler
	kinds   map[Kind]bool
}

type bus struct {
	mu            sync.RWMutex
	subscriptions []subscription
}

// New event bus.
func New() Bus {
	return &bus{}
}

func (b *bus) Subscribe(handler Handler, kinds ...Kind) {
	s := subscription{handler: handler}
	if len(kinds) > 0 {
		s.kinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = true
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = append(b.subscriptions, s)
}

func (b *bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	subscriptions := make([]subscription, len(b.subscriptions))
	copy(subscriptions, b.subscriptions)
	b.mu.RUnlock()

	var result error
	for _, s := range subscriptions {
		if s.kinds != nil && !s.kinds[e.Kind()] {
			continue
		}

		if err := s.handler(ctx, e); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result
}
