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

package timeout

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/go-multierror"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/registry"
	"d7y.io/renderfarm/manager/statemachine"
	"d7y.io/renderfarm/pkg/dfcodes"
	"d7y.io/renderfarm/pkg/dferrors"
)

// GCTaskID is the id of the worker timeout task in the gc runner.
const GCTaskID = "worker-timeout"

// Checker marks workers offline once they have not been seen for the timeout.
type Checker struct {
	registry     registry.Registry
	stateMachine statemachine.StateMachine
	timeout      time.Duration
	clock        clock.Clock
}

// Option is a functional option for configuring the checker.
type Option func(c *Checker)

// WithClock sets the clock last seen times are compared with.
func WithClock(c clock.Clock) Option {
	return func(checker *Checker) {
		checker.clock = c
	}
}

// New returns a new Checker.
func New(registry registry.Registry, stateMachine statemachine.StateMachine, timeout time.Duration, options ...Option) *Checker {
	c := &Checker{
		registry:     registry,
		stateMachine: stateMachine,
		timeout:      timeout,
		clock:        clock.New(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

func (c *Checker) RunGC(ctx context.Context) error {
	cutoff := c.clock.Now().Add(-c.timeout)

	var result *multierror.Error
	for _, worker := range c.registry.Stale(ctx, cutoff) {
		_, changed, err := c.stateMachine.TimeOut(ctx, worker.ID, cutoff)
		if err != nil {
			if dferrors.CheckError(err, dfcodes.NotFound) {
				continue
			}

			result = multierror.Append(result, err)
			continue
		}

		if changed {
			logger.WithWorkerID(worker.ID).Warnf("worker timed out, not seen since %s", worker.LastSeenAt.Format(time.RFC3339))
		}
	}

	return result.ErrorOrNil()
}
