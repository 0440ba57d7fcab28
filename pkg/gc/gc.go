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

//go:generate mockgen -destination mocks/gc_mock.go -source gc.go -package mocks

package gc

import (
	"context"
	"errors"
	"sync"
	"time"
)

// GC is the interface used for periodic resource checks.
type GC interface {
	// Add adds GC task.
	Add(Task) error

	// Run GC task.
	Run(string) error

	// Run all registered GC tasks.
	RunAll()

	// Serve running the GC task.
	Serve()

	// Stop running the GC task.
	Stop()
}

// Runner is the interface of the resource checked by GC.
type Runner interface {
	RunGC(context.Context) error
}

// Task is a periodic GC job.
type Task struct {
	ID       string
	Interval time.Duration
	Timeout  time.Duration
	Runner   Runner
}

func (t Task) validate() error {
	if t.ID == "" {
		return errors.New("empty task id")
	}

	if t.Interval <= 0 {
		return errors.New("interval value is greater than 0")
	}

	if t.Timeout <= 0 {
		return errors.New("timeout value is greater than 0")
	}

	if t.Timeout > t.Interval {
		return errors.New("timeout value needs to be less than the interval value")
	}

	if t.Runner == nil {
		return errors.New("empty task runner")
	}

	return nil
}

type gc struct {
	tasks  *sync.Map
	logger Logger
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// Option is a functional option for configuring the GC.
type Option func(g *gc)

// WithLogger set the logger for GC.
func WithLogger(logger Logger) Option {
	return func(g *gc) {
		g.logger = logger
	}
}

// New returns a new GC instence.
func New(options ...Option) GC {
	g := &gc{
		tasks:  &sync.Map{},
		done:   make(chan struct{}),
		logger: newDefaultLogger(),
	}

	for _, opt := range options {
		opt(g)
	}

	return g
}

func (g *gc) Add(t Task) error {
	if err := t.validate(); err != nil {
		return err
	}

	g.tasks.Store(t.ID, t)
	return nil
}

func (g *gc) Run(id string) error {
	v, ok := g.tasks.Load(id)
	if !ok {
		return errors.New("can not find the task")
	}

	g.run(context.Background(), v.(Task))
	return nil
}

func (g *gc) RunAll() {
	g.tasks.Range(func(_, v any) bool {
		g.run(context.Background(), v.(Task))
		return true
	})
}

func (g *gc) Serve() {
	g.tasks.Range(func(_, v any) bool {
		t := v.(Task)
		g.wg.Add(1)
		go func() {
			defer g.wg.Done()

			tick := time.NewTicker(t.Interval)
			defer tick.Stop()
			for {
				select {
				case <-tick.C:
					g.run(context.Background(), t)
				case <-g.done:
					g.logger.Infof("%s GC stop", t.ID)
					return
				}
			}
		}()

		return true
	})
}

func (g *gc) Stop() {
	g.once.Do(func() {
		close(g.done)
	})
	g.wg.Wait()
}

func (g *gc) run(ctx context.Context, t Task) {
	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	g.logger.Infof("%s GC start", t.ID)
	if err := t.Runner.RunGC(ctx); err != nil {
		g.logger.Errorf("%s GC error: %v", t.ID, err)
		return
	}

	g.logger.Infof("%s GC done", t.ID)
}
