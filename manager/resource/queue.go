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

package resource

import (
	"container/heap"
	"sort"
)

type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}

	if h[i].Sequence != h[j].Sequence {
		return h[i].Sequence < h[j].Sequence
	}

	return h[i].Index < h[j].Index
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].queueIndex = i
	h[j].queueIndex = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*Task)
	t.queueIndex = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.queueIndex = -1
	*h = old[:n-1]
	return t
}

// TaskQueue orders queued tasks by priority, then submission sequence.
// It is not safe for concurrent use.
type TaskQueue struct {
	heap taskHeap
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

func (q *TaskQueue) Len() int {
	return q.heap.Len()
}

// Push adds a task, tasks already queued are left in place.
func (q *TaskQueue) Push(t *Task) {
	if t.Queued() {
		return
	}

	heap.Push(&q.heap, t)
}

// Remove takes the task out of the queue.
func (q *TaskQueue) Remove(t *Task) bool {
	if !t.Queued() || t.queueIndex >= len(q.heap) || q.heap[t.queueIndex] != t {
		return false
	}

	heap.Remove(&q.heap, t.queueIndex)
	return true
}

// Fix restores ordering after the priority of a queued task changed.
func (q *TaskQueue) Fix(t *Task) {
	if t.Queued() {
		heap.Fix(&q.heap, t.queueIndex)
	}
}

// Claim removes and returns the first task in queue order accepted by
// match, or nil.
func (q *TaskQueue) Claim(match func(*Task) bool) *Task {
	var skipped []*Task
	defer func() {
		for _, t := range skipped {
			heap.Push(&q.heap, t)
		}
	}()

	for q.heap.Len() > 0 {
		t := heap.Pop(&q.heap).(*Task)
		if match(t) {
			return t
		}
		skipped = append(skipped, t)
	}

	return nil
}

// Tasks returns the queued tasks in queue order.
func (q *TaskQueue) Tasks() []*Task {
	tasks := make([]*Task, len(q.heap))
	copy(tasks, q.heap)
	sort.SliceStable(tasks, func(i, j int) bool {
		return taskHeap(tasks).Less(i, j)
	})
	return tasks
}
