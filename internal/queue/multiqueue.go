// Package queue implements MultiQueue, a collection of per-type FIFO
// queues with a blocking multi-type Pop, ported from the router's
// Python multi_queue.MultiQueue (push/pop/remove over a type->list map
// plus a single wakeup event).
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/ditef/router/internal/task"
)

// ErrNotPresent is returned by Remove when item is not queued under type.
var ErrNotPresent = errors.New("queue: item not present")

// MultiQueue holds a FIFO sequence of *task.Task per task type. A
// single broadcast channel, swapped under the lock on every Push, wakes
// any number of goroutines blocked in Pop; each re-scans its requested
// types independently, so spurious wakeups are harmless.
type MultiQueue struct {
	mu     sync.Mutex
	queues map[string][]*task.Task
	wake   chan struct{}
}

// New returns an empty MultiQueue.
func New() *MultiQueue {
	return &MultiQueue{
		queues: make(map[string][]*task.Task),
		wake:   make(chan struct{}),
	}
}

// Push appends item to the queue for taskType and wakes any blocked Pop
// callers. It never blocks.
func (q *MultiQueue) Push(taskType string, item *task.Task) {
	q.mu.Lock()
	q.queues[taskType] = append(q.queues[taskType], item)
	old := q.wake
	q.wake = make(chan struct{})
	q.mu.Unlock()

	close(old)
}

// Pop returns the first item from the first non-empty queue among types,
// scanned in the order given by the caller. Ties between types are
// broken by that iteration order, not by age across types. If every
// named queue is empty, Pop suspends until a Push signals or ctx is
// done, whichever happens first.
func (q *MultiQueue) Pop(ctx context.Context, types []string) (*task.Task, error) {
	for {
		q.mu.Lock()
		for _, t := range types {
			bucket := q.queues[t]
			if len(bucket) > 0 {
				item := bucket[0]
				q.queues[t] = bucket[1:]
				q.mu.Unlock()
				return item, nil
			}
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-wake:
			// retry the scan
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Remove deletes the first occurrence of item from the queue for
// taskType. It returns ErrNotPresent if item is not currently queued
// there — the caller's signal that a concurrent Pop already won the
// race for this item.
func (q *MultiQueue) Remove(taskType string, item *task.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	bucket := q.queues[taskType]
	for i, t := range bucket {
		if t == item {
			q.queues[taskType] = append(bucket[:i], bucket[i+1:]...)
			return nil
		}
	}
	return ErrNotPresent
}
