// Package task defines the unit of work shared by the queue, registry,
// and broker packages. It lives on its own so none of those three has
// to import another of the three just to name this type.
package task

import (
	"encoding/json"
	"sync"
)

// Task is a single unit of work submitted by a producer. It is owned by
// exactly one of: a MultiQueue slot, a TaskRegistry slot, or a terminal
// state (fulfilled/cancelled) at any moment.
type Task struct {
	// Type keys the queue this task waits on.
	Type string

	// Payload is the opaque producer-supplied JSON value, passed through
	// unchanged to whichever worker claims this task.
	Payload json.RawMessage

	mu sync.Mutex
	// assignmentID is set when a worker claims this task and cleared when
	// it returns to a queue (heartbeat timeout). Guarded by mu since a
	// claim (registry) and a cancellation (broker) may touch it from
	// different goroutines concurrently.
	assignmentID string
	// cancelled records a cancellation that arrived after this task left
	// its queue but before TryAssign gave it an assignment id. Guarded by
	// mu along with assignmentID so the two can never disagree about
	// which of them applies.
	cancelled bool

	resultOnce sync.Once
	resultCh   chan json.RawMessage
}

// New constructs a Task with an unfulfilled result promise.
func New(taskType string, payload json.RawMessage) *Task {
	return &Task{
		Type:     taskType,
		Payload:  payload,
		resultCh: make(chan json.RawMessage, 1),
	}
}

// Fulfill delivers result to the task's single-shot result promise. Only
// the first call has any effect; later calls (a cancellation racing a
// result, or a result racing a timeout-driven re-enqueue) are no-ops.
func (t *Task) Fulfill(result json.RawMessage) {
	t.resultOnce.Do(func() {
		t.resultCh <- result
	})
}

// Result returns the channel a caller can receive the task's eventual
// result from. Exactly one value is ever sent.
func (t *Task) Result() <-chan json.RawMessage {
	return t.resultCh
}

// AssignmentID returns the task's current assignment id, or "" if the
// task is not currently claimed by a worker.
func (t *Task) AssignmentID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.assignmentID
}

// SetAssignmentID stamps or clears the task's assignment id.
func (t *Task) SetAssignmentID(id string) {
	t.mu.Lock()
	t.assignmentID = id
	t.mu.Unlock()
}

// TryAssign stamps id as the task's assignment id, unless the task was
// already cancelled in the gap between leaving its queue and reaching
// here, in which case it leaves the task untouched and returns false.
func (t *Task) TryAssign(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled {
		return false
	}
	t.assignmentID = id
	return true
}

// MarkCancelled records a cancellation for a task that has left its
// queue but has no assignment id yet, so that a TryAssign racing just
// behind it backs off instead of handing the task to a worker. Returns
// false if the task already has an assignment id, meaning TryAssign won
// the race and the caller must cancel the assignment instead.
func (t *Task) MarkCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.assignmentID != "" {
		return false
	}
	t.cancelled = true
	return true
}
