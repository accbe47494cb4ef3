// Package registry implements TaskRegistry, the table of in-flight
// assignments keyed by assignment id, with a per-assignment heartbeat
// timer instead of a background sweep loop.
package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ditef/router/internal/queue"
	"github.com/ditef/router/internal/task"
	"github.com/ditef/router/pkg/logger"
	"github.com/ditef/router/pkg/utils/safego"
)

// ErrUnknownAssignment is returned by Refresh and Complete when
// assignmentID is not currently registered: never issued, already
// completed, or already reassigned by a heartbeat timeout.
var ErrUnknownAssignment = errors.New("registry: unknown assignment")

type assignment struct {
	task  *task.Task
	timer *time.Timer
	// generation is bumped on every Refresh. A fire callback captures the
	// generation in effect at the moment it was armed and checks it
	// against the current value before acting, so a callback that was
	// already running when Stop() returned false (too late to retract
	// per time.AfterFunc's contract) finds itself stale and no-ops
	// instead of reassigning a task that was just refreshed.
	generation uint64
}

// TaskRegistry tracks Assignments by assignment id and arms/refreshes/
// cancels the heartbeat timer for each. On timer fire, it removes the
// assignment and re-enqueues the task onto the MultiQueue it was built
// with, minting a fresh assignment id on the task's next claim.
type TaskRegistry struct {
	mu      sync.Mutex
	byID    map[string]*assignment
	timeout time.Duration
	queue   *queue.MultiQueue
	closed  bool
}

// New returns a TaskRegistry that re-enqueues timed-out tasks onto q,
// with the given router-wide heartbeat timeout.
func New(q *queue.MultiQueue, timeout time.Duration) *TaskRegistry {
	return &TaskRegistry{
		byID:    make(map[string]*assignment),
		timeout: timeout,
		queue:   q,
	}
}

// Register mints a fresh assignment id for t and arms its heartbeat
// timer, unless t was cancelled in the gap between leaving its queue
// and reaching here, in which case it registers nothing and returns
// ok=false. It also stamps the id onto the task.
func (r *TaskRegistry) Register(t *task.Task) (assignmentID string, ok bool) {
	id := uuid.NewString()
	if !t.TryAssign(id) {
		return "", false
	}

	r.mu.Lock()
	a := &assignment{task: t}
	gen := a.generation
	a.timer = time.AfterFunc(r.timeout, func() { r.fire(id, gen) })
	r.byID[id] = a
	r.mu.Unlock()

	return id, true
}

// Refresh resets assignmentID's heartbeat deadline to now+timeout.
// Refresh is idempotent: N refreshes within the window have the same
// effect as one issued just before the deadline. Bumping the generation
// on every call, and having fire check it, means a timer that had
// already started firing when Stop() returned false cannot undo this
// refresh once it runs.
func (r *TaskRegistry) Refresh(assignmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[assignmentID]
	if !ok {
		return ErrUnknownAssignment
	}
	a.timer.Stop()
	a.generation++
	gen := a.generation
	a.timer = time.AfterFunc(r.timeout, func() { r.fire(assignmentID, gen) })
	return nil
}

// Complete removes and returns the task behind assignmentID, cancelling
// its heartbeat timer. Once Complete has returned successfully, no
// subsequent timer fire can act on assignmentID.
func (r *TaskRegistry) Complete(assignmentID string) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[assignmentID]
	if !ok {
		return nil, ErrUnknownAssignment
	}
	a.timer.Stop()
	delete(r.byID, assignmentID)
	return a.task, nil
}

// SetTimeout changes the heartbeat timeout applied to assignments
// registered or refreshed from this point on; it does not retroactively
// rearm already-scheduled timers. Used to apply a live config reload
// without disturbing in-flight assignments.
func (r *TaskRegistry) SetTimeout(timeout time.Duration) {
	r.mu.Lock()
	r.timeout = timeout
	r.mu.Unlock()
}

// Stop cancels every pending heartbeat timer without re-enqueueing
// their tasks, used during process shutdown.
func (r *TaskRegistry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for id, a := range r.byID {
		a.timer.Stop()
		delete(r.byID, id)
	}
}

// fire is the heartbeat timeout callback. It removes the assignment
// from the registry before re-enqueueing the task, matching the
// registry invariant that a fired timer never races a concurrent
// Complete for the same id. generation is the value in effect when this
// particular timer was armed; if a Refresh has since bumped it, this
// call is stale and must not touch the assignment it no longer owns.
func (r *TaskRegistry) fire(assignmentID string, generation uint64) {
	defer safego.Recovery()

	r.mu.Lock()
	a, ok := r.byID[assignmentID]
	if !ok || a.generation != generation {
		r.mu.Unlock()
		return
	}
	delete(r.byID, assignmentID)
	closed := r.closed
	r.mu.Unlock()

	if closed {
		return
	}

	a.task.SetAssignmentID("")
	logger.WarnX("registry", "heartbeat timeout, reassigning task type=%s assignment=%s", a.task.Type, assignmentID)
	r.queue.Push(a.task.Type, a.task)
}
