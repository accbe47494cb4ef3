// Package broker orchestrates the producer -> queue -> worker -> result
// lifecycle described by the router's invariants: a task is queued,
// claimed into an assignment, either completed by a worker's result or
// reassigned on heartbeat timeout, and may be cancelled by the producer
// at any point in between.
package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ditef/router/internal/queue"
	"github.com/ditef/router/internal/registry"
	"github.com/ditef/router/internal/task"
	"github.com/ditef/router/pkg/logger"
)

// Broker wires together a MultiQueue and a TaskRegistry into the four
// operations the HTTP surface calls.
type Broker struct {
	queue *queue.MultiQueue
	reg   *registry.TaskRegistry
}

// New returns a Broker over the given queue and registry. Both must
// share the same MultiQueue instance the registry was constructed with,
// so that heartbeat timeouts re-enqueue onto the queue this Broker also
// pops from.
func New(q *queue.MultiQueue, reg *registry.TaskRegistry) *Broker {
	return &Broker{queue: q, reg: reg}
}

// Submit enqueues a task of the given type and payload, then suspends
// until a worker's result arrives or ctx is cancelled (an HTTP client
// disconnect, typically). If ctx is cancelled while the task is still
// queued, it is removed from the queue. If ctx is cancelled after a
// worker has already claimed the task, the assignment is completed
// (discarding it) unless a result already beat the cancellation to it,
// in which case the cancellation is a no-op — the result wins.
func (b *Broker) Submit(ctx context.Context, taskType string, payload json.RawMessage) (json.RawMessage, error) {
	t := task.New(taskType, payload)
	b.queue.Push(taskType, t)

	select {
	case result := <-t.Result():
		return result, nil
	case <-ctx.Done():
		b.cancel(t)
		return nil, ctx.Err()
	}
}

// cancel removes task from wherever it currently sits. If it is still
// queued, Remove succeeds and nothing further happens. Otherwise it has
// left the queue, and is in one of two places: a claim already
// registered it (look it up by assignment id and complete it there), or
// a claim has popped it but not yet registered it. t.MarkCancelled
// resolves that second case atomically against the registering claim's
// t.TryAssign, so exactly one of them wins and the task is never handed
// to a worker after being cancelled. If completing an already-registered
// assignment also fails (registry.ErrUnknownAssignment), a worker's
// result already consumed it — the cancellation defers to it and is a
// silent no-op, matching the router's documented race (spec §9).
func (b *Broker) cancel(t *task.Task) {
	if err := b.queue.Remove(t.Type, t); err == nil {
		return
	}

	if t.MarkCancelled() {
		return
	}

	assignmentID := t.AssignmentID()
	if assignmentID == "" {
		return
	}
	if _, err := b.reg.Complete(assignmentID); err != nil {
		logger.DebugX("broker", "cancel raced a result delivery for assignment=%s, result wins", assignmentID)
	}
}

// Claim pops the first available task among types, bounded by wait, and
// registers it under a freshly minted assignment id. If a cancellation
// raced the pop and won (reg.Register reports ok=false), that task is
// dropped without being handed back and Claim keeps waiting out the
// remaining budget for another one. Claim returns ErrNoWork once wait
// elapses with nothing claimable.
func (b *Broker) Claim(ctx context.Context, types []string, wait time.Duration) (assignmentID, taskType string, payload json.RawMessage, err error) {
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	for {
		t, popErr := b.queue.Pop(waitCtx, types)
		if popErr != nil {
			return "", "", nil, ErrNoWork
		}

		id, ok := b.reg.Register(t)
		if !ok {
			continue
		}
		return id, t.Type, t.Payload, nil
	}
}

// Heartbeat resets assignmentID's heartbeat deadline.
func (b *Broker) Heartbeat(assignmentID string) error {
	return b.reg.Refresh(assignmentID)
}

// DeliverResult completes assignmentID and fulfills its task's result
// promise with result. If the producer's wait was already cancelled,
// Fulfill silently discards the value — the worker still observes
// success, since the registry entry was consumed either way.
func (b *Broker) DeliverResult(assignmentID string, result json.RawMessage) error {
	t, err := b.reg.Complete(assignmentID)
	if err != nil {
		return err
	}
	t.Fulfill(result)
	return nil
}
