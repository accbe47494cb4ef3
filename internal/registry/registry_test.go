package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ditef/router/internal/queue"
	"github.com/ditef/router/internal/task"
)

func contextWithImmediateTimeout() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()
	return ctx
}


func TestTaskRegistry_RegisterStampsAssignmentID(t *testing.T) {
	q := queue.New()
	r := New(q, time.Minute)
	tk := task.New("T", []byte(`1`))

	id, ok := r.Register(tk)
	require.True(t, ok)

	assert.NotEmpty(t, id)
	assert.Equal(t, id, tk.AssignmentID())
}

func TestTaskRegistry_CompleteRemovesAssignmentAndCancelsTimer(t *testing.T) {
	q := queue.New()
	r := New(q, 20*time.Millisecond)
	tk := task.New("T", []byte(`1`))
	id, ok := r.Register(tk)
	require.True(t, ok)

	got, err := r.Complete(id)
	require.NoError(t, err)
	assert.Same(t, tk, got)

	_, err = r.Complete(id)
	assert.ErrorIs(t, err, ErrUnknownAssignment)

	// The heartbeat timer must not fire after Complete: no re-enqueue.
	time.Sleep(60 * time.Millisecond)
	_, popErr := q.Pop(contextWithImmediateTimeout(), []string{"T"})
	assert.Error(t, popErr)
}

func TestTaskRegistry_RefreshExtendsDeadline(t *testing.T) {
	q := queue.New()
	r := New(q, 60*time.Millisecond)
	tk := task.New("T", []byte(`1`))
	id, ok := r.Register(tk)
	require.True(t, ok)

	// Refresh twice within the window; same effect as a single refresh
	// issued just before the deadline (property 4).
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, r.Refresh(id))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, r.Refresh(id))

	time.Sleep(30 * time.Millisecond)
	_, err := r.Complete(id)
	assert.NoError(t, err, "assignment should still be live after two in-window refreshes")
}

func TestTaskRegistry_RefreshUnknownAssignment(t *testing.T) {
	q := queue.New()
	r := New(q, time.Minute)

	err := r.Refresh("nonexistent")
	assert.ErrorIs(t, err, ErrUnknownAssignment)
}

func TestTaskRegistry_FireReenqueuesOnTimeout(t *testing.T) {
	q := queue.New()
	r := New(q, 20*time.Millisecond)
	tk := task.New("T", []byte(`1`))
	id, ok := r.Register(tk)
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := q.Pop(ctx, []string{"T"})
	require.NoError(t, err)
	assert.Same(t, tk, got)
	assert.Empty(t, got.AssignmentID(), "reassigned task must shed its stale assignment id")

	_, err = r.Complete(id)
	assert.ErrorIs(t, err, ErrUnknownAssignment, "the fired assignment must already be gone")
}

// A fire callback that was already running when Refresh's Stop() call
// returns false (too late to retract, per time.AfterFunc's contract)
// must not undo the refresh that raced past it: the assignment stays
// live under the same id, and the task is not re-enqueued.
func TestTaskRegistry_StaleFireCannotUndoConcurrentRefresh(t *testing.T) {
	q := queue.New()
	r := New(q, time.Minute)
	tk := task.New("T", []byte(`1`))
	id, ok := r.Register(tk)
	require.True(t, ok)

	a := r.byID[id]
	require.NotNil(t, a)

	// Simulate a fire armed on the pre-refresh generation whose callback
	// had already started when Refresh ran to completion, and which only
	// then acquires the lock and does its lookup.
	staleGeneration := a.generation
	require.NoError(t, r.Refresh(id))

	r.fire(id, staleGeneration)

	_, popErr := q.Pop(contextWithImmediateTimeout(), []string{"T"})
	assert.Error(t, popErr, "a stale fire must not re-enqueue a task that was just refreshed")

	got, err := r.Complete(id)
	require.NoError(t, err, "the assignment must still be live under its original id")
	assert.Same(t, tk, got)
}

func TestTaskRegistry_StopPreventsReenqueue(t *testing.T) {
	q := queue.New()
	r := New(q, 20*time.Millisecond)
	tk := task.New("T", []byte(`1`))
	r.Register(tk)

	r.Stop()

	// Wait past the 20ms heartbeat deadline the stopped timer had.
	time.Sleep(60 * time.Millisecond)
	_, err := q.Pop(contextWithImmediateTimeout(), []string{"T"})
	assert.Error(t, err, "Stop must cancel pending timers without re-enqueueing")
}
