package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ditef/router/internal/task"
)

func TestMultiQueue_PopReturnsFIFOWithinType(t *testing.T) {
	q := New()
	first := task.New("T", []byte(`1`))
	second := task.New("T", []byte(`2`))
	q.Push("T", first)
	q.Push("T", second)

	got, err := q.Pop(context.Background(), []string{"T"})
	require.NoError(t, err)
	assert.Same(t, first, got)

	got, err = q.Pop(context.Background(), []string{"T"})
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestMultiQueue_PopSelectsOnlyRequestedTypes(t *testing.T) {
	q := New()
	a := task.New("A", []byte(`1`))
	b := task.New("B", []byte(`2`))
	q.Push("A", a)
	q.Push("B", b)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := q.Pop(ctx, []string{"B"})
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestMultiQueue_PopBlocksUntilPush(t *testing.T) {
	q := New()

	result := make(chan *task.Task, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		got, err := q.Pop(ctx, []string{"T"})
		if err == nil {
			result <- got
		}
	}()

	time.Sleep(50 * time.Millisecond)
	pushed := task.New("T", []byte(`1`))
	q.Push("T", pushed)

	select {
	case got := <-result:
		assert.Same(t, pushed, got)
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake up after Push")
	}
}

func TestMultiQueue_PopReturnsContextErrorOnTimeout(t *testing.T) {
	q := New()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx, []string{"T"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMultiQueue_RemoveSucceedsWhileQueued(t *testing.T) {
	q := New()
	item := task.New("T", []byte(`1`))
	q.Push("T", item)

	err := q.Remove("T", item)
	assert.NoError(t, err)

	_, err = q.Pop(contextWithImmediateTimeout(), []string{"T"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMultiQueue_RemoveFailsOnceClaimed(t *testing.T) {
	q := New()
	item := task.New("T", []byte(`1`))
	q.Push("T", item)

	claimed, err := q.Pop(context.Background(), []string{"T"})
	require.NoError(t, err)
	require.Same(t, item, claimed)

	err = q.Remove("T", item)
	assert.ErrorIs(t, err, ErrNotPresent)
}

// TestMultiQueue_ConcurrentPopsEachGetDistinctItem exercises the
// broadcast-wakeup path: many blocked poppers, one pusher per item, no
// two poppers may observe the same task.
func TestMultiQueue_ConcurrentPopsEachGetDistinctItem(t *testing.T) {
	q := New()
	const n = 50

	var wg sync.WaitGroup
	seen := make(chan *task.Task, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			got, err := q.Pop(ctx, []string{"T"})
			if err == nil {
				seen <- got
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	for i := 0; i < n; i++ {
		q.Push("T", task.New("T", []byte(`1`)))
	}

	wg.Wait()
	close(seen)

	unique := make(map[*task.Task]bool)
	for got := range seen {
		assert.False(t, unique[got], "same task delivered to two poppers")
		unique[got] = true
	}
	assert.Len(t, unique, n)
}

func contextWithImmediateTimeout() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()
	return ctx
}
