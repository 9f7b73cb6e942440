package queue_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/scout/internal/engine/queue"
)

func TestQueue_ProcessesSubmittedTasks(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New(2, 0, queue.RunJob)
		defer q.Close()

		job := queue.Job(func(ctx context.Context) (any, error) {
			return 42, nil
		})

		task, err := q.Submit("task-1", job)
		require.NoError(t, err)
		assert.Equal(t, queue.StatusPending, task.Status)

		synctest.Wait()

		settled, ok := q.Get("task-1")
		require.True(t, ok)
		assert.Equal(t, queue.StatusCompleted, settled.Status)
		assert.Equal(t, 42, settled.Result)
		assert.False(t, settled.EndedAt.IsZero())
	})
}

func TestQueue_DuplicateIDRejected(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New(1, 0, queue.RunJob)
		defer q.Close()

		job := queue.Job(func(ctx context.Context) (any, error) { return nil, nil })

		_, err := q.Submit("task-1", job)
		require.NoError(t, err)

		_, err = q.Submit("task-1", job)
		assert.ErrorIs(t, err, domain.ErrTaskAlreadyQueued)

		// Settled ids stay taken; the task table is the uniqueness domain.
		synctest.Wait()
		_, err = q.Submit("task-1", job)
		assert.ErrorIs(t, err, domain.ErrTaskAlreadyQueued)
	})
}

func TestQueue_ConcurrencyBound(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		const bound = 2

		var running, peak atomic.Int64
		release := make(chan struct{})

		q := queue.New(bound, 0, queue.RunJob)
		defer q.Close()

		job := queue.Job(func(ctx context.Context) (any, error) {
			now := running.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			<-release
			running.Add(-1)
			return nil, nil
		})

		for _, id := range []string{"a", "b", "c", "d", "e"} {
			_, err := q.Submit(id, job)
			require.NoError(t, err)
		}

		synctest.Wait()
		assert.Equal(t, int64(bound), running.Load(), "exactly the bound should be running")
		assert.Equal(t, bound, q.Progress().Running)
		assert.Equal(t, 3, q.Progress().Pending)

		close(release)
		synctest.Wait()

		assert.LessOrEqual(t, peak.Load(), int64(bound))
		assert.Equal(t, 5, q.Progress().Completed)
	})
}

func TestQueue_FIFODispatch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var started []string

		q := queue.New(1, 0, func(ctx context.Context, task queue.Task) (any, error) {
			mu.Lock()
			started = append(started, task.ID)
			mu.Unlock()
			return nil, nil
		})
		defer q.Close()

		for _, id := range []string{"first", "second", "third"} {
			_, err := q.Submit(id, nil)
			require.NoError(t, err)
		}

		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"first", "second", "third"}, started)
	})
}

func TestQueue_TaskTimeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New(1, 50*time.Millisecond, queue.RunJob)
		defer q.Close()

		// The job outlives its context slightly, so the timeout settles the
		// task before a late outcome can.
		job := queue.Job(func(ctx context.Context) (any, error) {
			<-ctx.Done()
			time.Sleep(time.Millisecond)
			return nil, ctx.Err()
		})

		_, err := q.Submit("slow", job)
		require.NoError(t, err)

		// Sleep past the task timeout so the fake clock fires it.
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		settled, ok := q.Get("slow")
		require.True(t, ok)
		assert.Equal(t, queue.StatusFailed, settled.Status)
		assert.ErrorIs(t, settled.Err, domain.ErrTaskTimedOut)
	})
}

func TestQueue_FailedJobKeepsError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New(1, 0, queue.RunJob)
		defer q.Close()

		boom := domain.ErrScanFailed
		job := queue.Job(func(ctx context.Context) (any, error) { return nil, boom })

		_, err := q.Submit("bad", job)
		require.NoError(t, err)

		synctest.Wait()

		settled, _ := q.Get("bad")
		assert.Equal(t, queue.StatusFailed, settled.Status)
		assert.ErrorIs(t, settled.Err, boom)
		assert.Equal(t, 1, q.Progress().Failed)
	})
}

func TestQueue_EventOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New(1, 0, queue.RunJob)
		defer q.Close()

		var mu sync.Mutex
		var seen []queue.EventType
		cancel := q.Subscribe(func(ev queue.Event) {
			mu.Lock()
			seen = append(seen, ev.Type)
			mu.Unlock()
		})
		defer cancel()

		job := queue.Job(func(ctx context.Context) (any, error) { return nil, nil })
		_, err := q.Submit("task-1", job)
		require.NoError(t, err)

		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []queue.EventType{
			queue.EventTaskAdded,
			queue.EventTaskStarted,
			queue.EventTaskCompleted,
			queue.EventProgress,
			queue.EventDrained,
		}, seen)
	})
}

func TestQueue_DrainedFiresOncePerDrain(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New(2, 0, queue.RunJob)
		defer q.Close()

		var drained atomic.Int64
		cancel := q.Subscribe(func(ev queue.Event) {
			if ev.Type == queue.EventDrained {
				drained.Add(1)
			}
		})
		defer cancel()

		job := queue.Job(func(ctx context.Context) (any, error) { return nil, nil })
		for _, id := range []string{"a", "b", "c"} {
			_, err := q.Submit(id, job)
			require.NoError(t, err)
		}

		synctest.Wait()
		assert.Equal(t, int64(1), drained.Load())

		_, err := q.Submit("d", job)
		require.NoError(t, err)
		synctest.Wait()
		assert.Equal(t, int64(2), drained.Load())
	})
}

func TestQueue_SubscribeCancel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := queue.New(1, 0, queue.RunJob)
		defer q.Close()

		var events atomic.Int64
		cancel := q.Subscribe(func(queue.Event) { events.Add(1) })

		job := queue.Job(func(ctx context.Context) (any, error) { return nil, nil })
		_, err := q.Submit("a", job)
		require.NoError(t, err)
		synctest.Wait()

		seen := events.Load()
		assert.Positive(t, seen)

		cancel()
		_, err = q.Submit("b", job)
		require.NoError(t, err)
		synctest.Wait()

		assert.Equal(t, seen, events.Load(), "no deliveries after cancel")
	})
}

func TestQueue_SubmitAfterClose(t *testing.T) {
	q := queue.New(1, 0, queue.RunJob)
	q.Close()

	_, err := q.Submit("late", queue.Job(func(ctx context.Context) (any, error) { return nil, nil }))
	assert.ErrorIs(t, err, domain.ErrQueueClosed)
}

func TestQueue_ProgressPercent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		release := make(chan struct{})
		q := queue.New(1, 0, queue.RunJob)
		defer q.Close()

		blocking := queue.Job(func(ctx context.Context) (any, error) {
			<-release
			return nil, nil
		})
		instant := queue.Job(func(ctx context.Context) (any, error) { return nil, nil })

		_, err := q.Submit("a", blocking)
		require.NoError(t, err)
		_, err = q.Submit("b", instant)
		require.NoError(t, err)

		synctest.Wait()
		p := q.Progress()
		assert.Equal(t, 2, p.Total)
		assert.Equal(t, float64(0), p.Percent)

		close(release)
		synctest.Wait()

		p = q.Progress()
		assert.Equal(t, 2, p.Completed)
		assert.Equal(t, float64(100), p.Percent)
	})
}
