// Package queue implements a bounded FIFO task queue with lifecycle events.
package queue

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a queued task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting for a worker slot.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently processing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task processing failed or timed out.
	StatusFailed TaskStatus = "Failed"
)

// Task is one unit of queued work. Events carry value copies, so observers
// never see a task mid-mutation.
type Task struct {
	ID         string
	Payload    any
	Status     TaskStatus
	EnqueuedAt time.Time
	StartedAt  time.Time
	EndedAt    time.Time
	Result     any
	Err        error
}

// Job is a self-contained unit of work usable as a task payload with RunJob.
type Job func(ctx context.Context) (any, error)

// ProcessFunc processes one task and returns its result.
type ProcessFunc func(ctx context.Context, task Task) (any, error)

// RunJob is the ProcessFunc for queues whose payloads are Job closures.
func RunJob(ctx context.Context, task Task) (any, error) {
	job, ok := task.Payload.(Job)
	if !ok {
		return nil, zerr.With(zerr.New("task payload is not a runnable job"), "task_id", task.ID)
	}
	return job(ctx)
}

// EventType classifies queue lifecycle events.
type EventType string

const (
	// EventTaskAdded fires when a task is accepted into the queue.
	EventTaskAdded EventType = "task_added"
	// EventTaskStarted fires when a task moves from pending to running.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted fires when a task finishes successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed fires when a task fails or times out.
	EventTaskFailed EventType = "task_failed"
	// EventProgress fires after every settled task with updated counters.
	EventProgress EventType = "progress"
	// EventDrained fires when the queue transitions to empty, once per
	// drain.
	EventDrained EventType = "drained"
)

// Event is a queue lifecycle notification. Task is a snapshot taken at the
// moment of the transition.
type Event struct {
	Type     EventType
	Task     Task
	Progress Progress
}

// Progress summarizes the queue's counters.
type Progress struct {
	Total     int     `json:"total"`
	Pending   int     `json:"pending"`
	Running   int     `json:"running"`
	Completed int     `json:"completed"`
	Failed    int     `json:"failed"`
	Percent   float64 `json:"percent"`
}

type subscriber struct {
	id int
	fn func(Event)
}

// Queue runs submitted tasks through a ProcessFunc with bounded parallelism,
// dispatching pending tasks in submission order as worker slots free up.
//
// Events are appended to an internal log under the queue lock and delivered
// by a single dispatcher goroutine, so every observer sees transitions in
// the order they happened and callbacks may safely call back into the queue.
type Queue struct {
	process ProcessFunc
	timeout time.Duration

	mu          sync.Mutex
	cond        *sync.Cond
	tasks       map[string]*Task
	order       []string
	running     int
	concurrency int
	completed   int
	failed      int
	closed      bool
	subscribers []subscriber
	nextSubID   int
	events      []Event

	wg sync.WaitGroup
}

// New creates a Queue processing up to concurrency tasks in parallel. A
// positive taskTimeout bounds each task's processing time; zero means no
// limit.
func New(concurrency int, taskTimeout time.Duration, process ProcessFunc) *Queue {
	if concurrency < 1 {
		concurrency = 1
	}

	q := &Queue{
		process:     process,
		timeout:     taskTimeout,
		tasks:       make(map[string]*Task),
		concurrency: concurrency,
	}
	q.cond = sync.NewCond(&q.mu)

	q.wg.Add(1)
	go q.dispatchLoop()
	return q
}

// Submit enqueues payload under id and returns a snapshot of the accepted
// task. Task ids are unique for the lifetime of the queue; resubmitting a
// known id fails even after the original task settled.
func (q *Queue) Submit(id string, payload any) (Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return Task{}, zerr.With(zerr.Wrap(domain.ErrQueueClosed, "submit rejected"), "task_id", id)
	}
	if _, exists := q.tasks[id]; exists {
		return Task{}, zerr.With(zerr.Wrap(domain.ErrTaskAlreadyQueued, "submit rejected"), "task_id", id)
	}

	t := &Task{
		ID:         id,
		Payload:    payload,
		Status:     StatusPending,
		EnqueuedAt: time.Now(),
	}
	q.tasks[id] = t
	q.order = append(q.order, id)

	q.emitLocked(Event{Type: EventTaskAdded, Task: *t, Progress: q.progressLocked()})
	q.startReadyLocked()
	return *t, nil
}

// Get returns a snapshot of the task with the given id.
func (q *Queue) Get(id string) (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	t, ok := q.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Progress returns the queue's current counters.
func (q *Queue) Progress() Progress {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.progressLocked()
}

// Subscribe registers fn for queue events and returns a cancel function.
// Events already in flight may still be delivered briefly after cancel.
func (q *Queue) Subscribe(fn func(Event)) func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.nextSubID
	q.nextSubID++
	q.subscribers = append(q.subscribers, subscriber{id: id, fn: fn})

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		for i, sub := range q.subscribers {
			if sub.id == id {
				q.subscribers = append(q.subscribers[:i], q.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Close rejects further submissions and waits for running tasks and pending
// event deliveries to finish. Pending tasks are still dispatched.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.wg.Wait()
		return
	}
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()

	q.wg.Wait()
}

// startReadyLocked dispatches pending tasks in FIFO order while worker slots
// are free. Callers hold q.mu.
func (q *Queue) startReadyLocked() {
	for len(q.order) > 0 && q.running < q.concurrency {
		id := q.order[0]
		q.order = q.order[1:]

		t := q.tasks[id]
		t.Status = StatusRunning
		t.StartedAt = time.Now()
		q.running++

		q.emitLocked(Event{Type: EventTaskStarted, Task: *t, Progress: q.progressLocked()})

		q.wg.Add(1)
		go q.run(*t)
	}
}

// run processes one task. The processing context is detached from any
// caller; only the per-task timeout cancels it.
func (q *Queue) run(t Task) {
	defer q.wg.Done()

	ctx := context.Background()
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	type outcome struct {
		result any
		err    error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		result, err := q.process(ctx, t)
		outcomeCh <- outcome{result: result, err: err}
	}()

	select {
	case out := <-outcomeCh:
		q.settle(t.ID, out.result, out.err)
	case <-ctx.Done():
		// The processor may still deliver a late outcome; it lands in the
		// buffered channel and is discarded.
		q.settle(t.ID, nil, zerr.With(zerr.Wrap(domain.ErrTaskTimedOut, "processing exceeded the task timeout"), "task_id", t.ID))
	}
}

// settle records a task's outcome, frees its worker slot and dispatches the
// next pending task. A task settles at most once.
func (q *Queue) settle(id string, result any, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	t, ok := q.tasks[id]
	if !ok || t.Status != StatusRunning {
		return
	}

	t.EndedAt = time.Now()
	t.Result = result
	t.Err = err
	if err != nil {
		t.Status = StatusFailed
		q.failed++
	} else {
		t.Status = StatusCompleted
		q.completed++
	}
	q.running--

	eventType := EventTaskCompleted
	if err != nil {
		eventType = EventTaskFailed
	}
	progress := q.progressLocked()
	q.emitLocked(Event{Type: eventType, Task: *t, Progress: progress})
	q.emitLocked(Event{Type: EventProgress, Task: *t, Progress: progress})

	q.startReadyLocked()

	if q.running == 0 && len(q.order) == 0 {
		q.emitLocked(Event{Type: EventDrained, Progress: q.progressLocked()})
	}
}

func (q *Queue) doneLocked() bool {
	return q.closed && q.running == 0 && len(q.order) == 0
}

func (q *Queue) progressLocked() Progress {
	total := len(q.tasks)
	p := Progress{
		Total:     total,
		Pending:   len(q.order),
		Running:   q.running,
		Completed: q.completed,
		Failed:    q.failed,
	}
	if total > 0 {
		p.Percent = float64(q.completed+q.failed) / float64(total) * 100
	}
	return p
}

// emitLocked appends an event to the delivery log and wakes the dispatcher.
// Callers hold q.mu, which fixes the log order to the mutation order.
func (q *Queue) emitLocked(ev Event) {
	q.events = append(q.events, ev)
	q.cond.Signal()
}

// dispatchLoop delivers logged events to subscribers in order. It exits once
// the queue is closed, all tasks have settled and the log is drained.
func (q *Queue) dispatchLoop() {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		for len(q.events) == 0 && !q.doneLocked() {
			q.cond.Wait()
		}
		if len(q.events) == 0 && q.doneLocked() {
			q.mu.Unlock()
			return
		}

		batch := q.events
		q.events = nil
		subs := make([]subscriber, len(q.subscribers))
		copy(subs, q.subscribers)
		q.mu.Unlock()

		for _, ev := range batch {
			for _, sub := range subs {
				sub.fn(ev)
			}
		}
	}
}
