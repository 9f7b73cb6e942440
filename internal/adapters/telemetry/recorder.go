// Package telemetry mirrors scan queue activity onto a progrock tape.
package telemetry

import (
	"fmt"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"

	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/scout/internal/engine/queue"
)

// Recorder translates queue lifecycle events into progrock vertices, one
// vertex per task. Wire it up with queue.Subscribe(recorder.Observe).
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu       sync.Mutex
	vertices map[string]*progrock.VertexRecorder
}

// New creates a Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:        w,
		rec:      progrock.NewRecorder(w),
		vertices: make(map[string]*progrock.VertexRecorder),
	}
}

// Observe handles one queue event. Started tasks open a vertex; settled
// tasks close it, carrying the task error for failures.
func (r *Recorder) Observe(ev queue.Event) {
	switch ev.Type {
	case queue.EventTaskStarted:
		v := r.rec.Vertex(digest.FromString(ev.Task.ID), ev.Task.ID)
		r.mu.Lock()
		r.vertices[ev.Task.ID] = v
		r.mu.Unlock()

	case queue.EventTaskCompleted:
		if v := r.take(ev.Task.ID); v != nil {
			if report, ok := ev.Task.Result.(*domain.ScanReport); ok {
				_, _ = fmt.Fprintf(v.Stdout(), "%d files, %d bytes\n", report.Files, report.Bytes)
			}
			v.Done(nil)
		}

	case queue.EventTaskFailed:
		if v := r.take(ev.Task.ID); v != nil {
			v.Done(ev.Task.Err)
		}
	}
}

func (r *Recorder) take(id string) *progrock.VertexRecorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.vertices[id]
	delete(r.vertices, id)
	return v
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
