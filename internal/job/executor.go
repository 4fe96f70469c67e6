// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package job runs analysis pipelines asynchronously on a bounded worker
// pool. Submission is cheap and non-blocking; a full queue is reported to
// the caller instead of spawning unbounded goroutines.
package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

// Status is the lifecycle state of a job. Transitions are monotonic:
// pending → running → completed|failed, and terminal states never change.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Snapshot is a point-in-time copy of a job's record. Result is set only on
// completed jobs; Error and Trace only on failed ones.
type Snapshot struct {
	ID        string    `json:"job_id"`
	Kind      string    `json:"kind"`
	Status    Status    `json:"status"`
	Result    any       `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	Trace     string    `json:"trace,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunFunc is the unit of work a job executes.
type RunFunc func(ctx context.Context) (any, error)

type task struct {
	id  string
	run RunFunc
}

// Executor owns the worker pool and the in-memory job table. Records are
// kept for the process lifetime; there is no eviction and no cancellation —
// a running job always runs to completion.
type Executor struct {
	queue chan task
	wg    sync.WaitGroup

	mu     sync.RWMutex
	jobs   map[string]*Snapshot
	closed bool
}

// NewExecutor starts workers goroutines consuming a queue of queueDepth
// pending jobs.
func NewExecutor(workers, queueDepth int) *Executor {
	if workers <= 0 {
		workers = 4
	}
	if queueDepth <= 0 {
		queueDepth = 64
	}

	e := &Executor{
		queue: make(chan task, queueDepth),
		jobs:  make(map[string]*Snapshot),
	}

	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go e.worker()
	}

	slog.Info("job executor started", "workers", workers, "queue_depth", queueDepth)
	return e
}

// Submit records a pending job and enqueues it, returning the new job id.
// A full queue fails fast with job.queue.full rather than blocking the
// caller; nothing is recorded in that case.
func (e *Executor) Submit(kind string, run RunFunc) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	snap := &Snapshot{
		ID:        id,
		Kind:      kind,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return "", plerr.New(plerr.CodeJobClosed, "executor is closed")
	}
	e.jobs[id] = snap
	e.mu.Unlock()

	select {
	case e.queue <- task{id: id, run: run}:
	default:
		e.mu.Lock()
		delete(e.jobs, id)
		e.mu.Unlock()
		return "", plerr.New(plerr.CodeJobQueueFull, "job queue is full", plerr.Field("kind", kind))
	}

	slog.Info("job submitted", "job_id", id, "kind", kind)
	return id, nil
}

// Status returns a copy of the job's record, or false when the id is
// unknown.
func (e *Executor) Status(id string) (Snapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap, ok := e.jobs[id]
	if !ok {
		return Snapshot{}, false
	}
	return *snap, true
}

func (e *Executor) worker() {
	defer e.wg.Done()

	for t := range e.queue {
		e.transition(t.id, StatusRunning, nil, nil)

		// Jobs run to completion on a background context; any deadline
		// belongs to the individual provider calls inside the pipeline.
		result, err := t.run(context.Background())
		if err != nil {
			slog.Warn("job failed", "job_id", t.id, "error", err)
			e.transition(t.id, StatusFailed, nil, err)
			continue
		}

		e.transition(t.id, StatusCompleted, result, nil)
		slog.Info("job completed", "job_id", t.id)
	}
}

func (e *Executor) transition(id string, status Status, result any, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, ok := e.jobs[id]
	if !ok {
		return
	}

	snap.Status = status
	snap.UpdatedAt = time.Now().UTC()
	switch status {
	case StatusCompleted:
		snap.Result = result
	case StatusFailed:
		snap.Error = err.Error()
		snap.Trace = plerr.Trace(err)
	}
}

// Close stops intake and waits for queued and running jobs to finish.
// Completed records remain queryable afterwards.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	close(e.queue)
	e.wg.Wait()
	slog.Info("job executor drained")
}
