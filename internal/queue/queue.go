// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package queue provides a queue interface and an in-memory
// implementation for asynchronous scheduling of episode downloads.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// A Task describes one episode download.
type Task struct {
	EpisodeID int64  // library ID of the episode
	URL       string // enclosure URL to fetch
	Filename  string // destination file name under the download directory
}

// A Queue provides an interface for asynchronous scheduling of
// download tasks.
type Queue interface {
	// Enqueue enqueues a download task.
	// It reports whether a new task was actually added to the queue:
	// a task for an episode that is already queued or downloading
	// is dropped, so fetching the same episode twice downloads once.
	Enqueue(context.Context, Task) (bool, error)

	// InFlight reports whether a task for the episode is queued or
	// currently being processed.
	InFlight(episodeID int64) bool
}

// InMemory is a Queue implementation that schedules in-process
// download operations. It does not retry tasks on failure.
type InMemory struct {
	queue chan Task
	done  chan struct{}

	mu       sync.Mutex
	inflight map[int64]bool
	errs     []error
}

// NewInMemory creates a new InMemory that asynchronously schedules
// tasks and executes processFunc on them. It uses workerCount
// parallelism to accomplish this.
func NewInMemory(ctx context.Context, workerCount int, processFunc func(context.Context, Task) error) *InMemory {
	q := &InMemory{
		queue:    make(chan Task, 1000),
		done:     make(chan struct{}),
		inflight: make(map[int64]bool),
	}
	sem := make(chan struct{}, workerCount)
	go func() {
		for v := range q.queue {
			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}

			// If a worker is available, spawn a task in a
			// goroutine and wait for it to finish.
			go func(t Task) {
				defer func() { <-sem }()

				fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
				defer cancel()

				err := processFunc(fetchCtx, t)

				q.mu.Lock()
				delete(q.inflight, t.EpisodeID)
				if err != nil {
					q.errs = append(q.errs, err)
				}
				q.mu.Unlock()
			}(v)
		}
		for i := 0; i < cap(sem); i++ {
			select {
			case <-ctx.Done():
				// If context is cancelled here, there is no way for us to
				// do cleanup. We panic here since there is no other way to
				// report an error.
				panic(fmt.Sprintf("InMemory queue context done: %v", ctx.Err()))
			case sem <- struct{}{}:
			}
		}
		close(q.done)
	}()
	return q
}

// Enqueue pushes a download task into the local queue to be processed
// asynchronously. A task for an episode that is already in flight is
// dropped and Enqueue reports false.
func (q *InMemory) Enqueue(ctx context.Context, task Task) (bool, error) {
	q.mu.Lock()
	if q.inflight[task.EpisodeID] {
		q.mu.Unlock()
		return false, nil
	}
	q.inflight[task.EpisodeID] = true
	q.mu.Unlock()

	select {
	case <-ctx.Done():
		q.mu.Lock()
		delete(q.inflight, task.EpisodeID)
		q.mu.Unlock()
		return false, ctx.Err()
	case q.queue <- task:
	}
	return true, nil
}

// InFlight reports whether the episode has a queued or running task.
func (q *InMemory) InFlight(episodeID int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inflight[episodeID]
}

// Wait waits for all queued requests to finish.
// No Enqueue may be in progress or follow.
func (q *InMemory) Wait(ctx context.Context) {
	close(q.queue)
	<-q.done
}

// Errors returns the errors reported by completed tasks.
// It should be called only after [InMemory.Wait].
func (q *InMemory) Errors() []error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.errs
}
