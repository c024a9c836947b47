// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestInMemoryQueue(t *testing.T) {
	t1 := Task{EpisodeID: 1, URL: "https://feed.example/ep1.mp3", Filename: "ep1.mp3"}
	t2 := Task{EpisodeID: 2, URL: "https://feed.example/ep2.mp3", Filename: "ep2.mp3"}
	t3 := Task{EpisodeID: 3, URL: "", Filename: "ep3.mp3"}

	process := func(_ context.Context, t Task) error {
		if t.URL == "" {
			return fmt.Errorf("no enclosure URL for episode %d", t.EpisodeID)
		}
		return nil
	}

	ctx := context.Background()
	q := NewInMemory(ctx, 2, process)
	q.Enqueue(ctx, t1)
	q.Enqueue(ctx, t2)
	q.Enqueue(ctx, t3)
	q.Wait(ctx)

	errs := q.Errors()
	if len(errs) != 1 {
		t.Fatalf("want 1 error; got %d", len(errs))
	}

	want := "no enclosure URL for episode 3"
	got := errs[0].Error()
	if want != got {
		t.Errorf("want '%s' as error message; got '%s'", want, got)
	}
}

func TestInMemoryDedupe(t *testing.T) {
	// Hold the worker so the first task stays in flight while we
	// enqueue a duplicate.
	release := make(chan struct{})
	var mu sync.Mutex
	runs := 0
	process := func(_ context.Context, _ Task) error {
		<-release
		mu.Lock()
		runs++
		mu.Unlock()
		return nil
	}

	ctx := context.Background()
	q := NewInMemory(ctx, 1, process)
	task := Task{EpisodeID: 7, URL: "https://feed.example/ep7.mp3", Filename: "ep7.mp3"}

	if added, err := q.Enqueue(ctx, task); err != nil || !added {
		t.Fatalf("first Enqueue = %v, %v, want true, nil", added, err)
	}
	if !q.InFlight(7) {
		t.Error("InFlight(7) = false after Enqueue")
	}
	if added, err := q.Enqueue(ctx, task); err != nil || added {
		t.Fatalf("duplicate Enqueue = %v, %v, want false, nil", added, err)
	}

	close(release)
	q.Wait(ctx)

	if runs != 1 {
		t.Errorf("task ran %d times, want 1", runs)
	}
	if q.InFlight(7) {
		t.Error("InFlight(7) = true after Wait")
	}
	if errs := q.Errors(); len(errs) != 0 {
		t.Errorf("Errors() = %v, want none", errs)
	}
}
