// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package apply

import (
	"context"
	"errors"
	"slices"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/podsift/podsift/internal/testutil"
)

// fakeLibrary records mutations and serves canned errors.
type fakeLibrary struct {
	isNew   map[int64]bool
	errs    map[int64]error // returned by every mutator for that ID
	applied []int64         // IDs that reached a mutator, in call order
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{isNew: make(map[int64]bool), errs: make(map[int64]error)}
}

func (f *fakeLibrary) call(id int64) error {
	f.applied = append(f.applied, id)
	return f.errs[id]
}

func (f *fakeLibrary) SetNew(id int64, isNew bool) error {
	if err := f.call(id); err != nil {
		return err
	}
	if f.isNew[id] == isNew {
		return Skip("already marked")
	}
	f.isNew[id] = isNew
	return nil
}

func (f *fakeLibrary) RemoveDownload(id int64) error { return f.call(id) }

func (f *fakeLibrary) EnqueueDownload(_ context.Context, id int64) error { return f.call(id) }

func newTestApplier(t *testing.T, lib Library) *Applier {
	return New(testutil.Slogger(t), lib, noop.Meter{})
}

func TestApplyMarkOld(t *testing.T) {
	lib := newFakeLibrary()
	for _, id := range []int64{1, 2, 3} {
		lib.isNew[id] = true
	}
	a := newTestApplier(t, lib)

	outcomes := a.Apply(context.Background(), MarkOld, []int64{1, 2, 3})
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Status != Applied {
			t.Errorf("outcome %d = %v %q, want applied", i, o.Status, o.Reason)
		}
		if lib.isNew[o.ID] {
			t.Errorf("episode %d still new after mark old", o.ID)
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	lib := newFakeLibrary()
	lib.isNew[1] = true
	a := newTestApplier(t, lib)
	ctx := context.Background()

	first := a.Apply(ctx, MarkOld, []int64{1})
	second := a.Apply(ctx, MarkOld, []int64{1})
	for _, o := range append(first, second...) {
		if o.Status == Failed {
			t.Errorf("mark old outcome = failed %q, want applied or skipped", o.Reason)
		}
	}
	if lib.isNew[1] {
		t.Error("episode 1 new after double mark old")
	}
}

func TestApplySkipAndFail(t *testing.T) {
	lib := newFakeLibrary()
	lib.errs[2] = Skip("file already removed")
	lib.errs[3] = errors.New("disk on fire")
	a := newTestApplier(t, lib)

	outcomes := a.Apply(context.Background(), Remove, []int64{1, 2, 3, 4})

	// One outcome per target, in input order, despite the skip and
	// the failure in the middle.
	var ids []int64
	for _, o := range outcomes {
		ids = append(ids, o.ID)
	}
	if want := []int64{1, 2, 3, 4}; !slices.Equal(ids, want) {
		t.Fatalf("outcome IDs = %v, want %v", ids, want)
	}

	want := []struct {
		status Status
		reason string
	}{
		{Applied, ""},
		{Skipped, "file already removed"},
		{Failed, "disk on fire"},
		{Applied, ""},
	}
	for i, o := range outcomes {
		if o.Status != want[i].status || o.Reason != want[i].reason {
			t.Errorf("outcome %d = %v %q, want %v %q", i, o.Status, o.Reason, want[i].status, want[i].reason)
		}
	}
}

func TestApplyCancelled(t *testing.T) {
	lib := newFakeLibrary()
	a := newTestApplier(t, lib)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := a.Apply(ctx, MarkNew, []int64{1, 2})
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Status != Skipped || o.Reason != "cancelled" {
			t.Errorf("outcome %d = %v %q, want skipped cancelled", i, o.Status, o.Reason)
		}
	}
	if len(lib.applied) != 0 {
		t.Errorf("mutators called for %v after cancel", lib.applied)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name, arg string
		want      Action
		wantErr   bool
	}{
		{"mark", "new", MarkNew, false},
		{"mark", "old", MarkOld, false},
		{"mark", "read", 0, true},
		{"mark", "", 0, true},
		{"rm", "", Remove, false},
		{"rm", "now", 0, true},
		{"fetch", "", Fetch, false},
		{"play", "", 0, true},
	}
	for _, test := range tests {
		got, err := ParseAction(test.name, test.arg)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseAction(%q, %q) succeeded, want error", test.name, test.arg)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAction(%q, %q): %v", test.name, test.arg, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseAction(%q, %q) = %v, want %v", test.name, test.arg, got, test.want)
		}
	}
}

func TestSkipMatchesPrecondition(t *testing.T) {
	err := Skip("archived")
	if !errors.Is(err, ErrPrecondition) {
		t.Error("Skip error does not match ErrPrecondition")
	}
	if err.Error() != "archived" {
		t.Errorf("Skip error = %q, want %q", err.Error(), "archived")
	}
}
