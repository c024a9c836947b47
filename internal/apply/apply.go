// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package apply

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	ometric "go.opentelemetry.io/otel/metric"
)

// A Library is the episode store an [Applier] operates on.
// Its methods return an error matching [ErrPrecondition] when the
// action does not apply to the episode's current state.
type Library interface {
	// SetNew marks the episode new or old.
	SetNew(id int64, isNew bool) error

	// RemoveDownload deletes the episode's downloaded media file.
	RemoveDownload(id int64) error

	// EnqueueDownload schedules a download of the episode's media.
	EnqueueDownload(ctx context.Context, id int64) error
}

// An Applier applies actions to episodes and accounts for the
// outcomes.
type Applier struct {
	slog     *slog.Logger
	lib      Library
	outcomes ometric.Int64Counter
}

// New returns an Applier over lib.
// Outcome counts are reported on meter, labeled by action and status.
func New(lg *slog.Logger, lib Library, meter ometric.Meter) *Applier {
	c, err := meter.Int64Counter("apply/outcomes",
		ometric.WithDescription("count of per-episode action outcomes"))
	if err != nil {
		lg.Error("counter creation failed", "name", "apply/outcomes")
		panic(err)
	}
	return &Applier{slog: lg, lib: lib, outcomes: c}
}

// Apply applies the action to each target episode, in order, and
// returns one outcome per target, in the same order.
//
// A failure on one episode is recorded in its outcome and does not
// stop the rest of the batch. If ctx is cancelled, the remaining
// episodes are recorded as skipped with reason "cancelled".
func (a *Applier) Apply(ctx context.Context, action Action, targets []int64) []Outcome {
	outcomes := make([]Outcome, 0, len(targets))
	for _, id := range targets {
		o := Outcome{ID: id, Action: action}
		if err := ctx.Err(); err != nil {
			o.Status = Skipped
			o.Reason = "cancelled"
			outcomes = append(outcomes, a.record(ctx, o))
			continue
		}

		err := a.apply(ctx, action, id)
		switch {
		case err == nil:
			o.Status = Applied
		case errors.Is(err, ErrPrecondition):
			o.Status = Skipped
			o.Reason = err.Error()
		default:
			o.Status = Failed
			o.Reason = err.Error()
		}
		outcomes = append(outcomes, a.record(ctx, o))
	}
	return outcomes
}

func (a *Applier) apply(ctx context.Context, action Action, id int64) error {
	switch action {
	case MarkNew:
		return a.lib.SetNew(id, true)
	case MarkOld:
		return a.lib.SetNew(id, false)
	case Remove:
		return a.lib.RemoveDownload(id)
	case Fetch:
		return a.lib.EnqueueDownload(ctx, id)
	}
	// unreachable except for a bad Action value
	panic("unknown action " + action.String())
}

func (a *Applier) record(ctx context.Context, o Outcome) Outcome {
	a.outcomes.Add(ctx, 1, ometric.WithAttributes(
		attribute.String("action", o.Action.String()),
		attribute.String("status", o.Status.String()),
	))
	switch o.Status {
	case Skipped:
		a.slog.Info("apply skipped", "action", o.Action.String(), "id", o.ID, "reason", o.Reason)
	case Failed:
		a.slog.Error("apply failed", "action", o.Action.String(), "id", o.ID, "reason", o.Reason)
	default:
		a.slog.Debug("apply applied", "action", o.Action.String(), "id", o.ID)
	}
	return o
}
