// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package apply executes bulk actions over a query's result set,
// producing one outcome per episode.
package apply

import (
	"errors"
	"fmt"
)

// An Action is a named bulk operation on episodes.
type Action int

const (
	MarkNew Action = iota // mark episodes new (unplayed)
	MarkOld               // mark episodes old (played)
	Remove                // delete downloaded media files
	Fetch                 // schedule media downloads
)

var actionStrings = map[Action]string{
	MarkNew: "mark new",
	MarkOld: "mark old",
	Remove:  "rm",
	Fetch:   "fetch",
}

func (a Action) String() string {
	if s, ok := actionStrings[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction converts an action name and optional argument, as given
// on the command line, into an Action. The mark action takes an
// argument of "new" or "old"; rm and fetch take none.
func ParseAction(name, arg string) (Action, error) {
	switch name {
	case "mark":
		switch arg {
		case "new":
			return MarkNew, nil
		case "old":
			return MarkOld, nil
		}
		return 0, fmt.Errorf("mark takes an argument of new or old, not %q", arg)
	case "rm", "fetch":
		if arg != "" {
			return 0, fmt.Errorf("%s takes no argument", name)
		}
		if name == "rm" {
			return Remove, nil
		}
		return Fetch, nil
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// A Status classifies the result of applying an action to one episode.
type Status int

const (
	Applied Status = iota // the action changed or confirmed the episode's state
	Skipped               // a precondition did not hold; the episode was left alone
	Failed                // the action was attempted and failed
)

var statusStrings = map[Status]string{
	Applied: "applied",
	Skipped: "skipped",
	Failed:  "failed",
}

func (s Status) String() string {
	if t, ok := statusStrings[s]; ok {
		return t
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// An Outcome reports what applying an action did to one episode.
type Outcome struct {
	ID     int64  // episode ID
	Action Action // the action that was applied
	Status Status
	Reason string // why the action was skipped or failed; empty when applied
}

// ErrPrecondition is the base error for skipped episodes: the action's
// precondition did not hold, so the episode was deliberately left
// alone. Match with errors.Is.
var ErrPrecondition = errors.New("precondition not met")

// Skip returns an error reporting that an action's precondition did
// not hold, with the given reason. The error matches
// [ErrPrecondition] under errors.Is, and the applier records it as a
// skipped outcome rather than a failure.
func Skip(reason string) error {
	return &skipError{reason}
}

type skipError struct {
	reason string
}

func (e *skipError) Error() string { return e.reason }

func (e *skipError) Is(target error) bool { return target == ErrPrecondition }
