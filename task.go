// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"fmt"
	"time"
)

// Kind identifies which queue a [Task] is scheduled through.
type Kind uint8

const (
	// KindSync is synchronous work, pushed straight onto the call stack.
	KindSync Kind = iota
	// KindMicro is a microtask, e.g. a promise reaction.
	KindMicro
	// KindMacro is a macrotask, e.g. a timer callback.
	KindMacro
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindMicro:
		return "micro"
	case KindMacro:
		return "macro"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Task is one schedulable unit of work. Values handed out by the [Scheduler]
// are copies, and mutating them has no effect on the simulation.
//
// The zero time.Time stands in for "not yet", for each of the timestamps.
type Task struct {
	CreatedAt time.Time
	StartedAt time.Time
	EndedAt   time.Time

	ID    string
	Label string

	// Output is appended to the output log when the task completes, if
	// Prints is set. It is bound at creation, so it reflects the line that
	// scheduled the task, rather than when it happened to run.
	Output string

	// RemainingDelay is only meaningful for KindMacro. It decreases by way of
	// [Scheduler.Tick] while the task is queued, and may go negative.
	RemainingDelay time.Duration

	Kind   Kind
	Prints bool
}

// Waited returns the time between creation and start, or false if the task
// has not started.
func (t Task) Waited() (time.Duration, bool) {
	if t.CreatedAt.IsZero() || t.StartedAt.IsZero() {
		return 0, false
	}
	return t.StartedAt.Sub(t.CreatedAt), true
}

// Ran returns the time between start and end, or false if the task has not
// ended.
func (t Task) Ran() (time.Duration, bool) {
	if t.StartedAt.IsZero() || t.EndedAt.IsZero() {
		return 0, false
	}
	return t.EndedAt.Sub(t.StartedAt), true
}

// DisplayDelay returns RemainingDelay clamped at zero.
func (t Task) DisplayDelay() time.Duration {
	return max(t.RemainingDelay, 0)
}

// TaskSpec describes a microtask or macrotask to seed, see
// [Scheduler.QueueMicrotask] and [Scheduler.SetTimeout].
type TaskSpec struct {
	// ID is optional, and will be generated (e.g. "micro-1") if empty.
	ID    string
	Label string
	// Output, if non-empty, is logged when the task completes.
	Output string
	// Delay is ignored for microtasks.
	Delay time.Duration
}

// createTask is the task factory. It must be called with the lock held.
func (x *Scheduler) createTask(id, label string, kind Kind, delay time.Duration) (*Task, error) {
	if _, ok := x.ids[id]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTaskID, id)
	}
	x.ids[id] = struct{}{}
	t := &Task{
		ID:        id,
		Label:     label,
		Kind:      kind,
		CreatedAt: x.clock.Now(),
	}
	if kind == KindMacro {
		t.RemainingDelay = delay
	}
	return t, nil
}
