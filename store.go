// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"slices"
	"time"
)

// queueStore holds the call stack, both queues, and the append-only logs, for
// a single simulation. It performs no locking, and no logging.
type queueStore struct {
	// stack holds at most one task, nested synchronous calls aren't modelled
	stack   *Task
	micro   []*Task
	macro   []*Task
	history []Task
	output  []string
}

func (x *queueStore) pushStack(t *Task) error {
	if x.stack != nil {
		return &InvalidTransitionError{
			Message: "push onto non-empty call stack (holding " + x.stack.ID + ", pushing " + t.ID + ")",
		}
	}
	x.stack = t
	return nil
}

func (x *queueStore) popStack() (*Task, bool) {
	t := x.stack
	x.stack = nil
	return t, t != nil
}

func (x *queueStore) enqueueMicro(t *Task) {
	x.micro = append(x.micro, t)
}

func (x *queueStore) dequeueMicro() (*Task, bool) {
	if len(x.micro) == 0 {
		return nil, false
	}
	t := x.micro[0]
	x.micro[0] = nil
	x.micro = x.micro[1:]
	return t, true
}

func (x *queueStore) enqueueMacro(t *Task) {
	x.macro = append(x.macro, t)
}

// removeMacroByID removes the macrotask with the given id, returning false
// (and changing nothing) if there is no such task.
func (x *queueStore) removeMacroByID(id string) (*Task, bool) {
	i := slices.IndexFunc(x.macro, func(t *Task) bool { return t.ID == id })
	if i < 0 {
		return nil, false
	}
	t := x.macro[i]
	x.macro = slices.Delete(x.macro, i, i+1)
	return t, true
}

// findReadyMacro returns the first macrotask, in insertion order, with no
// remaining delay. Ties never reorder, this isn't a priority queue.
func (x *queueStore) findReadyMacro() (*Task, bool) {
	for _, t := range x.macro {
		if t.RemainingDelay <= 0 {
			return t, true
		}
	}
	return nil, false
}

// decay reduces the remaining delay of every queued macrotask by d.
func (x *queueStore) decay(d time.Duration) {
	for _, t := range x.macro {
		t.RemainingDelay -= d
	}
}

func (x *queueStore) appendHistory(t Task) {
	x.history = append(x.history, t)
}

func (x *queueStore) appendOutput(s string) {
	x.output = append(x.output, s)
}
