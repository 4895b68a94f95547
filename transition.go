// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"fmt"
)

// Transition is the single state change that one [Scheduler.Step] applies.
//
// Decision order (first match wins):
//
//	stack non-empty                        → TransitionDrainStack
//	program counter < len(program)         → TransitionAdvanceProgram
//	microtask queue non-empty              → TransitionDrainMicrotask
//	any macrotask with RemainingDelay <= 0 → TransitionDispatchMacrotask
//	otherwise                              → TransitionIdle
type Transition uint8

const (
	// TransitionIdle indicates there is nothing to do, until the clock feed
	// makes a macrotask ready (or forever, once everything has run).
	TransitionIdle Transition = iota
	// TransitionDrainStack completes the task on the call stack.
	TransitionDrainStack
	// TransitionAdvanceProgram executes the next program line.
	TransitionAdvanceProgram
	// TransitionDrainMicrotask moves the head of the microtask queue onto
	// the call stack.
	TransitionDrainMicrotask
	// TransitionDispatchMacrotask moves the first ready macrotask onto the
	// call stack.
	TransitionDispatchMacrotask
)

// String returns a human-readable representation of the transition.
func (t Transition) String() string {
	switch t {
	case TransitionIdle:
		return "idle"
	case TransitionDrainStack:
		return "drain-stack"
	case TransitionAdvanceProgram:
		return "advance-program"
	case TransitionDrainMicrotask:
		return "drain-microtask"
	case TransitionDispatchMacrotask:
		return "dispatch-macrotask"
	default:
		return fmt.Sprintf("Transition(%d)", uint8(t))
	}
}

// decide picks the next transition. It reads, and never mutates, state.
func decide(s *queueStore, pc, programLen int) Transition {
	if s.stack != nil {
		return TransitionDrainStack
	}
	if pc < programLen {
		return TransitionAdvanceProgram
	}
	if len(s.micro) != 0 {
		return TransitionDrainMicrotask
	}
	if _, ok := s.findReadyMacro(); ok {
		return TransitionDispatchMacrotask
	}
	return TransitionIdle
}
