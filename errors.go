// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"errors"
)

// Standard errors.
var (
	// ErrInvalidTransition indicates an internal invariant was violated, e.g.
	// a push onto a non-empty call stack. It is a defect, never expected in
	// correct operation, and should not be caught and retried.
	ErrInvalidTransition = errors.New("loopsim: invalid transition")

	// ErrDuplicateTaskID is returned when seeding a task with an id that has
	// already been used, during the lifetime of the simulation.
	ErrDuplicateTaskID = errors.New("loopsim: duplicate task id")

	// ErrNonPositiveInterval is returned by New, if the clock feed interval
	// was configured as zero or negative.
	ErrNonPositiveInterval = errors.New("loopsim: non-positive tick interval")

	// ErrNonPositiveDecrement is returned by New, if the per-tick delay
	// decrement was configured as zero or negative.
	ErrNonPositiveDecrement = errors.New("loopsim: non-positive tick decrement")

	// ErrInvalidIdleLogRates is returned by New, if the idle log rate limits
	// would be rejected by go-catrate.
	ErrInvalidIdleLogRates = errors.New("loopsim: invalid idle log rates")
)

// InvalidTransitionError carries the detail of an [ErrInvalidTransition].
// [Scheduler.Step] panics with a value of this type, if a guard fails.
type InvalidTransitionError struct {
	Cause      error
	Message    string
	Transition Transition
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "guard violated"
	}
	return ErrInvalidTransition.Error() + ": " + e.Transition.String() + ": " + msg
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *InvalidTransitionError) Unwrap() error {
	return e.Cause
}

// Is matches [ErrInvalidTransition], regardless of the cause.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
