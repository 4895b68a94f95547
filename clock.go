// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"sync"
	"time"
)

// Clock is the source of task timestamps. It only needs to be monotonic.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default [Clock], backed by time.Now.
type SystemClock struct{}

// Now implements [Clock].
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a [Clock] that only moves when told to. The zero value
// reports the zero time.Time, which reads as "unset", so callers will
// typically Set it first. Safe for concurrent use.
type ManualClock struct {
	now time.Time
	mu  sync.Mutex
}

// NewManualClock returns a ManualClock starting at now.
func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

// Now implements [Clock].
func (x *ManualClock) Now() time.Time {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.now
}

// Set moves the clock to now.
func (x *ManualClock) Set(now time.Time) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.now = now
}

// Advance moves the clock forward by d, returning the new time.
func (x *ManualClock) Advance(d time.Duration) time.Time {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.now = x.now.Add(d)
	return x.now
}
