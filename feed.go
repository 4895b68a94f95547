// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"context"
	"time"
)

// ticker abstracts time.Ticker, so tests can drive the clock feed.
type ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (x timeTicker) C() <-chan time.Time { return x.t.C }

func (x timeTicker) Stop() { x.t.Stop() }

func newTimeTicker(d time.Duration) ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Tick is the clock feed: it reduces the remaining delay of every queued
// macrotask by the configured decrement (see [WithTickDecrement]). It never
// dispatches, removes, or reorders tasks, and never triggers a step.
//
// Tasks already on the call stack, or in history, are not affected.
func (x *Scheduler) Tick() {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.store.decay(x.tickDecrement)

	x.logger.Trace().
		Str(`run`, x.runID).
		Dur(`decrement`, x.tickDecrement).
		Int(`macrotasks`, len(x.store.macro)).
		Log(`loopsim: tick`)
}

// RunClockFeed calls [Scheduler.Tick] at the configured wall-clock interval
// (see [WithTickInterval]), until ctx is done, returning ctx.Err().
//
// It is safe to run concurrently with [Scheduler.Step]. Running more than one
// clock feed against the same Scheduler will decay delays proportionally
// faster.
func (x *Scheduler) RunClockFeed(ctx context.Context) error {
	t := x.newTicker(x.tickInterval)
	defer t.Stop()

	x.logger.Debug().
		Str(`run`, x.RunID()).
		Dur(`interval`, x.tickInterval).
		Log(`loopsim: clock feed started`)

	for {
		select {
		case <-ctx.Done():
			x.logger.Debug().
				Str(`run`, x.RunID()).
				Err(ctx.Err()).
				Log(`loopsim: clock feed stopped`)
			return ctx.Err()
		case <-t.C():
			x.Tick()
		}
	}
}
