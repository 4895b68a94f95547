// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/joeycumines/logiface"
)

const (
	// DefaultTickInterval is the wall-clock period of [Scheduler.RunClockFeed].
	DefaultTickInterval = 500 * time.Millisecond
	// DefaultTickDecrement is how much each [Scheduler.Tick] reduces the
	// remaining delay of every queued macrotask.
	DefaultTickDecrement = 500 * time.Millisecond
)

// schedulerOptions holds configuration options for Scheduler creation.
type schedulerOptions struct {
	clock         Clock
	logger        *logiface.Logger[logiface.Event]
	idleLogRates  map[time.Duration]int
	program       []Line
	seeds         []seed
	tickInterval  time.Duration
	tickDecrement time.Duration
}

type seed struct {
	spec TaskSpec
	kind Kind
}

// Option configures a Scheduler instance.
type Option interface {
	applyScheduler(*schedulerOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applySchedulerFunc func(*schedulerOptions) error
}

func (o *optionImpl) applyScheduler(opts *schedulerOptions) error {
	return o.applySchedulerFunc(opts)
}

// WithClock sets the timestamp source. Defaults to [SystemClock].
func WithClock(clock Clock) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.clock = clock
		return nil
	}}
}

// WithProgram sets the simulated program. This replaces any previous
// WithProgram, the lines are copied.
func WithProgram(lines ...Line) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.program = slices.Clone(lines)
		return nil
	}}
}

// WithMicrotask queues a microtask, on creation and on every
// [Scheduler.Reset]. May be repeated; tasks are queued in option order.
func WithMicrotask(spec TaskSpec) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.seeds = append(opts.seeds, seed{spec: spec, kind: KindMicro})
		return nil
	}}
}

// WithMacrotask queues a macrotask, on creation and on every
// [Scheduler.Reset]. May be repeated; tasks are queued in option order.
func WithMacrotask(spec TaskSpec) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.seeds = append(opts.seeds, seed{spec: spec, kind: KindMacro})
		return nil
	}}
}

// WithTickInterval sets the wall-clock period used by
// [Scheduler.RunClockFeed]. Must be positive.
func WithTickInterval(d time.Duration) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		if d <= 0 {
			return ErrNonPositiveInterval
		}
		opts.tickInterval = d
		return nil
	}}
}

// WithTickDecrement sets how much each [Scheduler.Tick] reduces delays by.
// Must be positive.
func WithTickDecrement(d time.Duration) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		if d <= 0 {
			return ErrNonPositiveDecrement
		}
		opts.tickDecrement = d
		return nil
	}}
}

// WithLogger sets the structured logger. Logging is disabled if nil (the
// default).
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithIdleLogRates sets the rate limits (window to count, per go-catrate)
// applied to logging of idle steps. An empty map disables the limit.
// Defaults to 1 per second, and 10 per minute.
//
// Windows and counts must be positive, with counts increasing, and the
// effective rate decreasing, as the window grows.
func WithIdleLogRates(rates map[time.Duration]int) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		if err := validateRates(rates); err != nil {
			return err
		}
		opts.idleLogRates = maps.Clone(rates)
		return nil
	}}
}

// validateRates accepts what catrate.NewLimiter accepts, plus the empty map.
func validateRates(rates map[time.Duration]int) error {
	windows := slices.Sorted(maps.Keys(rates))
	for i, window := range windows {
		count := rates[window]
		if window <= 0 || count <= 0 {
			return fmt.Errorf("%w: %v: %d per %v", ErrInvalidIdleLogRates, rates, count, window)
		}
		if i == 0 {
			continue
		}
		prev := windows[i-1]
		if count <= rates[prev] ||
			float64(count)/float64(window) >= float64(rates[prev])/float64(prev) {
			return fmt.Errorf("%w: %v: %d per %v is irrelevant given %d per %v", ErrInvalidIdleLogRates, rates, count, window, rates[prev], prev)
		}
	}
	return nil
}

// resolveOptions applies Option instances to schedulerOptions.
func resolveOptions(opts []Option) (*schedulerOptions, error) {
	cfg := &schedulerOptions{
		clock:         SystemClock{},
		tickInterval:  DefaultTickInterval,
		tickDecrement: DefaultTickDecrement,
		idleLogRates: map[time.Duration]int{
			time.Second: 1,
			time.Minute: 10,
		},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyScheduler(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.clock == nil {
		cfg.clock = SystemClock{}
	}
	return cfg, nil
}
