// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

// Scheduler is the event loop step engine. It owns all state for one
// simulation; independent instances share nothing.
//
// Instances must be initialized using the New factory.
type Scheduler struct {
	// Prevent copying
	_ [0]func()

	clock         Clock
	logger        *logiface.Logger[logiface.Event]
	idleLimiter   *catrate.Limiter
	newTicker     func(d time.Duration) ticker
	cfg           *schedulerOptions
	ids           map[string]struct{}
	seq           [3]int
	program       []Line
	store         queueStore
	runID         string
	pc            int
	steps         uint64
	tickInterval  time.Duration
	tickDecrement time.Duration
	mu            sync.Mutex
}

// New creates a Scheduler, with the program counter at the first line, and
// any configured seed tasks already queued.
func New(opts ...Option) (*Scheduler, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	x := &Scheduler{
		clock:         cfg.clock,
		logger:        cfg.logger,
		newTicker:     newTimeTicker,
		cfg:           cfg,
		tickInterval:  cfg.tickInterval,
		tickDecrement: cfg.tickDecrement,
	}
	if len(cfg.idleLogRates) != 0 {
		x.idleLimiter = catrate.NewLimiter(cfg.idleLogRates)
	}

	if err := x.init(); err != nil {
		return nil, err
	}

	return x, nil
}

// init (re)initializes all simulation state from cfg. Must be called with the
// lock held, or before the Scheduler is shared.
func (x *Scheduler) init() error {
	x.runID = uuid.NewString()
	x.ids = make(map[string]struct{})
	x.seq = [3]int{}
	x.program = x.cfg.program
	x.store = queueStore{}
	x.pc = 0
	x.steps = 0

	for _, s := range x.cfg.seeds {
		if _, err := x.enqueue(s.kind, s.spec); err != nil {
			return err
		}
	}

	x.logger.Info().
		Str(`run`, x.runID).
		Int(`lines`, len(x.program)).
		Int(`microtasks`, len(x.store.micro)).
		Int(`macrotasks`, len(x.store.macro)).
		Log(`loopsim: simulation initialized`)

	return nil
}

// Reset tears down the current simulation and starts a new one, from the
// configuration given to New. The run id changes, and task ids may be reused.
func (x *Scheduler) Reset() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.init()
}

// Step performs exactly one transition, see [Transition] for the order in
// which they are considered. Once everything has run, Step is a no-op.
//
// Step panics with an [*InvalidTransitionError] if an internal invariant is
// violated, which indicates a defect in the Scheduler itself.
func (x *Scheduler) Step() {
	x.mu.Lock()
	defer x.mu.Unlock()

	t := decide(&x.store, x.pc, len(x.program))

	var (
		task *Task
		err  error
	)
	switch t {
	case TransitionDrainStack:
		task = x.drainStack()
	case TransitionAdvanceProgram:
		task, err = x.advanceProgram()
	case TransitionDrainMicrotask:
		task, err = x.drainMicrotask()
	case TransitionDispatchMacrotask:
		task, err = x.dispatchMacrotask()
	default:
		x.logIdle()
		return
	}

	if err != nil {
		var ite *InvalidTransitionError
		if !errors.As(err, &ite) {
			ite = &InvalidTransitionError{Cause: err}
		}
		ite.Transition = t
		x.logger.Crit().
			Str(`run`, x.runID).
			Stringer(`transition`, t).
			Err(ite).
			Log(`loopsim: invariant violated`)
		panic(ite)
	}

	x.steps++

	b := x.logger.Debug().
		Str(`run`, x.runID).
		Stringer(`transition`, t).
		Int(`pc`, x.pc)
	if task != nil {
		b = b.Str(`task`, task.ID).Stringer(`kind`, task.Kind)
	}
	b.Log(`loopsim: step`)
}

// Next returns the transition the next [Scheduler.Step] would apply.
func (x *Scheduler) Next() Transition {
	x.mu.Lock()
	defer x.mu.Unlock()
	return decide(&x.store, x.pc, len(x.program))
}

// Steps returns the number of non-idle steps applied, since the last reset.
func (x *Scheduler) Steps() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.steps
}

// RunID identifies the current simulation, e.g. in logs.
func (x *Scheduler) RunID() string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.runID
}

// QueueMicrotask appends a microtask to the microtask queue.
func (x *Scheduler) QueueMicrotask(spec TaskSpec) (Task, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.enqueue(KindMicro, spec)
}

// SetTimeout appends a macrotask to the macrotask queue, which will become
// ready once spec.Delay has decayed to zero, by way of [Scheduler.Tick].
func (x *Scheduler) SetTimeout(spec TaskSpec) (Task, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.enqueue(KindMacro, spec)
}

func (x *Scheduler) enqueue(kind Kind, spec TaskSpec) (Task, error) {
	id := spec.ID
	if id == "" {
		id = x.nextID(kind)
	} else if x.isSyncID(id) {
		return Task{}, fmt.Errorf("%w: %q is reserved for program line %s", ErrDuplicateTaskID, id, strings.TrimPrefix(id, "sync-"))
	}

	t, err := x.createTask(id, spec.Label, kind, spec.Delay)
	if err != nil {
		return Task{}, err
	}
	t.Output = spec.Output
	t.Prints = spec.Output != ""

	switch kind {
	case KindMicro:
		x.store.enqueueMicro(t)
	case KindMacro:
		x.store.enqueueMacro(t)
	default:
		panic(&InvalidTransitionError{Message: "cannot queue " + kind.String() + " task " + id})
	}

	x.logger.Debug().
		Str(`run`, x.runID).
		Str(`task`, t.ID).
		Stringer(`kind`, kind).
		Dur(`delay`, t.RemainingDelay).
		Log(`loopsim: task queued`)

	return *t, nil
}

// nextID generates an unused id for the given kind, e.g. "macro-2".
func (x *Scheduler) nextID(kind Kind) string {
	prefix := kind.String() + "-"
	for {
		x.seq[kind]++
		id := prefix + strconv.Itoa(x.seq[kind])
		if _, ok := x.ids[id]; !ok {
			return id
		}
	}
}

// isSyncID reports whether id will be used by the sync task of a print line.
func (x *Scheduler) isSyncID(id string) bool {
	s, ok := strings.CutPrefix(id, "sync-")
	if !ok {
		return false
	}
	i, err := strconv.Atoi(s)
	return err == nil &&
		strconv.Itoa(i) == s &&
		i >= 0 &&
		i < len(x.program) &&
		x.program[i].Print
}

func (x *Scheduler) drainStack() *Task {
	t, _ := x.store.popStack()
	t.EndedAt = x.clock.Now()
	x.store.appendHistory(*t)
	if t.Prints {
		x.store.appendOutput(t.Output)
	}
	return t
}

func (x *Scheduler) advanceProgram() (*Task, error) {
	index := x.pc
	line := x.program[index]

	if !line.Print {
		x.pc = index + 1
		return nil, nil
	}

	t, err := x.createTask("sync-"+strconv.Itoa(index), "Print", KindSync, 0)
	if err != nil {
		return nil, err
	}
	t.Output = line.Output
	t.Prints = true

	if err := x.start(t); err != nil {
		delete(x.ids, t.ID)
		return t, err
	}
	x.pc = index + 1
	return t, nil
}

func (x *Scheduler) drainMicrotask() (*Task, error) {
	t, _ := x.store.dequeueMicro()
	return t, x.start(t)
}

func (x *Scheduler) dispatchMacrotask() (*Task, error) {
	ready, _ := x.store.findReadyMacro()
	t, ok := x.store.removeMacroByID(ready.ID)
	if !ok {
		return ready, &InvalidTransitionError{Message: "ready macrotask " + ready.ID + " vanished"}
	}
	return t, x.start(t)
}

// start stamps StartedAt and pushes t onto the call stack.
func (x *Scheduler) start(t *Task) error {
	t.StartedAt = x.clock.Now()
	return x.store.pushStack(t)
}

func (x *Scheduler) logIdle() {
	b := x.logger.Trace()
	if !b.Enabled() {
		return
	}
	if _, ok := x.idleLimiter.Allow(x.runID); !ok {
		b.Release()
		return
	}
	b.Str(`run`, x.runID).
		Int(`pc`, x.pc).
		Int(`macrotasks`, len(x.store.macro)).
		Log(`loopsim: idle`)
}
