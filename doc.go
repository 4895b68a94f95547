// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package loopsim models, one step at a time, the cooperative scheduling of a
// single-threaded runtime: a call stack, a microtask queue, and a
// timer-delayed macrotask (callback) queue.
//
// It is a teaching model, not a scheduler. Nothing runs on its own: each call
// to [Scheduler.Step] performs exactly one transition, and each call to
// [Scheduler.Tick] decays the remaining delay of queued macrotasks. The
// caller (typically a presentation layer, see the render package) reads the
// resulting state via [Scheduler.Snapshot].
//
// # Step Priority
//
// Each [Scheduler.Step] evaluates the following, in order, and applies the
// first that matches:
//  1. [TransitionDrainStack]: the call stack holds a task, which completes
//  2. [TransitionAdvanceProgram]: the program counter advances one line
//  3. [TransitionDrainMicrotask]: the head of the microtask queue is started
//  4. [TransitionDispatchMacrotask]: the first ready macrotask is started
//
// If none match, the step is [TransitionIdle], and nothing changes.
// Microtasks always win over macrotasks, and macrotasks become ready only
// once their remaining delay has reached zero.
//
// # Thread Safety
//
// [Scheduler.Step], [Scheduler.Tick], and all readers are serialized by a
// single mutex, so [Scheduler.RunClockFeed] may run on its own goroutine,
// while another goroutine steps the simulation.
//
// # Usage
//
//	sim, err := loopsim.New(loopsim.DemoOptions()...)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for range 8 {
//	    sim.Step()
//	}
//	for range 4 {
//	    sim.Tick()
//	}
//	sim.Step() // dispatches the timer callback
//	sim.Step() // completes it
//
//	fmt.Println(sim.Output()) // [A D C B]
package loopsim
