// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"slices"
)

// Snapshot is a consistent, deep copy of the state of a [Scheduler], taken
// between steps. It is what a presentation layer renders.
type Snapshot struct {
	RunID string

	// Program is the script, ProgramCounter indexes the next line to run,
	// and is equal to len(Program) once it has all run.
	Program        []Line
	ProgramCounter int

	// Stack holds zero or one task.
	Stack      []Task
	Microtasks []Task
	// Macrotasks are in insertion order, with their current delays.
	Macrotasks []Task
	// History is every completed task, in completion order.
	History []Task
	// Output is the console output, in completion order.
	Output []string

	Steps uint64
	Next  Transition
}

// Snapshot returns the current state.
func (x *Scheduler) Snapshot() Snapshot {
	x.mu.Lock()
	defer x.mu.Unlock()

	s := Snapshot{
		RunID:          x.runID,
		Program:        slices.Clone(x.program),
		ProgramCounter: x.pc,
		Microtasks:     copyTasks(x.store.micro),
		Macrotasks:     copyTasks(x.store.macro),
		History:        slices.Clone(x.store.history),
		Output:         slices.Clone(x.store.output),
		Steps:          x.steps,
		Next:           decide(&x.store, x.pc, len(x.program)),
	}
	if x.store.stack != nil {
		s.Stack = []Task{*x.store.stack}
	}

	return s
}

// ProgramCounter returns the index of the next program line.
func (x *Scheduler) ProgramCounter() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.pc
}

// Output returns a copy of the output log.
func (x *Scheduler) Output() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return slices.Clone(x.store.output)
}

// History returns a copy of all completed tasks.
func (x *Scheduler) History() []Task {
	x.mu.Lock()
	defer x.mu.Unlock()
	return slices.Clone(x.store.history)
}

func copyTasks(tasks []*Task) []Task {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = *t
	}
	return out
}
