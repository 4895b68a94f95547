// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"time"
)

// Line is one line of the simulated program.
type Line struct {
	// Text is the source, for display only.
	Text string
	// Output is what a print line logs, once its sync task completes.
	Output string
	// Print marks a synchronous print statement. Other lines (e.g. those that
	// register a timer) advance the program counter, without any work.
	Print bool
}

// DemoProgram returns the four-line demonstration script.
func DemoProgram() []Line {
	return []Line{
		{Text: `console.log("A")`, Print: true, Output: "A"},
		{Text: `setTimeout(() => console.log("B"), 2000)`},
		{Text: `Promise.resolve().then(() => console.log("C"))`},
		{Text: `console.log("D")`, Print: true, Output: "D"},
	}
}

// DemoOptions returns the options for the demonstration: [DemoProgram], with
// the promise callback and timer callback it implies already queued.
//
// Stepped to completion, the output is A, D, C, B.
func DemoOptions() []Option {
	return []Option{
		WithProgram(DemoProgram()...),
		WithMicrotask(TaskSpec{ID: "micro-1", Label: "Promise Callback", Output: "C"}),
		WithMacrotask(TaskSpec{ID: "macro-1", Label: "Timer Callback", Output: "B", Delay: 2000 * time.Millisecond}),
	}
}
