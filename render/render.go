// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package render draws a [loopsim.Snapshot] as plain text, for terminals and
// logs. It reads state, and never mutates it.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/joeycumines/go-loopsim"
	"github.com/mattn/go-runewidth"
)

// DefaultColumnWidth is the display width of each of the four queue columns.
// The last column is padded to it, but never truncated.
const DefaultColumnWidth = 24

type config struct {
	width int
}

// Option configures Text.
type Option func(c *config)

// WithColumnWidth sets the display width of each queue column, values less
// than 8 are raised to 8. Only the last column may exceed it.
func WithColumnWidth(width int) Option {
	return func(c *config) {
		c.width = max(width, 8)
	}
}

// Text writes snap to w, in three sections: the console output, the program
// with the execution pointer, and the call stack / microtask queue / callback
// queue / executed columns.
func Text(w io.Writer, snap loopsim.Snapshot, opts ...Option) error {
	c := config{width: DefaultColumnWidth}
	for _, o := range opts {
		o(&c)
	}

	b := bufio.NewWriter(w)

	b.WriteString("Console Output\n")
	if len(snap.Output) == 0 {
		b.WriteString("  (no output yet)\n")
	}
	for _, s := range snap.Output {
		fmt.Fprintf(b, "  ▶ %s\n", s)
	}

	b.WriteString("\nCode (Execution Pointer)\n")
	for i, line := range snap.Program {
		pointer := "  "
		if i == snap.ProgramCounter {
			pointer = "→ "
		}
		fmt.Fprintf(b, "%s%d. %s\n", pointer, i+1, line.Text)
	}

	b.WriteString("\nNext: ")
	b.WriteString(snap.Next.String())
	b.WriteString("\n\n")

	columns := [...][]string{
		append([]string{"Call Stack"}, labels(snap.Stack)...),
		append([]string{"Microtask Queue"}, labels(snap.Microtasks)...),
		append([]string{"Callback Queue"}, timers(snap.Macrotasks)...),
		append([]string{"Executed"}, executed(snap.History)...),
	}
	writeColumns(b, columns[:], c.width)

	return b.Flush()
}

// Delay formats the remaining delay of a macrotask, clamped at zero.
func Delay(task loopsim.Task) string {
	return fmt.Sprintf("⏱ %d ms", task.DisplayDelay().Milliseconds())
}

// Latency formats how long a completed task waited, and ran, using "-" for
// either if the relevant timestamps are unset.
func Latency(task loopsim.Task) string {
	waited, ran := "-", "-"
	if d, ok := task.Waited(); ok {
		waited = fmt.Sprintf("%d ms", d.Milliseconds())
	}
	if d, ok := task.Ran(); ok {
		ran = fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return "waited: " + waited + ", ran: " + ran
}

func labels(tasks []loopsim.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Label)
	}
	return out
}

func timers(tasks []loopsim.Task) []string {
	out := make([]string, 0, len(tasks)*2)
	for _, t := range tasks {
		out = append(out, t.Label, "  "+Delay(t))
	}
	return out
}

func executed(tasks []loopsim.Task) []string {
	out := make([]string, 0, len(tasks)*2)
	for _, t := range tasks {
		out = append(out, t.Label, "  "+Latency(t))
	}
	return out
}

func writeColumns(b *bufio.Writer, columns [][]string, width int) {
	var rows int
	for _, col := range columns {
		rows = max(rows, len(col))
	}

	cells := make([]string, len(columns))
	for row := range rows {
		for i, col := range columns {
			var s string
			if row < len(col) {
				s = col[row]
			}
			if i != len(columns)-1 {
				s = runewidth.Truncate(s, width, "…")
			}
			cells[i] = runewidth.FillRight(s, width)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, " │ "), " "))
		b.WriteByte('\n')
		if row == 0 {
			seps := make([]string, len(columns))
			for i := range seps {
				seps[i] = strings.Repeat("─", width)
			}
			b.WriteString(strings.Join(seps, "─┼─"))
			b.WriteByte('\n')
		}
	}
}
