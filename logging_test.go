// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(buf), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(level),
	).Logger()
}

func countLines(s, substr string) (n int) {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return
}

func TestScheduler_logging(t *testing.T) {
	var buf bytes.Buffer
	x, _ := newTestScheduler(t, append(DemoOptions(), WithLogger(newTestLogger(&buf, logiface.LevelDebug)))...)

	out := buf.String()
	assert.Contains(t, out, `"msg":"loopsim: simulation initialized"`)
	assert.Contains(t, out, `"run":"`+x.RunID()+`"`)
	assert.Equal(t, 2, countLines(out, `"msg":"loopsim: task queued"`))

	buf.Reset()
	x.Step()
	out = buf.String()
	assert.Equal(t, 1, countLines(out, `"msg":"loopsim: step"`))
	assert.Contains(t, out, `"transition":"advance-program"`)
	assert.Contains(t, out, `"task":"sync-0"`)
	assert.Contains(t, out, `"kind":"sync"`)

	// trace is disabled
	buf.Reset()
	x.Tick()
	assert.Empty(t, buf.String())
}

func TestScheduler_logging_idleRateLimited(t *testing.T) {
	var buf bytes.Buffer
	x, _ := newTestScheduler(t,
		WithLogger(newTestLogger(&buf, logiface.LevelTrace)),
		WithIdleLogRates(map[time.Duration]int{time.Hour: 2}),
	)
	buf.Reset()

	for range 5 {
		x.Step()
	}
	assert.Equal(t, 2, countLines(buf.String(), `"msg":"loopsim: idle"`))
}

func TestScheduler_logging_idleUnlimited(t *testing.T) {
	var buf bytes.Buffer
	x, _ := newTestScheduler(t,
		WithLogger(newTestLogger(&buf, logiface.LevelTrace)),
		WithIdleLogRates(map[time.Duration]int{}),
	)
	buf.Reset()

	for range 5 {
		x.Step()
	}
	x.Tick()
	out := buf.String()
	assert.Equal(t, 5, countLines(out, `"msg":"loopsim: idle"`))
	assert.Equal(t, 1, countLines(out, `"msg":"loopsim: tick"`))
}

func TestScheduler_logging_invariantViolation(t *testing.T) {
	var buf bytes.Buffer
	x, _ := newTestScheduler(t,
		WithProgram(Line{Print: true}),
		WithLogger(newTestLogger(&buf, logiface.LevelError)),
	)
	x.ids["sync-0"] = struct{}{}

	require.Panics(t, x.Step)
	out := buf.String()
	assert.Contains(t, out, `"lvl":"crit"`)
	assert.Contains(t, out, `"msg":"loopsim: invariant violated"`)
	assert.Contains(t, out, `"transition":"advance-program"`)
}
