// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTask_latency(t *testing.T) {
	var task Task
	_, ok := task.Waited()
	assert.False(t, ok)
	_, ok = task.Ran()
	assert.False(t, ok)

	task.CreatedAt = testEpoch
	task.StartedAt = testEpoch.Add(30 * time.Millisecond)
	d, ok := task.Waited()
	assert.True(t, ok)
	assert.Equal(t, 30*time.Millisecond, d)
	_, ok = task.Ran()
	assert.False(t, ok)

	task.EndedAt = task.StartedAt.Add(5 * time.Millisecond)
	d, ok = task.Ran()
	assert.True(t, ok)
	assert.Equal(t, 5*time.Millisecond, d)
}

func TestTask_DisplayDelay(t *testing.T) {
	assert.Equal(t, 5*time.Millisecond, Task{RemainingDelay: 5 * time.Millisecond}.DisplayDelay())
	assert.Equal(t, time.Duration(0), Task{RemainingDelay: -5 * time.Millisecond}.DisplayDelay())
}

func TestScheduler_createTask(t *testing.T) {
	x, clock := newTestScheduler(t)
	clock.Advance(time.Second)

	task, err := x.createTask("id", "label", KindMicro, time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, &Task{
		ID:        "id",
		Label:     "label",
		Kind:      KindMicro,
		CreatedAt: testEpoch.Add(time.Second),
	}, task, "delay only applies to macrotasks")

	task, err = x.createTask("id2", "", KindMacro, time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, time.Minute, task.RemainingDelay)

	_, err = x.createTask("id", "", KindSync, 0)
	assert.ErrorIs(t, err, ErrDuplicateTaskID)
}

func TestManualClock(t *testing.T) {
	var c ManualClock
	assert.True(t, c.Now().IsZero())
	c.Set(testEpoch)
	assert.Equal(t, testEpoch, c.Now())
	assert.Equal(t, testEpoch.Add(time.Hour), c.Advance(time.Hour))
	assert.Equal(t, testEpoch.Add(time.Hour), c.Now())
}
