package ecs_test

import (
	"testing"
	"time"

	"github.com/plus3/tilecore/ecs"
	"github.com/stretchr/testify/assert"
)

func TestFixedTimestepAccumulator(t *testing.T) {
	ts := ecs.NewFixedTimestep(20 * time.Millisecond)

	tests := []struct {
		frame     time.Duration
		ticks     int
		remainder time.Duration
	}{
		{45 * time.Millisecond, 2, 5 * time.Millisecond},
		{5 * time.Millisecond, 0, 10 * time.Millisecond},
		{20 * time.Millisecond, 1, 10 * time.Millisecond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ticks, ts.Advance(tt.frame), "frame %s", tt.frame)
		assert.Equal(t, tt.remainder, ts.Remainder(), "frame %s", tt.frame)
	}
}

func TestFixedTimestepExactMultiple(t *testing.T) {
	ts := ecs.NewFixedTimestep(20 * time.Millisecond)
	assert.Equal(t, 5, ts.Advance(100*time.Millisecond))
	assert.Equal(t, time.Duration(0), ts.Remainder())

	// A frame of exactly one interval always yields exactly one tick.
	ts = ecs.NewFixedTimestep(ecs.DefaultFixedInterval)
	total := 0
	for range 30 {
		total += ts.Advance(ecs.DefaultFixedInterval)
	}
	assert.Equal(t, 30, total)
}

func TestFixedTimestepStepAndAlpha(t *testing.T) {
	ts := ecs.NewFixedTimestep(10 * time.Millisecond)
	ts.Accumulate(25 * time.Millisecond)

	assert.True(t, ts.Step())
	assert.True(t, ts.Step())
	assert.False(t, ts.Step())
	assert.InDelta(t, 0.5, ts.Alpha(), 1e-9)
	assert.Equal(t, 10*time.Millisecond, ts.Interval())
}

func TestFixedTimestepInvalid(t *testing.T) {
	assert.Panics(t, func() { ecs.NewFixedTimestep(0) })
	assert.Panics(t, func() { ecs.NewFixedTimestep(-time.Second) })

	ts := ecs.NewFixedTimestep(time.Millisecond)
	assert.Panics(t, func() { ts.Accumulate(-time.Millisecond) })
}
