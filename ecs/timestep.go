package ecs

import (
	"fmt"
	"time"
)

// DefaultFixedInterval is the simulation tick used when none is configured.
const DefaultFixedInterval = time.Second / 30

// FixedTimestep accumulates wall-clock time and releases it in whole fixed
// intervals. A long stall produces several ticks rather than one large one.
type FixedTimestep struct {
	interval    time.Duration
	accumulated time.Duration
}

// NewFixedTimestep creates an accumulator with the given interval, which must
// be positive.
func NewFixedTimestep(interval time.Duration) *FixedTimestep {
	if interval <= 0 {
		panic(fmt.Sprintf("ecs: fixed interval must be positive, got %s", interval))
	}
	return &FixedTimestep{interval: interval}
}

func (f *FixedTimestep) Interval() time.Duration {
	return f.interval
}

// Remainder returns the accumulated time not yet consumed by a tick.
func (f *FixedTimestep) Remainder() time.Duration {
	return f.accumulated
}

// Accumulate adds elapsed frame time. Negative deltas are a caller bug.
func (f *FixedTimestep) Accumulate(dt time.Duration) {
	if dt < 0 {
		panic(fmt.Sprintf("ecs: negative frame delta %s", dt))
	}
	f.accumulated += dt
}

// Step consumes one interval if at least one is accumulated.
func (f *FixedTimestep) Step() bool {
	if f.accumulated < f.interval {
		return false
	}
	f.accumulated -= f.interval
	return true
}

// Advance accumulates dt and consumes every whole interval, returning how many
// ticks are due.
func (f *FixedTimestep) Advance(dt time.Duration) int {
	f.Accumulate(dt)
	ticks := 0
	for f.Step() {
		ticks++
	}
	return ticks
}

// Alpha is the fraction of an interval left over, for interpolating between
// the last two simulation states when drawing.
func (f *FixedTimestep) Alpha() float64 {
	return float64(f.accumulated) / float64(f.interval)
}
