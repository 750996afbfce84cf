package ecs

import (
	"image"
	"time"

	"github.com/plus3/tilecore/input"
)

// Cadence is the group a system is registered into.
type Cadence uint8

const (
	// Fixed systems run once per whole fixed interval with that interval as delta time.
	Fixed Cadence = iota
	// Render systems run once per frame with the measured frame delta.
	Render
)

func (c Cadence) String() string {
	if c == Render {
		return "render"
	}
	return "fixed"
}

// UpdateFrame is everything a system's step receives.
type UpdateFrame struct {
	DeltaTime time.Duration
	Cadence   Cadence
	// Tick counts fixed ticks since the scheduler was created. Render systems see
	// the number of ticks completed so far.
	Tick      uint64
	Storage   *Storage
	Resources *Resources
	Commands  *Commands
	// Output is the RGBA8 frame buffer owned by the host. It may be nil when the
	// scheduler runs headless.
	Output *image.RGBA
	Input  *input.Snapshot
}

// Seconds returns DeltaTime in seconds.
func (f *UpdateFrame) Seconds() float32 {
	return float32(f.DeltaTime.Seconds())
}
