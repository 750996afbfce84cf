package main

import (
	"image/color"
	"time"

	"github.com/plus3/tilecore/geom"
	"github.com/plus3/tilecore/input"
)

// Position is the world position of an entity's top left corner.
type Position struct {
	geom.Vec2
}

// Movement moves an entity tile by tile at Speed pixels per second.
type Movement struct {
	Speed     float32
	Direction input.Direction
	IsMoving  bool
}

// Player marks the entity driven by the keyboard and followed by the camera.
type Player struct{}

type Sprite struct {
	Color color.RGBA
}

// Resident limits an entity to a single level. Entities without it are drawn
// on every level.
type Resident struct {
	Level string
}

// Animation is the walk cycle of a moving sprite.
type Animation struct {
	Frame   int
	Elapsed time.Duration
}

// GridOverlay toggles the debug tile grid. It is a resource.
type GridOverlay struct {
	Enabled bool
}
