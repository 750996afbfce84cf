package main

import (
	"testing"

	"github.com/plus3/tilecore/geom"
	"github.com/plus3/tilecore/input"
	"github.com/stretchr/testify/assert"
)

// With speed 64 and dt 1/16 every step covers exactly 4 pixels.
const (
	testSpeed = 64
	testDT    = 1.0 / 16
)

func open(geom.IVec2) bool { return false }

func TestStepIdle(t *testing.T) {
	m := Movement{Speed: testSpeed}
	pos := geom.V(16, 16)

	step(&m, &pos, input.New(), testDT, TileSize, open)

	assert.False(t, m.IsMoving)
	assert.Equal(t, geom.V(16, 16), pos)
}

func TestStepWalksAndStopsOnTile(t *testing.T) {
	m := Movement{Speed: testSpeed}
	pos := geom.V(16, 16)
	in := input.New()
	in.Press(input.KeyRight)

	step(&m, &pos, in, testDT, TileSize, open)
	assert.True(t, m.IsMoving)
	assert.Equal(t, input.Right, m.Direction)
	assert.Equal(t, geom.V(20, 16), pos)

	in.Release(input.KeyRight)
	step(&m, &pos, in, testDT, TileSize, open)
	step(&m, &pos, in, testDT, TileSize, open)
	assert.Equal(t, geom.V(28, 16), pos, "keeps walking to the next tile")
	assert.True(t, m.IsMoving)

	step(&m, &pos, in, testDT, TileSize, open)
	assert.False(t, m.IsMoving)
	assert.Equal(t, geom.V(32, 16), pos)
}

func TestStepTurnsOnlyOnGrid(t *testing.T) {
	m := Movement{Speed: testSpeed, Direction: input.Right, IsMoving: true}
	pos := geom.V(20, 16)
	in := input.New()
	in.Press(input.KeyUp)

	step(&m, &pos, in, testDT, TileSize, open)
	assert.Equal(t, input.Right, m.Direction)
	assert.Equal(t, geom.V(24, 16), pos)

	step(&m, &pos, in, testDT, TileSize, open)
	step(&m, &pos, in, testDT, TileSize, open)
	assert.Equal(t, input.Up, m.Direction)
	assert.Equal(t, geom.V(32, 12), pos)
}

func TestStepBlocked(t *testing.T) {
	wall := geom.IVec2{X: 2, Y: 1}
	blocked := func(c geom.IVec2) bool { return c == wall }

	m := Movement{Speed: testSpeed}
	pos := geom.V(16, 16)
	in := input.New()
	in.Press(input.KeyRight)

	step(&m, &pos, in, testDT, TileSize, blocked)
	assert.False(t, m.IsMoving)
	assert.Equal(t, input.Right, m.Direction, "turns to face the wall")
	assert.Equal(t, geom.V(16, 16), pos)

	// Walking left from tile 4 stops on tile 3, next to the wall.
	in.Release(input.KeyRight)
	in.Press(input.KeyLeft)
	pos = geom.V(64, 16)
	step(&m, &pos, in, testDT, TileSize, blocked)
	assert.Equal(t, geom.V(60, 16), pos)
	for range 3 {
		step(&m, &pos, in, testDT, TileSize, blocked)
	}
	assert.Equal(t, geom.V(48, 16), pos)
	assert.True(t, m.IsMoving)

	step(&m, &pos, in, testDT, TileSize, blocked)
	assert.False(t, m.IsMoving)
	assert.Equal(t, input.Left, m.Direction)
	assert.Equal(t, geom.V(48, 16), pos)
}

func TestStepRun(t *testing.T) {
	m := Movement{Speed: testSpeed}
	pos := geom.V(16, 16)
	in := input.New()
	in.Press(input.KeyShift)
	in.Press(input.KeyDown)

	step(&m, &pos, in, testDT, TileSize, open)
	assert.Equal(t, geom.V(16, 24), pos)
}

func TestAlignedTile(t *testing.T) {
	tests := []struct {
		pos  geom.Vec2
		want geom.IVec2
		ok   bool
	}{
		{geom.V(32, 48), geom.IVec2{X: 2, Y: 3}, true},
		{geom.V(35, 48), geom.IVec2{X: 2, Y: 3}, true},
		{geom.V(29, 45), geom.IVec2{X: 2, Y: 3}, true},
		{geom.V(37, 48), geom.IVec2{}, false},
		{geom.V(32, 56), geom.IVec2{}, false},
	}
	for _, tt := range tests {
		got, ok := alignedTile(tt.pos, TileSize)
		assert.Equal(t, tt.ok, ok, "pos %v", tt.pos)
		assert.Equal(t, tt.want, got, "pos %v", tt.pos)
	}
}

func TestSnapAndOnGrid(t *testing.T) {
	assert.Equal(t, geom.V(32, 16), snap(geom.V(30.5, 17), TileSize))
	assert.Equal(t, geom.V(-16, 0), snap(geom.V(-17, 7.9), TileSize))
	assert.True(t, onGrid(geom.V(-16, 32), TileSize))
	assert.False(t, onGrid(geom.V(16, 33), TileSize))
}
