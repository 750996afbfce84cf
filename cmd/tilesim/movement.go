package main

import (
	"math"

	"github.com/plus3/tilecore/ecs"
	"github.com/plus3/tilecore/geom"
	"github.com/plus3/tilecore/input"
)

// runMultiplier scales Movement.Speed while shift is held.
const runMultiplier = 2

// MovementSystem walks keyboard driven entities across the grid. An entity
// turns only while it stands exactly on a tile, and once its key is let go it
// keeps walking until it reaches the next tile.
type MovementSystem struct {
	Movers ecs.Query[struct {
		*Position
		*Movement
	}]
	TileMap    ecs.Singleton[TileMap]
	Level      ecs.Singleton[CurrentLevel]
	Transition ecs.Singleton[ScreenTransition]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	if s.transitioning() {
		return
	}

	tiles := s.TileMap.MustGet()
	defer tiles.Release()
	current := s.Level.MustGet()
	defer current.Release()

	level := tiles.Get().Level(current.Get().Name)
	dt := frame.Seconds()
	for row := range s.Movers.Iter() {
		step(row.Movement, &row.Position.Vec2, frame.Input, dt, TileSize, level.Blocked)
	}
}

// transitioning reports whether a level change is fading the screen, which
// freezes movement.
func (s *MovementSystem) transitioning() bool {
	transition, ok := s.Transition.Get()
	if !ok {
		return false
	}
	defer transition.Release()
	return transition.Get().Active()
}

// step advances one mover by dt seconds.
func step(m *Movement, pos *geom.Vec2, in *input.Snapshot, dt float32, tileSize int, blocked func(geom.IVec2) bool) {
	speed := m.Speed
	if in.Shift() {
		speed *= runMultiplier
	}
	distance := speed * dt

	if m.IsMoving && releasedAlong(m.Direction, in) && crossesTile(*pos, m.Direction, distance, tileSize) {
		m.IsMoving = false
		*pos = snap(*pos, tileSize)
	}

	if dir, held := in.Direction(); held {
		if !m.IsMoving || onGrid(*pos, tileSize) {
			m.Direction = dir
		}
		m.IsMoving = true
	}

	if !m.IsMoving {
		return
	}

	// The tile checked is the one after the tile being arrived at.
	if onGrid(*pos, tileSize) || crossesTile(*pos, m.Direction, distance, tileSize) {
		arrival := snap(*pos, tileSize).Tile(tileSize)
		if blocked(arrival.Add(directionStep(m.Direction))) {
			m.IsMoving = false
			*pos = snap(*pos, tileSize)
			return
		}
	}

	*pos = pos.Add(directionVector(m.Direction).Mul(distance))
}

// releasedAlong reports whether the input no longer pushes along d.
func releasedAlong(d input.Direction, in *input.Snapshot) bool {
	if d.Axis() == input.Horizontal {
		return in.X()*d.X() <= 0
	}
	return in.Y()*d.Y() <= 0
}

// crossesTile reports whether moving distance along d leaves the current tile.
func crossesTile(pos geom.Vec2, d input.Direction, distance float32, tileSize int) bool {
	next := pos.Add(directionVector(d).Mul(distance))
	return next.Tile(tileSize) != pos.Tile(tileSize)
}

func snap(pos geom.Vec2, tileSize int) geom.Vec2 {
	ts := float64(tileSize)
	return geom.V(
		float32(math.Round(float64(pos.X)/ts)*ts),
		float32(math.Round(float64(pos.Y)/ts)*ts),
	)
}

func onGrid(pos geom.Vec2, tileSize int) bool {
	ts := float64(tileSize)
	return math.Mod(float64(pos.X), ts) == 0 && math.Mod(float64(pos.Y), ts) == 0
}

// alignedTile returns the tile pos is on when it is within a quarter tile of
// that tile's corner on both axes.
func alignedTile(pos geom.Vec2, tileSize int) (geom.IVec2, bool) {
	snapped := snap(pos, tileSize)
	tolerance := float32(tileSize) / 4
	d := pos.Sub(snapped)
	if abs(d.X) > tolerance || abs(d.Y) > tolerance {
		return geom.IVec2{}, false
	}
	return snapped.Tile(tileSize), true
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func directionVector(d input.Direction) geom.Vec2 {
	x, y := d.Vector()
	return geom.V(float32(x), float32(y))
}

func directionStep(d input.Direction) geom.IVec2 {
	x, y := d.Vector()
	return geom.IVec2{X: int64(x), Y: int64(y)}
}

// CameraFollowSystem centers the camera on the player.
type CameraFollowSystem struct {
	Players ecs.Query[struct {
		*Position
		*Player
	}]
	Camera ecs.Singleton[geom.Camera]
}

func (s *CameraFollowSystem) Execute(frame *ecs.UpdateFrame) {
	camera := s.Camera.MustGetMut()
	defer camera.Release()

	for row := range s.Players.Iter() {
		camera.Get().Position = tileCenter(row.Position.Vec2)
	}
}
