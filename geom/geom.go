// Package geom has the small vector and camera types shared by systems.
package geom

import "math"

// Vec2 is a point or offset in world pixels.
type Vec2 struct {
	X, Y float32
}

func V(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Mul(scalar float32) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

func (v Vec2) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Normalize returns the unit vector in the same direction. The zero vector is
// returned unchanged.
func (v Vec2) Normalize() Vec2 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

// Tile returns the coordinate of the tile containing v.
func (v Vec2) Tile(tileSize int) IVec2 {
	return IVec2{
		X: int64(math.Floor(float64(v.X) / float64(tileSize))),
		Y: int64(math.Floor(float64(v.Y) / float64(tileSize))),
	}
}

// IVec2 is an integer grid coordinate.
type IVec2 struct {
	X, Y int64
}

func (v IVec2) Add(o IVec2) IVec2 {
	return IVec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v IVec2) Sub(o IVec2) IVec2 {
	return IVec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v IVec2) Mul(scalar int64) IVec2 {
	return IVec2{X: v.X * scalar, Y: v.Y * scalar}
}

// Camera maps between world and screen coordinates. Position is the world
// point shown at the center of the viewport.
type Camera struct {
	Position       Vec2
	ViewportWidth  int
	ViewportHeight int
	// Margin widens the visible area so partially visible tiles are still drawn.
	Margin float32
}

func NewCamera(viewportWidth, viewportHeight int, margin float32) Camera {
	return Camera{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		Margin:         margin,
	}
}

func (c *Camera) center() Vec2 {
	return Vec2{X: float32(c.ViewportWidth) / 2, Y: float32(c.ViewportHeight) / 2}
}

func (c *Camera) WorldToScreen(world Vec2) Vec2 {
	return world.Sub(c.Position).Add(c.center())
}

func (c *Camera) ScreenToWorld(screen Vec2) Vec2 {
	return c.Position.Add(screen.Sub(c.center()))
}

// IsVisible reports whether a world point lands inside the viewport plus margin.
func (c *Camera) IsVisible(world Vec2) bool {
	s := c.WorldToScreen(world)
	return s.X >= -c.Margin && s.X <= float32(c.ViewportWidth)+c.Margin &&
		s.Y >= -c.Margin && s.Y <= float32(c.ViewportHeight)+c.Margin
}
