package main

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/plus3/tilecore/ecs"
	"github.com/plus3/tilecore/geom"
	"github.com/plus3/tilecore/input"
)

const (
	walkFrames        = 4
	walkFrameDuration = 125 * time.Millisecond
	runFrameDuration  = 75 * time.Millisecond

	// waterPeriod is how many fixed ticks each water shade is shown for.
	waterPeriod = 15
	spriteInset = 2
	notchSize   = 4
)

var gridColor = color.RGBA{0xff, 0xff, 0xff, 0xff}

// TileRenderSystem draws the tiles of the current level that the camera can
// see.
type TileRenderSystem struct {
	TileMap ecs.Singleton[TileMap]
	Level   ecs.Singleton[CurrentLevel]
	Camera  ecs.Singleton[geom.Camera]
}

func (s *TileRenderSystem) Execute(frame *ecs.UpdateFrame) {
	if frame.Output == nil {
		return
	}

	tiles := s.TileMap.MustGet()
	defer tiles.Release()
	current := s.Level.MustGet()
	defer current.Release()
	camera := s.Camera.MustGet()
	defer camera.Release()

	level := tiles.Get().Level(current.Get().Name)
	if level == nil {
		return
	}
	cam := camera.Get()

	start := cam.ScreenToWorld(geom.Vec2{}).Tile(TileSize)
	cols := int64(cam.ViewportWidth/TileSize + 2)
	rows := int64(cam.ViewportHeight/TileSize + 2)

	for y := start.Y; y < start.Y+rows; y++ {
		for x := start.X; x < start.X+cols; x++ {
			c := geom.IVec2{X: x, Y: y}
			kind, ok := level.Tile(c)
			if !ok {
				continue
			}
			world := tileOrigin(c)
			if !cam.IsVisible(world) {
				continue
			}
			fillRect(frame.Output, screenRect(cam.WorldToScreen(world), TileSize, TileSize), tileColor(kind, frame.Tick))
		}
	}
}

// tileColor returns the color of a tile. Water alternates between two shades.
func tileColor(kind TileKind, tick uint64) color.RGBA {
	c := kind.Color()
	if kind == Water && (tick/waterPeriod)%2 == 1 {
		c.R += 0x10
		c.G += 0x10
		c.B += 0x10
	}
	return c
}

// CharacterAnimationSystem steps the walk cycle of moving sprites.
type CharacterAnimationSystem struct {
	Animated ecs.Query[struct {
		*Animation
		*Movement
	}]
}

func (s *CharacterAnimationSystem) Execute(frame *ecs.UpdateFrame) {
	frameDuration := walkFrameDuration
	if frame.Input.Shift() {
		frameDuration = runFrameDuration
	}
	for row := range s.Animated.Iter() {
		row.Animation.advance(row.Movement.IsMoving, frame.DeltaTime, frameDuration)
	}
}

func (a *Animation) advance(moving bool, dt, frameDuration time.Duration) {
	if !moving {
		a.Frame = 0
		a.Elapsed = 0
		return
	}
	a.Elapsed += dt
	for a.Elapsed >= frameDuration {
		a.Frame = (a.Frame + 1) % walkFrames
		a.Elapsed -= frameDuration
	}
}

// bob is the vertical offset of the sprite for the current walk frame.
func (a *Animation) bob() int {
	if a == nil || a.Frame%2 == 0 {
		return 0
	}
	return -1
}

type spriteRow struct {
	*Position
	*Sprite
	Movement  *Movement  `ecs:"optional"`
	Animation *Animation `ecs:"optional"`
	Resident  *Resident  `ecs:"optional"`
}

// SpriteRenderSystem draws every sprite on the current level as a square with
// a notch on the side it faces.
type SpriteRenderSystem struct {
	Sprites ecs.Query[spriteRow]
	Level   ecs.Singleton[CurrentLevel]
	Camera  ecs.Singleton[geom.Camera]
}

func (s *SpriteRenderSystem) Execute(frame *ecs.UpdateFrame) {
	if frame.Output == nil {
		return
	}

	current := s.Level.MustGet()
	defer current.Release()
	camera := s.Camera.MustGet()
	defer camera.Release()
	cam := camera.Get()

	for row := range s.Sprites.Iter() {
		if row.Resident != nil && row.Resident.Level != current.Get().Name {
			continue
		}
		if !cam.IsVisible(row.Position.Vec2) {
			continue
		}

		body := screenRect(cam.WorldToScreen(row.Position.Vec2), TileSize, TileSize).
			Inset(spriteInset).
			Add(image.Pt(0, row.Animation.bob()))
		fillRect(frame.Output, body, row.Sprite.Color)

		if row.Movement != nil {
			fillRect(frame.Output, facingNotch(body, row.Movement.Direction), darken(row.Sprite.Color))
		}
	}
}

// facingNotch returns the square on the edge of body that d points at.
func facingNotch(body image.Rectangle, d input.Direction) image.Rectangle {
	mid := body.Min.Add(body.Size().Div(2))
	half := notchSize / 2
	var corner image.Point
	switch d {
	case input.Up:
		corner = image.Pt(mid.X-half, body.Min.Y)
	case input.Left:
		corner = image.Pt(body.Min.X, mid.Y-half)
	case input.Right:
		corner = image.Pt(body.Max.X-notchSize, mid.Y-half)
	default:
		corner = image.Pt(mid.X-half, body.Max.Y-notchSize)
	}
	return image.Rectangle{Min: corner, Max: corner.Add(image.Pt(notchSize, notchSize))}
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{c.R / 2, c.G / 2, c.B / 2, c.A}
}

// DebugGridSystem outlines every tile while the GridOverlay resource is
// enabled.
type DebugGridSystem struct {
	Overlay ecs.Singleton[GridOverlay]
	Camera  ecs.Singleton[geom.Camera]
}

func (s *DebugGridSystem) Execute(frame *ecs.UpdateFrame) {
	if frame.Output == nil {
		return
	}
	overlay, ok := s.Overlay.Get()
	if !ok {
		return
	}
	enabled := overlay.Get().Enabled
	overlay.Release()
	if !enabled {
		return
	}

	camera := s.Camera.MustGet()
	defer camera.Release()
	drawGrid(frame.Output, camera.Get())
}

func drawGrid(img *image.RGBA, cam *geom.Camera) {
	bounds := img.Bounds()
	start := cam.ScreenToWorld(geom.Vec2{}).Tile(TileSize)
	end := cam.ScreenToWorld(geom.V(float32(bounds.Dx()), float32(bounds.Dy()))).Tile(TileSize)

	for ty := start.Y; ty <= end.Y+1; ty++ {
		y := int(math.Floor(float64(cam.WorldToScreen(tileOrigin(geom.IVec2{Y: ty})).Y)))
		fillRect(img, image.Rect(bounds.Min.X, y, bounds.Max.X, y+1), gridColor)
	}
	for tx := start.X; tx <= end.X+1; tx++ {
		x := int(math.Floor(float64(cam.WorldToScreen(tileOrigin(geom.IVec2{X: tx})).X)))
		fillRect(img, image.Rect(x, bounds.Min.Y, x+1, bounds.Max.Y), gridColor)
	}
}

// screenRect returns the w×h rectangle whose top left corner is at the screen
// point p, rounded down to whole pixels.
func screenRect(p geom.Vec2, w, h int) image.Rectangle {
	x := int(math.Floor(float64(p.X)))
	y := int(math.Floor(float64(p.Y)))
	return image.Rect(x, y, x+w, y+h)
}

// fillRect paints r in c, clipped to img.
func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}
