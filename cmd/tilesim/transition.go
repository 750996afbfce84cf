package main

import (
	"image"
	"time"

	"github.com/plus3/tilecore/ecs"
)

const (
	// fadeSpeed is how much of the fade happens per second.
	fadeSpeed = 5.0
	// The fade advances in steps at this interval rather than every tick.
	fadeInterval = time.Second / 15
)

type TransitionPhase uint8

const (
	TransitionNone TransitionPhase = iota
	TransitionFadingOut
	TransitionFadingIn
)

func (p TransitionPhase) String() string {
	switch p {
	case TransitionFadingOut:
		return "fading out"
	case TransitionFadingIn:
		return "fading in"
	default:
		return "none"
	}
}

// ScreenTransition is the state of a level change. It is a resource. The
// screen fades to white, the level switches, and the screen fades back.
type ScreenTransition struct {
	Phase TransitionPhase
	// Alpha is how far the screen has faded, from 0 to 1.
	Alpha float32

	sinceStep time.Duration
	pending   Warp
}

func (t *ScreenTransition) Active() bool {
	return t.Phase != TransitionNone
}

func (t *ScreenTransition) begin(w Warp) {
	t.Phase = TransitionFadingOut
	t.pending = w
	t.sinceStep = 0
}

// advance moves the fade on by dt. It returns true on the step that finishes
// fading out, which is when the level should change.
func (t *ScreenTransition) advance(dt time.Duration) bool {
	if !t.Active() {
		return false
	}
	t.sinceStep += dt
	if t.sinceStep < fadeInterval {
		return false
	}
	t.sinceStep = 0

	delta := float32(fadeSpeed * fadeInterval.Seconds())
	switch t.Phase {
	case TransitionFadingOut:
		t.Alpha += delta
		if t.Alpha >= 1 {
			t.Alpha = 1
			t.Phase = TransitionFadingIn
			return true
		}
	case TransitionFadingIn:
		t.Alpha -= delta
		if t.Alpha <= 0 {
			t.Alpha = 0
			t.Phase = TransitionNone
		}
	}
	return false
}

// LevelTransitionSystem starts a transition when the player stops on a warp
// tile and moves the player once the screen has faded out.
type LevelTransitionSystem struct {
	Players ecs.Query[struct {
		*Position
		*Player
		Movement *Movement `ecs:"optional"`
	}]
	TileMap    ecs.Singleton[TileMap]
	Level      ecs.Singleton[CurrentLevel]
	Transition ecs.Singleton[ScreenTransition]
}

func (s *LevelTransitionSystem) Execute(frame *ecs.UpdateFrame) {
	transition := s.Transition.MustGetMut()
	defer transition.Release()
	t := transition.Get()

	if !t.Active() {
		if w, ok := s.detect(); ok {
			t.begin(w)
		}
		return
	}

	if t.advance(frame.DeltaTime) {
		s.arrive(t.pending)
	}
}

// detect returns the warp under the first player standing on one.
func (s *LevelTransitionSystem) detect() (Warp, bool) {
	tiles := s.TileMap.MustGet()
	defer tiles.Release()
	current := s.Level.MustGet()
	defer current.Release()

	level := tiles.Get().Level(current.Get().Name)
	for row := range s.Players.Iter() {
		tile, ok := alignedTile(row.Position.Vec2, TileSize)
		if !ok {
			continue
		}
		if w, ok := level.Warp(tile); ok {
			return w, true
		}
	}
	return Warp{}, false
}

func (s *LevelTransitionSystem) arrive(w Warp) {
	current := s.Level.MustGetMut()
	current.Get().Name = w.Level
	current.Release()

	for row := range s.Players.Iter() {
		row.Position.Vec2 = tileOrigin(w.Destination)
		if row.Movement != nil {
			row.Movement.IsMoving = false
		}
	}
}

// ScreenFadeSystem blends the finished frame towards white while a transition
// is running.
type ScreenFadeSystem struct {
	Transition ecs.Singleton[ScreenTransition]
}

func (s *ScreenFadeSystem) Execute(frame *ecs.UpdateFrame) {
	if frame.Output == nil {
		return
	}
	transition, ok := s.Transition.Get()
	if !ok {
		return
	}
	alpha := transition.Get().Alpha
	transition.Release()

	if alpha > 0 {
		fadeToWhite(frame.Output, alpha)
	}
}

// fadeToWhite interpolates every color channel towards 255. Alpha channels are
// left alone.
func fadeToWhite(img *image.RGBA, alpha float32) {
	a := uint16(min(max(alpha, 0), 1) * 255)
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		for c := i; c < i+3; c++ {
			p := uint16(pix[c])
			pix[c] = uint8(p + (255-p)*a/255)
		}
	}
}
