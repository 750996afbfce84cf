// Package input holds the abstract keyboard state handed to systems each frame.
// Hosts translate their own key events into Press and Release calls.
package input

import "slices"

// Key is an abstract key the simulation cares about.
type Key uint8

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyShift
	KeyAction
	KeyAlt
	KeySpace
)

// Direction is one of the four grid directions.
type Direction uint8

const (
	Down Direction = iota
	Up
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "down"
	}
}

// Axis is the axis a direction moves along.
type Axis uint8

const (
	Vertical Axis = iota
	Horizontal
)

func (d Direction) Axis() Axis {
	if d == Left || d == Right {
		return Horizontal
	}
	return Vertical
}

func (d Direction) X() int {
	switch d {
	case Left:
		return -1
	case Right:
		return 1
	default:
		return 0
	}
}

func (d Direction) Y() int {
	switch d {
	case Up:
		return -1
	case Down:
		return 1
	default:
		return 0
	}
}

// Vector returns the unit step of the direction in screen coordinates (y down).
func (d Direction) Vector() (int, int) {
	return d.X(), d.Y()
}

// DirectionFromVector maps a unit step back to a direction.
func DirectionFromVector(x, y int) (Direction, bool) {
	switch {
	case x == 0 && y == 1:
		return Down, true
	case x == 0 && y == -1:
		return Up, true
	case x == 1 && y == 0:
		return Right, true
	case x == -1 && y == 0:
		return Left, true
	default:
		return Down, false
	}
}

func keyDirection(k Key) (Direction, bool) {
	switch k {
	case KeyUp:
		return Up, true
	case KeyDown:
		return Down, true
	case KeyLeft:
		return Left, true
	case KeyRight:
		return Right, true
	default:
		return Down, false
	}
}

// Snapshot is the input state for one frame. Held directions form a stack and
// the most recently pressed one wins.
type Snapshot struct {
	directions []Direction
	shift      bool
	action     bool
	alt        bool
	space      bool
}

// New returns an empty snapshot.
func New() *Snapshot {
	return &Snapshot{}
}

// Press records a key going down.
func (s *Snapshot) Press(k Key) {
	s.set(k, true)
}

// Release records a key going up.
func (s *Snapshot) Release(k Key) {
	s.set(k, false)
}

func (s *Snapshot) set(k Key, pressed bool) {
	if d, ok := keyDirection(k); ok {
		s.directions = slices.DeleteFunc(s.directions, func(held Direction) bool { return held == d })
		if pressed {
			s.directions = append(s.directions, d)
		}
		return
	}

	switch k {
	case KeyShift:
		s.shift = pressed
	case KeyAction:
		s.action = pressed
	case KeyAlt:
		s.alt = pressed
	case KeySpace:
		s.space = pressed
	}
}

// Direction returns the most recently pressed direction still held.
func (s *Snapshot) Direction() (Direction, bool) {
	if len(s.directions) == 0 {
		return Down, false
	}
	return s.directions[len(s.directions)-1], true
}

// None reports whether no direction is held.
func (s *Snapshot) None() bool {
	return len(s.directions) == 0
}

func (s *Snapshot) X() int {
	if d, ok := s.Direction(); ok {
		return d.X()
	}
	return 0
}

func (s *Snapshot) Y() int {
	if d, ok := s.Direction(); ok {
		return d.Y()
	}
	return 0
}

func (s *Snapshot) Vector() (int, int) {
	return s.X(), s.Y()
}

func (s *Snapshot) Shift() bool  { return s.shift }
func (s *Snapshot) Action() bool { return s.action }
func (s *Snapshot) Alt() bool    { return s.alt }
func (s *Snapshot) Space() bool  { return s.space }

// Clear forgets held directions and the shift modifier, e.g. when the window
// loses focus.
func (s *Snapshot) Clear() {
	s.directions = s.directions[:0]
	s.shift = false
}
