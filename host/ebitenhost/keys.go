package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/tilecore/input"
)

var keyBindings = []struct {
	key   ebiten.Key
	input input.Key
}{
	{ebiten.KeyArrowUp, input.KeyUp},
	{ebiten.KeyW, input.KeyUp},
	{ebiten.KeyArrowDown, input.KeyDown},
	{ebiten.KeyS, input.KeyDown},
	{ebiten.KeyArrowLeft, input.KeyLeft},
	{ebiten.KeyA, input.KeyLeft},
	{ebiten.KeyArrowRight, input.KeyRight},
	{ebiten.KeyD, input.KeyRight},
	{ebiten.KeyShiftLeft, input.KeyShift},
	{ebiten.KeyShiftRight, input.KeyShift},
	{ebiten.KeyJ, input.KeyAction},
	{ebiten.KeyK, input.KeyAlt},
	{ebiten.KeySpace, input.KeySpace},
}

// translateKey maps a physical key to the abstract key systems see.
func translateKey(k ebiten.Key) (input.Key, bool) {
	for _, binding := range keyBindings {
		if binding.key == k {
			return binding.input, true
		}
	}
	return 0, false
}

// pollKeys applies this tick's key edges to the snapshot.
func pollKeys(s *input.Snapshot) {
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if key, ok := translateKey(k); ok {
			s.Press(key)
		}
	}
	for _, k := range inpututil.AppendJustReleasedKeys(nil) {
		if key, ok := translateKey(k); ok {
			s.Release(key)
		}
	}
}
