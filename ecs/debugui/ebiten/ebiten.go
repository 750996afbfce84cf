// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Store it as a resource so the host can drive the ImGui frame around
// Scheduler.RunFrame and draw the overlay on top of the game.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its ImGui context for a window of
// the given size. Settings persistence is disabled.
func NewImguiBackend(title string, width, height int) ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return ImguiBackend{EbitenBackend: backend}
}
