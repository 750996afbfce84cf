// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tilecore/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a resource.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem is a render system that queries all ImguiItem components and
// defers their render functions. Deferred functions run when the scheduler
// flushes commands after this system returns, so a render function is free to
// borrow any column or resource, including the ImguiItem column.
// It also updates the ImguiInputState resource, adding it on first run.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	io := imgui.CurrentIO()
	current := ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
	if state, ok := i.InputState.GetMut(); ok {
		state.Set(current)
		state.Release()
	} else {
		ecs.AddResource(frame.Resources, current)
	}

	for item := range i.Items.Iter() {
		if item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
}
