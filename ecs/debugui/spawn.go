package debugui

import (
	"github.com/plus3/tilecore/ecs"
)

// Tools bundles the debug windows and the state they share, such as the
// entity selected in the browser and shown in the inspector.
type Tools struct {
	scheduler *ecs.Scheduler

	Browser     EntityBrowserWindow
	Inspector   ComponentInspectorWindow
	Columns     ColumnViewerWindow
	Resources   ResourceViewerWindow
	Performance PerformanceStatsWindow
	Query       QueryDebuggerWindow
}

func NewTools(scheduler *ecs.Scheduler) *Tools {
	return &Tools{
		scheduler:   scheduler,
		Browser:     NewEntityBrowserWindow(100),
		Inspector:   NewComponentInspectorWindow(),
		Columns:     NewColumnViewerWindow(),
		Resources:   NewResourceViewerWindow(),
		Performance: NewPerformanceStatsWindow(120),
		Query:       NewQueryDebuggerWindow(),
	}
}

// Render draws every window. Clicking a column in the column viewer filters
// the entity browser by that component type.
func (t *Tools) Render() {
	storage := t.scheduler.Storage()
	resources := t.scheduler.Resources()

	t.Performance.Render(storage, resources, t.scheduler)

	if clicked := t.Columns.Render(storage); clicked != nil {
		t.Browser.FilterColumn(clicked)
	}

	t.Browser.Render(storage)
	selected, ok := t.Browser.Selected()
	t.Inspector.Render(storage, selected, ok)

	t.Resources.Render(resources)
	t.Query.Render(storage)
}

// SpawnDebugUI creates an entity whose ImguiItem draws all debug windows, and
// registers the ImguiSystem that runs it as a render system. The caller's host
// must begin and end an ImGui frame around Scheduler.RunFrame.
func SpawnDebugUI(scheduler *ecs.Scheduler) *Tools {
	tools := NewTools(scheduler)

	storage := scheduler.Storage()
	ecs.Attach(storage, storage.CreateEntity(), ImguiItem{Render: tools.Render})

	scheduler.RegisterRenderSystem(&ImguiSystem{})
	return tools
}
