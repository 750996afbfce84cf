package debugui

import (
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tilecore/ecs"
)

func NewResourceViewerWindow() ResourceViewerWindow {
	return ResourceViewerWindow{cache: globalReflectionCache}
}

// Render shows every present resource with the same editors as the component
// inspector. Each resource is held exclusively while it is drawn.
func (rv *ResourceViewerWindow) Render(resources *ecs.Resources) {
	if !imgui.BeginV("Resources", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if resources.Len() == 0 {
		imgui.Text("No resources")
	}

	resources.InspectResources(func(t reflect.Type, resource any) {
		if imgui.TreeNodeStr(t.String()) {
			renderValue(rv.cache, t.String(), reflect.ValueOf(resource).Elem())
			imgui.TreePop()
		}
	})

	imgui.End()
}
