package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tilecore/ecs"
)

func NewComponentInspectorWindow() ComponentInspectorWindow {
	return ComponentInspectorWindow{cache: globalReflectionCache}
}

// Render shows every component of the selected entity. Scalar fields are
// editable; edits are written straight into the column while it is held.
func (ci *ComponentInspectorWindow) Render(storage *ecs.Storage, selected ecs.Entity, hasSelection bool) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !hasSelection {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}
	if selected.Index() >= storage.EntityCount() {
		imgui.Text(fmt.Sprintf("Entity %d not found", selected))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %d", selected))
	imgui.Separator()

	storage.InspectEntity(selected, func(t reflect.Type, component any) {
		if imgui.TreeNodeStr(t.String()) {
			renderValue(ci.cache, t.String(), reflect.ValueOf(component).Elem())
			imgui.TreePop()
		}
	})

	imgui.End()
}

// renderValue draws the fields of a struct value, or the value itself for any
// other kind.
func renderValue(cache *ReflectionCache, owner string, val reflect.Value) {
	if val.Kind() != reflect.Struct {
		renderField(cache, owner, "value", val)
		return
	}

	for _, field := range cache.GetFields(val.Type()) {
		renderField(cache, owner, field.Name, field.Value(val))
	}
}

func renderField(cache *ReflectionCache, owner, name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		val = val.Elem()
	}

	id := fmt.Sprintf("##%s.%s", owner, name)

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &v) {
			setInt(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &v) && v >= 0 {
			setUint(val, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(id, &v) {
			setFloat(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name+id, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(id, "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			renderValue(cache, owner+"."+name, val)
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Array:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %s", name, val.Type()))
	}
}

// setInt stores v if the field is settable and v fits its type.
func setInt(field reflect.Value, v int64) bool {
	if !field.CanSet() || field.OverflowInt(v) {
		return false
	}
	field.SetInt(v)
	return true
}

func setUint(field reflect.Value, v uint64) bool {
	if !field.CanSet() || field.OverflowUint(v) {
		return false
	}
	field.SetUint(v)
	return true
}

func setFloat(field reflect.Value, v float64) bool {
	if !field.CanSet() {
		return false
	}
	field.SetFloat(v)
	return true
}
