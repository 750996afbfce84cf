package debugui

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/TheBitDrifter/mask"
	"github.com/plus3/tilecore/ecs"
)

// queryTerm is how a component type takes part in the debugged query.
type queryTerm uint8

const (
	termWith queryTerm = iota + 1
	termWithout
)

func NewQueryDebuggerWindow() QueryDebuggerWindow {
	return QueryDebuggerWindow{
		terms: make(map[reflect.Type]queryTerm),
	}
}

// Render lets the user require or exclude component types and shows which
// entities match. With only required types this is the row set a View over
// them would produce.
func (qd *QueryDebuggerWindow) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Require or exclude component types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.terms = make(map[reflect.Type]queryTerm)
	}

	columnTypes := storage.ColumnTypes()
	sorted := slices.Clone(columnTypes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	for _, compType := range sorted {
		with := qd.terms[compType] == termWith
		without := qd.terms[compType] == termWithout
		if imgui.Checkbox("with##"+compType.String(), &with) {
			qd.setTerm(compType, termWith, with)
		}
		imgui.SameLine()
		if imgui.Checkbox("without##"+compType.String(), &without) {
			qd.setTerm(compType, termWithout, without)
		}
		imgui.SameLine()
		imgui.Text(compType.String())
	}

	imgui.Separator()

	var with, without []reflect.Type
	for _, t := range columnTypes {
		switch qd.terms[t] {
		case termWith:
			with = append(with, t)
		case termWithout:
			without = append(without, t)
		}
	}

	if len(with) == 0 && len(without) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matching := matchingEntities(storage, with, without)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Entity Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryEntityTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Entity")
			imgui.TableSetupColumn("All Components")
			imgui.TableHeadersRow()

			for _, e := range matching {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%d", e))

				imgui.TableSetColumnIndex(1)
				types := storage.ComponentTypesOf(e)
				names := make([]string, len(types))
				for i, t := range types {
					names[i] = t.String()
				}
				imgui.Text(strings.Join(names, ", "))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebuggerWindow) setTerm(t reflect.Type, term queryTerm, on bool) {
	if on {
		qd.terms[t] = term
	} else if qd.terms[t] == term {
		delete(qd.terms, t)
	}
}

// matchingEntities returns, in index order, the entities that have a component
// of every type in with and of no type in without.
func matchingEntities(storage *ecs.Storage, with, without []reflect.Type) []ecs.Entity {
	columns := storage.ColumnTypes()
	// mask.Mask holds MaxBits column indexes, 64 unless built with a wider
	// mask tag. Wider storages are matched type by type.
	if len(columns) > mask.MaxBits {
		return matchingByType(storage, with, without)
	}

	bits := make(map[reflect.Type]uint32, len(columns))
	for i, t := range columns {
		bits[t] = uint32(i)
	}
	withMask := typeMask(bits, with)
	withoutMask := typeMask(bits, without)

	var matching []ecs.Entity
	for i := range storage.EntityCount() {
		e := ecs.Entity(i)
		entityMask := typeMask(bits, storage.ComponentTypesOf(e))
		if entityMask.ContainsAll(withMask) && entityMask.ContainsNone(withoutMask) {
			matching = append(matching, e)
		}
	}
	return matching
}

func typeMask(bits map[reflect.Type]uint32, types []reflect.Type) mask.Mask {
	var m mask.Mask
	for _, t := range types {
		if bit, ok := bits[t]; ok {
			m.Mark(bit)
		}
	}
	return m
}

func matchingByType(storage *ecs.Storage, with, without []reflect.Type) []ecs.Entity {
	var matching []ecs.Entity
	for i := range storage.EntityCount() {
		e := ecs.Entity(i)
		types := storage.ComponentTypesOf(e)
		if hasAllTypes(types, with) && !slices.ContainsFunc(without, func(t reflect.Type) bool {
			return slices.Contains(types, t)
		}) {
			matching = append(matching, e)
		}
	}
	return matching
}

func hasAllTypes(types, required []reflect.Type) bool {
	for _, t := range required {
		if !slices.Contains(types, t) {
			return false
		}
	}
	return true
}
