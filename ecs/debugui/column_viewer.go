package debugui

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tilecore/ecs"
)

type ColumnInfo struct {
	Type    reflect.Type
	Name    string
	Len     int
	Present int
	Access  ecs.AccessMode
}

type ColumnViewerCache struct {
	columns []ColumnInfo
}

func NewColumnViewerWindow() ColumnViewerWindow {
	return ColumnViewerWindow{
		cache:         &ColumnViewerCache{},
		sortColumn:    2,
		sortAscending: false,
	}
}

// Render lists every component column with its fill level. It returns the
// column type clicked this frame, or nil.
func (cv *ColumnViewerWindow) Render(storage *ecs.Storage) reflect.Type {
	if !imgui.BeginV("Column Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	cv.cache.columns = collectColumns(storage.CollectStats())
	sortColumns(cv.cache.columns, cv.sortColumn, cv.sortAscending)

	var clicked reflect.Type

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ColumnTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Component")
		imgui.TableSetupColumn("Access")
		imgui.TableSetupColumn("Present")
		imgui.TableSetupColumn("Slots")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			cv.sortColumn = int(spec.ColumnIndex())
			cv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortColumns(cv.cache.columns, cv.sortColumn, cv.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, col := range cv.cache.columns {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := cv.selected == col.Type
			if imgui.SelectableBoolV(col.Name, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				clicked = col.Type
				cv.selected = col.Type
			}

			imgui.TableNextColumn()
			imgui.Text(col.Access.String())

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", col.Present))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", col.Len))

			if col.Len > 0 {
				barWidth := float32(col.Present) / float32(col.Len) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked
}

func collectColumns(stats ecs.StorageStats) []ColumnInfo {
	columns := make([]ColumnInfo, 0, len(stats.Columns))
	for _, col := range stats.Columns {
		columns = append(columns, ColumnInfo{
			Type:    col.Type,
			Name:    col.Type.String(),
			Len:     col.Len,
			Present: col.Present,
			Access:  col.Access,
		})
	}
	return columns
}

func sortColumns(columns []ColumnInfo, column int, ascending bool) {
	less := func(a, b ColumnInfo) bool {
		switch column {
		case 0:
			return a.Name < b.Name
		case 1:
			return a.Access < b.Access
		case 3:
			return a.Len < b.Len
		default:
			return a.Present < b.Present
		}
	}

	sort.SliceStable(columns, func(i, j int) bool {
		if !ascending {
			return less(columns[j], columns[i])
		}
		return less(columns[i], columns[j])
	})
}
