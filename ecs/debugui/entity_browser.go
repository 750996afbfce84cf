package debugui

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tilecore/ecs"
)

type EntityInfo struct {
	Entity         ecs.Entity
	ComponentTypes []string
	ComponentCount int
}

type EntityBrowserCache struct {
	entities        []EntityInfo
	lastEntityCount int
	lastComponents  int
	sortColumn      int
	sortAscending   bool
}

func NewEntityBrowserWindow(maxEntitiesPerPage int) EntityBrowserWindow {
	return EntityBrowserWindow{
		cache: &EntityBrowserCache{
			lastEntityCount: -1,
			sortColumn:      0,
			sortAscending:   true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserWindow) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(storage)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterColumn = nil
	}
	if eb.filterColumn != nil {
		imgui.Text(fmt.Sprintf("Column: %s", eb.filterColumn))
	}

	filteredEntities := filterEntities(eb.cache.entities, eb.filterText, eb.filterColumn)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
			filteredEntities = filterEntities(eb.cache.entities, eb.filterText, eb.filterColumn)
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		if startIdx > len(filteredEntities) {
			eb.currentPage = 0
			startIdx = 0
		}
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.hasSelection && eb.selected == entity.Entity
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.Entity), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.Select(entity.Entity)
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// Select makes e the entity shown by the component inspector.
func (eb *EntityBrowserWindow) Select(e ecs.Entity) {
	eb.selected = e
	eb.hasSelection = true
}

// Selected returns the selected entity, if any.
func (eb *EntityBrowserWindow) Selected() (ecs.Entity, bool) {
	return eb.selected, eb.hasSelection
}

// FilterColumn restricts the list to entities that have a component of type t.
// A nil t removes the restriction.
func (eb *EntityBrowserWindow) FilterColumn(t reflect.Type) {
	eb.filterColumn = t
	eb.currentPage = 0
}

// rebuildCacheIfNeeded rescans the table when entities were created or the
// total number of components changed.
func (eb *EntityBrowserWindow) rebuildCacheIfNeeded(storage *ecs.Storage) {
	stats := storage.CollectStats()
	if eb.cache.lastEntityCount != stats.EntityCount || eb.cache.lastComponents != stats.ComponentCount {
		eb.cache.entities = collectEntities(storage)
		sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
		eb.cache.lastEntityCount = stats.EntityCount
		eb.cache.lastComponents = stats.ComponentCount
	}
}

func collectEntities(storage *ecs.Storage) []EntityInfo {
	entities := make([]EntityInfo, 0, storage.EntityCount())

	for i := range storage.EntityCount() {
		e := ecs.Entity(i)
		types := storage.ComponentTypesOf(e)
		componentTypes := make([]string, len(types))
		for j, t := range types {
			componentTypes[j] = t.String()
		}

		entities = append(entities, EntityInfo{
			Entity:         e,
			ComponentTypes: componentTypes,
			ComponentCount: len(componentTypes),
		})
	}

	return entities
}

func sortEntities(entities []EntityInfo, column int, ascending bool) {
	less := func(a, b EntityInfo) bool {
		switch column {
		case 1:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 2:
			return a.ComponentCount < b.ComponentCount
		default:
			return a.Entity < b.Entity
		}
	}

	sort.SliceStable(entities, func(i, j int) bool {
		if !ascending {
			return less(entities[j], entities[i])
		}
		return less(entities[i], entities[j])
	})
}

// filterEntities keeps entities whose index or component names contain text
// (case-insensitive) and, when column is set, that have a component of that type.
func filterEntities(entities []EntityInfo, text string, column reflect.Type) []EntityInfo {
	if text == "" && column == nil {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)
	columnName := ""
	if column != nil {
		columnName = column.String()
	}

	for _, entity := range entities {
		if columnName != "" && !slices.Contains(entity.ComponentTypes, columnName) {
			continue
		}

		if text != "" {
			idStr := fmt.Sprintf("%d", entity.Entity)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) && !strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}
