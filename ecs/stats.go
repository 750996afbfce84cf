package ecs

import "reflect"

// StorageStats is a snapshot of the entity/component table.
type StorageStats struct {
	EntityCount    int
	ColumnCount    int
	ComponentCount int
	Columns        []ColumnStats
}

// ColumnStats describes one component column.
type ColumnStats struct {
	Type    reflect.Type
	Len     int
	Present int
	Access  AccessMode
}

// CollectStats gathers statistics about the table. It takes no guards, so it
// can be called from a system that is iterating a column.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		EntityCount: s.count,
		ColumnCount: s.columns.Len(),
		Columns:     make([]ColumnStats, 0, s.columns.Len()),
	}

	for t, col := range s.columns.all() {
		stats.ComponentCount += col.Present()
		stats.Columns = append(stats.Columns, ColumnStats{
			Type:    t,
			Len:     col.Len(),
			Present: col.Present(),
			Access:  col.access().mode(),
		})
	}
	return stats
}

// ResourceStats is a snapshot of the resource registry.
type ResourceStats struct {
	Count     int
	Resources []ResourceSlotStats
}

// ResourceSlotStats describes one resource slot. Removed resources keep their
// slot and are reported with Present false.
type ResourceSlotStats struct {
	Type    reflect.Type
	Present bool
	Access  AccessMode
}

// CollectStats gathers statistics about the registry.
func (r *Resources) CollectStats() ResourceStats {
	var stats ResourceStats
	for t, slot := range r.slots.all() {
		if slot.present() {
			stats.Count++
		}
		stats.Resources = append(stats.Resources, ResourceSlotStats{
			Type:    t,
			Present: slot.present(),
			Access:  slot.access().mode(),
		})
	}
	return stats
}
