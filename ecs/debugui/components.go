package debugui

import (
	"reflect"

	"github.com/plus3/tilecore/ecs"
)

// Window state for each debug tool. The state lives in the render closure that
// SpawnDebugUI attaches to an ImguiItem, so it persists between frames.

type EntityBrowserWindow struct {
	cache              *EntityBrowserCache
	selected           ecs.Entity
	hasSelection       bool
	filterText         string
	filterColumn       reflect.Type
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorWindow struct {
	cache *ReflectionCache
}

type ColumnViewerWindow struct {
	cache         *ColumnViewerCache
	selected      reflect.Type
	sortColumn    int
	sortAscending bool
}

type ResourceViewerWindow struct {
	cache *ReflectionCache
}

type PerformanceStatsWindow struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	timer         *FrameTimer
}

type QueryDebuggerWindow struct {
	terms map[reflect.Type]queryTerm
}
