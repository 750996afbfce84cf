package ecs_test

import "github.com/plus3/tilecore/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

// Resource types
type Counter struct {
	Value int
}

type Gravity float32

// newWorld creates a storage holding n entities with no components.
func newWorld(n int) (*ecs.Storage, []ecs.Entity) {
	storage := ecs.NewStorage()
	entities := make([]ecs.Entity, n)
	for i := range entities {
		entities[i] = storage.CreateEntity()
	}
	return storage, entities
}
