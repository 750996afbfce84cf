package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityType = reflect.TypeFor[Entity]()

// View joins several columns by entity index.
// The type T should be a struct with embedded pointer fields for each component type.
// Named fields can be marked as optional using the `ecs:"optional"` struct tag.
// An Entity field (embedded or named) receives the index of the current row.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	entityField int

	// Columns never go away once created, so resolved entries stay valid.
	columns []iComponentStorage
}

// NewView creates a new view for the given struct type.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		storage:     storage,
		types:       make([]reflect.Type, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
		entityField: -1,
	}

	seen := make(map[reflect.Type]bool)
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == entityType {
			v.entityField = int(field.Offset)
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or ecs.Entity")
		}

		componentType := fieldType.Elem()
		if seen[componentType] {
			panic("View struct lists component type " + componentType.String() + " twice")
		}
		seen[componentType] = true

		// Embedded fields are always required
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}

		v.types = append(v.types, componentType)
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	v.columns = make([]iComponentStorage, len(v.types))
	return v
}

// resolve looks up any columns not found yet. It returns false if a required
// column does not exist, in which case the view has no rows.
func (v *View[T]) resolve() bool {
	for i, t := range v.types {
		if v.columns[i] != nil {
			continue
		}
		if col, ok := v.storage.columns.lookup(t); ok {
			v.columns[i] = col
			continue
		}
		if !v.optional[i] {
			return false
		}
	}
	return true
}

// acquire takes an exclusive guard on every resolved column. If one of them is
// already borrowed the guards taken so far are given back before the fault
// propagates.
func (v *View[T]) acquire() []guard {
	guards := make([]guard, 0, len(v.columns))
	done := false
	defer func() {
		if !done {
			for i := range guards {
				guards[i].Release()
			}
		}
	}()

	for i, col := range v.columns {
		if col == nil {
			continue
		}
		guards = append(guards, newGuard(col.access(), v.types[i], Exclusive))
	}
	done = true
	return guards
}

// populate fills result with the components of the entity at index. Returns
// false if a required component is absent.
func (v *View[T]) populate(result unsafe.Pointer, index int) bool {
	for i, col := range v.columns {
		fieldPtr := unsafe.Pointer(uintptr(result) + v.fieldOffset[i])

		var componentPtr unsafe.Pointer
		if col != nil {
			componentPtr = col.pointerAt(index)
		}

		if componentPtr == nil && !v.optional[i] {
			return false
		}
		*(*unsafe.Pointer)(fieldPtr) = componentPtr
	}

	if v.entityField >= 0 {
		*(*Entity)(unsafe.Pointer(uintptr(result) + uintptr(v.entityField))) = Entity(index)
	}
	return true
}

// Iter yields one row per entity that has every required component. The
// columns are held exclusively until the loop ends, including on break.
func (v *View[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		if !v.resolve() {
			return
		}
		guards := v.acquire()
		defer func() {
			for i := range guards {
				guards[i].Release()
			}
		}()

		var result T
		resultPtr := unsafe.Pointer(&result)

		count := v.storage.EntityCount()
		for index := 0; index < count; index++ {
			if !v.populate(resultPtr, index) {
				continue
			}
			if !yield(result) {
				return
			}
		}
	}
}

// With calls fn with the row of entity e while its columns are held. It returns
// false without calling fn if e lacks a required component.
func (v *View[T]) With(e Entity, fn func(T)) bool {
	v.storage.checkEntity(e)
	if !v.resolve() {
		return false
	}
	guards := v.acquire()
	defer func() {
		for i := range guards {
			guards[i].Release()
		}
	}()

	var result T
	if !v.populate(unsafe.Pointer(&result), e.Index()) {
		return false
	}
	fn(result)
	return true
}

// Count returns the number of rows the view currently has.
func (v *View[T]) Count() int {
	n := 0
	for range v.Iter() {
		n++
	}
	return n
}
