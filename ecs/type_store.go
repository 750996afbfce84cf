package ecs

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

// typeStore maps a type identity to a single lazily created, type-erased
// container. Both the component table and the resource registry are built on it.
// Containers are kept in creation order so iteration is deterministic.
type typeStore[E any] struct {
	index      *intmap.Map[uint64, int]
	types      []reflect.Type
	containers []E
}

func newTypeStore[E any]() *typeStore[E] {
	return &typeStore[E]{
		index: intmap.New[uint64, int](32),
	}
}

func (ts *typeStore[E]) lookup(t reflect.Type) (E, bool) {
	idx, ok := ts.index.Get(typeKey(t))
	if !ok {
		var zero E
		return zero, false
	}
	return ts.containers[idx], true
}

func (ts *typeStore[E]) insert(t reflect.Type, container E) {
	ts.index.Put(typeKey(t), len(ts.containers))
	ts.types = append(ts.types, t)
	ts.containers = append(ts.containers, container)
}

// Len returns the number of containers ever created.
func (ts *typeStore[E]) Len() int {
	return len(ts.containers)
}

func (ts *typeStore[E]) all() iter.Seq2[reflect.Type, E] {
	return func(yield func(reflect.Type, E) bool) {
		for i, container := range ts.containers {
			if !yield(ts.types[i], container) {
				return
			}
		}
	}
}

// ensureContainer returns the container registered for T, creating and
// registering one with create if none exists yet.
func ensureContainer[T any, C any, E any](ts *typeStore[E], create func() C) C {
	t := reflect.TypeFor[T]()
	if existing, ok := ts.lookup(t); ok {
		return downcast[C](t, existing)
	}

	container := create()
	erased, ok := any(container).(E)
	if !ok {
		panic(&TypeMismatchError{Type: t, Container: fmt.Sprintf("%T", container)})
	}
	ts.insert(t, erased)
	return container
}

// findContainer returns the container for T, or false if no T was ever stored.
func findContainer[T any, C any, E any](ts *typeStore[E]) (C, bool) {
	t := reflect.TypeFor[T]()
	existing, ok := ts.lookup(t)
	if !ok {
		var zero C
		return zero, false
	}
	return downcast[C](t, existing), true
}

// downcast narrows an erased container to its concrete type. The identity used
// to find a container is the one used to create it, so a mismatch is a bug.
func downcast[C any, E any](t reflect.Type, erased E) C {
	container, ok := any(erased).(C)
	if !ok {
		panic(&TypeMismatchError{Type: t, Container: fmt.Sprintf("%T", erased)})
	}
	return container
}
