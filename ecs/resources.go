package ecs

import (
	"reflect"
)

type iResourceSlot interface {
	present() bool
	// pointer returns a *T as an any, or nil when the slot is empty.
	pointer() any
	access() *borrowCell
}

// resourceSlot holds zero or one T.
type resourceSlot[T any] struct {
	value T
	ok    bool
	cell  borrowCell
}

func (r *resourceSlot[T]) present() bool {
	return r.ok
}

func (r *resourceSlot[T]) pointer() any {
	if !r.ok {
		return nil
	}
	return &r.value
}

func (r *resourceSlot[T]) access() *borrowCell {
	return &r.cell
}

// Resources is a registry of singleton values keyed by type: camera, tile map,
// transition state and anything else the whole simulation shares. Nothing is
// default-constructed; a resource exists only once it has been added.
type Resources struct {
	slots *typeStore[iResourceSlot]
}

// NewResources creates an empty registry.
func NewResources() *Resources {
	return &Resources{
		slots: newTypeStore[iResourceSlot](),
	}
}

// Len returns the number of resources currently present.
func (r *Resources) Len() int {
	n := 0
	for _, slot := range r.slots.all() {
		if slot.present() {
			n++
		}
	}
	return n
}

// Types returns the types of the resources currently present, in first-added order.
func (r *Resources) Types() []reflect.Type {
	var types []reflect.Type
	for t, slot := range r.slots.all() {
		if slot.present() {
			types = append(types, t)
		}
	}
	return types
}

// InspectResources calls fn with a pointer (as any) to each present resource,
// holding the resource exclusively while fn runs.
func (r *Resources) InspectResources(fn func(t reflect.Type, resource any)) {
	for t, slot := range r.slots.all() {
		if !slot.present() {
			continue
		}
		func() {
			g := newGuard(slot.access(), t, Exclusive)
			defer g.Release()
			fn(t, slot.pointer())
		}()
	}
}

func (r *Resources) outstandingBorrow() (reflect.Type, AccessMode, bool) {
	for t, slot := range r.slots.all() {
		if mode := slot.access().mode(); mode != Unborrowed {
			return t, mode, true
		}
	}
	return nil, Unborrowed, false
}

func findSlot[T any](r *Resources) (*resourceSlot[T], bool) {
	slot, ok := findContainer[T, *resourceSlot[T]](r.slots)
	if !ok || !slot.ok {
		return nil, false
	}
	return slot, true
}

// AddResource stores value, replacing any T already present. It faults if the
// T slot is borrowed.
func AddResource[T any](r *Resources, value T) {
	slot := ensureContainer[T, *resourceSlot[T]](r.slots, func() *resourceSlot[T] {
		return &resourceSlot[T]{}
	})
	slot.cell.assertFree(reflect.TypeFor[T]())
	slot.value = value
	slot.ok = true
}

// HasResource reports whether a T is present.
func HasResource[T any](r *Resources) bool {
	_, ok := findSlot[T](r)
	return ok
}

// GetResource returns a shared guard over the T, or false if none is present.
func GetResource[T any](r *Resources) (*Ref[T], bool) {
	slot, ok := findSlot[T](r)
	if !ok {
		return nil, false
	}
	return &Ref[T]{
		guard: newGuard(&slot.cell, reflect.TypeFor[T](), Shared),
		value: &slot.value,
	}, true
}

// GetResourceMut returns an exclusive guard over the T, or false if none is present.
func GetResourceMut[T any](r *Resources) (*RefMut[T], bool) {
	slot, ok := findSlot[T](r)
	if !ok {
		return nil, false
	}
	return &RefMut[T]{
		guard: newGuard(&slot.cell, reflect.TypeFor[T](), Exclusive),
		value: &slot.value,
	}, true
}

// MustGetResource is GetResource for systems that cannot run without the T.
func MustGetResource[T any](r *Resources) *Ref[T] {
	ref, ok := GetResource[T](r)
	if !ok {
		panic(&MissingResourceError{Type: reflect.TypeFor[T]()})
	}
	return ref
}

// MustGetResourceMut is GetResourceMut for systems that cannot run without the T.
func MustGetResourceMut[T any](r *Resources) *RefMut[T] {
	ref, ok := GetResourceMut[T](r)
	if !ok {
		panic(&MissingResourceError{Type: reflect.TypeFor[T]()})
	}
	return ref
}

// RemoveResource takes the T out of the registry and hands it to the caller.
// It faults if the T is borrowed.
func RemoveResource[T any](r *Resources) (T, bool) {
	var zero T
	slot, ok := findSlot[T](r)
	if !ok {
		return zero, false
	}
	slot.cell.assertFree(reflect.TypeFor[T]())

	value := slot.value
	slot.value = zero
	slot.ok = false
	return value, true
}
