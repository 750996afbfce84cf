package ecs

import "reflect"

// AccessMode is the kind of access a guard grants.
type AccessMode uint8

const (
	Unborrowed AccessMode = iota
	Shared
	Exclusive
)

func (m AccessMode) String() string {
	switch m {
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return "unborrowed"
	}
}

// borrowCell tracks the outstanding guards over one column or resource slot.
// state is 0 when free, n > 0 for n shared guards and -1 for one exclusive guard.
type borrowCell struct {
	state int32
}

func (b *borrowCell) mode() AccessMode {
	switch {
	case b.state > 0:
		return Shared
	case b.state < 0:
		return Exclusive
	default:
		return Unborrowed
	}
}

func (b *borrowCell) outstanding() int {
	if b.state < 0 {
		return 1
	}
	return int(b.state)
}

func (b *borrowCell) acquireShared(t reflect.Type) {
	if b.state < 0 {
		panic(&BorrowError{Type: t, Requested: Shared, Held: Exclusive, Outstanding: 1})
	}
	b.state++
}

func (b *borrowCell) acquireExclusive(t reflect.Type) {
	if b.state != 0 {
		panic(&BorrowError{Type: t, Requested: Exclusive, Held: b.mode(), Outstanding: b.outstanding()})
	}
	b.state = -1
}

// assertFree faults unless no guard is outstanding. Structural mutations (attach,
// entity creation, resource replacement) need the same access as an exclusive guard.
func (b *borrowCell) assertFree(t reflect.Type) {
	if b.state != 0 {
		panic(&BorrowError{Type: t, Requested: Exclusive, Held: b.mode(), Outstanding: b.outstanding()})
	}
}

func (b *borrowCell) release(mode AccessMode) {
	if mode == Exclusive {
		b.state = 0
		return
	}
	b.state--
}

// guard is the bookkeeping shared by every typed guard. Release is idempotent so
// that an explicit early release can be combined with a deferred one.
type guard struct {
	cell     *borrowCell
	typ      reflect.Type
	mode     AccessMode
	released bool
}

func newGuard(cell *borrowCell, t reflect.Type, mode AccessMode) guard {
	if mode == Exclusive {
		cell.acquireExclusive(t)
	} else {
		cell.acquireShared(t)
	}
	return guard{cell: cell, typ: t, mode: mode}
}

// Release gives the access back. Using the guard afterwards faults.
func (g *guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.cell.release(g.mode)
}

// Mode reports whether the guard is shared or exclusive.
func (g *guard) Mode() AccessMode {
	return g.mode
}

// Released reports whether Release has been called.
func (g *guard) Released() bool {
	return g.released
}

func (g *guard) check() {
	if g.released {
		panic(&ReleasedGuardError{Type: g.typ})
	}
}

// Ref is a shared, read-only guard over a resource. The pointed-to value must
// not be modified through it.
type Ref[T any] struct {
	guard
	value *T
}

// Get returns the guarded value.
func (r *Ref[T]) Get() *T {
	r.check()
	return r.value
}

// RefMut is an exclusive, read-write guard over a resource.
type RefMut[T any] struct {
	guard
	value *T
}

// Get returns the guarded value for modification.
func (r *RefMut[T]) Get() *T {
	r.check()
	return r.value
}

// Set replaces the guarded value.
func (r *RefMut[T]) Set(value T) {
	r.check()
	*r.value = value
}
