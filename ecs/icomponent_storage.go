package ecs

import "unsafe"

// iComponentStorage is the type-erased face of a component column.
type iComponentStorage interface {
	// pushNone extends the column by one absent slot.
	pushNone()
	Len() int
	Present() int
	Has(index int) bool
	// pointerAt returns the address of a present slot, or nil if it is absent.
	pointerAt(index int) unsafe.Pointer
	// valueAt returns a *T for a present slot as an any, or nil.
	valueAt(index int) any
	access() *borrowCell
}
