package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

const (
	genericBlockSize = 64
)

// column stores the optional T of every entity in fixed-size blocks. Growing the
// column may move blocks, so slot pointers are only valid while a guard is held.
type column[T any] struct {
	blocks  [][genericBlockSize]T
	filled  [][genericBlockSize]bool
	length  int
	present int
	cell    borrowCell
}

// newColumn creates a column already back-filled with n absent slots.
func newColumn[T any](n int) *column[T] {
	c := &column[T]{}
	for range n {
		c.pushNone()
	}
	return c
}

func (c *column[T]) pushNone() {
	blockIdx := c.length / genericBlockSize
	if blockIdx >= len(c.blocks) {
		c.blocks = append(c.blocks, [genericBlockSize]T{})
		c.filled = append(c.filled, [genericBlockSize]bool{})
	}
	c.length++
}

func (c *column[T]) Len() int {
	return c.length
}

func (c *column[T]) Present() int {
	return c.present
}

func (c *column[T]) Has(index int) bool {
	if index < 0 || index >= c.length {
		return false
	}
	return c.filled[index/genericBlockSize][index%genericBlockSize]
}

func (c *column[T]) get(index int) (*T, bool) {
	if !c.Has(index) {
		return nil, false
	}
	return &c.blocks[index/genericBlockSize][index%genericBlockSize], true
}

// set stores value at index, replacing anything that was there.
func (c *column[T]) set(index int, value T) {
	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize

	if !c.filled[blockIdx][slotIdx] {
		c.filled[blockIdx][slotIdx] = true
		c.present++
	}
	c.blocks[blockIdx][slotIdx] = value
}

// clear drops the value at index and reports whether one was present.
func (c *column[T]) clear(index int) bool {
	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize

	if !c.filled[blockIdx][slotIdx] {
		return false
	}

	var zero T
	c.blocks[blockIdx][slotIdx] = zero
	c.filled[blockIdx][slotIdx] = false
	c.present--
	return true
}

func (c *column[T]) pointerAt(index int) unsafe.Pointer {
	ptr, ok := c.get(index)
	if !ok {
		return nil
	}
	return unsafe.Pointer(ptr)
}

func (c *column[T]) valueAt(index int) any {
	ptr, ok := c.get(index)
	if !ok {
		return nil
	}
	return ptr
}

func (c *column[T]) access() *borrowCell {
	return &c.cell
}

func (c *column[T]) all() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for blockIdx := range c.blocks {
			base := blockIdx * genericBlockSize
			for slotIdx := 0; slotIdx < genericBlockSize && base+slotIdx < c.length; slotIdx++ {
				if !c.filled[blockIdx][slotIdx] {
					continue
				}
				if !yield(Entity(base+slotIdx), &c.blocks[blockIdx][slotIdx]) {
					return
				}
			}
		}
	}
}

// ColumnRef is a shared, read-only guard over the column of component T.
// Slot i belongs to entity i; absent slots are skipped by All.
type ColumnRef[T any] struct {
	guard
	col *column[T]
}

func newColumnRef[T any](col *column[T], mode AccessMode) ColumnRef[T] {
	return ColumnRef[T]{
		guard: newGuard(&col.cell, reflect.TypeFor[T](), mode),
		col:   col,
	}
}

// Len returns the number of slots, which always equals the entity count.
func (c *ColumnRef[T]) Len() int {
	c.check()
	return c.col.length
}

// Has reports whether entity e has a T.
func (c *ColumnRef[T]) Has(e Entity) bool {
	c.check()
	return c.col.Has(e.Index())
}

// Get returns the T of entity e, or false if the slot is absent.
func (c *ColumnRef[T]) Get(e Entity) (*T, bool) {
	c.check()
	return c.col.get(e.Index())
}

// All iterates the present slots in entity order. Releasing the guard inside
// the loop makes the next step panic.
func (c *ColumnRef[T]) All() iter.Seq2[Entity, *T] {
	c.check()
	return func(yield func(Entity, *T) bool) {
		for e, value := range c.col.all() {
			c.check()
			if !yield(e, value) {
				return
			}
		}
	}
}

// ColumnMut is an exclusive, read-write guard over the column of component T.
type ColumnMut[T any] struct {
	ColumnRef[T]
}

// Set stores value in the slot of entity e, replacing any previous value.
func (c *ColumnMut[T]) Set(e Entity, value T) {
	c.check()
	if e.Index() >= c.col.length {
		panic(&EntityRangeError{Entity: e, Count: c.col.length})
	}
	c.col.set(e.Index(), value)
}

// Clear empties the slot of entity e and reports whether it held a value.
func (c *ColumnMut[T]) Clear(e Entity) bool {
	c.check()
	if e.Index() >= c.col.length {
		panic(&EntityRangeError{Entity: e, Count: c.col.length})
	}
	return c.col.clear(e.Index())
}
